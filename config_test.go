package george

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %+v", err)
	}
	return path
}

func TestNewConfig(t *testing.T) {
	config := NewConfig()

	if config.Auth.Token != "" {
		t.Errorf("Expected empty token, got %q", config.Auth.Token)
	}

	if config.Bot.Prefix != "!" {
		t.Errorf("Expected Prefix to be %q, got %q", "!", config.Bot.Prefix)
	}

	if len(config.Bot.AllowedGuilds) != 1 || config.Bot.AllowedGuilds[0] != DefaultGuildID {
		t.Errorf("Expected AllowedGuilds to be [%s], got %v", DefaultGuildID, config.Bot.AllowedGuilds)
	}

	if config.Bot.DispatchTimeout != 0 {
		t.Errorf("Expected no dispatch timeout, got %s", config.Bot.DispatchTimeout)
	}

	expectedIntents := discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	if config.Bot.Intents != expectedIntents {
		t.Errorf("Expected Intents to be %d, got %d", expectedIntents, config.Bot.Intents)
	}

	if config.Log.Level != "info" {
		t.Errorf("Expected log level %q, got %q", "info", config.Log.Level)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("file over defaults", func(t *testing.T) {
		path := writeConfig(t, `
[auth]
token = "secret"
superuser = 123456789012345678

[bot]
prefix = "g!"
dispatch_timeout = "30s"
`)

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if config.Auth.Token != "secret" {
			t.Errorf("Expected token %q, got %q", "secret", config.Auth.Token)
		}

		if config.Auth.Superuser != "123456789012345678" {
			t.Errorf("Expected superuser %q, got %q", "123456789012345678", config.Auth.Superuser)
		}

		if config.Bot.Prefix != "g!" {
			t.Errorf("Expected prefix %q, got %q", "g!", config.Bot.Prefix)
		}

		if config.Bot.DispatchTimeout != 30*time.Second {
			t.Errorf("Expected dispatch timeout 30s, got %s", config.Bot.DispatchTimeout)
		}

		if len(config.Bot.AllowedGuilds) != 1 || config.Bot.AllowedGuilds[0] != DefaultGuildID {
			t.Errorf("Expected default AllowedGuilds, got %v", config.Bot.AllowedGuilds)
		}

		if config.Bot.Activity != "CS:GO" {
			t.Errorf("Expected default activity, got %q", config.Bot.Activity)
		}

		if config.Database.Path != "bot-george.db" {
			t.Errorf("Expected default database path, got %q", config.Database.Path)
		}
	})

	t.Run("allowed guilds replace the default", func(t *testing.T) {
		path := writeConfig(t, `
[auth]
token = "secret"
superuser = "1"

[bot]
allowed_guilds = ["100", "200"]
`)

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if strings.Join(config.Bot.AllowedGuilds, ",") != "100,200" {
			t.Errorf("Expected AllowedGuilds [100 200], got %v", config.Bot.AllowedGuilds)
		}
	})

	t.Run("environment over file", func(t *testing.T) {
		path := writeConfig(t, `
[auth]
token = "from-file"
superuser = "1"
`)
		t.Setenv("BOT_GEORGE_AUTH__TOKEN", "from-env")
		t.Setenv("BOT_GEORGE_LOG__LEVEL", "debug")

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if config.Auth.Token != "from-env" {
			t.Errorf("Expected token %q, got %q", "from-env", config.Auth.Token)
		}

		if config.Log.Level != "debug" {
			t.Errorf("Expected log level %q, got %q", "debug", config.Log.Level)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))

		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			t.Fatalf("Expected *ConfigError, got %+v", err)
		}

		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected error to wrap os.ErrNotExist, got %+v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "[auth\ntoken = ")

		_, err := LoadConfig(path)

		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			t.Fatalf("Expected *ConfigError, got %+v", err)
		}
	})

	invalid := []struct {
		name    string
		content string
	}{
		{
			name:    "missing token",
			content: "[auth]\nsuperuser = \"1\"\n",
		},
		{
			name:    "missing superuser",
			content: "[auth]\ntoken = \"secret\"\n",
		},
		{
			name:    "non-numeric superuser",
			content: "[auth]\ntoken = \"secret\"\nsuperuser = \"george\"\n",
		},
		{
			name:    "empty prefix",
			content: "[auth]\ntoken = \"secret\"\nsuperuser = \"1\"\n[bot]\nprefix = \"\"\n",
		},
		{
			name:    "non-numeric guild",
			content: "[auth]\ntoken = \"secret\"\nsuperuser = \"1\"\n[bot]\nallowed_guilds = [\"general\"]\n",
		},
		{
			name:    "negative dispatch timeout",
			content: "[auth]\ntoken = \"secret\"\nsuperuser = \"1\"\n[bot]\ndispatch_timeout = \"-1s\"\n",
		},
		{
			name:    "unknown log level",
			content: "[auth]\ntoken = \"secret\"\nsuperuser = \"1\"\n[log]\nlevel = \"verbose\"\n",
		},
		{
			name:    "malformed metrics address",
			content: "[auth]\ntoken = \"secret\"\nsuperuser = \"1\"\n[metrics]\nlisten = \"not an address\"\n",
		},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))

			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected *ConfigError, got %+v", err)
			}

			if configErr.Op != "validate" {
				t.Errorf("Expected validation failure, got %q", configErr.Op)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "")

		if ConfigPath() != DefaultConfigPath {
			t.Errorf("Expected %q, got %q", DefaultConfigPath, ConfigPath())
		}
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "/etc/bot-george/config.toml")

		if ConfigPath() != "/etc/bot-george/config.toml" {
			t.Errorf("Expected path from environment, got %q", ConfigPath())
		}
	})
}
