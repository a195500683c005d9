package george

import (
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigPathEnv names the environment variable that overrides the configuration file path.
	ConfigPathEnv = "BOT_GEORGE_CONFIG"

	// DefaultConfigPath is used when ConfigPathEnv is not set.
	DefaultConfigPath = "config.toml"

	// envPrefix is the prefix of environment variables that override configuration keys.
	// BOT_GEORGE_AUTH__TOKEN overrides auth.token.
	envPrefix = "BOT_GEORGE_"

	// DefaultGuildID is the only guild the bot acts in unless configured otherwise.
	DefaultGuildID = "145351184943808512"
)

// Config contains configuration variables for bot-george.
type Config struct {
	Auth     AuthConfig     `koanf:"auth" json:"auth" yaml:"auth"`
	Bot      BotConfig      `koanf:"bot" json:"bot" yaml:"bot"`
	Database DatabaseConfig `koanf:"database" json:"database" yaml:"database"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log"`
	Metrics  MetricsConfig  `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// AuthConfig holds credentials and the privileged user.
type AuthConfig struct {
	// Token is the Discord bot token used for authentication.
	Token string `koanf:"token" json:"token" yaml:"token" validate:"required"`

	// Superuser is the ID of the user with full control over the bot.
	Superuser string `koanf:"superuser" json:"superuser" yaml:"superuser" validate:"required,numeric"`
}

// BotConfig controls how the bot recognizes and dispatches commands.
type BotConfig struct {
	// Prefix is the text users type before a command in guild channels.
	// Direct messages do not need it.
	Prefix string `koanf:"prefix" json:"prefix" yaml:"prefix" validate:"required"`

	// AllowedGuilds lists the guilds the bot acts in. Direct messages are always allowed.
	AllowedGuilds []string `koanf:"allowed_guilds" json:"allowed_guilds" yaml:"allowed_guilds" validate:"dive,numeric"`

	// Activity is shown in the bot's presence, followed by how to ask for help.
	Activity string `koanf:"activity" json:"activity" yaml:"activity"`

	// DispatchTimeout bounds the context given to command handlers. Zero means no limit.
	DispatchTimeout time.Duration `koanf:"dispatch_timeout" json:"dispatch_timeout" yaml:"dispatch_timeout" validate:"min=0s"`

	// Intents declares the Gateway Intents the bot requires.
	Intents discordgo.Intent `koanf:"intents" json:"intents" yaml:"intents"`
}

// DatabaseConfig points at the SQLite database shared by command handlers.
type DatabaseConfig struct {
	Path string `koanf:"path" json:"path" yaml:"path" validate:"required"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `koanf:"level" json:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the host:port to serve /metrics on. Empty disables the endpoint.
	Listen string `koanf:"listen" json:"listen" yaml:"listen" validate:"omitempty,hostname_port"`
}

// NewConfig creates and returns a new Config instance with default settings.
// Token and Superuser are empty and must be set before use.
func NewConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Prefix:          "!",
			AllowedGuilds:   []string{DefaultGuildID},
			Activity:        "CS:GO",
			DispatchTimeout: 0,
			Intents:         discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent,
		},
		Database: DatabaseConfig{
			Path: "bot-george.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the configuration file path from ConfigPathEnv, or DefaultConfigPath.
func ConfigPath() string {
	if path, ok := os.LookupEnv(ConfigPathEnv); ok && path != "" {
		return path
	}
	return DefaultConfigPath
}

// LoadConfig reads the TOML file at path over the defaults of NewConfig,
// applies BOT_GEORGE_* environment overrides and validates the result.
// The file must exist. Every failure is returned as *ConfigError.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(NewConfig(), "koanf"), nil); err != nil {
		return nil, &ConfigError{Op: "load defaults", Err: err}
	}

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, &ConfigError{Op: "read " + path, Err: err}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(key string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, &ConfigError{Op: "read environment", Err: err}
	}

	config := &Config{}
	if err := k.Unmarshal("", config); err != nil {
		return nil, &ConfigError{Op: "parse " + path, Err: err}
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, &ConfigError{Op: "validate", Err: err}
	}

	return config, nil
}
