package command

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Command
	}{
		{input: "help", expected: Help{}},
		{input: "  HELP   role   commands ", expected: Help{Topic: "role commands"}},
		{input: "role help", expected: Role{Command: RoleHelp{}}},
		{input: "role help add", expected: Role{Command: RoleHelp{Topic: "add"}}},
		{input: "role list", expected: Role{Command: RoleList{}}},
		{input: "Role List", expected: Role{Command: RoleList{}}},
		{input: "role show <@1234>", expected: Role{Command: RoleShow{User: User{ID: "1234"}}}},
		{input: "role show <@!1234>", expected: Role{Command: RoleShow{User: User{ID: "1234"}}}},
		{input: "role show 1234", expected: Role{Command: RoleShow{User: User{ID: "1234"}}}},
		{input: "role show george", expected: Role{Command: RoleShow{User: User{Name: "george"}}}},
		{
			input:    `role add <@42> "Game Night" mod`,
			expected: Role{Command: RoleAdd{User: User{ID: "42"}, Roles: []string{"Game Night", "mod"}}},
		},
		{
			input:    "role remove george mod",
			expected: Role{Command: RoleRemove{User: User{Name: "george"}, Roles: []string{"mod"}}},
		},
		{input: "modmail someone is  spamming", expected: Modmail{Message: "someone is  spamming"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %+v", err)
			}

			if !reflect.DeepEqual(cmd, tt.expected) {
				t.Errorf("Expected %#v, got %#v", tt.expected, cmd)
			}
		})
	}
}

func TestParse_Error(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{input: "", reason: "expected a command"},
		{input: "   ", reason: "expected a command"},
		{input: "dance", reason: `unknown command "dance"`},
		{input: "modmail", reason: "expected a message"},
		{input: "role", reason: "expected a role subcommand"},
		{input: "role paint", reason: `unknown role subcommand "paint"`},
		{input: "role list everything", reason: `unexpected argument "everything"`},
		{input: "role show", reason: "expected a user"},
		{input: "role show a b", reason: `unexpected argument "b"`},
		{input: "role add", reason: "expected a user"},
		{input: "role add george", reason: "expected at least one role"},
		{input: "role remove <@abc> mod", reason: "malformed mention"},
		{input: `role add george "mod`, reason: "unbalanced quotes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Expected an error")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}

			if parseErr.Input != tt.input {
				t.Errorf("Expected Input %q, got %q", tt.input, parseErr.Input)
			}

			if !strings.Contains(parseErr.Reason, tt.reason) {
				t.Errorf("Expected reason to contain %q, got %q", tt.reason, parseErr.Reason)
			}

			if !strings.Contains(err.Error(), parseErr.Reason) {
				t.Errorf("Expected error string to contain the reason, got %q", err.Error())
			}
		})
	}
}

func TestParse_UnbalancedQuotesUnwraps(t *testing.T) {
	_, err := Parse(`role show "george`)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}

	if parseErr.Unwrap() == nil {
		t.Error("Expected the tokeniser error to be kept")
	}
}

func TestCommand_String(t *testing.T) {
	commands := []Command{
		Help{},
		Help{Topic: "role"},
		Role{Command: RoleHelp{Topic: "add"}},
		Role{Command: RoleList{}},
		Role{Command: RoleShow{User: User{ID: "1"}}},
		Role{Command: RoleShow{User: User{Name: "george"}}},
		Role{Command: RoleAdd{User: User{ID: "1"}, Roles: []string{"Game Night", "mod"}}},
		Role{Command: RoleRemove{User: User{Name: "george"}, Roles: []string{"mod"}}},
		Modmail{Message: "hello there"},
	}

	for _, cmd := range commands {
		t.Run(cmd.String(), func(t *testing.T) {
			parsed, err := Parse(cmd.String())
			if err != nil {
				t.Fatalf("Unexpected error: %+v", err)
			}

			if !reflect.DeepEqual(parsed, cmd) {
				t.Errorf("Expected %#v, got %#v", cmd, parsed)
			}
		})
	}
}
