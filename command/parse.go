package command

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/shlex"
)

var (
	mentionPattern   = regexp.MustCompile(`^<@!?([0-9]+)>$`)
	snowflakePattern = regexp.MustCompile(`^[0-9]+$`)
)

// ParseError reports command text that does not follow the command grammar.
type ParseError struct {
	// Input is the text handed to Parse.
	Input string
	// Reason is a human-readable description of the problem.
	Reason string
	// Err is the underlying tokeniser error, if any.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse turns command text, with any invocation prefix already stripped,
// into a Command. Keywords are case-insensitive.
//
//	help [topic]
//	role help [topic]
//	role list
//	role show <user>
//	role add <user> <role>...
//	role remove <user> <role>...
//	modmail <message>
//
// Role names containing spaces can be quoted. Users are given as mentions,
// raw IDs or names.
func Parse(text string) (Command, error) {
	p := &parser{input: text}

	head, rest := splitWord(text)
	switch strings.ToLower(head) {
	case "":
		return nil, p.fail("expected a command")

	case "help":
		return Help{Topic: collapse(rest)}, nil

	case "role":
		sub, err := p.role(rest)
		if err != nil {
			return nil, err
		}
		return Role{Command: sub}, nil

	case "modmail":
		if rest == "" {
			return nil, p.fail("expected a message for the moderators")
		}
		return Modmail{Message: rest}, nil

	default:
		return nil, p.fail(fmt.Sprintf("unknown command %q", head))
	}
}

type parser struct {
	input string
}

func (p *parser) fail(reason string) *ParseError {
	return &ParseError{Input: p.input, Reason: reason}
}

func (p *parser) role(text string) (RoleCommand, error) {
	sub, rest := splitWord(text)
	switch strings.ToLower(sub) {
	case "":
		return nil, p.fail("expected a role subcommand: help, list, show, add or remove")

	case "help":
		return RoleHelp{Topic: collapse(rest)}, nil

	case "list":
		if rest != "" {
			return nil, p.fail(fmt.Sprintf("unexpected argument %q", rest))
		}
		return RoleList{}, nil

	case "show":
		args, err := p.split(rest)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, p.fail("expected a user")
		}
		if len(args) > 1 {
			return nil, p.fail(fmt.Sprintf("unexpected argument %q", args[1]))
		}
		user, err := p.user(args[0])
		if err != nil {
			return nil, err
		}
		return RoleShow{User: user}, nil

	case "add", "remove":
		args, err := p.split(rest)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, p.fail("expected a user")
		}
		user, err := p.user(args[0])
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return nil, p.fail("expected at least one role")
		}
		roles := args[1:]
		if strings.EqualFold(sub, "add") {
			return RoleAdd{User: user, Roles: roles}, nil
		}
		return RoleRemove{User: user, Roles: roles}, nil

	default:
		return nil, p.fail(fmt.Sprintf("unknown role subcommand %q", sub))
	}
}

func (p *parser) split(text string) ([]string, error) {
	args, err := shlex.Split(text)
	if err != nil {
		return nil, &ParseError{Input: p.input, Reason: "unbalanced quotes", Err: err}
	}
	return args, nil
}

func (p *parser) user(token string) (User, error) {
	if m := mentionPattern.FindStringSubmatch(token); m != nil {
		return User{ID: m[1]}, nil
	}
	if snowflakePattern.MatchString(token) {
		return User{ID: token}, nil
	}
	if strings.HasPrefix(token, "<@") {
		return User{}, p.fail(fmt.Sprintf("malformed mention %q", token))
	}
	return User{Name: token}, nil
}

// splitWord returns the first whitespace-delimited word of s and the
// remainder with surrounding whitespace trimmed.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
