package george

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// PrefixMatcher recognizes the configured invocation prefix at the start of a message.
// It is immutable and safe for concurrent use.
type PrefixMatcher struct {
	prefix   string
	pattern  *regexp.Regexp
	boundary bool
}

// NewPrefixMatcher compiles a matcher for the given literal prefix.
//
// The prefix must be followed by a word boundary when it ends in a word character,
// so that "bot" matches neither "botany" nor "botänik". Word characters are Unicode
// letters, digits and the underscore. Leading whitespace in the message is skipped.
func NewPrefixMatcher(prefix string) (*PrefixMatcher, error) {
	if prefix == "" {
		return nil, &ConfigError{Op: "compile prefix", Err: errors.New("prefix must not be empty")}
	}

	pattern, err := regexp.Compile(`^\s*` + regexp.QuoteMeta(prefix))
	if err != nil {
		return nil, &ConfigError{Op: "compile prefix", Err: err}
	}

	last, _ := utf8.DecodeLastRuneInString(prefix)

	return &PrefixMatcher{
		prefix:   prefix,
		pattern:  pattern,
		boundary: isWordRune(last),
	}, nil
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Prefix returns the raw prefix text.
func (p *PrefixMatcher) Prefix() string {
	return p.prefix
}

// Match reports whether text starts with the prefix.
// On success it returns the byte offset where the command text begins:
// right after the prefix and at most one whitespace character separating it from the command.
func (p *PrefixMatcher) Match(text string) (int, bool) {
	loc := p.pattern.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}

	end := loc[1]
	next, size := utf8.DecodeRuneInString(text[end:])
	if size == 0 {
		return end, true
	}

	if p.boundary && isWordRune(next) {
		return 0, false
	}

	if unicode.IsSpace(next) {
		end += size
	}
	return end, true
}

// PrefixCommand renders how a user invokes the given command, e.g. "!help".
// A space is inserted when the prefix would otherwise fuse with the command,
// or when Match would not give back the command as is.
func (p *PrefixMatcher) PrefixCommand(command string) string {
	rendered := p.prefix + command
	if p.roundTrips(rendered, command) {
		return rendered
	}

	rendered = p.prefix + " " + command
	if !p.roundTrips(rendered, command) {
		panic(fmt.Sprintf("prefix %q does not match its own rendering %q", p.prefix, rendered))
	}
	return rendered
}

func (p *PrefixMatcher) roundTrips(rendered, command string) bool {
	end, ok := p.Match(rendered)
	return ok && rendered[end:] == command
}
