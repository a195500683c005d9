package george

import (
	"errors"
	"fmt"
)

// ErrEmptyToken indicates that no token was provided and no session was injected via WithSession.
var ErrEmptyToken = errors.New("token must be set or a session must be provided via WithSession")

// ErrNoAuthor indicates that the given message has no author.
var ErrNoAuthor = errors.New("message has no author")

// ErrUnsupportedCommand indicates that a recognized command has no handler yet.
// Commands implementations return this, possibly wrapped, and the user is told the command is not available.
var ErrUnsupportedCommand = errors.New("command is not available yet")

// ConfigError reports a configuration problem found at startup.
// The bot must not start listening when one is returned.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Op, e.Err.Error())
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SendError reports that the platform rejected or failed to deliver a reply.
// It is logged and never retried.
type SendError struct {
	ChannelID string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send message to %s: %s", e.ChannelID, e.Err.Error())
}

func (e *SendError) Unwrap() error {
	return e.Err
}
