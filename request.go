package george

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Request carries one incoming command to its handler.
// It lives for a single dispatch.
type Request struct {
	// ChannelID is where the command was sent and where replies go.
	ChannelID string

	// Message is the raw message that carried the command.
	Message *discordgo.Message

	// DB is the shared SQL pool. It is nil when the Handler was built without WithDB.
	DB *sqlx.DB

	sender    messageSender
	matcher   *PrefixMatcher
	superuser string
	metrics   *metrics
}

// Reply sends content to the channel the command came from.
// A delivery failure is returned as *SendError.
func (r *Request) Reply(ctx context.Context, content string) error {
	_, err := r.sender.ChannelMessageSend(r.ChannelID, content, discordgo.WithContext(ctx))
	if err != nil {
		r.metrics.sendFailures.Inc()
		return &SendError{ChannelID: r.ChannelID, Err: err}
	}
	return nil
}

// Author returns the user who sent the command.
func (r *Request) Author() *discordgo.User {
	return r.Message.Author
}

// FromSuperuser reports whether the command was sent by the configured superuser.
func (r *Request) FromSuperuser() bool {
	return r.superuser != "" && r.Message.Author.ID == r.superuser
}

// Prefixed renders how to invoke command with the configured prefix.
func (r *Request) Prefixed(command string) string {
	return r.matcher.PrefixCommand(command)
}
