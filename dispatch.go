package george

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklahomer/go-kasumi/logger"

	"github.com/oklahomer/bot-george/command"
)

// Commands implements the bot's commands.
//
// Each method handles one command variant and replies through req.
// A returned error is shown to the user; return ErrUnsupportedCommand for
// commands that are not available. Methods may be called concurrently.
type Commands interface {
	Help(ctx context.Context, req *Request, cmd command.Help) error
	RoleHelp(ctx context.Context, req *Request, cmd command.RoleHelp) error
	RoleList(ctx context.Context, req *Request, cmd command.RoleList) error
	RoleShow(ctx context.Context, req *Request, cmd command.RoleShow) error
	RoleAdd(ctx context.Context, req *Request, cmd command.RoleAdd) error
	RoleRemove(ctx context.Context, req *Request, cmd command.RoleRemove) error
	Modmail(ctx context.Context, req *Request, cmd command.Modmail) error
}

// UnimplementedCommands answers every command with ErrUnsupportedCommand.
// Embed it to implement Commands one method at a time.
type UnimplementedCommands struct{}

var _ Commands = UnimplementedCommands{}

func (UnimplementedCommands) Help(context.Context, *Request, command.Help) error {
	return ErrUnsupportedCommand
}

func (UnimplementedCommands) RoleHelp(context.Context, *Request, command.RoleHelp) error {
	return ErrUnsupportedCommand
}

func (UnimplementedCommands) RoleList(context.Context, *Request, command.RoleList) error {
	return ErrUnsupportedCommand
}

func (UnimplementedCommands) RoleShow(context.Context, *Request, command.RoleShow) error {
	return ErrUnsupportedCommand
}

func (UnimplementedCommands) RoleAdd(context.Context, *Request, command.RoleAdd) error {
	return ErrUnsupportedCommand
}

func (UnimplementedCommands) RoleRemove(context.Context, *Request, command.RoleRemove) error {
	return ErrUnsupportedCommand
}

func (UnimplementedCommands) Modmail(context.Context, *Request, command.Modmail) error {
	return ErrUnsupportedCommand
}

// execute routes cmd to the matching Commands method.
func execute(ctx context.Context, commands Commands, req *Request, cmd command.Command) error {
	switch c := cmd.(type) {
	case command.Help:
		return commands.Help(ctx, req, c)

	case command.Role:
		switch rc := c.Command.(type) {
		case command.RoleHelp:
			return commands.RoleHelp(ctx, req, rc)
		case command.RoleList:
			return commands.RoleList(ctx, req, rc)
		case command.RoleShow:
			return commands.RoleShow(ctx, req, rc)
		case command.RoleAdd:
			return commands.RoleAdd(ctx, req, rc)
		case command.RoleRemove:
			return commands.RoleRemove(ctx, req, rc)
		default:
			return fmt.Errorf("%w: role subcommand %T", ErrUnsupportedCommand, rc)
		}

	case command.Modmail:
		return commands.Modmail(ctx, req, c)

	default:
		return fmt.Errorf("%w: command %T", ErrUnsupportedCommand, c)
	}
}

// dispatch parses text and runs the command under a dispatchGuard.
func (h *Handler) dispatch(ctx context.Context, req *Request, text string) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	outcome := outcomeFault
	guard := newDispatchGuard(req.ChannelID, h.session, &h.notices)
	guard.run(func() {
		outcome = h.serve(ctx, req, text)
	})

	h.metrics.dispatches.WithLabelValues(outcome).Inc()
}

// serve parses and executes one command and reports its outcome.
// Replies written here outlive ctx so a timed-out command still gets its error shown.
func (h *Handler) serve(ctx context.Context, req *Request, text string) string {
	replyCtx := context.WithoutCancel(ctx)

	cmd, err := command.Parse(text)
	if err != nil {
		h.reply(replyCtx, req, fmt.Sprintf("**```%s```**", err.Error()))
		return outcomeParseError
	}

	logger.Debugf("Dispatching %q from %s in channel %s.", cmd.String(), req.Message.Author.ID, req.ChannelID)

	err = execute(ctx, h.commands, req, cmd)

	var sendErr *SendError
	switch {
	case err == nil:
		return outcomeOK

	case errors.As(err, &sendErr):
		logger.Errorf("Failed to reply to %q: %+v", cmd.String(), err)
		return outcomeError

	case errors.Is(err, ErrUnsupportedCommand):
		h.reply(replyCtx, req, fmt.Sprintf("**ERROR:** `%s` is not available yet.", req.Prefixed(cmd.String())))
		return outcomeUnsupported

	default:
		logger.Errorf("Command %q failed: %+v", cmd.String(), err)
		h.reply(replyCtx, req, "**ERROR:** "+err.Error())
		return outcomeError
	}
}

func (h *Handler) reply(ctx context.Context, req *Request, content string) {
	if err := req.Reply(ctx, content); err != nil {
		logger.Errorf("%+v", err)
	}
}
