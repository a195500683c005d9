package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/oklahomer/bot-george"
	"github.com/oklahomer/bot-george/command"
)

// commands answers help requests. Everything else is not available yet.
type commands struct {
	george.UnimplementedCommands
}

func newCommands() *commands {
	return &commands{}
}

type usageLine struct {
	invocation  string
	description string
}

var usage = []struct {
	topic string
	lines []usageLine
}{
	{
		topic: "help",
		lines: []usageLine{
			{"help [topic]", "show this message"},
		},
	},
	{
		topic: "role",
		lines: []usageLine{
			{"role list", "list the roles you can assign"},
			{"role show <user>", "show a user's roles"},
			{"role add <user> <role>...", "give roles to a user"},
			{"role remove <user> <role>...", "take roles from a user"},
		},
	},
	{
		topic: "modmail",
		lines: []usageLine{
			{"modmail <message>", "send a message to the moderators"},
		},
	},
}

func (c *commands) Help(ctx context.Context, req *george.Request, cmd command.Help) error {
	return req.Reply(ctx, helpText(req.Prefixed, cmd.Topic))
}

func (c *commands) RoleHelp(ctx context.Context, req *george.Request, cmd command.RoleHelp) error {
	return req.Reply(ctx, helpText(req.Prefixed, "role"))
}

func helpText(prefixed func(string) string, topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))

	var b strings.Builder
	for _, u := range usage {
		if topic != "" && !strings.HasPrefix(topic, u.topic) {
			continue
		}
		for _, line := range u.lines {
			fmt.Fprintf(&b, "`%s`: %s\n", prefixed(line.invocation), line.description)
		}
	}

	if b.Len() == 0 {
		return fmt.Sprintf("No help for %q. Try `%s`.", topic, prefixed("help"))
	}
	return b.String()
}
