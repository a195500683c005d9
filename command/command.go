// Package command defines the commands bot-george understands and parses
// raw command text into them.
//
// Command and RoleCommand are closed sets: only the types declared in this
// package implement them. Consumers are expected to switch over every
// variant.
package command

import (
	"fmt"
	"strings"
)

// Command is a top-level command.
// Implementations are Help, Role and Modmail.
type Command interface {
	fmt.Stringer
	isCommand()
}

// RoleCommand is a subcommand of Role.
// Implementations are RoleHelp, RoleList, RoleShow, RoleAdd and RoleRemove.
type RoleCommand interface {
	fmt.Stringer
	isRoleCommand()
}

// Help asks for general usage, optionally about a single topic.
type Help struct {
	Topic string
}

// Role groups role management subcommands.
type Role struct {
	Command RoleCommand
}

// Modmail relays a message to the moderators.
type Modmail struct {
	Message string
}

func (Help) isCommand()    {}
func (Role) isCommand()    {}
func (Modmail) isCommand() {}

func (c Help) String() string {
	return withArgs("help", c.Topic)
}

func (c Role) String() string {
	if c.Command == nil {
		return "role"
	}
	return "role " + c.Command.String()
}

func (c Modmail) String() string {
	return withArgs("modmail", c.Message)
}

// RoleHelp asks for role management usage.
type RoleHelp struct {
	Topic string
}

// RoleList lists the self-assignable roles.
type RoleList struct{}

// RoleShow shows the roles a user holds.
type RoleShow struct {
	User User
}

// RoleAdd grants roles to a user.
type RoleAdd struct {
	User  User
	Roles []string
}

// RoleRemove revokes roles from a user.
type RoleRemove struct {
	User  User
	Roles []string
}

func (RoleHelp) isRoleCommand()   {}
func (RoleList) isRoleCommand()   {}
func (RoleShow) isRoleCommand()   {}
func (RoleAdd) isRoleCommand()    {}
func (RoleRemove) isRoleCommand() {}

func (c RoleHelp) String() string {
	return withArgs("help", c.Topic)
}

func (RoleList) String() string {
	return "list"
}

func (c RoleShow) String() string {
	return "show " + c.User.String()
}

func (c RoleAdd) String() string {
	return withArgs("add "+c.User.String(), quoteAll(c.Roles)...)
}

func (c RoleRemove) String() string {
	return withArgs("remove "+c.User.String(), quoteAll(c.Roles)...)
}

// User refers to a platform user either by snowflake ID or by name.
// Exactly one of the two fields is set.
type User struct {
	ID   string
	Name string
}

// String renders the user the way it can be typed back into a command.
func (u User) String() string {
	if u.ID != "" {
		return "<@" + u.ID + ">"
	}
	return quote(u.Name)
}

func withArgs(head string, args ...string) string {
	parts := []string{head}
	for _, a := range args {
		if a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

func quoteAll(values []string) []string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, quote(v))
	}
	return quoted
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"'\\") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
