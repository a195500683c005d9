// Package george is the inbound message dispatch layer of bot-george, a Discord bot.
//
// A Handler receives gateway events from discordgo, decides whether a message
// is a command addressed to the bot and, if so, parses it and routes it to a
// Commands implementation. Every dispatch ends with exactly one message back
// to the channel: the handler's own reply, a rendered error, or a fixed fault
// notice when the handler panics.
//
// Command grammar lives in the command subpackage. Command semantics (role
// management, modmail) are supplied by the caller through Commands.
package george
