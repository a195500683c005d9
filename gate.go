package george

import (
	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
)

// Verdict is the outcome of checking a message against an AccessPolicy.
type Verdict int

const (
	// Admitted messages go on to prefix and command evaluation.
	Admitted Verdict = iota
	// RejectedGuild messages come from a guild outside the allow-list.
	RejectedGuild
	// RejectedSelf messages were sent by the bot itself.
	RejectedSelf
	// RejectedBot messages were sent by another automated account.
	RejectedBot
)

func (v Verdict) String() string {
	switch v {
	case Admitted:
		return "admitted"
	case RejectedGuild:
		return "rejected_guild"
	case RejectedSelf:
		return "rejected_self"
	case RejectedBot:
		return "rejected_bot"
	default:
		return "unknown"
	}
}

// AccessPolicy decides which messages the bot may act on.
// It is read-only after construction.
type AccessPolicy struct {
	allowedGuilds map[string]struct{}
}

// NewAccessPolicy creates a policy that admits direct messages and messages from the given guilds.
func NewAccessPolicy(allowedGuilds ...string) *AccessPolicy {
	allowed := make(map[string]struct{}, len(allowedGuilds))
	for _, id := range allowedGuilds {
		allowed[id] = struct{}{}
	}
	return &AccessPolicy{allowedGuilds: allowed}
}

// Evaluate checks m in order: guild allow-list, self-message, bot author.
// The first failing check decides the verdict. m.Author must not be nil.
func (p *AccessPolicy) Evaluate(m *discordgo.Message, self *Identity) Verdict {
	if m.GuildID != "" {
		if _, ok := p.allowedGuilds[m.GuildID]; !ok {
			logger.Warnf("Refusing to act in guild %s: not in the allow-list.", m.GuildID)
			return RejectedGuild
		}
	}

	if self.Is(m.Author.ID) {
		return RejectedSelf
	}

	if m.Author.Bot {
		logger.Infof("Ignoring message from bot %s (%s).", m.Author.Username, m.Author.ID)
		return RejectedBot
	}

	return Admitted
}

// Admit reports whether m passes every check.
func (p *AccessPolicy) Admit(m *discordgo.Message, self *Identity) bool {
	return p.Evaluate(m, self) == Admitted
}
