package george

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// session is an internal interface that abstracts the discordgo.Session methods
// used by the Handler. This allows mocking the session in tests.
// *discordgo.Session satisfies this interface.
type session interface {
	messageSender
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

var _ session = (*discordgo.Session)(nil)

// HandlerOption defines a function signature for Handler's functional options.
type HandlerOption func(handler *Handler)

// WithSession creates a HandlerOption with the given *discordgo.Session.
// Use this to inject a pre-configured session.
// If this option is not given, NewHandler creates a new session from the configured token.
func WithSession(session *discordgo.Session) HandlerOption {
	return func(handler *Handler) {
		handler.session = session
	}
}

// WithCommands sets the implementation commands are routed to.
// Without it every command is answered as not available.
func WithCommands(commands Commands) HandlerOption {
	return func(handler *Handler) {
		handler.commands = commands
	}
}

// WithDB hands the given pool to command handlers through Request.DB.
func WithDB(db *sqlx.DB) HandlerOption {
	return func(handler *Handler) {
		handler.db = db
	}
}

// WithRegisterer registers the Handler's metrics with reg.
func WithRegisterer(reg prometheus.Registerer) HandlerOption {
	return func(handler *Handler) {
		handler.registerer = reg
	}
}

// Handler receives Discord gateway events and dispatches commands.
//
// It starts out not knowing its own user ID. The ready event records the ID and
// announces the bot's presence, after which the Handler listens for messages
// until Run returns. Messages are handled concurrently.
type Handler struct {
	session    session
	matcher    *PrefixMatcher
	policy     *AccessPolicy
	identity   Identity
	commands   Commands
	db         *sqlx.DB
	superuser  string
	activity   string
	timeout    time.Duration
	registerer prometheus.Registerer
	metrics    *metrics

	// intake guards closing and the Add side of inflight.
	intake   sync.Mutex
	closing  bool
	inflight sync.WaitGroup
	notices  sync.WaitGroup
}

// NewHandler creates a new Handler with the given Config and options.
// A prefix that cannot be compiled is returned as *ConfigError.
func NewHandler(config *Config, options ...HandlerOption) (*Handler, error) {
	matcher, err := NewPrefixMatcher(config.Bot.Prefix)
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		matcher:   matcher,
		policy:    NewAccessPolicy(config.Bot.AllowedGuilds...),
		commands:  UnimplementedCommands{},
		superuser: config.Auth.Superuser,
		activity:  config.Bot.Activity,
		timeout:   config.Bot.DispatchTimeout,
	}

	for _, opt := range options {
		opt(handler)
	}

	if handler.session == nil {
		if config.Auth.Token == "" {
			return nil, ErrEmptyToken
		}

		s, err := discordgo.New("Bot " + config.Auth.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
		s.Identify.Intents = config.Bot.Intents
		handler.session = s
	}

	handler.metrics = newMetrics(handler.registerer)

	return handler, nil
}

// PrefixCommand renders how a user invokes the given command, e.g. "!help".
func (h *Handler) PrefixCommand(command string) string {
	return h.matcher.PrefixCommand(command)
}

// Ready reports whether the ready event has been received.
func (h *Handler) Ready() bool {
	_, ok := h.identity.Load()
	return ok
}

// Run establishes a connection with Discord and blocks until the context is canceled.
// On cancellation it stops taking new messages, waits for the ones in flight and
// their fault notices, and then closes the session.
func (h *Handler) Run(ctx context.Context) error {
	removeReady := h.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		h.handleReady(r)
	})
	removeMessage := h.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		h.handleMessage(ctx, s, m)
	})

	err := h.session.Open()
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	// Block until the context is canceled.
	<-ctx.Done()

	removeReady()
	removeMessage()
	h.stopIntake()

	h.inflight.Wait()
	h.notices.Wait()

	if closeErr := h.session.Close(); closeErr != nil {
		logger.Errorf("Failed to close Discord session: %+v", closeErr)
	}

	return nil
}

// admit registers a message as in flight. It returns false once Run is shutting down.
func (h *Handler) admit() bool {
	h.intake.Lock()
	defer h.intake.Unlock()

	if h.closing {
		return false
	}
	h.inflight.Add(1)
	return true
}

func (h *Handler) stopIntake() {
	h.intake.Lock()
	defer h.intake.Unlock()
	h.closing = true
}

// handleReady records the bot's own ID and announces how to ask for help.
func (h *Handler) handleReady(r *discordgo.Ready) {
	if r.User == nil {
		logger.Warnf("Ready event carries no user.")
		return
	}

	h.identity.Store(r.User.ID)
	logger.Infof("Connected as %s (%s).", r.User.Username, r.User.ID)

	status := h.PrefixCommand("help")
	if h.activity != "" {
		status = h.activity + " | " + status
	}

	err := h.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{{
			Name: status,
			Type: discordgo.ActivityTypeGame,
		}},
		Status: string(discordgo.StatusOnline),
	})
	if err != nil {
		logger.Errorf("Failed to update presence: %+v", err)
	}
}

// handleMessage decides whether m is a command for the bot and dispatches it.
func (h *Handler) handleMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		logger.Debugf("Skipping message: %+v", ErrNoAuthor)
		return
	}

	if !h.admit() {
		logger.Debugf("Skipping message %s: shutting down.", m.ID)
		return
	}
	defer h.inflight.Done()

	if verdict := h.policy.Evaluate(m.Message, &h.identity); verdict != Admitted {
		h.metrics.messages.WithLabelValues(verdict.String()).Inc()
		return
	}

	text, ok := h.commandText(s, m.Message)
	if !ok {
		h.metrics.messages.WithLabelValues(verdictNotCommand).Inc()
		return
	}
	h.metrics.messages.WithLabelValues(verdictDispatched).Inc()

	req := &Request{
		ChannelID: m.ChannelID,
		Message:   m.Message,
		DB:        h.db,
		sender:    h.session,
		matcher:   h.matcher,
		superuser: h.superuser,
		metrics:   h.metrics,
	}
	h.dispatch(ctx, req, text)
}

// commandText returns the command part of m.
// Prefixed messages yield the text after the prefix. Direct messages need no prefix.
func (h *Handler) commandText(s *discordgo.Session, m *discordgo.Message) (string, bool) {
	if end, ok := h.matcher.Match(m.Content); ok {
		return m.Content[end:], true
	}

	private, err := h.isPrivate(s, m)
	if err != nil {
		logger.Errorf("Failed to resolve channel %s: %+v", m.ChannelID, err)
		return "", false
	}
	if private {
		return m.Content, true
	}

	return "", false
}

// isPrivate reports whether m was sent in a direct message channel.
// The state cache is consulted before the REST API.
func (h *Handler) isPrivate(s *discordgo.Session, m *discordgo.Message) (bool, error) {
	if m.GuildID != "" {
		return false, nil
	}

	var channel *discordgo.Channel
	if s != nil {
		channel, _ = s.State.Channel(m.ChannelID)
	}

	if channel == nil {
		var err error
		channel, err = h.session.Channel(m.ChannelID)
		if err != nil {
			return false, err
		}
	}

	return channel.Type == discordgo.ChannelTypeDM || channel.Type == discordgo.ChannelTypeGroupDM, nil
}
