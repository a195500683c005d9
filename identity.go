package george

import "sync/atomic"

// Identity holds the bot's own user ID once the gateway reports it.
//
// It is written once on the ready event and read on every message.
// Store publishes the ID and Load observes it with acquire semantics, so a reader
// that sees the ID also sees everything written before Store.
type Identity struct {
	id atomic.Pointer[string]
}

// Store publishes the bot's user ID.
func (i *Identity) Store(id string) {
	i.id.Store(&id)
}

// Load returns the bot's user ID and whether it is known yet.
func (i *Identity) Load() (string, bool) {
	id := i.id.Load()
	if id == nil {
		return "", false
	}
	return *id, true
}

// Is reports whether userID is the bot's own ID.
// It is always false before the ID is known.
func (i *Identity) Is(userID string) bool {
	id, ok := i.Load()
	return ok && id == userID
}
