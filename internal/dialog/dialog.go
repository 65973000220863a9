// Package dialog tracks the pending multi-step administrative input an actor
// is mid-way through. State is process-local and keyed per identity: a
// restart simply forces the admin to restart the action.
package dialog

import "sync"

// State identifies which follow-up input an admin's next message carries.
type State string

const (
	AwaitingAdminAdd    State = "awaiting_admin_add"
	AwaitingAdminRemove State = "awaiting_admin_remove"
	AwaitingPromoSpec   State = "awaiting_promo_spec"
	AwaitingGrantSpec   State = "awaiting_grant_spec"
)

// Manager is a concurrent map of pending dialog states. The next text message
// from an identity consumes its state unconditionally (Take), whether or not
// the message turns out to be valid for it; retrying requires reselecting the
// action. Dialogs from different identities never interfere.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]State
}

func NewManager() *Manager {
	return &Manager{states: make(map[int64]State)}
}

// Begin records a pending state for the identity, replacing any previous one.
func (m *Manager) Begin(userID int64, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = state
}

// Take returns the pending state for the identity and clears it.
func (m *Manager) Take(userID int64) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[userID]
	if ok {
		delete(m.states, userID)
	}
	return state, ok
}

// Pending reports whether the identity has a pending state without consuming it.
func (m *Manager) Pending(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[userID]
	return ok
}
