// Package state provides a lightweight FSM manager for Telegram conversations.
// It is intentionally domain-agnostic so it can be reused across flows; flows
// that need per-conversation scratch data keep their own typed drafts.
package state

import (
	"sync"

	"github.com/m3rciful/promobot/core/logger"
	tghelpers "github.com/m3rciful/promobot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Manager orchestrates per-user FSM states and routes updates to the handler
// registered for the user's current state.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	ClearState(userID int64)
	InProgress(userID int64) bool

	// Handle associates a state with its handler.
	Handle(st State, h tele.HandlerFunc)
	// ManagerHandler executes the handler registered for the user's current state, if any.
	ManagerHandler(c tele.Context) error
}

type memoryManager struct {
	mu       sync.RWMutex
	states   map[int64]State
	handlers map[State]tele.HandlerFunc
}

// NewMemoryManager constructs an in-memory Manager implementation.
func NewMemoryManager() Manager {
	return &memoryManager{
		states:   make(map[int64]State),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == StateIdle {
		delete(m.states, userID)
		return
	}
	m.states[userID] = st
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.states[userID]; ok {
		return st
	}
	return StateIdle
}

// ClearState resets the FSM state to idle for a user.
func (m *memoryManager) ClearState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[userID]
	return ok && st != StateIdle
}

// Handle associates a state with its handler.
func (m *memoryManager) Handle(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[st] = h
}

// ManagerHandler executes the handler function registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.GetState(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	m.mu.RLock()
	handler, ok := m.handlers[current]
	m.mu.RUnlock()
	if ok {
		return handler(c)
	}
	return nil
}
