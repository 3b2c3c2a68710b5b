package usecase

import (
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/socket"
)

// HandleTyping records that the counterpart is typing. The indicator
// self-expires after TypingTimeout unless renewed, so a peer that
// disconnects mid-keystroke never leaves it stuck.
func (a *Aggregator) HandleTyping(ev socket.TypingEvent) {
	if ev.UserID == a.self {
		return
	}
	a.mu.Lock()
	if prev, ok := a.typing[ev.ConversationID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	a.typing[ev.ConversationID] = &typingState{
		userID: ev.UserID,
		timer: a.Clock.AfterFunc(a.TypingTimeout, func() {
			a.mu.Lock()
			a.clearTypingLocked(ev.ConversationID, ev.UserID)
			a.mu.Unlock()
			a.notify()
		}),
	}
	a.mu.Unlock()
	a.notify()
}

func (a *Aggregator) HandleStoppedTyping(ev socket.TypingEvent) {
	a.mu.Lock()
	a.clearTypingLocked(ev.ConversationID, ev.UserID)
	a.mu.Unlock()
	a.notify()
}

// clearTypingLocked drops the indicator if it still belongs to the
// given user. Caller holds the lock.
func (a *Aggregator) clearTypingLocked(conversationID, userID string) {
	ts, ok := a.typing[conversationID]
	if !ok || ts.userID != userID {
		return
	}
	if ts.timer != nil {
		ts.timer.Stop()
	}
	delete(a.typing, conversationID)
}

// TypingUser returns the id of the user currently typing in the
// conversation, or "".
func (a *Aggregator) TypingUser(conversationID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ts, ok := a.typing[conversationID]; ok {
		return ts.userID
	}
	return ""
}

// StartTyping and StopTyping forward the local user's typing state to
// the counterpart. Both are fire-and-forget.
func (a *Aggregator) StartTyping(conversationID, receiverID string) {
	if a.Session != nil {
		a.Session.TypingStart(conversationID, receiverID)
	}
}

func (a *Aggregator) StopTyping(conversationID, receiverID string) {
	if a.Session != nil {
		a.Session.TypingStop(conversationID, receiverID)
	}
}
