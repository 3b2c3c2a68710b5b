package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// Open makes a conversation active: joins its realtime room, loads its
// message history and clears the unread counter. Opening a different
// conversation first leaves the previous room.
func (a *Aggregator) Open(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	a.mu.Lock()
	_, conv := a.find(conversationID)
	if conv == nil {
		a.mu.Unlock()
		return nil, domain.ErrConversationNotFound
	}
	previous := a.activeID
	a.activeID = conversationID
	conv.UnreadCount = 0
	a.mu.Unlock()

	if a.Session != nil {
		if previous != "" && previous != conversationID {
			a.Session.LeaveConversation(previous)
		}
		a.Session.JoinConversation(conversationID)
	}

	msgs, err := a.Gateway.ListMessages(ctx, conversationID)
	if err != nil {
		// Keep the last known history rather than blanking the view.
		return a.Messages(conversationID), err
	}
	for _, m := range msgs {
		m.Local = domain.StateReconciled
	}
	a.mu.Lock()
	a.messages[conversationID] = msgs
	a.mu.Unlock()

	for _, m := range msgs {
		a.scheduleOfferExpiry(m)
	}

	// Read state is reported best-effort; the local counter is already
	// cleared and the next Refresh reconciles either way.
	go func() {
		rctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := a.Gateway.MarkConversationRead(rctx, conversationID); err != nil {
			a.Logger.Warn("mark conversation read failed",
				"conversation_id", conversationID, "error", err.Error())
		}
	}()

	a.notify()
	return a.Messages(conversationID), nil
}

// Close leaves the active conversation's room and clears the active
// marker. Unread counting resumes for it afterwards.
func (a *Aggregator) Close() {
	a.mu.Lock()
	id := a.activeID
	a.activeID = ""
	a.mu.Unlock()
	if id != "" && a.Session != nil {
		a.Session.LeaveConversation(id)
	}
}

// Messages returns a copy of the cached history for a conversation.
func (a *Aggregator) Messages(conversationID string) []*domain.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	cached := a.messages[conversationID]
	out := make([]*domain.Message, len(cached))
	copy(out, cached)
	return out
}
