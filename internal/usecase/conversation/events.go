package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/socket"
)

// HandleNewMessage folds a realtime message into the cache. The
// conversation moves to the top of the list; the unread counter grows
// only for inbound messages in conversations that are not open. An
// unknown conversation id triggers a full list refetch instead of a
// fabricated partial entry.
func (a *Aggregator) HandleNewMessage(msg domain.Message) {
	a.mu.Lock()
	i, conv := a.find(msg.ConversationID)
	if conv == nil {
		a.mu.Unlock()
		go a.refetchAll()
		return
	}

	inbound := msg.Sender.ID != a.self
	stored, fresh := a.mergeMessageLocked(&msg)

	// A replayed id is the same message arriving again; it must not
	// count, promote, or rewind activity a second time.
	active := a.activeID == conv.ID
	if fresh {
		a.promote(i)
		conv.LastMessage = stored
		conv.LastActivity = msg.CreatedAt
		if inbound && !active {
			conv.UnreadCount++
		}
	}

	// A message ends the sender's typing run.
	a.clearTypingLocked(msg.ConversationID, msg.Sender.ID)
	a.mu.Unlock()

	if fresh && inbound && active {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if err := a.Gateway.MarkConversationRead(ctx, msg.ConversationID); err != nil {
				a.Logger.Warn("mark conversation read failed",
					"conversation_id", msg.ConversationID, "error", err.Error())
			}
		}()
	}

	a.scheduleOfferExpiry(stored)
	a.notify()
}

// mergeMessageLocked appends a message to the cached history, or
// confirms the optimistic copy when the id is already present. Sent
// messages echo back through the socket with the client-generated id,
// so dedup by id keeps exactly one rendered copy. The second return
// reports whether a new entry was actually appended.
func (a *Aggregator) mergeMessageLocked(msg *domain.Message) (*domain.Message, bool) {
	cached := a.messages[msg.ConversationID]
	for _, existing := range cached {
		if existing.ID == msg.ID {
			existing.IsRead = msg.IsRead
			existing.CustomOffer = msg.CustomOffer
			if existing.Local == domain.StatePending {
				existing.Local = domain.StateConfirmed
			}
			return existing, false
		}
	}
	msg.Local = domain.StateConfirmed
	a.messages[msg.ConversationID] = append(cached, msg)
	return msg, true
}

// HandleMessageRead marks this user's outbound messages in the
// conversation as read, up to and including the referenced message.
// Only the counterpart's receipts count; the server echoes the local
// user's own mark-read back to the room and that must not flag
// outbound messages as seen.
func (a *Aggregator) HandleMessageRead(r socket.ReadReceipt) {
	if r.ReaderID == a.self {
		return
	}
	a.mu.Lock()
	for _, m := range a.messages[r.ConversationID] {
		if m.Sender.ID == a.self {
			m.IsRead = true
		}
		if m.ID == r.MessageID {
			break
		}
	}
	a.mu.Unlock()
	a.notify()
}
