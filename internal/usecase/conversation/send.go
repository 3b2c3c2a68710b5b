package usecase

import (
	"context"
	"strings"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// SendMessage posts a message optimistically: the caller sees it in the
// history immediately with a client-generated id, and the same id comes
// back on both the API response and the socket echo, so neither path
// produces a duplicate.
func (a *Aggregator) SendMessage(ctx context.Context, conversationID, receiverID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &domain.ValidationError{Field: "content", Reason: "message content is required"}
	}

	a.mu.Lock()
	i, conv := a.find(conversationID)
	if conv == nil {
		a.mu.Unlock()
		return nil, domain.ErrConversationNotFound
	}

	local := &domain.Message{
		ID:             a.newID(),
		ConversationID: conversationID,
		Sender:         domain.IDRef[domain.User](a.self),
		Receiver:       domain.IDRef[domain.User](receiverID),
		Content:        content,
		MessageType:    domain.MessageText,
		CreatedAt:      a.Clock.Now(),
		Local:          domain.StatePending,
	}
	a.messages[conversationID] = append(a.messages[conversationID], local)
	a.promote(i)
	conv.LastMessage = local
	conv.LastActivity = local.CreatedAt
	a.mu.Unlock()
	a.notify()

	confirmed, err := a.Gateway.SendMessage(ctx, local)
	if err != nil {
		// The pending copy stays visible; the next Refresh or reopen
		// reconciles it away if the server never accepted it.
		return local, err
	}

	a.mu.Lock()
	local.CreatedAt = confirmed.CreatedAt
	local.IsRead = confirmed.IsRead
	if local.Local == domain.StatePending {
		local.Local = domain.StateConfirmed
	}
	a.mu.Unlock()
	a.notify()
	return local, nil
}
