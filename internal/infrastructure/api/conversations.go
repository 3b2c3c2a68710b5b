package api

import (
	"context"
	"net/http"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

type conversationsResponse struct {
	Conversations []*domain.Conversation `json:"conversations"`
}

type messagesResponse struct {
	Messages []*domain.Message `json:"messages"`
}

type messageResponse struct {
	Message *domain.Message `json:"message"`
}

func (c *Client) ListConversations(ctx context.Context) ([]*domain.Conversation, error) {
	out, err := getShared[conversationsResponse](ctx, c, "/api/conversations")
	if err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	out, err := getShared[messagesResponse](ctx, c, "/api/conversations/"+conversationID+"/messages")
	if err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// SendMessage posts a client-built message. The client-generated id is
// preserved by the server, so the socket echo and this response refer to
// the same entity and dedup by id works either way the race goes.
func (c *Client) SendMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/messages", msg, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodPut, "/api/conversations/"+conversationID+"/read", nil, nil)
}

var _ domain.ConversationGateway = (*Client)(nil)
