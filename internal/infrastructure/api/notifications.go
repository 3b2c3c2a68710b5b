package api

import (
	"context"
	"net/http"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

type notificationsResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
}

func (c *Client) ListNotifications(ctx context.Context) ([]*domain.Notification, error) {
	out, err := getShared[notificationsResponse](ctx, c, "/api/notifications")
	if err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return c.do(ctx, http.MethodPut, "/api/notifications/"+notificationID+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/api/notifications/read-all", nil, nil)
}

var _ domain.NotificationGateway = (*Client)(nil)
