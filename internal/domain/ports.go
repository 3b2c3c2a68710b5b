package domain

import "context"

// OrderGateway is the REST collaborator that owns persisted orders.
// Every call may fail with the transport/auth/conflict taxonomy; the
// returned order is authoritative and replaces the cached one.
type OrderGateway interface {
	ListOrders(ctx context.Context) ([]*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	CreateCheckoutSession(ctx context.Context, gigID string, tier PackageTier) (*CheckoutSession, error)
	SubmitRequirements(ctx context.Context, orderID string, answers []RequirementAnswer) (*Order, error)
	Deliver(ctx context.Context, orderID, message string, files []FileAttachment) (*Order, error)
	RequestRevision(ctx context.Context, orderID, message string) (*Order, error)
	AcceptDelivery(ctx context.Context, orderID string) (*Order, error)
	RequestCancellation(ctx context.Context, orderID, reason string) (*Order, error)
	ResolveCancellation(ctx context.Context, orderID string, approve bool) (*Order, error)
	RaiseDispute(ctx context.Context, orderID, reason, description string) (*Order, error)
	MarkReviewed(ctx context.Context, orderID string) (*Order, error)
}

// CheckoutSession is the hosted payment redirect. The core performs a
// full navigation to URL; confirmation arrives later as an order status
// change, never as a direct callback.
type CheckoutSession struct {
	OrderID string `json:"orderId"`
	URL     string `json:"url"`
}

type ConversationGateway interface {
	ListConversations(ctx context.Context) ([]*Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)
	SendMessage(ctx context.Context, msg *Message) (*Message, error)
	MarkConversationRead(ctx context.Context, conversationID string) error
}

type NotificationGateway interface {
	ListNotifications(ctx context.Context) ([]*Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// SessionPort is the outbound side of the realtime channel. Emits after
// a disconnect are dropped silently; resynchronization always happens
// through the next authoritative fetch, never buffered replay.
type SessionPort interface {
	JoinConversation(conversationID string)
	LeaveConversation(conversationID string)
	JoinOrderRoom(orderID string)
	LeaveOrderRoom(orderID string)
	TypingStart(conversationID, receiverID string)
	TypingStop(conversationID, receiverID string)
	MarkNotificationRead(notificationID string)
}
