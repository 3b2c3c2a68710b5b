package domain

import "time"

type NotificationType string

const (
	NotifyNewOrder          NotificationType = "new_order"
	NotifyOrderDelivered    NotificationType = "order_delivered"
	NotifyOrderCompleted    NotificationType = "order_completed"
	NotifyOrderCancelled    NotificationType = "order_cancelled"
	NotifyRevisionRequested NotificationType = "revision_requested"
	NotifyNewMessage        NotificationType = "new_message"
	NotifyReviewReceived    NotificationType = "review_received"
	NotifyPaymentReceived   NotificationType = "payment_received"
	NotifyGigApproved       NotificationType = "gig_approved"
	NotifyGigRejected       NotificationType = "gig_rejected"
	NotifyCustomOffer       NotificationType = "custom_offer"
	NotifySystem            NotificationType = "system"
)

// NotificationData is the polymorphic payload; which fields are set
// depends on Type.
type NotificationData struct {
	OrderID   string  `json:"orderId,omitempty"`
	GigID     string  `json:"gigId,omitempty"`
	MessageID string  `json:"messageId,omitempty"`
	ReviewID  string  `json:"reviewId,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	URL       string  `json:"url,omitempty"`
}

type Notification struct {
	ID        string           `json:"_id"`
	Recipient string           `json:"recipient"`
	Sender    *User            `json:"sender,omitempty"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      NotificationData `json:"data,omitempty"`
	IsRead    bool             `json:"isRead"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (n Notification) EntityID() string { return n.ID }
