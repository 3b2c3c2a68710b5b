package domain

import (
	"strings"
	"time"
)

type MessageType string

const (
	MessageText        MessageType = "text"
	MessageFile        MessageType = "file"
	MessageImage       MessageType = "image"
	MessageOrderUpdate MessageType = "order_update"
	MessageCustomOffer MessageType = "custom_offer"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
	OfferExpired  OfferStatus = "expired"
)

// CustomOffer is a seller-proposed ad-hoc package carried inside a
// message, with its own accept/decline/expire clock independent of any
// order.
type CustomOffer struct {
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Price        float64     `json:"price"`
	DeliveryTime int         `json:"deliveryTime"`
	Revisions    int         `json:"revisions"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	Status       OfferStatus `json:"status"`
}

// DeliveryState tracks an optimistic local write through its life:
// pending until the server acknowledges, confirmed on ack (REST response
// or socket echo, whichever lands first), reconciled after a full
// refetch replaced local state with ground truth.
type DeliveryState string

const (
	StatePending    DeliveryState = "pending"
	StateConfirmed  DeliveryState = "confirmed"
	StateReconciled DeliveryState = "reconciled"
)

type Message struct {
	ID             string           `json:"_id"`
	ConversationID string           `json:"conversation"`
	Sender         Ref[User]        `json:"sender"`
	Receiver       Ref[User]        `json:"receiver"`
	Content        string           `json:"content,omitempty"`
	MessageType    MessageType      `json:"messageType"`
	Attachments    []FileAttachment `json:"attachments,omitempty"`
	CustomOffer    *CustomOffer     `json:"customOffer,omitempty"`
	IsRead         bool             `json:"isRead"`
	ReadAt         *time.Time       `json:"readAt,omitempty"`
	IsEdited       bool             `json:"isEdited,omitempty"`
	EditedAt       *time.Time       `json:"editedAt,omitempty"`
	IsDeleted      bool             `json:"isDeleted,omitempty"`
	DeletedAt      *time.Time       `json:"deletedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`

	// Local is client-side only and never serialized.
	Local DeliveryState `json:"-"`
}

func (m Message) EntityID() string { return m.ID }

type Conversation struct {
	ID           string      `json:"_id"`
	Participants []User      `json:"participants"`
	Order        *Ref[Order] `json:"order,omitempty"`
	Gig          *Ref[Gig]   `json:"gig,omitempty"`
	LastMessage  *Message    `json:"lastMessage,omitempty"`
	LastActivity time.Time   `json:"lastActivity"`
	// UnreadCount is derived. It is recomputed from message read-state
	// on a full resync and only incremented locally in between.
	UnreadCount int       `json:"unreadCount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c Conversation) EntityID() string { return c.ID }

// CounterpartOf returns the participant that is not the given user.
func (c *Conversation) CounterpartOf(userID string) *User {
	for i := range c.Participants {
		if c.Participants[i].ID != userID {
			return &c.Participants[i]
		}
	}
	return nil
}

// MatchesQuery reports whether any participant's full name or username
// contains the query, case-insensitively.
func (c *Conversation) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, p := range c.Participants {
		if strings.Contains(strings.ToLower(p.FullName), q) ||
			strings.Contains(strings.ToLower(p.Username), q) {
			return true
		}
	}
	return false
}
