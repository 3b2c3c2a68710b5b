package socket

import "encoding/json"

// EventKind names an inbound event on the realtime channel.
type EventKind string

const (
	EventNewMessage        EventKind = "new_message"
	EventMessageRead       EventKind = "message_read"
	EventUserTyping        EventKind = "user_typing"
	EventUserStoppedTyping EventKind = "user_stopped_typing"
	EventNewNotification   EventKind = "new_notification"
)

// Outbound event names.
const (
	emitJoinConversation     = "join_conversation"
	emitLeaveConversation    = "leave_conversation"
	emitJoinOrderRoom        = "join_order_room"
	emitLeaveOrderRoom       = "leave_order_room"
	emitTypingStart          = "typing_start"
	emitTypingStop           = "typing_stop"
	emitMarkNotificationRead = "mark_notification_read"
)

// Envelope is the wire frame: an event name plus a raw payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ReadReceipt is the payload of message_read.
type ReadReceipt struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId,omitempty"`
	ReaderID       string `json:"readerId"`
}

// TypingEvent is the payload of user_typing and user_stopped_typing.
type TypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

type typingEmit struct {
	ConversationID string `json:"conversationId"`
	ReceiverID     string `json:"receiverId"`
}
