package socket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is the one logical realtime connection of an authenticated
// user. It is constructed with Dial, torn down with Close, and injected
// into the aggregators; there is no package-level connection state.
//
// Inbound events are dispatched serially from a single read loop, so no
// two handlers of the same session ever run concurrently. After a
// disconnect, outbound emits are dropped silently: resynchronization
// happens through the next authoritative fetch, never buffered replay.
type Session struct {
	id     string
	userID string
	conn   *websocket.Conn
	logger *slog.Logger
	m      *metrics.CoreMetrics

	writeMu sync.Mutex

	mu       sync.Mutex
	closed   bool
	seq      uint64
	handlers map[EventKind]handlerEntry

	done chan struct{}
}

type handlerEntry struct {
	seq uint64
	fn  func(json.RawMessage)
}

type Config struct {
	URL              string
	Token            string
	HandshakeTimeout time.Duration
	Logger           *slog.Logger
	Metrics          *metrics.CoreMetrics

	// Dialer overrides the websocket dialer, for tests.
	Dialer *websocket.Dialer
}

// Dial authenticates the bearer credential, opens the channel and
// starts the read loop. An expired credential fails fast with AuthError
// before any network traffic.
func Dial(cfg Config) (*Session, error) {
	if cfg.URL == "" {
		return nil, &domain.ValidationError{Field: "url", Reason: "empty socket url"}
	}
	userID, err := IdentityFromToken(cfg.Token)
	if err != nil {
		return nil, err
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.Token)

	conn, resp, err := dialer.Dial(cfg.URL, header)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, &domain.AuthError{Reason: "credential rejected by channel"}
		}
		return nil, &domain.TransportError{Op: "dial " + cfg.URL, Cause: err}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		id:       uuid.NewString(),
		userID:   userID,
		conn:     conn,
		m:        cfg.Metrics,
		handlers: make(map[EventKind]handlerEntry),
		done:     make(chan struct{}),
	}
	s.logger = logger.With("session_id", s.id, "user_id", userID)
	s.m.SessionOpened()

	go s.readLoop()
	return s, nil
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

// Done is closed when the read loop exits, whether by Close or by a
// transport failure.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) readLoop() {
	defer close(s.done)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.markClosed()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("realtime channel closed", "error", err.Error())
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			s.logger.Warn("dropping malformed frame", "error", err.Error())
			continue
		}
		s.dispatch(EventKind(env.Event), env.Data)
	}
}

func (s *Session) dispatch(kind EventKind, data json.RawMessage) {
	s.m.SocketEvent(string(kind))

	s.mu.Lock()
	entry, ok := s.handlers[kind]
	s.mu.Unlock()
	if !ok {
		return
	}
	// Called outside the lock, but from the single read loop goroutine:
	// handlers of one session are serial.
	entry.fn(data)
}

// Subscription identifies one registered handler. Cancelling it removes
// the handler only if it has not been replaced since.
type Subscription struct {
	s    *Session
	kind EventKind
	seq  uint64
}

func (sub *Subscription) Cancel() {
	if sub == nil || sub.s == nil {
		return
	}
	sub.s.mu.Lock()
	defer sub.s.mu.Unlock()
	if entry, ok := sub.s.handlers[sub.kind]; ok && entry.seq == sub.seq {
		delete(sub.s.handlers, sub.kind)
	}
}

// Subscribe registers a handler for an inbound event kind. Subscribing
// again for the same kind replaces the previous handler, so an event is
// never delivered twice.
func (s *Session) Subscribe(kind EventKind, fn func(json.RawMessage)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.handlers[kind] = handlerEntry{seq: s.seq, fn: fn}
	return &Subscription{s: s, kind: kind, seq: s.seq}
}

func (s *Session) decodeTo(kind EventKind, data json.RawMessage, out any) bool {
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("dropping undecodable event", "event", string(kind), "error", err.Error())
		return false
	}
	return true
}

func (s *Session) OnNewMessage(fn func(domain.Message)) *Subscription {
	return s.Subscribe(EventNewMessage, func(raw json.RawMessage) {
		var m domain.Message
		if s.decodeTo(EventNewMessage, raw, &m) {
			fn(m)
		}
	})
}

func (s *Session) OnMessageRead(fn func(ReadReceipt)) *Subscription {
	return s.Subscribe(EventMessageRead, func(raw json.RawMessage) {
		var r ReadReceipt
		if s.decodeTo(EventMessageRead, raw, &r) {
			fn(r)
		}
	})
}

func (s *Session) OnUserTyping(fn func(TypingEvent)) *Subscription {
	return s.Subscribe(EventUserTyping, func(raw json.RawMessage) {
		var t TypingEvent
		if s.decodeTo(EventUserTyping, raw, &t) {
			fn(t)
		}
	})
}

func (s *Session) OnUserStoppedTyping(fn func(TypingEvent)) *Subscription {
	return s.Subscribe(EventUserStoppedTyping, func(raw json.RawMessage) {
		var t TypingEvent
		if s.decodeTo(EventUserStoppedTyping, raw, &t) {
			fn(t)
		}
	})
}

func (s *Session) OnNewNotification(fn func(domain.Notification)) *Subscription {
	return s.Subscribe(EventNewNotification, func(raw json.RawMessage) {
		var n domain.Notification
		if s.decodeTo(EventNewNotification, raw, &n) {
			fn(n)
		}
	})
}

// Emit sends an outbound event. On a closed or failing connection the
// event is dropped silently by contract; there is no queueing.
func (s *Session) Emit(event string, data any) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		s.m.EmitDropped()
		s.logger.Debug("emit dropped, session closed", "event", event)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("emit dropped, unmarshalable payload", "event", event, "error", err.Error())
		return
	}

	s.writeMu.Lock()
	err = s.conn.WriteJSON(Envelope{Event: event, Data: payload})
	s.writeMu.Unlock()
	if err != nil {
		s.markClosed()
		s.m.EmitDropped()
		s.logger.Debug("emit dropped, write failed", "event", event, "error", err.Error())
		return
	}
	s.m.SocketEmit(event)
}

func (s *Session) JoinConversation(conversationID string) {
	s.Emit(emitJoinConversation, conversationID)
}

func (s *Session) LeaveConversation(conversationID string) {
	s.Emit(emitLeaveConversation, conversationID)
}

func (s *Session) JoinOrderRoom(orderID string) {
	s.Emit(emitJoinOrderRoom, orderID)
}

func (s *Session) LeaveOrderRoom(orderID string) {
	s.Emit(emitLeaveOrderRoom, orderID)
}

func (s *Session) TypingStart(conversationID, receiverID string) {
	s.Emit(emitTypingStart, typingEmit{ConversationID: conversationID, ReceiverID: receiverID})
}

func (s *Session) TypingStop(conversationID, receiverID string) {
	s.Emit(emitTypingStop, typingEmit{ConversationID: conversationID, ReceiverID: receiverID})
}

func (s *Session) MarkNotificationRead(notificationID string) {
	s.Emit(emitMarkNotificationRead, notificationID)
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Close tears the session down. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.conn.Close()
}

var _ domain.SessionPort = (*Session)(nil)
