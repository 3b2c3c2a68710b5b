package usecase

import (
	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// scheduleOfferExpiry arms a one-shot timer that flips a pending custom
// offer to expired at its deadline. An offer already past deadline is
// expired immediately.
func (a *Aggregator) scheduleOfferExpiry(msg *domain.Message) {
	if msg == nil || msg.CustomOffer == nil || msg.CustomOffer.Status != domain.OfferPending {
		return
	}

	remaining := msg.CustomOffer.ExpiresAt.Sub(a.Clock.Now())
	if remaining <= 0 {
		a.mu.Lock()
		a.expireOfferLocked(msg.ConversationID, msg.ID)
		a.mu.Unlock()
		a.notify()
		return
	}

	conversationID, messageID := msg.ConversationID, msg.ID
	a.mu.Lock()
	if prev, ok := a.offerTimers[messageID]; ok {
		prev.Stop()
	}
	a.offerTimers[messageID] = a.Clock.AfterFunc(remaining, func() {
		a.mu.Lock()
		delete(a.offerTimers, messageID)
		a.expireOfferLocked(conversationID, messageID)
		a.mu.Unlock()
		a.notify()
	})
	a.mu.Unlock()
}

// expireOfferLocked flips the offer to expired if still pending. A race
// with an accept or decline that landed first is a no-op. Caller holds
// the lock.
func (a *Aggregator) expireOfferLocked(conversationID, messageID string) {
	for _, m := range a.messages[conversationID] {
		if m.ID == messageID {
			if m.CustomOffer != nil && m.CustomOffer.Status == domain.OfferPending {
				m.CustomOffer.Status = domain.OfferExpired
			}
			return
		}
	}
}

// ApplyOfferStatus records a server-side offer outcome (accept or
// decline) and disarms the local expiry timer for it.
func (a *Aggregator) ApplyOfferStatus(conversationID, messageID string, status domain.OfferStatus) {
	a.mu.Lock()
	if t, ok := a.offerTimers[messageID]; ok {
		t.Stop()
		delete(a.offerTimers, messageID)
	}
	for _, m := range a.messages[conversationID] {
		if m.ID == messageID && m.CustomOffer != nil {
			m.CustomOffer.Status = status
			break
		}
	}
	a.mu.Unlock()
	a.notify()
}
