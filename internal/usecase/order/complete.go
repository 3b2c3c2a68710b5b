package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// AcceptDelivery is the buyer's manual accept: delivered -> completed.
// It cancels the pending auto-complete timer; if the timer already won
// the race the server reports a conflict and the resync settles it.
func (uc *DefaultOrderUsecase) AcceptDelivery(ctx context.Context, orderID string) (*domain.Order, error) {
	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := order.ValidateTransition(domain.StatusCompleted); err != nil {
		return nil, uc.rejectTransition(err)
	}

	fresh, err := uc.Gateway.AcceptDelivery(ctx, orderID)
	if err != nil {
		return nil, uc.afterCommandError(ctx, orderID, err)
	}
	uc.stopAutoComplete(orderID)
	return uc.Reconcile(fresh), nil
}

// AutoComplete is the timer callback for the grace-window transition.
// The guard inside Update makes it exactly-once: whichever of the timer
// and a manual accept lands second sees a non-delivered status and
// becomes a no-op.
func (uc *DefaultOrderUsecase) AutoComplete(orderID string) {
	fired := false
	err := uc.Store.Update(orderID, func(o *domain.Order) error {
		if o.Status != domain.StatusDelivered {
			return nil
		}
		now := uc.Clock.Now()
		o.Status = domain.StatusCompleted
		o.CompletedAt = &now
		fired = true
		return nil
	})
	if err != nil || !fired {
		return
	}
	uc.stopAutoComplete(orderID)
	uc.Metrics.AutoCompleteFired()
	uc.Metrics.TransitionApplied(string(domain.StatusCompleted))
	uc.Logger.Info("order auto-completed", "order_id", orderID)

	// Confirm with the collaborator in the background. A conflict only
	// means the server beat us to it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := uc.Gateway.AcceptDelivery(ctx, orderID); err != nil {
			var conflict *domain.ConflictError
			if !errors.As(err, &conflict) {
				uc.Logger.Warn("auto-complete confirmation failed", "order_id", orderID, "error", err.Error())
			}
		}
	}()
}

// scheduleAutoComplete (re)arms the grace-window timer for a delivered
// order. Superseding timers are stopped first so a reschedule never
// leaves a stale callback behind.
func (uc *DefaultOrderUsecase) scheduleAutoComplete(order *domain.Order) {
	at := order.AutoCompleteAt
	if at == nil && order.DeliveryDate != nil {
		t := order.DeliveryDate.Add(uc.Grace)
		at = &t
	}
	if at == nil {
		return
	}

	delay := at.Sub(uc.Clock.Now())
	if delay < 0 {
		delay = 0
	}
	orderID := order.ID

	uc.timerMu.Lock()
	defer uc.timerMu.Unlock()
	if old, ok := uc.timers[orderID]; ok {
		old.Stop()
	}
	uc.timers[orderID] = uc.Clock.AfterFunc(delay, func() {
		uc.AutoComplete(orderID)
	})
}

func (uc *DefaultOrderUsecase) stopAutoComplete(orderID string) {
	uc.timerMu.Lock()
	defer uc.timerMu.Unlock()
	if t, ok := uc.timers[orderID]; ok {
		t.Stop()
		delete(uc.timers, orderID)
	}
}

// StopAllTimers clears every pending auto-complete callback. Called on
// teardown so nothing fires against obsolete state.
func (uc *DefaultOrderUsecase) StopAllTimers() {
	uc.timerMu.Lock()
	defer uc.timerMu.Unlock()
	for id, t := range uc.timers {
		t.Stop()
		delete(uc.timers, id)
	}
}
