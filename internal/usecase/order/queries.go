package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// Sync fetches the authoritative order list and replaces the cache.
// Delivered orders get their auto-complete timers re-armed, including
// windows that elapsed while this client was offline.
func (uc *DefaultOrderUsecase) Sync(ctx context.Context) error {
	orders, err := uc.Gateway.ListOrders(ctx)
	if err != nil {
		return err
	}
	uc.Store.ReplaceAll(orders)
	uc.Metrics.Refetch("orders")

	for _, o := range orders {
		if o.Status == domain.StatusDelivered {
			uc.scheduleAutoComplete(o)
		}
	}
	return nil
}

func (uc *DefaultOrderUsecase) GetOrder(orderID string) (*domain.Order, error) {
	o, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (uc *DefaultOrderUsecase) ListOrders() []*domain.Order {
	return uc.Store.List()
}

// RescanAutoComplete sweeps the cache for delivered orders whose grace
// window already elapsed and fires them. Run periodically as a safety
// net for timers lost to process restarts.
func (uc *DefaultOrderUsecase) RescanAutoComplete() error {
	now := uc.Clock.Now()
	for _, o := range uc.Store.List() {
		if o.Status != domain.StatusDelivered {
			continue
		}
		at := o.AutoCompleteAt
		if at == nil && o.DeliveryDate != nil {
			t := o.DeliveryDate.Add(uc.Grace)
			at = &t
		}
		if at != nil && !at.After(now) {
			uc.AutoComplete(o.ID)
		}
	}
	return nil
}

// MarkReviewed flags the caller's side of a completed order as
// reviewed. Reviews on open orders are rejected by the server; the
// local guard keeps the round trip from happening at all.
func (uc *DefaultOrderUsecase) MarkReviewed(ctx context.Context, orderID string) (*domain.Order, error) {
	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusCompleted {
		return nil, uc.rejectTransition(&domain.InvalidTransitionError{
			OrderID: orderID, From: order.Status, Attempted: domain.StatusCompleted,
			Reason: "only completed orders can be reviewed",
		})
	}

	fresh, err := uc.Gateway.MarkReviewed(ctx, orderID)
	if err != nil {
		return nil, uc.afterCommandError(ctx, orderID, err)
	}
	return uc.Reconcile(fresh), nil
}
