package usecase

import (
	"context"
	"errors"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// RaiseDispute freezes the order. Allowed from any non-terminal state;
// while the dispute stays open every normal lifecycle action is
// rejected with InvalidTransition.
func (uc *DefaultDisputeUsecase) RaiseDispute(ctx context.Context, orderID, reason, description string) (*domain.Order, error) {
	if reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Reason: "dispute reason is empty"}
	}

	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := order.ValidateTransition(domain.StatusDisputed); err != nil {
		var invalid *domain.InvalidTransitionError
		if errors.As(err, &invalid) {
			uc.Metrics.TransitionRejected(string(domain.StatusDisputed))
		}
		return nil, err
	}

	fresh, err := uc.Gateway.RaiseDispute(ctx, orderID, reason, description)
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			uc.Metrics.ConflictResync()
			if refetched, ferr := uc.Gateway.GetOrder(ctx, orderID); ferr == nil {
				uc.Orders.Reconcile(refetched)
			}
		}
		return nil, err
	}

	uc.Logger.Info("dispute raised", "order_id", orderID, "prior_status", string(order.Status))
	// Reconcile also stops the auto-complete timer: a frozen order must
	// not complete underneath the moderation process.
	return uc.Orders.Reconcile(fresh), nil
}
