package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// RequestCancellation opens a mutual-cancellation request. Only allowed
// before delivery; the order keeps its status until the other party
// responds.
func (uc *DefaultOrderUsecase) RequestCancellation(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	if reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Reason: "cancellation reason is empty"}
	}

	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := order.ValidateTransition(domain.StatusCancelled); err != nil {
		return nil, uc.rejectTransition(err)
	}

	fresh, err := uc.Gateway.RequestCancellation(ctx, orderID, reason)
	if err != nil {
		return nil, uc.afterCommandError(ctx, orderID, err)
	}
	return uc.Reconcile(fresh), nil
}

// ResolveCancellation approves or declines a pending request. Approval
// moves the order to cancelled; decline clears the request and the
// order resumes as it was.
func (uc *DefaultOrderUsecase) ResolveCancellation(ctx context.Context, orderID string, approve bool) (*domain.Order, error) {
	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Cancellation == nil {
		return nil, domain.ErrNoPendingCancellation
	}
	if approve {
		if err := order.ValidateTransition(domain.StatusCancelled); err != nil {
			return nil, uc.rejectTransition(err)
		}
	}

	fresh, err := uc.Gateway.ResolveCancellation(ctx, orderID, approve)
	if err != nil {
		return nil, uc.afterCommandError(ctx, orderID, err)
	}
	return uc.Reconcile(fresh), nil
}
