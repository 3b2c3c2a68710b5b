package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// RequestRevision records a buyer rework request. The allowance comes
// from the frozen package snapshot, never the live gig; requests past it
// fail with ErrRevisionLimitExceeded and mutate nothing.
func (uc *DefaultOrderUsecase) RequestRevision(ctx context.Context, orderID, message string) (*domain.Order, error) {
	if message == "" {
		return nil, &domain.ValidationError{Field: "message", Reason: "revision message is empty"}
	}

	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := order.ValidateTransition(domain.StatusRevisionRequested); err != nil {
		return nil, uc.rejectTransition(err)
	}

	fresh, err := uc.Gateway.RequestRevision(ctx, orderID, message)
	if err != nil {
		return nil, uc.afterCommandError(ctx, orderID, err)
	}
	return uc.Reconcile(fresh), nil
}
