package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// Deliver submits completed work against the order and appends a
// Delivery to the ledger. Allowed from in_progress and
// revision_requested; a delivery made in answer to a revision also
// pushes the due date out by the package's delivery window.
func (uc *DefaultOrderUsecase) Deliver(ctx context.Context, orderID, message string, files []domain.FileAttachment) (*domain.Order, error) {
	if message == "" {
		return nil, &domain.ValidationError{Field: "message", Reason: "delivery message is empty"}
	}

	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := order.ValidateTransition(domain.StatusDelivered); err != nil {
		return nil, uc.rejectTransition(err)
	}

	fresh, err := uc.Gateway.Deliver(ctx, orderID, message, files)
	if err != nil {
		return nil, uc.afterCommandError(ctx, orderID, err)
	}
	return uc.Reconcile(fresh), nil
}
