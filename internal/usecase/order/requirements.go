package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// SubmitRequirements answers the gig's requirement questions and moves
// the order into work.
func (uc *DefaultOrderUsecase) SubmitRequirements(ctx context.Context, orderID string, answers []domain.RequirementAnswer) (*domain.Order, error) {
	if len(answers) == 0 {
		return nil, &domain.ValidationError{Field: "requirements", Reason: "no answers provided"}
	}

	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusRequirementsPending {
		return nil, uc.rejectTransition(&domain.InvalidTransitionError{
			OrderID: orderID, From: order.Status, Attempted: domain.StatusInProgress,
			Reason: "requirements not expected",
		})
	}
	if err := order.ValidateTransition(domain.StatusInProgress); err != nil {
		return nil, uc.rejectTransition(err)
	}

	fresh, err := uc.Gateway.SubmitRequirements(ctx, orderID, answers)
	if err != nil {
		return nil, uc.afterCommandError(ctx, orderID, err)
	}
	return uc.Reconcile(fresh), nil
}
