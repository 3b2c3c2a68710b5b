package usecase

import (
	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// ApplyResolution applies a moderation outcome pushed by the platform.
// The outcome is never guessed locally: complete and refund name the
// terminal state the parent re-enters, dismissed closes the dispute and
// resumes the state the order was frozen in.
func (uc *DefaultDisputeUsecase) ApplyResolution(orderID string, outcome domain.ResolutionOutcome, resolution string) error {
	var applied domain.OrderStatus

	err := uc.Store.Update(orderID, func(o *domain.Order) error {
		if o.Dispute == nil || o.Dispute.Status != domain.DisputeOpen {
			return domain.ErrNoOpenDispute
		}
		if o.Status != domain.StatusDisputed {
			return &domain.InvalidTransitionError{
				OrderID: orderID, From: o.Status, Attempted: domain.StatusDisputed,
				Reason: "dispute record open but order not frozen",
			}
		}

		now := uc.Clock.Now()
		o.Dispute.Resolution = resolution
		o.Dispute.Outcome = outcome
		o.Dispute.ResolvedAt = &now

		switch outcome {
		case domain.OutcomeComplete:
			o.Dispute.Status = domain.DisputeResolved
			o.Status = domain.StatusCompleted
			o.CompletedAt = &now
		case domain.OutcomeRefund:
			o.Dispute.Status = domain.DisputeResolved
			o.Status = domain.StatusCancelled
			o.PaymentStatus = domain.PaymentRefunded
		case domain.OutcomeDismissed:
			o.Dispute.Status = domain.DisputeClosed
			prior := o.Dispute.PriorStatus
			if prior == "" || prior == domain.StatusDisputed {
				prior = domain.StatusInProgress
			}
			o.Status = prior
		default:
			return &domain.ValidationError{Field: "outcome", Reason: "unknown resolution outcome"}
		}
		applied = o.Status
		return nil
	})
	if err != nil {
		return err
	}

	uc.Metrics.TransitionApplied(string(applied))
	uc.Logger.Info("dispute resolved", "order_id", orderID, "outcome", string(outcome), "status", string(applied))

	// A dismissed dispute can resume a delivered order; the grace timer
	// has to come back with it.
	if o, ok := uc.Store.Get(orderID); ok {
		uc.Orders.Reconcile(o)
	}
	return nil
}
