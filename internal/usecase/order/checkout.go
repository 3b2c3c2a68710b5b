package usecase

import (
	"context"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// Quote computes the money split for a package at the configured fee
// rate. The invariant netAmount + serviceFee == totalAmount holds by
// construction.
func (uc *DefaultOrderUsecase) Quote(pkg domain.PackageSnapshot) (total, fee, net float64) {
	fee = domain.ServiceFeeFor(pkg.Price, uc.FeeRate)
	total = pkg.Price + fee
	net = pkg.Price
	return total, fee, net
}

// Checkout requests a hosted payment session for a gig package. The
// host performs a full navigation to the returned URL; payment
// confirmation arrives later as an order status change.
func (uc *DefaultOrderUsecase) Checkout(ctx context.Context, gig *domain.Gig, tier domain.PackageTier) (*domain.CheckoutSession, error) {
	if gig == nil || gig.ID == "" {
		return nil, &domain.ValidationError{Field: "gig", Reason: "missing gig"}
	}
	if _, ok := gig.Pricing[tier]; !ok {
		return nil, &domain.ValidationError{Field: "package", Reason: "gig does not offer this package"}
	}

	session, err := uc.Gateway.CreateCheckoutSession(ctx, gig.ID, tier)
	if err != nil {
		return nil, err
	}
	uc.Logger.Info("checkout session created", "order_id", session.OrderID, "gig_id", gig.ID)
	return session, nil
}

// ConfirmPayment applies the payment-confirmed edge to the cached
// order: pending moves to requirements_pending when the gig snapshot
// defines requirement questions, straight to in_progress otherwise.
// Applying it twice is a no-op, so the REST refetch and a pushed status
// change cannot double-fire.
func (uc *DefaultOrderUsecase) ConfirmPayment(orderID string) error {
	err := uc.Store.Update(orderID, func(o *domain.Order) error {
		if o.PaymentStatus == domain.PaymentPaid && o.Status != domain.StatusPending {
			return nil
		}
		o.PaymentStatus = domain.PaymentPaid
		target := o.PaymentConfirmedTarget()
		if err := o.ApplyTransition(target); err != nil {
			return err
		}
		due := o.ComputeDeliveryDate(o.CreatedAt)
		o.DeliveryDate = &due
		uc.Metrics.TransitionApplied(string(target))
		return nil
	})
	if err != nil {
		return uc.rejectTransition(err)
	}
	return nil
}
