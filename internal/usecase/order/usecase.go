package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/clock"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/metrics"
)

type OrderUsecase interface {
	Checkout(ctx context.Context, gig *domain.Gig, tier domain.PackageTier) (*domain.CheckoutSession, error)
	ConfirmPayment(orderID string) error
	SubmitRequirements(ctx context.Context, orderID string, answers []domain.RequirementAnswer) (*domain.Order, error)
	Deliver(ctx context.Context, orderID, message string, files []domain.FileAttachment) (*domain.Order, error)
	RequestRevision(ctx context.Context, orderID, message string) (*domain.Order, error)
	AcceptDelivery(ctx context.Context, orderID string) (*domain.Order, error)
	AutoComplete(orderID string)
	RequestCancellation(ctx context.Context, orderID, reason string) (*domain.Order, error)
	ResolveCancellation(ctx context.Context, orderID string, approve bool) (*domain.Order, error)
	MarkReviewed(ctx context.Context, orderID string) (*domain.Order, error)

	Sync(ctx context.Context) error
	GetOrder(orderID string) (*domain.Order, error)
	ListOrders() []*domain.Order
	RescanAutoComplete() error

	OpenOrderRoom(orderID string)
	CloseOrderRoom(orderID string)
}

type DefaultOrderUsecase struct {
	Store   *Store
	Gateway domain.OrderGateway
	Session domain.SessionPort
	Clock   clock.Clock
	Metrics *metrics.CoreMetrics
	Logger  *slog.Logger

	// Grace is the window after deliveryDate in which the buyer may
	// still act before the order auto-completes.
	Grace   time.Duration
	FeeRate float64

	timerMu sync.Mutex
	timers  map[string]clock.Timer
}

func NewDefaultOrderUsecase(
	store *Store,
	gateway domain.OrderGateway,
	session domain.SessionPort,
	clk clock.Clock,
	coreMetrics *metrics.CoreMetrics,
	grace time.Duration,
	feeRate float64) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		Store:   store,
		Gateway: gateway,
		Session: session,
		Clock:   clk,
		Metrics: coreMetrics,
		Logger:  slog.Default(),
		Grace:   grace,
		FeeRate: feeRate,
		timers:  make(map[string]clock.Timer),
	}
}

// Reconcile replaces the cached order with an authoritative one and
// keeps the auto-complete timer in step with the new status.
func (uc *DefaultOrderUsecase) Reconcile(fresh *domain.Order) *domain.Order {
	prev, _ := uc.Store.Get(fresh.ID)
	if prev != nil && prev.Status != fresh.Status {
		uc.Metrics.TransitionApplied(string(fresh.Status))
	}
	uc.Store.Put(fresh)

	if fresh.Status == domain.StatusDelivered {
		uc.scheduleAutoComplete(fresh)
	} else {
		uc.stopAutoComplete(fresh.ID)
	}
	return fresh
}

// afterCommandError post-processes a failed gateway call. A conflict
// means the other party already performed the transition: local
// optimistic state is discarded and ground truth refetched. The original
// error is always returned for the caller's inline feedback.
func (uc *DefaultOrderUsecase) afterCommandError(ctx context.Context, orderID string, err error) error {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		uc.Metrics.ConflictResync()
		uc.Metrics.Refetch("order")
		if fresh, ferr := uc.Gateway.GetOrder(ctx, orderID); ferr == nil {
			uc.Reconcile(fresh)
		} else {
			uc.Logger.Warn("conflict resync failed", "order_id", orderID, "error", ferr.Error())
		}
	}
	return err
}

func (uc *DefaultOrderUsecase) rejectTransition(err error) error {
	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) {
		uc.Metrics.TransitionRejected(string(invalid.Attempted))
	}
	return err
}

func (uc *DefaultOrderUsecase) OpenOrderRoom(orderID string) {
	if uc.Session != nil {
		uc.Session.JoinOrderRoom(orderID)
	}
}

func (uc *DefaultOrderUsecase) CloseOrderRoom(orderID string) {
	if uc.Session != nil {
		uc.Session.LeaveOrderRoom(orderID)
	}
}
