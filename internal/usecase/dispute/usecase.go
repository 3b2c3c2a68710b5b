package usecase

import (
	"context"
	"log/slog"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/clock"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/metrics"
	orderuc "github.com/YaroslavBek/gigfair-core/internal/usecase/order"
)

type DisputeUsecase interface {
	RaiseDispute(ctx context.Context, orderID, reason, description string) (*domain.Order, error)
	ApplyResolution(orderID string, outcome domain.ResolutionOutcome, resolution string) error
	GetDispute(orderID string) (*domain.Dispute, error)
}

// DefaultDisputeUsecase drives the nested dispute machine. Raising a
// dispute freezes the parent order in disputed; resolution is owned by
// external moderation and arrives with an explicit outcome naming the
// state the parent re-enters.
type DefaultDisputeUsecase struct {
	Store   *orderuc.Store
	Orders  *orderuc.DefaultOrderUsecase
	Gateway domain.OrderGateway
	Clock   clock.Clock
	Metrics *metrics.CoreMetrics
	Logger  *slog.Logger
}

func NewDefaultDisputeUsecase(
	store *orderuc.Store,
	orders *orderuc.DefaultOrderUsecase,
	gateway domain.OrderGateway,
	clk clock.Clock,
	coreMetrics *metrics.CoreMetrics) *DefaultDisputeUsecase {

	return &DefaultDisputeUsecase{
		Store:   store,
		Orders:  orders,
		Gateway: gateway,
		Clock:   clk,
		Metrics: coreMetrics,
		Logger:  slog.Default(),
	}
}

func (uc *DefaultDisputeUsecase) GetDispute(orderID string) (*domain.Dispute, error) {
	order, ok := uc.Store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Dispute == nil {
		return nil, domain.ErrNoOpenDispute
	}
	return order.Dispute, nil
}
