package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/clock"
	orderuc "github.com/YaroslavBek/gigfair-core/internal/usecase/order"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// disputeGateway implements the order gateway for dispute flows only.
type disputeGateway struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	now    func() time.Time
}

func (g *disputeGateway) snapshot(orderID string) (*domain.Order, error) {
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (g *disputeGateway) RaiseDispute(ctx context.Context, orderID, reason, description string) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Dispute = &domain.Dispute{
		Reason: reason, Description: description, RaisedBy: o.Buyer.ID,
		RaisedAt: g.now(), Status: domain.DisputeOpen, PriorStatus: o.Status,
	}
	o.Status = domain.StatusDisputed
	return g.snapshot(orderID)
}

func (g *disputeGateway) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot(orderID)
}

func (g *disputeGateway) Deliver(ctx context.Context, orderID, message string, files []domain.FileAttachment) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Deliveries = append(o.Deliveries, domain.Delivery{Message: message, DeliveredAt: g.now()})
	o.Status = domain.StatusDelivered
	return g.snapshot(orderID)
}

func (g *disputeGateway) AcceptDelivery(ctx context.Context, orderID string) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	now := g.now()
	o.Status = domain.StatusCompleted
	o.CompletedAt = &now
	return g.snapshot(orderID)
}

func (g *disputeGateway) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return nil, nil
}

func (g *disputeGateway) CreateCheckoutSession(ctx context.Context, gigID string, tier domain.PackageTier) (*domain.CheckoutSession, error) {
	return nil, errors.New("not supported")
}

func (g *disputeGateway) SubmitRequirements(ctx context.Context, orderID string, answers []domain.RequirementAnswer) (*domain.Order, error) {
	return nil, errors.New("not supported")
}

func (g *disputeGateway) RequestRevision(ctx context.Context, orderID, message string) (*domain.Order, error) {
	return nil, errors.New("not supported")
}

func (g *disputeGateway) RequestCancellation(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	return nil, errors.New("not supported")
}

func (g *disputeGateway) ResolveCancellation(ctx context.Context, orderID string, approve bool) (*domain.Order, error) {
	return nil, errors.New("not supported")
}

func (g *disputeGateway) MarkReviewed(ctx context.Context, orderID string) (*domain.Order, error) {
	return nil, errors.New("not supported")
}

var _ domain.OrderGateway = (*disputeGateway)(nil)

func deliveredOrder() *domain.Order {
	due := testStart.Add(3 * 24 * time.Hour)
	return &domain.Order{
		ID:            "order-1",
		Buyer:         domain.IDRef[domain.User]("buyer-1"),
		Seller:        domain.IDRef[domain.User]("seller-1"),
		Status:        domain.StatusDelivered,
		PaymentStatus: domain.PaymentPaid,
		Package:       domain.PackageSnapshot{Price: 100, DeliveryTime: 3, Revisions: 1},
		DeliveryDate:  &due,
		Deliveries:    []domain.Delivery{{Message: "first pass", DeliveredAt: testStart}},
		CreatedAt:     testStart,
	}
}

func newTestUsecase(t *testing.T, order *domain.Order) (*DefaultDisputeUsecase, *orderuc.DefaultOrderUsecase, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(testStart)
	gw := &disputeGateway{orders: map[string]*domain.Order{}, now: clk.Now}
	c := *order
	gw.orders[order.ID] = &c

	store := orderuc.NewStore()
	store.Put(order)
	orders := orderuc.NewDefaultOrderUsecase(store, gw, nil, clk, nil, 72*time.Hour, 0.05)
	uc := NewDefaultDisputeUsecase(store, orders, gw, clk, nil)
	return uc, orders, clk
}

func TestRaiseDispute(t *testing.T) {
	t.Run("freezes the order and disarms auto-complete", func(t *testing.T) {
		uc, orders, clk := newTestUsecase(t, deliveredOrder())
		if err := orders.Sync(context.Background()); err != nil {
			t.Fatal(err)
		}
		if clk.Pending() != 1 {
			t.Fatalf("expected one armed timer, got %d", clk.Pending())
		}

		fresh, err := uc.RaiseDispute(context.Background(), "order-1", "not as described", "wrong colors everywhere")
		if err != nil {
			t.Fatal(err)
		}
		if fresh.Status != domain.StatusDisputed {
			t.Fatalf("expected disputed, got %s", fresh.Status)
		}
		if fresh.Dispute == nil || fresh.Dispute.Status != domain.DisputeOpen {
			t.Fatalf("expected open dispute record, got %+v", fresh.Dispute)
		}
		if fresh.Dispute.PriorStatus != domain.StatusDelivered {
			t.Errorf("expected prior status delivered, got %s", fresh.Dispute.PriorStatus)
		}
		if clk.Pending() != 0 {
			t.Errorf("frozen order must not keep an auto-complete timer, %d pending", clk.Pending())
		}

		// The grace window elapsing changes nothing while frozen.
		clk.Advance(30 * 24 * time.Hour)
		got, _ := orders.GetOrder("order-1")
		if got.Status != domain.StatusDisputed {
			t.Errorf("expected still disputed, got %s", got.Status)
		}
	})

	t.Run("frozen order rejects lifecycle actions", func(t *testing.T) {
		uc, orders, _ := newTestUsecase(t, deliveredOrder())
		if _, err := uc.RaiseDispute(context.Background(), "order-1", "not as described", ""); err != nil {
			t.Fatal(err)
		}

		var invalid *domain.InvalidTransitionError
		if _, err := orders.Deliver(context.Background(), "order-1", "fixed", nil); !errors.As(err, &invalid) {
			t.Errorf("expected delivery on disputed order rejected, got %v", err)
		}
		if _, err := orders.AcceptDelivery(context.Background(), "order-1"); !errors.As(err, &invalid) {
			t.Errorf("expected accept on disputed order rejected, got %v", err)
		}
		if _, err := orders.RequestRevision(context.Background(), "order-1", "again"); !errors.As(err, &invalid) {
			t.Errorf("expected revision on disputed order rejected, got %v", err)
		}
	})

	t.Run("empty reason rejected", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t, deliveredOrder())
		var verr *domain.ValidationError
		if _, err := uc.RaiseDispute(context.Background(), "order-1", "", ""); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("terminal order rejected", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = domain.StatusCompleted
		uc, _, _ := newTestUsecase(t, order)
		var invalid *domain.InvalidTransitionError
		if _, err := uc.RaiseDispute(context.Background(), "order-1", "late", ""); !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})
}

func raiseFirst(t *testing.T, uc *DefaultDisputeUsecase) {
	t.Helper()
	if _, err := uc.RaiseDispute(context.Background(), "order-1", "not as described", ""); err != nil {
		t.Fatal(err)
	}
}

func TestApplyResolution(t *testing.T) {
	t.Run("complete closes the order in the seller's favor", func(t *testing.T) {
		uc, orders, _ := newTestUsecase(t, deliveredOrder())
		raiseFirst(t, uc)

		if err := uc.ApplyResolution("order-1", domain.OutcomeComplete, "work meets the brief"); err != nil {
			t.Fatal(err)
		}
		got, _ := orders.GetOrder("order-1")
		if got.Status != domain.StatusCompleted {
			t.Fatalf("expected completed, got %s", got.Status)
		}
		if got.Dispute.Status != domain.DisputeResolved || got.CompletedAt == nil {
			t.Errorf("expected resolved dispute and completion stamp, got %+v", got.Dispute)
		}
	})

	t.Run("refund cancels and refunds", func(t *testing.T) {
		uc, orders, _ := newTestUsecase(t, deliveredOrder())
		raiseFirst(t, uc)

		if err := uc.ApplyResolution("order-1", domain.OutcomeRefund, "work not delivered as sold"); err != nil {
			t.Fatal(err)
		}
		got, _ := orders.GetOrder("order-1")
		if got.Status != domain.StatusCancelled {
			t.Fatalf("expected cancelled, got %s", got.Status)
		}
		if got.PaymentStatus != domain.PaymentRefunded {
			t.Errorf("expected refunded payment, got %s", got.PaymentStatus)
		}
	})

	t.Run("dismissed resumes the prior state and re-arms the timer", func(t *testing.T) {
		uc, orders, clk := newTestUsecase(t, deliveredOrder())
		raiseFirst(t, uc)

		if err := uc.ApplyResolution("order-1", domain.OutcomeDismissed, "no grounds"); err != nil {
			t.Fatal(err)
		}
		got, _ := orders.GetOrder("order-1")
		if got.Status != domain.StatusDelivered {
			t.Fatalf("expected delivered resumed, got %s", got.Status)
		}
		if got.Dispute.Status != domain.DisputeClosed {
			t.Errorf("expected closed dispute, got %s", got.Dispute.Status)
		}
		if clk.Pending() != 1 {
			t.Errorf("resumed delivered order needs its grace timer back, %d pending", clk.Pending())
		}
	})

	t.Run("no open dispute", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t, deliveredOrder())
		err := uc.ApplyResolution("order-1", domain.OutcomeComplete, "")
		if !errors.Is(err, domain.ErrNoOpenDispute) {
			t.Fatalf("expected ErrNoOpenDispute, got %v", err)
		}
	})

	t.Run("unknown outcome", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t, deliveredOrder())
		raiseFirst(t, uc)
		var verr *domain.ValidationError
		if err := uc.ApplyResolution("order-1", "split", "half refund"); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestGetDispute(t *testing.T) {
	uc, _, _ := newTestUsecase(t, deliveredOrder())
	if _, err := uc.GetDispute("order-1"); !errors.Is(err, domain.ErrNoOpenDispute) {
		t.Fatalf("expected ErrNoOpenDispute, got %v", err)
	}
	raiseFirst(t, uc)
	d, err := uc.GetDispute("order-1")
	if err != nil {
		t.Fatal(err)
	}
	if d.Reason != "not as described" {
		t.Errorf("unexpected dispute: %+v", d)
	}
}
