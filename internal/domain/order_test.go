package domain

import (
	"errors"
	"testing"
	"time"
)

func paidOrder(status OrderStatus) *Order {
	return &Order{
		ID:            "order-1",
		Buyer:         IDRef[User]("buyer-1"),
		Seller:        IDRef[User]("seller-1"),
		Status:        status,
		PaymentStatus: PaymentPaid,
		Package:       PackageSnapshot{Title: "Logo design", Price: 100, DeliveryTime: 3, Revisions: 2},
	}
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to requirements", StatusPending, StatusRequirementsPending, true},
		{"pending to in progress", StatusPending, StatusInProgress, true},
		{"requirements to in progress", StatusRequirementsPending, StatusInProgress, true},
		{"in progress to delivered", StatusInProgress, StatusDelivered, true},
		{"delivered to revision", StatusDelivered, StatusRevisionRequested, true},
		{"revision to delivered", StatusRevisionRequested, StatusDelivered, true},
		{"in progress to cancelled", StatusInProgress, StatusCancelled, true},
		{"delivered to disputed", StatusDelivered, StatusDisputed, true},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"in progress to completed", StatusInProgress, StatusCompleted, false},
		{"delivered to cancelled", StatusDelivered, StatusCancelled, false},
		{"revision to completed", StatusRevisionRequested, StatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := paidOrder(tc.from)
			o.Deliveries = []Delivery{{Message: "first pass", DeliveredAt: time.Now()}}
			err := o.ValidateTransition(tc.to)
			if tc.allowed && err != nil {
				t.Fatalf("expected %s -> %s allowed, got %v", tc.from, tc.to, err)
			}
			if !tc.allowed && err == nil {
				t.Fatalf("expected %s -> %s rejected", tc.from, tc.to)
			}
		})
	}
}

func TestValidateTransition_TerminalIsClosed(t *testing.T) {
	for _, status := range []OrderStatus{StatusCompleted, StatusCancelled} {
		o := paidOrder(status)
		err := o.ValidateTransition(StatusDelivered)
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransitionError from %s, got %v", status, err)
		}
		if invalid.From != status {
			t.Errorf("expected From=%s, got %s", status, invalid.From)
		}
	}
}

func TestValidateTransition_DisputedFreezes(t *testing.T) {
	o := paidOrder(StatusDisputed)
	o.Deliveries = []Delivery{{Message: "first pass", DeliveredAt: time.Now()}}
	for _, to := range []OrderStatus{StatusDelivered, StatusRevisionRequested, StatusCompleted, StatusCancelled} {
		var invalid *InvalidTransitionError
		if err := o.ValidateTransition(to); !errors.As(err, &invalid) {
			t.Errorf("expected disputed order to reject %s, got %v", to, err)
		}
	}
}

func TestValidateTransition_PaymentGuard(t *testing.T) {
	o := paidOrder(StatusPending)
	o.PaymentStatus = PaymentPending
	if err := o.ValidateTransition(StatusInProgress); err == nil {
		t.Fatal("expected unpaid order to reject in_progress")
	}
}

func TestValidateTransition_CompletedNeedsDelivery(t *testing.T) {
	o := paidOrder(StatusDelivered)
	if err := o.ValidateTransition(StatusCompleted); err == nil {
		t.Fatal("expected completion without deliveries to be rejected")
	}
	o.Deliveries = []Delivery{{Message: "first pass", DeliveredAt: time.Now()}}
	if err := o.ValidateTransition(StatusCompleted); err != nil {
		t.Fatalf("expected completion with a delivery allowed, got %v", err)
	}
}

func TestValidateTransition_RevisionQuota(t *testing.T) {
	o := paidOrder(StatusDelivered)
	o.Package.Revisions = 1
	if err := o.ValidateTransition(StatusRevisionRequested); err != nil {
		t.Fatalf("first revision should be allowed, got %v", err)
	}
	o.Revisions = []Revision{{Message: "tweak colors", RequestedAt: time.Now()}}
	if err := o.ValidateTransition(StatusRevisionRequested); !errors.Is(err, ErrRevisionLimitExceeded) {
		t.Fatalf("expected ErrRevisionLimitExceeded, got %v", err)
	}
	if o.Status != StatusDelivered {
		t.Errorf("rejected transition must not mutate status, got %s", o.Status)
	}
}

func TestPaymentConfirmedTarget(t *testing.T) {
	o := paidOrder(StatusPending)
	o.Gig = ResolvedRef(Gig{ID: "gig-1"})
	if got := o.PaymentConfirmedTarget(); got != StatusInProgress {
		t.Errorf("no requirement questions: expected in_progress, got %s", got)
	}

	o.Gig = ResolvedRef(Gig{ID: "gig-1", Requirements: []RequirementQuestion{{Question: "Brand name?"}}})
	if got := o.PaymentConfirmedTarget(); got != StatusRequirementsPending {
		t.Errorf("with requirement questions: expected requirements_pending, got %s", got)
	}

	// Unresolved gig ref: no question list to consult.
	o.Gig = IDRef[Gig]("gig-1")
	if got := o.PaymentConfirmedTarget(); got != StatusInProgress {
		t.Errorf("unresolved gig: expected in_progress, got %s", got)
	}
}

func TestComputeDeliveryDate(t *testing.T) {
	o := paidOrder(StatusInProgress)
	from := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	if got := o.ComputeDeliveryDate(from); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAmountsConsistent(t *testing.T) {
	o := paidOrder(StatusPending)
	o.NetAmount = 100
	o.ServiceFee = ServiceFeeFor(100, 0.05)
	o.TotalAmount = 105
	if !o.AmountsConsistent() {
		t.Error("expected 100 + 5 == 105 to be consistent")
	}
	o.TotalAmount = 106
	if o.AmountsConsistent() {
		t.Error("expected mismatched totals to be inconsistent")
	}
}

func TestServiceFeeFor_RoundsToCents(t *testing.T) {
	if got := ServiceFeeFor(33.33, 0.05); got != 1.67 {
		t.Errorf("expected 1.67, got %v", got)
	}
}

func TestOtherParty(t *testing.T) {
	o := paidOrder(StatusPending)
	if got := o.OtherParty("buyer-1"); got != "seller-1" {
		t.Errorf("expected seller-1, got %s", got)
	}
	if got := o.OtherParty("seller-1"); got != "buyer-1" {
		t.Errorf("expected buyer-1, got %s", got)
	}
}
