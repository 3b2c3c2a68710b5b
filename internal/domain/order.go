package domain

import (
	"math"
	"time"
)

type OrderStatus string

const (
	StatusPending             OrderStatus = "pending"
	StatusRequirementsPending OrderStatus = "requirements_pending"
	StatusInProgress          OrderStatus = "in_progress"
	StatusDelivered           OrderStatus = "delivered"
	StatusRevisionRequested   OrderStatus = "revision_requested"
	StatusCompleted           OrderStatus = "completed"
	StatusCancelled           OrderStatus = "cancelled"
	StatusDisputed            OrderStatus = "disputed"
)

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type PackageTier string

const (
	TierBasic    PackageTier = "basic"
	TierStandard PackageTier = "standard"
	TierPremium  PackageTier = "premium"
)

// PackageSnapshot is captured from the gig at purchase time and never
// changes afterwards, whatever happens to the live gig. Revision quota
// and delivery window are always read from here.
type PackageSnapshot struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	DeliveryTime int      `json:"deliveryTime"` // days
	Revisions    int      `json:"revisions"`
	Features     []string `json:"features,omitempty"`
}

type RequirementAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Type     string `json:"type,omitempty"`
}

type ReviewFlags struct {
	Buyer  bool `json:"buyer"`
	Seller bool `json:"seller"`
}

type Order struct {
	ID             string              `json:"_id"`
	Buyer          Ref[User]           `json:"buyer"`
	Seller         Ref[User]           `json:"seller"`
	Gig            Ref[Gig]            `json:"gig"`
	PackageTier    PackageTier         `json:"package"`
	Package        PackageSnapshot     `json:"packageDetails"`
	Requirements   []RequirementAnswer `json:"customRequirements,omitempty"`
	TotalAmount    float64             `json:"totalAmount"`
	ServiceFee     float64             `json:"serviceFee"`
	NetAmount      float64             `json:"netAmount"`
	Status         OrderStatus         `json:"status"`
	PaymentStatus  PaymentStatus       `json:"paymentStatus"`
	DeliveryDate   *time.Time          `json:"deliveryDate,omitempty"`
	CompletedAt    *time.Time          `json:"completedAt,omitempty"`
	Deliveries     []Delivery          `json:"deliveries,omitempty"`
	Revisions      []Revision          `json:"revisions,omitempty"`
	Cancellation   *Cancellation       `json:"cancellation,omitempty"`
	Dispute        *Dispute            `json:"dispute,omitempty"`
	IsReviewed     ReviewFlags         `json:"isReviewed"`
	AutoCompleteAt *time.Time          `json:"autoCompleteAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (o Order) EntityID() string { return o.ID }

// transitionSources lists, per target status, the states a normal
// lifecycle action may come from. Dispute resolution re-enters the
// parent machine through Dispute outcome handling, not through here.
var transitionSources = map[OrderStatus][]OrderStatus{
	StatusRequirementsPending: {StatusPending},
	StatusInProgress:          {StatusPending, StatusRequirementsPending},
	StatusDelivered:           {StatusInProgress, StatusRevisionRequested},
	StatusRevisionRequested:   {StatusDelivered},
	StatusCompleted:           {StatusDelivered},
	StatusCancelled:           {StatusPending, StatusRequirementsPending, StatusInProgress},
	StatusDisputed: {
		StatusPending, StatusRequirementsPending, StatusInProgress,
		StatusDelivered, StatusRevisionRequested,
	},
}

// ValidateTransition reports whether the order may move to the target
// status. It is side-effect-free: a rejected edge returns a typed
// *InvalidTransitionError and the order is untouched.
func (o *Order) ValidateTransition(to OrderStatus) error {
	reject := func(reason string) error {
		return &InvalidTransitionError{OrderID: o.ID, From: o.Status, Attempted: to, Reason: reason}
	}

	if o.Status.Terminal() {
		return reject("order is closed")
	}
	if o.Status == StatusDisputed {
		// frozen until the dispute leaves open
		return reject("order is disputed")
	}

	sources, ok := transitionSources[to]
	if !ok {
		return reject("unknown target status")
	}
	allowed := false
	for _, s := range sources {
		if o.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return reject("")
	}

	switch to {
	case StatusInProgress:
		if o.PaymentStatus != PaymentPaid {
			return reject("payment not confirmed")
		}
	case StatusCompleted:
		if len(o.Deliveries) == 0 {
			return reject("no delivery to accept")
		}
	case StatusRevisionRequested:
		if o.RevisionsUsed() >= o.Package.Revisions {
			return ErrRevisionLimitExceeded
		}
	}
	return nil
}

// ApplyTransition validates and then moves the order. Callers that need
// extra effects (ledger appends, timers) do them after this returns nil.
func (o *Order) ApplyTransition(to OrderStatus) error {
	if err := o.ValidateTransition(to); err != nil {
		return err
	}
	o.Status = to
	return nil
}

// PaymentConfirmedTarget decides where a paid order goes: straight to
// work, or through the requirements gate when the gig snapshot defines
// requirement questions.
func (o *Order) PaymentConfirmedTarget() OrderStatus {
	if o.Gig.Resolved() && len(o.Gig.Value.Requirements) > 0 {
		return StatusRequirementsPending
	}
	return StatusInProgress
}

func (o *Order) RevisionsUsed() int { return len(o.Revisions) }

// ComputeDeliveryDate derives the due date from the frozen snapshot,
// anchored at the given start (order creation, or the delivery that
// answered an accepted revision).
func (o *Order) ComputeDeliveryDate(from time.Time) time.Time {
	return from.Add(time.Duration(o.Package.DeliveryTime) * 24 * time.Hour)
}

// AmountsConsistent checks the money invariant netAmount + serviceFee ==
// totalAmount, tolerant of float rounding at cent precision.
func (o *Order) AmountsConsistent() bool {
	return math.Abs(o.NetAmount+o.ServiceFee-o.TotalAmount) < 0.005
}

// ServiceFeeFor computes the platform cut for a package price, rounded
// to cents.
func ServiceFeeFor(price, rate float64) float64 {
	return math.Round(price*rate*100) / 100
}

// OtherParty returns the opposite side of the order for the given user.
func (o *Order) OtherParty(userID string) string {
	if o.Buyer.ID == userID {
		return o.Seller.ID
	}
	return o.Buyer.ID
}
