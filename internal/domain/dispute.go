package domain

import "time"

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeResolved DisputeStatus = "resolved"
	DisputeClosed   DisputeStatus = "closed"
)

// ResolutionOutcome is supplied by the external moderation process when
// a dispute leaves open. The outcome is never inferred locally; a
// partial-refund decision must still name the terminal state the order
// re-enters.
type ResolutionOutcome string

const (
	OutcomeComplete  ResolutionOutcome = "complete"  // order ends completed
	OutcomeRefund    ResolutionOutcome = "refund"    // order ends cancelled
	OutcomeDismissed ResolutionOutcome = "dismissed" // dispute closed, order resumes its prior state
)

// Dispute is the nested sub-machine attached to an order. While Status
// is open the parent order stays disputed and rejects delivery, revision
// and completion attempts. PriorStatus remembers where the order was
// frozen so a dismissed dispute can resume it.
type Dispute struct {
	Reason      string            `json:"reason"`
	Description string            `json:"description,omitempty"`
	RaisedBy    string            `json:"raisedBy"`
	RaisedAt    time.Time         `json:"raisedAt"`
	Status      DisputeStatus     `json:"status"`
	Resolution  string            `json:"resolution,omitempty"`
	Outcome     ResolutionOutcome `json:"outcome,omitempty"`
	ResolvedAt  *time.Time        `json:"resolvedAt,omitempty"`
	PriorStatus OrderStatus       `json:"priorStatus,omitempty"`
}

// Cancellation records a mutual-cancellation request. Approved moves the
// order to cancelled; a declined request is cleared by the usecase.
type Cancellation struct {
	Reason      string     `json:"reason"`
	RequestedBy string     `json:"requestedBy"`
	RequestedAt time.Time  `json:"requestedAt"`
	Approved    bool       `json:"approved"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
}
