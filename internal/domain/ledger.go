package domain

import "time"

type FileAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
	Type string `json:"type,omitempty"`
}

// Delivery is one seller submission against an order. Entries are
// append-only; prior deliveries are never edited.
type Delivery struct {
	Message     string           `json:"message"`
	Files       []FileAttachment `json:"files,omitempty"`
	DeliveredAt time.Time        `json:"deliveredAt"`
}

// Revision is one buyer rework request. Entries are append-only.
type Revision struct {
	Message     string     `json:"message"`
	RequestedAt time.Time  `json:"requestedAt"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// ResolvedBy reports whether the revision is answered: either a seller
// response exists, or a chronologically later delivery does.
func (r Revision) ResolvedBy(deliveries []Delivery) bool {
	if r.Response != "" {
		return true
	}
	for _, d := range deliveries {
		if d.DeliveredAt.After(r.RequestedAt) {
			return true
		}
	}
	return false
}

// LatestDelivery returns the most recent delivery, or nil.
func (o *Order) LatestDelivery() *Delivery {
	if len(o.Deliveries) == 0 {
		return nil
	}
	latest := &o.Deliveries[0]
	for i := range o.Deliveries {
		if o.Deliveries[i].DeliveredAt.After(latest.DeliveredAt) {
			latest = &o.Deliveries[i]
		}
	}
	return latest
}

// OpenRevisions counts revision requests not yet answered.
func (o *Order) OpenRevisions() int {
	n := 0
	for _, r := range o.Revisions {
		if !r.ResolvedBy(o.Deliveries) {
			n++
		}
	}
	return n
}
