package domain

import (
	"testing"
	"time"
)

func TestRevisionResolvedBy(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("answered by response", func(t *testing.T) {
		r := Revision{Message: "fix spacing", RequestedAt: base, Response: "done"}
		if !r.ResolvedBy(nil) {
			t.Error("revision with a response is resolved")
		}
	})

	t.Run("answered by later delivery", func(t *testing.T) {
		r := Revision{Message: "fix spacing", RequestedAt: base}
		deliveries := []Delivery{{Message: "v2", DeliveredAt: base.Add(time.Hour)}}
		if !r.ResolvedBy(deliveries) {
			t.Error("revision followed by a delivery is resolved")
		}
	})

	t.Run("earlier delivery does not count", func(t *testing.T) {
		r := Revision{Message: "fix spacing", RequestedAt: base}
		deliveries := []Delivery{{Message: "v1", DeliveredAt: base.Add(-time.Hour)}}
		if r.ResolvedBy(deliveries) {
			t.Error("a delivery before the request cannot answer it")
		}
	})
}

func TestLatestDelivery(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	o := &Order{}
	if o.LatestDelivery() != nil {
		t.Fatal("no deliveries yet")
	}
	o.Deliveries = []Delivery{
		{Message: "v1", DeliveredAt: base},
		{Message: "v3", DeliveredAt: base.Add(2 * time.Hour)},
		{Message: "v2", DeliveredAt: base.Add(time.Hour)},
	}
	if got := o.LatestDelivery(); got == nil || got.Message != "v3" {
		t.Fatalf("expected v3, got %+v", got)
	}
}

func TestOpenRevisions(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	o := &Order{
		Deliveries: []Delivery{{Message: "v2", DeliveredAt: base.Add(time.Hour)}},
		Revisions: []Revision{
			{Message: "answered", RequestedAt: base},
			{Message: "still open", RequestedAt: base.Add(2 * time.Hour)},
		},
	}
	if got := o.OpenRevisions(); got != 1 {
		t.Errorf("expected 1 open revision, got %d", got)
	}
}
