package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/backorder_backend/models"
)

func TestPurchaseAllocateShippingConservesCost(t *testing.T) {
	p := models.Purchase{
		ID:           1,
		ShippingCost: 10000,
		Lines: []models.PurchaseLine{
			{ID: 1, Quantity: 1, UnitCost: 1000},
			{ID: 2, Quantity: 1, UnitCost: 1000},
			{ID: 3, Quantity: 1, UnitCost: 1000},
		},
	}
	if err := p.AllocateShipping(); err != nil {
		t.Fatalf("AllocateShipping: %v", err)
	}
	expected := []int64{3333, 3333, 3334}
	var total int64
	for i, line := range p.Lines {
		if line.AllocatedShippingCost != expected[i] {
			t.Fatalf("line %d: expected %d, got %d", line.ID, expected[i], line.AllocatedShippingCost)
		}
		total += line.AllocatedShippingCost
	}
	if total != p.ShippingCost {
		t.Fatalf("allocated %d, shipping cost %d", total, p.ShippingCost)
	}
	if got := p.TotalCost(); got != 13000 {
		t.Fatalf("TotalCost expected 13000, got %d", got)
	}
	if got := p.Lines[2].LandedCost(); got != 4334 {
		t.Fatalf("LandedCost expected 4334, got %d", got)
	}
}

func TestPurchaseAllocateShippingWeightsBySubtotal(t *testing.T) {
	p := models.Purchase{
		ShippingCost: 500,
		Lines: []models.PurchaseLine{
			{Quantity: 2, UnitCost: 1000}, // 2000
			{Quantity: 3, UnitCost: 1000}, // 3000
			{Quantity: 1, UnitCost: 0},
		},
	}
	if err := p.AllocateShipping(); err != nil {
		t.Fatalf("AllocateShipping: %v", err)
	}
	if p.Lines[0].AllocatedShippingCost != 200 || p.Lines[1].AllocatedShippingCost != 300 || p.Lines[2].AllocatedShippingCost != 0 {
		t.Fatalf("unexpected allocation: %+v", p.Lines)
	}
}

func TestPurchaseAllocateShippingRefusesToDropCost(t *testing.T) {
	p := models.Purchase{
		ShippingCost: 500,
		Lines:        []models.PurchaseLine{{Quantity: 1, UnitCost: 0}, {Quantity: 2, UnitCost: 0}},
	}
	if err := p.AllocateShipping(); !errors.Is(err, models.ErrShippingNotAllocatable) {
		t.Fatalf("expected ErrShippingNotAllocatable, got %v", err)
	}

	free := models.Purchase{Lines: []models.PurchaseLine{{Quantity: 1, UnitCost: 0}}}
	if err := free.AllocateShipping(); err != nil {
		t.Fatalf("zero shipping over zero subtotals should be fine, got %v", err)
	}
}

func TestPurchaseLinePartialReceipt(t *testing.T) {
	cases := []struct {
		qty, received int
		partial       bool
	}{
		{10, 0, false},
		{10, 4, true},
		{10, 10, false},
	}
	for _, tc := range cases {
		line := models.PurchaseLine{Quantity: tc.qty, ReceivedQuantity: tc.received}
		if got := line.IsPartiallyReceived(); got != tc.partial {
			t.Fatalf("qty=%d received=%d: expected %v, got %v", tc.qty, tc.received, tc.partial, got)
		}
	}
}

func TestPurchaseIsOpen(t *testing.T) {
	for status, open := range map[models.PurchaseStatus]bool{
		models.PurchaseStatusPending:           true,
		models.PurchaseStatusConfirmed:         true,
		models.PurchaseStatusInTransit:         true,
		models.PurchaseStatusReceived:          true,
		models.PurchaseStatusPartiallyReceived: true,
		models.PurchaseStatusCompleted:         false,
		models.PurchaseStatusCancelled:         false,
	} {
		if got := (models.Purchase{CurrentStatus: status}).IsOpen(); got != open {
			t.Fatalf("%s: expected open=%v, got %v", status, open, got)
		}
	}
}
