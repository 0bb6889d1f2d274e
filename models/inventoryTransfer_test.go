package models_test

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/models"
)

func TestAppendNoteNeverOverwrites(t *testing.T) {
	tr := models.InventoryTransfer{}
	tr.AppendNote("picked at store 2")
	tr.AppendNote("   ")
	tr.AppendNote("left store 2 ")
	if tr.Notes != "picked at store 2\nleft store 2" {
		t.Fatalf("unexpected notes: %q", tr.Notes)
	}
}

func TestTransferIsNewerThan(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := models.InventoryTransfer{ID: 5, CreatedAt: t0}
	newer := models.InventoryTransfer{ID: 3, CreatedAt: t0.Add(time.Minute)}
	if !newer.IsNewerThan(older) || older.IsNewerThan(newer) {
		t.Fatalf("later CreatedAt should win")
	}
	sameTimeHigherID := models.InventoryTransfer{ID: 6, CreatedAt: t0}
	if !sameTimeHigherID.IsNewerThan(older) {
		t.Fatalf("higher id should win on equal CreatedAt")
	}
}

func TestTransferBeforeCreateValidates(t *testing.T) {
	cases := []struct {
		name string
		tr   models.InventoryTransfer
		ok   bool
	}{
		{"valid", models.InventoryTransfer{Quantity: 2, FromStoreId: 1, ToStoreId: 2}, true},
		{"zero quantity", models.InventoryTransfer{Quantity: 0, FromStoreId: 1, ToStoreId: 2}, false},
		{"same store", models.InventoryTransfer{Quantity: 1, FromStoreId: 1, ToStoreId: 1}, false},
		{"bad status", models.InventoryTransfer{Quantity: 1, FromStoreId: 1, ToStoreId: 2, CurrentStatus: "shipped"}, false},
	}
	for _, tc := range cases {
		tr := tc.tr
		err := tr.BeforeCreate(nil)
		if (err == nil) != tc.ok {
			t.Fatalf("%s: expected ok=%v, got err=%v", tc.name, tc.ok, err)
		}
		if tc.ok && tr.CurrentStatus != models.TransferStatusPending {
			t.Fatalf("%s: expected default status pending, got %q", tc.name, tr.CurrentStatus)
		}
	}
}

func TestTransferStatusForwardMoves(t *testing.T) {
	cases := []struct {
		from, to models.TransferStatus
		ok       bool
	}{
		{models.TransferStatusPending, models.TransferStatusInTransit, true},
		{models.TransferStatusPending, models.TransferStatusCompleted, true},
		{models.TransferStatusInTransit, models.TransferStatusCompleted, true},
		{models.TransferStatusInTransit, models.TransferStatusPending, false},
		{models.TransferStatusInTransit, models.TransferStatusCancelled, true},
		{models.TransferStatusCompleted, models.TransferStatusCancelled, false},
		{models.TransferStatusCancelled, models.TransferStatusPending, false},
		{models.TransferStatusCompleted, models.TransferStatusCompleted, true},
	}
	for _, tc := range cases {
		if got := tc.from.IsForwardMove(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}
