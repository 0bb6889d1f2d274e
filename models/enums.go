package models

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusClosed    OrderStatus = "closed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusClosed, OrderStatusCancelled:
		return true
	}
	return false
}

// PurchaseStatus is the supplier order lifecycle:
// pending -> confirmed -> in_transit -> received/partially_received -> completed,
// or cancelled at any point before completed.
type PurchaseStatus string

const (
	PurchaseStatusPending           PurchaseStatus = "pending"
	PurchaseStatusConfirmed         PurchaseStatus = "confirmed"
	PurchaseStatusInTransit         PurchaseStatus = "in_transit"
	PurchaseStatusReceived          PurchaseStatus = "received"
	PurchaseStatusPartiallyReceived PurchaseStatus = "partially_received"
	PurchaseStatusCompleted         PurchaseStatus = "completed"
	PurchaseStatusCancelled         PurchaseStatus = "cancelled"
)

func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusConfirmed, PurchaseStatusInTransit,
		PurchaseStatusReceived, PurchaseStatusPartiallyReceived,
		PurchaseStatusCompleted, PurchaseStatusCancelled:
		return true
	}
	return false
}

// TransferStatus is the inventory transfer lifecycle: pending -> in_transit -> completed, or cancelled.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusInTransit TransferStatus = "in_transit"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

var transferStatusRank = map[TransferStatus]int{
	TransferStatusPending:   0,
	TransferStatusInTransit: 1,
	TransferStatusCompleted: 2,
}

func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusCancelled
}

// IsForwardMove reports whether next is reachable from s without going backwards.
// Cancelling is allowed from any non-terminal state; re-writing the same state is allowed.
func (s TransferStatus) IsForwardMove(next TransferStatus) bool {
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == TransferStatusCancelled {
		return true
	}
	return transferStatusRank[next] > transferStatusRank[s]
}
