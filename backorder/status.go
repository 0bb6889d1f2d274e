package backorder

import (
	"bitbucket.org/mmdatafocus/backorder_backend/models"
)

// PurchaseStatus is the human-facing purchase progress of a backordered line.
type PurchaseStatus string

const (
	PurchaseStatusPendingPurchase     PurchaseStatus = "pending_purchase"
	PurchaseStatusOrderedFromSupplier PurchaseStatus = "ordered_from_supplier"
	PurchaseStatusInTransit           PurchaseStatus = "in_transit"
	PurchaseStatusReceived            PurchaseStatus = "received"
	PurchaseStatusCompleted           PurchaseStatus = "completed"
	PurchaseStatusCancelled           PurchaseStatus = "cancelled"
)

var purchaseStatusText = map[PurchaseStatus]string{
	PurchaseStatusPendingPurchase:     "Awaiting purchase",
	PurchaseStatusOrderedFromSupplier: "Ordered from supplier",
	PurchaseStatusInTransit:           "In transit from supplier",
	PurchaseStatusReceived:            "Received from supplier",
	PurchaseStatusCompleted:           "Purchase completed",
	PurchaseStatusCancelled:           "Purchase cancelled",
}

func (s PurchaseStatus) Text() string {
	return purchaseStatusText[s]
}

// DerivePurchaseStatus maps the raw lifecycle of a linked purchase.
// No purchase means the line is still waiting for one.
func DerivePurchaseStatus(p *models.Purchase) PurchaseStatus {
	if p == nil {
		return PurchaseStatusPendingPurchase
	}
	switch p.CurrentStatus {
	case models.PurchaseStatusPending, models.PurchaseStatusConfirmed:
		return PurchaseStatusOrderedFromSupplier
	case models.PurchaseStatusInTransit:
		return PurchaseStatusInTransit
	case models.PurchaseStatusReceived, models.PurchaseStatusPartiallyReceived:
		return PurchaseStatusReceived
	case models.PurchaseStatusCompleted:
		return PurchaseStatusCompleted
	case models.PurchaseStatusCancelled:
		return PurchaseStatusCancelled
	}
	return PurchaseStatusPendingPurchase
}

var transferStatusText = map[models.TransferStatus]string{
	models.TransferStatusPending:   "Transfer pending",
	models.TransferStatusInTransit: "Transfer in transit",
	models.TransferStatusCompleted: "Transfer completed",
	models.TransferStatusCancelled: "Transfer cancelled",
}

func TransferStatusText(s models.TransferStatus) string {
	return transferStatusText[s]
}

// IntegratedStatus is the single fulfillment status of a backordered line.
type IntegratedStatus string

const (
	IntegratedPendingPurchase             IntegratedStatus = "pending_purchase"
	IntegratedPurchaseOrderedFromSupplier IntegratedStatus = "purchase_ordered_from_supplier"
	IntegratedPurchaseInTransit           IntegratedStatus = "purchase_in_transit"
	IntegratedPurchaseReceived            IntegratedStatus = "purchase_received"
	IntegratedPurchaseCompleted           IntegratedStatus = "purchase_completed"
	IntegratedPurchaseCancelled           IntegratedStatus = "purchase_cancelled"
	IntegratedTransferPending             IntegratedStatus = "transfer_pending"
	IntegratedTransferInTransit           IntegratedStatus = "transfer_in_transit"
	IntegratedTransferCompleted           IntegratedStatus = "transfer_completed"
	IntegratedTransferCancelled           IntegratedStatus = "transfer_cancelled"
)

var integratedStatusText = map[IntegratedStatus]string{
	IntegratedPendingPurchase:             "Awaiting purchase or transfer",
	IntegratedPurchaseOrderedFromSupplier: "Ordered from supplier",
	IntegratedPurchaseInTransit:           "Supplier shipment in transit",
	IntegratedPurchaseReceived:            "Received from supplier",
	IntegratedPurchaseCompleted:           "Purchase completed",
	IntegratedPurchaseCancelled:           "Purchase cancelled",
	IntegratedTransferPending:             "Inventory transfer pending",
	IntegratedTransferInTransit:           "Inventory transfer in progress",
	IntegratedTransferCompleted:           "Inventory transfer completed",
	IntegratedTransferCancelled:           "Inventory transfer cancelled",
}

func (s IntegratedStatus) Text() string {
	return integratedStatusText[s]
}

// IsResolved reports statuses that close the shortage.
func (s IntegratedStatus) IsResolved() bool {
	return s == IntegratedPurchaseCompleted || s == IntegratedTransferCompleted
}

// IsInProgress reports statuses with goods physically on the way.
func (s IntegratedStatus) IsInProgress() bool {
	return s == IntegratedPurchaseInTransit || s == IntegratedTransferInTransit
}

// noTransfer stands for "no associated transfer" in the decision table.
const noTransfer models.TransferStatus = ""

type decisionKey struct {
	purchase PurchaseStatus // PurchaseStatusPendingPurchase when nothing is linked
	transfer models.TransferStatus
}

// integratedStatusTable is every (purchase, transfer) combination mapped to its
// integrated status. Built once from decideIntegratedStatus.
var integratedStatusTable = buildDecisionTable()

func buildDecisionTable() map[decisionKey]IntegratedStatus {
	purchases := []PurchaseStatus{
		PurchaseStatusPendingPurchase, PurchaseStatusOrderedFromSupplier, PurchaseStatusInTransit,
		PurchaseStatusReceived, PurchaseStatusCompleted, PurchaseStatusCancelled,
	}
	transfers := []models.TransferStatus{
		noTransfer, models.TransferStatusPending, models.TransferStatusInTransit,
		models.TransferStatusCompleted, models.TransferStatusCancelled,
	}
	table := make(map[decisionKey]IntegratedStatus, len(purchases)*len(transfers))
	for _, p := range purchases {
		for _, t := range transfers {
			table[decisionKey{p, t}] = decideIntegratedStatus(p, t)
		}
	}
	return table
}

// decideIntegratedStatus applies the precedence rules:
//  1. an open linked purchase wins, even over a transfer that is further along;
//  2. a completed purchase yields to an unfinished transfer;
//  3. a transfer alone decides;
//  4. nothing linked is pending_purchase.
//
// A completed purchase with no transfer stays purchase_completed; with a completed
// transfer the transfer, as the last leg, reports transfer_completed.
func decideIntegratedStatus(p PurchaseStatus, t models.TransferStatus) IntegratedStatus {
	linked := p != PurchaseStatusPendingPurchase
	hasTransfer := t != noTransfer

	if linked && p != PurchaseStatusCompleted {
		return IntegratedStatus("purchase_" + string(p))
	}
	if hasTransfer {
		return IntegratedStatus("transfer_" + string(t))
	}
	if linked {
		return IntegratedPurchaseCompleted
	}
	return IntegratedPendingPurchase
}

// DeriveIntegratedStatus looks the combination up in the decision table.
// transfer == nil means no associated transfer.
func DeriveIntegratedStatus(purchase PurchaseStatus, transfer *models.TransferStatus) IntegratedStatus {
	t := noTransfer
	if transfer != nil {
		t = *transfer
	}
	if status, ok := integratedStatusTable[decisionKey{purchase, t}]; ok {
		return status
	}
	// unknown raw values never escape as ad hoc keys
	return IntegratedPendingPurchase
}

// SummaryStatus is the order-level rollup of its lines' integrated statuses.
type SummaryStatus string

const (
	SummaryInProgress SummaryStatus = "in_progress"
	SummaryResolved   SummaryStatus = "resolved"
	SummaryPending    SummaryStatus = "pending"
)

var summaryStatusText = map[SummaryStatus]string{
	SummaryInProgress: "In progress",
	SummaryResolved:   "Resolved",
	SummaryPending:    "Pending",
}

func (s SummaryStatus) Text() string {
	return summaryStatusText[s]
}

// Summarize rolls lines up: any line in transit makes the order in progress; every
// line fulfilled or completed makes it resolved; anything else is pending.
func Summarize(items []LineContext) SummaryStatus {
	if len(items) == 0 {
		return SummaryPending
	}
	resolved := true
	for _, item := range items {
		if item.IntegratedStatus.IsInProgress() {
			return SummaryInProgress
		}
		if !item.IsFulfilled && !item.IntegratedStatus.IsResolved() {
			resolved = false
		}
	}
	if resolved {
		return SummaryResolved
	}
	return SummaryPending
}
