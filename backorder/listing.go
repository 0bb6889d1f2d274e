package backorder

import (
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/models"
)

type ListOptions struct {
	GroupByOrder bool
	// IncludeTransfer attaches transfer context and the integrated status to flat lines.
	// Grouped listings always carry both.
	IncludeTransfer bool
}

type PurchaseContext struct {
	PurchaseId       int                   `json:"purchase_id"`
	PurchaseNumber   string                `json:"purchase_number"`
	SupplierName     string                `json:"supplier_name"`
	PurchaseLineId   int                   `json:"purchase_line_id"`
	CurrentStatus    models.PurchaseStatus `json:"current_status"`
	Quantity         int                   `json:"quantity"`
	ReceivedQuantity int                   `json:"received_quantity"`
}

type TransferContext struct {
	TransferId     int                   `json:"transfer_id"`
	TransferNumber string                `json:"transfer_number"`
	FromStoreId    int                   `json:"from_store_id"`
	ToStoreId      int                   `json:"to_store_id"`
	Quantity       int                   `json:"quantity"`
	Status         models.TransferStatus `json:"status"`
	StatusText     string                `json:"status_text"`
	Notes          string                `json:"notes"`
	CreatedAt      time.Time             `json:"created_at"`
}

// LineContext is one backordered line with its resolved sources and derived statuses.
type LineContext struct {
	models.OrderLine
	PendingQuantity      int              `json:"pending_quantity"`
	PurchaseStatus       PurchaseStatus   `json:"purchase_status"`
	PurchaseStatusText   string           `json:"purchase_status_text"`
	Purchase             *PurchaseContext `json:"purchase,omitempty"`
	Transfer             *TransferContext `json:"transfer,omitempty"`
	IntegratedStatus     IntegratedStatus `json:"integrated_status,omitempty"`
	IntegratedStatusText string           `json:"integrated_status_text,omitempty"`
	Warnings             []string         `json:"warnings,omitempty"`
}

type OrderGroup struct {
	OrderId           int           `json:"order_id"`
	OrderNumber       string        `json:"order_number"`
	CustomerName      string        `json:"customer_name"`
	TotalItems        int           `json:"total_items"`
	TotalQuantity     int           `json:"total_quantity"`
	PendingQuantity   int           `json:"pending_quantity"`
	SummaryStatus     SummaryStatus `json:"summary_status"`
	SummaryStatusText string        `json:"summary_status_text"`
	Items             []LineContext `json:"items"`
}

// Listing is either flat Lines or Groups, depending on ListOptions.GroupByOrder.
type Listing struct {
	Lines  []LineContext `json:"lines,omitempty"`
	Groups []OrderGroup  `json:"groups,omitempty"`
}

// Len counts lines in either shape.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	n := len(l.Lines)
	for _, g := range l.Groups {
		n += len(g.Items)
	}
	return n
}

// buildLineContext derives statuses for one line from an already resolved snapshot.
func buildLineContext(line models.OrderLine, res Resolution, withTransfer bool) LineContext {
	purchaseStatus := DerivePurchaseStatus(res.Purchase)
	lc := LineContext{
		OrderLine:          line,
		PendingQuantity:    line.PendingQuantity(),
		PurchaseStatus:     purchaseStatus,
		PurchaseStatusText: purchaseStatus.Text(),
	}
	if res.PurchaseLine != nil && res.Purchase != nil {
		lc.Purchase = &PurchaseContext{
			PurchaseId:       res.Purchase.ID,
			PurchaseNumber:   res.Purchase.PurchaseNumber,
			SupplierName:     res.Purchase.SupplierName,
			PurchaseLineId:   res.PurchaseLine.ID,
			CurrentStatus:    res.Purchase.CurrentStatus,
			Quantity:         res.PurchaseLine.Quantity,
			ReceivedQuantity: res.PurchaseLine.ReceivedQuantity,
		}
	}
	for _, err := range res.Inconsistencies {
		lc.Warnings = append(lc.Warnings, err.Error())
	}
	if !withTransfer {
		return lc
	}

	var transferStatus *models.TransferStatus
	if t := res.Transfer; t != nil {
		status := t.CurrentStatus
		transferStatus = &status
		lc.Transfer = &TransferContext{
			TransferId:     t.ID,
			TransferNumber: t.TransferNumber,
			FromStoreId:    t.FromStoreId,
			ToStoreId:      t.ToStoreId,
			Quantity:       t.Quantity,
			Status:         t.CurrentStatus,
			StatusText:     TransferStatusText(t.CurrentStatus),
			Notes:          t.Notes,
			CreatedAt:      t.CreatedAt,
		}
	}
	lc.IntegratedStatus = DeriveIntegratedStatus(purchaseStatus, transferStatus)
	lc.IntegratedStatusText = lc.IntegratedStatus.Text()
	return lc
}

// groupByOrder groups contexts by owning order, keeping the first-seen order of
// orders and lines. Summaries are computed only after every line is resolved.
func groupByOrder(items []LineContext, orders map[int]models.Order) []OrderGroup {
	index := make(map[int]int)
	groups := make([]OrderGroup, 0)
	for _, item := range items {
		i, ok := index[item.OrderId]
		if !ok {
			order := orders[item.OrderId]
			groups = append(groups, OrderGroup{
				OrderId:      item.OrderId,
				OrderNumber:  order.OrderNumber,
				CustomerName: order.CustomerName,
			})
			i = len(groups) - 1
			index[item.OrderId] = i
		}
		g := &groups[i]
		g.Items = append(g.Items, item)
		g.TotalItems++
		g.TotalQuantity += item.Quantity
		g.PendingQuantity += item.PendingQuantity
	}
	for i := range groups {
		groups[i].SummaryStatus = Summarize(groups[i].Items)
		groups[i].SummaryStatusText = groups[i].SummaryStatus.Text()
	}
	return groups
}

func sortLines(lines []models.OrderLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].OrderId != lines[j].OrderId {
			return lines[i].OrderId < lines[j].OrderId
		}
		return lines[i].ID < lines[j].ID
	})
}
