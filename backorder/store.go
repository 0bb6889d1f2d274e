package backorder

import (
	"context"

	"bitbucket.org/mmdatafocus/backorder_backend/models"
)

// OrderLineRepository reads order lines and their orders.
// Lookups that find nothing return empty slices; GetOrderLine returns
// utils.ErrorRecordNotFound for a missing id.
type OrderLineRepository interface {
	GetOrderLine(ctx context.Context, id int) (*models.OrderLine, error)
	// ListPendingPurchaseLines returns backordered lines of open orders with no purchase line linked.
	ListPendingPurchaseLines(ctx context.Context) ([]models.OrderLine, error)
	// ListBackorderLines returns every backordered line of open orders.
	ListBackorderLines(ctx context.Context) ([]models.OrderLine, error)
	ListOrders(ctx context.Context, ids []int) ([]models.Order, error)
}

type PurchaseRepository interface {
	ListPurchaseLines(ctx context.Context, ids []int) ([]models.PurchaseLine, error)
	ListPurchases(ctx context.Context, ids []int) ([]models.Purchase, error)
}

type TransferRepository interface {
	ListTransfersForOrders(ctx context.Context, orderIds []int) ([]models.InventoryTransfer, error)
	FindTransfers(ctx context.Context, orderId int, productVariantId int) ([]models.InventoryTransfer, error)
	// LockTransfer re-reads the transfer under a per-record update lock held until the
	// surrounding Update returns.
	LockTransfer(ctx context.Context, id int) (*models.InventoryTransfer, error)
	SaveTransferStatus(ctx context.Context, id int, status models.TransferStatus, notes string) error
}

// EventRepository records domain events in the same transaction as the change.
type EventRepository interface {
	TransferStatusChanged(ctx context.Context, event models.TransferStatusChanged) error
}

type Repositories struct {
	Lines     OrderLineRepository
	Purchases PurchaseRepository
	Transfers TransferRepository
	Events    EventRepository
}

// Store hands out repositories bound to one consistent unit of work.
// View sees a single snapshot; Update commits everything fn did or nothing.
type Store interface {
	View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Update(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
