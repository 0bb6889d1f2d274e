package models

import (
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/money"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	OrderNumber   string              `gorm:"size:255;not null;uniqueIndex" json:"order_number"`
	CustomerName  string              `gorm:"size:255" json:"customer_name"`
	CurrentStatus OrderStatus         `gorm:"type:enum('open','closed','cancelled');not null;default:open" json:"current_status"`
	TotalAmount   int64               `gorm:"not null;default:0" json:"total_amount"`         // minor units, tax inclusive
	TaxRate       decimal.NullDecimal `gorm:"type:decimal(7,4);default:null" json:"tax_rate"` // null: use the configured default
	Lines         []OrderLine         `gorm:"foreignKey:OrderId" json:"lines,omitempty"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderLine is one product variant on an order. A backordered line could not be
// served from stock when the order was placed.
type OrderLine struct {
	ID                int       `gorm:"primary_key" json:"id"`
	OrderId           int       `gorm:"index;not null" json:"order_id"`
	ProductVariantId  int       `gorm:"index;not null" json:"product_variant_id"`
	Name              string    `gorm:"size:255" json:"name"`
	Quantity          int       `gorm:"not null" json:"quantity"`
	FulfilledQuantity int       `gorm:"not null;default:0" json:"fulfilled_quantity"`
	IsBackorder       bool      `gorm:"index;not null;default:false" json:"is_backorder"`
	IsFulfilled       bool      `gorm:"not null;default:false" json:"is_fulfilled"`
	PurchaseLineId    *int      `gorm:"index;default:null" json:"purchase_line_id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PendingQuantity is what is still owed on the line.
func (l OrderLine) PendingQuantity() int {
	if l.FulfilledQuantity >= l.Quantity {
		return 0
	}
	return l.Quantity - l.FulfilledQuantity
}

// IsPendingPurchase reports a backordered line not yet linked to any supplier purchase line.
func (l OrderLine) IsPendingPurchase() bool {
	return l.IsBackorder && l.PurchaseLineId == nil
}

type OrderTaxSummary struct {
	TotalAmount int64           `json:"total_amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   int64           `json:"tax_amount"`
	NetAmount   int64           `json:"net_amount"`
}

// TaxSummary splits the tax-inclusive order total into net and tax.
// An order without a stored rate falls back to the engine's default rate; a stored
// zero rate is zero-rated and extracts no tax.
func (o Order) TaxSummary(engine *money.Engine) OrderTaxSummary {
	rate := decimal.Zero
	if o.TaxRate.Valid {
		rate = o.TaxRate.Decimal
	} else if engine != nil {
		rate = engine.Config().DefaultTaxRate
	}
	tax := money.TaxPortionFromInclusive(o.TotalAmount, rate)
	return OrderTaxSummary{
		TotalAmount: o.TotalAmount,
		TaxRate:     rate,
		TaxAmount:   tax,
		NetAmount:   o.TotalAmount - tax,
	}
}
