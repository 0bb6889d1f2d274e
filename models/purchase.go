package models

import (
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/money"
	"github.com/shopspring/decimal"
)

var ErrShippingNotAllocatable = errors.New("shipping cost cannot be allocated: every purchase line has a zero subtotal")

// Purchase is a supplier order.
type Purchase struct {
	ID             int            `gorm:"primary_key" json:"id"`
	PurchaseNumber string         `gorm:"size:255;not null;uniqueIndex" json:"purchase_number"`
	SupplierName   string         `gorm:"size:255" json:"supplier_name"`
	CurrentStatus  PurchaseStatus `gorm:"type:enum('pending','confirmed','in_transit','received','partially_received','completed','cancelled');not null;default:pending" json:"current_status"`
	ShippingCost   int64          `gorm:"not null;default:0" json:"shipping_cost"` // minor units
	Lines          []PurchaseLine `gorm:"foreignKey:PurchaseId" json:"lines,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseLine struct {
	ID                    int       `gorm:"primary_key" json:"id"`
	PurchaseId            int       `gorm:"index;not null" json:"purchase_id"`
	ProductVariantId      int       `gorm:"index;not null" json:"product_variant_id"`
	Quantity              int       `gorm:"not null" json:"quantity"`
	ReceivedQuantity      int       `gorm:"not null;default:0" json:"received_quantity"`
	UnitCost              int64     `gorm:"not null;default:0" json:"unit_cost"`
	AllocatedShippingCost int64     `gorm:"not null;default:0" json:"allocated_shipping_cost"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l PurchaseLine) Subtotal() int64 {
	return l.UnitCost * int64(l.Quantity)
}

// LandedCost is the line subtotal plus its share of the purchase shipping.
func (l PurchaseLine) LandedCost() int64 {
	return l.Subtotal() + l.AllocatedShippingCost
}

// IsPartiallyReceived is a normal state, not an error: some but not all units arrived.
func (l PurchaseLine) IsPartiallyReceived() bool {
	return l.ReceivedQuantity > 0 && l.ReceivedQuantity < l.Quantity
}

func (p Purchase) IsOpen() bool {
	return p.CurrentStatus != PurchaseStatusCompleted && p.CurrentStatus != PurchaseStatusCancelled
}

// AllocateShipping spreads ShippingCost over the lines in proportion to their subtotals.
// The allocated parts always add up to ShippingCost. When shipping is due but every
// subtotal is zero the allocation would drop the cost, so ErrShippingNotAllocatable is returned.
func (p *Purchase) AllocateShipping() error {
	if len(p.Lines) == 0 {
		if p.ShippingCost != 0 {
			return fmt.Errorf("purchase %d has shipping cost but no lines", p.ID)
		}
		return nil
	}
	weights := make([]decimal.Decimal, len(p.Lines))
	allZero := true
	for i, line := range p.Lines {
		subtotal := line.Subtotal()
		if subtotal != 0 {
			allZero = false
		}
		weights[i] = decimal.NewFromInt(subtotal)
	}
	if allZero && p.ShippingCost != 0 {
		return ErrShippingNotAllocatable
	}
	parts, err := money.Allocate(p.ShippingCost, weights)
	if err != nil {
		return fmt.Errorf("allocate shipping for purchase %d: %w", p.ID, err)
	}
	for i := range p.Lines {
		p.Lines[i].AllocatedShippingCost = parts[i]
	}
	return nil
}

// TotalCost is the sum of line subtotals plus shipping.
func (p Purchase) TotalCost() int64 {
	total := p.ShippingCost
	for _, line := range p.Lines {
		total += line.Subtotal()
	}
	return total
}
