package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// NoteSeparator separates entries in InventoryTransfer.Notes.
const NoteSeparator = "\n"

// InventoryTransfer moves stock of one product variant between two stores,
// optionally on behalf of one order. Quantity is fixed at creation.
type InventoryTransfer struct {
	ID               int            `gorm:"primary_key" json:"id"`
	TransferNumber   string         `gorm:"size:255;not null" json:"transfer_number"`
	OrderId          *int           `gorm:"index:idx_transfer_order_variant,priority:1;default:null" json:"order_id"`
	ProductVariantId int            `gorm:"index:idx_transfer_order_variant,priority:2;not null" json:"product_variant_id"`
	FromStoreId      int            `gorm:"not null" json:"from_store_id"`
	ToStoreId        int            `gorm:"not null" json:"to_store_id"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	CurrentStatus    TransferStatus `gorm:"type:enum('pending','in_transit','completed','cancelled');not null;default:pending" json:"current_status"`
	Notes            string         `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *InventoryTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.Quantity <= 0 {
		return errors.New("transfer quantity must be positive")
	}
	if t.FromStoreId == t.ToStoreId {
		return errors.New("transfers cannot be made within the same store")
	}
	if t.CurrentStatus == "" {
		t.CurrentStatus = TransferStatusPending
	}
	if !t.CurrentStatus.IsValid() {
		return errors.New("invalid transfer status")
	}
	return nil
}

// AppendNote adds note to the running notes without touching earlier entries.
// A blank note is ignored.
func (t *InventoryTransfer) AppendNote(note string) {
	t.Notes = AppendNote(t.Notes, note)
}

func AppendNote(existing, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + NoteSeparator + note
}

// IsNewerThan orders transfers by creation: later CreatedAt wins, then the higher ID.
func (t InventoryTransfer) IsNewerThan(other InventoryTransfer) bool {
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.After(other.CreatedAt)
	}
	return t.ID > other.ID
}
