package models

import (
	"gorm.io/gorm"
)

// MigrateTable creates or updates every table the backorder core reads or writes.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&Order{}, &OrderLine{},
		&Purchase{}, &PurchaseLine{},
		&InventoryTransfer{},
		&OutboxRecord{},
	)
}
