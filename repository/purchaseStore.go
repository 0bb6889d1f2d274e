package repository

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseStore struct {
	db *gorm.DB
}

func NewPurchaseStore(db *gorm.DB) *PurchaseStore {
	return &PurchaseStore{db: db}
}

// AllocateShipping locks the purchase, spreads its shipping cost over its lines and
// stores each line's share. Lines are weighted in id order so the rounding remainder
// always lands on the same line.
func (s *PurchaseStore) AllocateShipping(ctx context.Context, purchaseId int) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
			First(&purchase, purchaseId).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorRecordNotFound
		}
		if err != nil {
			return err
		}
		if err := purchase.AllocateShipping(); err != nil {
			return err
		}
		for _, line := range purchase.Lines {
			err := tx.Model(&models.PurchaseLine{}).
				Where("id = ?", line.ID).
				Update("allocated_shipping_cost", line.AllocatedShippingCost).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapLockError(err)
	}
	return &purchase, nil
}
