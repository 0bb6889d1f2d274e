package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/money"
	"bitbucket.org/mmdatafocus/backorder_backend/repository"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
	"gorm.io/gorm"
)

func main() {
	purchaseID := flag.Int("purchase-id", 0, "Required: purchase id")
	dryRun := flag.Bool("dry-run", true, "Print the allocation without writing it")
	flag.Parse()

	if *purchaseID <= 0 {
		fmt.Fprintln(os.Stderr, "--purchase-id is required")
		os.Exit(1)
	}
	if err := config.ConnectDatabaseWithRetry(5); err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	db := config.GetDB()
	ctx := context.Background()

	var purchase *models.Purchase
	var err error
	if *dryRun {
		purchase, err = previewAllocation(ctx, db, *purchaseID)
	} else {
		purchase, err = repository.NewPurchaseStore(db).AllocateShipping(ctx, *purchaseID)
	}
	if errors.Is(err, utils.ErrorRecordNotFound) {
		fmt.Fprintf(os.Stderr, "purchase %d not found\n", *purchaseID)
		os.Exit(2)
	}
	if err != nil {
		config.LogError(config.GetLogger(), "cmd", "purchase-shipping-allocate", "allocate shipping", *purchaseID, err)
		os.Exit(1)
	}

	engine := money.NewEngine(config.LoadMoneyConfig())
	fmt.Printf("purchase %s shipping %s dry_run=%v\n", purchase.PurchaseNumber, engine.FormatWithDecimals(purchase.ShippingCost), *dryRun)
	for _, line := range purchase.Lines {
		fmt.Printf("  line %d variant %d subtotal %s shipping %s landed %s\n",
			line.ID, line.ProductVariantId,
			engine.FormatWithDecimals(line.Subtotal()),
			engine.FormatWithDecimals(line.AllocatedShippingCost),
			engine.FormatWithDecimals(line.LandedCost()))
	}
	fmt.Printf("total %s\n", engine.FormatWithDecimals(purchase.TotalCost()))
}

func previewAllocation(ctx context.Context, db *gorm.DB, purchaseID int) (*models.Purchase, error) {
	var purchase models.Purchase
	err := db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&purchase, purchaseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := purchase.AllocateShipping(); err != nil {
		return nil, err
	}
	return &purchase, nil
}
