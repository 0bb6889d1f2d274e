package reports

import (
	"bytes"
	"path/filepath"
	"testing"

	"bitbucket.org/mmdatafocus/backorder_backend/backorder"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"github.com/xuri/excelize/v2"
)

func TestSaveBackorderExcel(t *testing.T) {
	groups := []backorder.OrderGroup{
		{
			OrderId: 1, OrderNumber: "SO-1001", CustomerName: "Chen Ya-Ting",
			TotalItems: 2, TotalQuantity: 5, PendingQuantity: 5,
			SummaryStatus: backorder.SummaryInProgress, SummaryStatusText: backorder.SummaryInProgress.Text(),
			Items: []backorder.LineContext{
				{
					OrderLine:        models.OrderLine{ID: 11, OrderId: 1, ProductVariantId: 101, Name: "Tea set", Quantity: 3},
					PendingQuantity:  3,
					PurchaseStatus:   backorder.PurchaseStatusPendingPurchase,
					IntegratedStatus: backorder.IntegratedPendingPurchase,
				},
				{
					OrderLine:        models.OrderLine{ID: 12, OrderId: 1, ProductVariantId: 102, Name: "Kettle", Quantity: 2},
					PendingQuantity:  2,
					PurchaseStatus:   backorder.PurchaseStatusPendingPurchase,
					Transfer:         &backorder.TransferContext{TransferNumber: "TR-501", Status: models.TransferStatusInTransit, Notes: "picked at store 2"},
					IntegratedStatus: backorder.IntegratedTransferInTransit,
				},
			},
		},
	}

	filename := filepath.Join(t.TempDir(), "backorders.xlsx")
	if err := SaveBackorderExcel(filename, groups); err != nil {
		t.Fatalf("SaveBackorderExcel: %v", err)
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	orders, err := f.GetRows(BackorderOrdersSheet)
	if err != nil {
		t.Fatalf("read orders sheet: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected header + 1 order row, got %d", len(orders))
	}
	if orders[1][0] != "SO-1001" || orders[1][2] != "2" || orders[1][3] != "5" || orders[1][5] != "in_progress" {
		t.Fatalf("unexpected order row %v", orders[1])
	}

	items, err := f.GetRows(BackorderItemsSheet)
	if err != nil {
		t.Fatalf("read items sheet: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected header + 2 item rows, got %d", len(items))
	}
	if items[2][8] != "TR-501" || items[2][10] != "transfer_in_transit" || items[2][12] != "picked at store 2" {
		t.Fatalf("unexpected item row %v", items[2])
	}
}

func TestExportBackorderExcel_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportBackorderExcel(&buf, nil); err != nil {
		t.Fatalf("ExportBackorderExcel: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(BackorderOrdersSheet)
	if err != nil {
		t.Fatalf("read orders sheet: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "OrderNumber" {
		t.Fatalf("expected only the header row, got %v", rows)
	}
}
