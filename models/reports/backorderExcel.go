package reports

import (
	"io"

	"bitbucket.org/mmdatafocus/backorder_backend/backorder"
	"github.com/xuri/excelize/v2"
)

const (
	BackorderOrdersSheet = "Orders"
	BackorderItemsSheet  = "Items"
)

var backorderOrderHeadings = []string{
	"OrderNumber", "CustomerName", "TotalItems", "TotalQuantity", "PendingQuantity", "SummaryStatus", "SummaryStatusText",
}

var backorderItemHeadings = []string{
	"OrderNumber", "OrderLineId", "ProductVariantId", "Name", "Quantity", "PendingQuantity",
	"PurchaseStatus", "PurchaseNumber", "TransferNumber", "TransferStatus", "IntegratedStatus", "IntegratedStatusText", "Notes",
}

// NewBackorderWorkbook lays out grouped backorders on two sheets: one row per order
// and one row per line.
func NewBackorderWorkbook(groups []backorder.OrderGroup) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", BackorderOrdersSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(BackorderItemsSheet); err != nil {
		return nil, err
	}

	if err := setRow(f, BackorderOrdersSheet, 1, toCells(backorderOrderHeadings)); err != nil {
		return nil, err
	}
	if err := setRow(f, BackorderItemsSheet, 1, toCells(backorderItemHeadings)); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, g := range groups {
		err := setRow(f, BackorderOrdersSheet, i+2, []interface{}{
			g.OrderNumber, g.CustomerName, g.TotalItems, g.TotalQuantity, g.PendingQuantity,
			string(g.SummaryStatus), g.SummaryStatusText,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range g.Items {
			var purchaseNumber, transferNumber, transferStatus, notes string
			if item.Purchase != nil {
				purchaseNumber = item.Purchase.PurchaseNumber
			}
			if item.Transfer != nil {
				transferNumber = item.Transfer.TransferNumber
				transferStatus = string(item.Transfer.Status)
				notes = item.Transfer.Notes
			}
			err := setRow(f, BackorderItemsSheet, itemRow, []interface{}{
				g.OrderNumber, item.ID, item.ProductVariantId, item.Name, item.Quantity, item.PendingQuantity,
				string(item.PurchaseStatus), purchaseNumber, transferNumber, transferStatus,
				string(item.IntegratedStatus), item.IntegratedStatusText, notes,
			})
			if err != nil {
				return nil, err
			}
			itemRow++
		}
	}
	return f, nil
}

func ExportBackorderExcel(w io.Writer, groups []backorder.OrderGroup) error {
	f, err := NewBackorderWorkbook(groups)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func SaveBackorderExcel(filename string, groups []backorder.OrderGroup) error {
	f, err := NewBackorderWorkbook(groups)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(headings []string) []interface{} {
	cells := make([]interface{}, len(headings))
	for i, h := range headings {
		cells[i] = h
	}
	return cells
}
