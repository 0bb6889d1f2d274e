package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"bitbucket.org/mmdatafocus/backorder_backend/backorder"
	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/models/reports"
	"bitbucket.org/mmdatafocus/backorder_backend/money"
	"bitbucket.org/mmdatafocus/backorder_backend/repository"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
	"gorm.io/gorm"
)

func main() {
	format := flag.String("format", "json", "Output format: json, xlsx or text")
	out := flag.String("out", "", "Output file (json/text default to stdout, xlsx defaults to backorders.xlsx)")
	groupByOrder := flag.Bool("group-by-order", true, "Group lines by order with an order-level summary status")
	includeTransfer := flag.Bool("include-transfer", true, "Attach transfer context to flat listings")
	pendingOnly := flag.Bool("pending-only", false, "Only list lines awaiting any sourcing decision, without context")
	flag.Parse()

	*format = strings.ToLower(strings.TrimSpace(*format))
	if *format != "json" && *format != "xlsx" && *format != "text" {
		fmt.Fprintln(os.Stderr, "--format must be json, xlsx or text")
		os.Exit(1)
	}
	if (*format == "xlsx" || *format == "text") && !*groupByOrder {
		fmt.Fprintln(os.Stderr, "--format="+*format+" needs --group-by-order")
		os.Exit(1)
	}

	if err := config.ConnectDatabaseWithRetry(5); err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	db := config.GetDB()
	logger := config.GetLogger()
	ctx, _ := utils.EnsureCorrelationId(utils.SetSourceInContext(context.Background(), "backorder-report"))

	svc := backorder.NewService(repository.NewBackorderStore(db), logger,
		backorder.WithDebug(config.DebugBackorder()),
	)

	if *pendingOnly {
		lines, err := svc.ListPendingBackorders(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list pending backorders: %v\n", err)
			os.Exit(1)
		}
		writeJSON(*out, lines)
		return
	}

	listing, err := svc.ListPendingBackordersWithContext(ctx, backorder.ListOptions{
		GroupByOrder:    *groupByOrder,
		IncludeTransfer: *includeTransfer,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "list backorders: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "xlsx":
		filename := *out
		if filename == "" {
			filename = "backorders.xlsx"
		}
		if err := reports.SaveBackorderExcel(filename, listing.Groups); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", filename, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %d orders to %s\n", len(listing.Groups), filename)
	case "text":
		if err := writeText(ctx, db, *out, listing.Groups); err != nil {
			fmt.Fprintf(os.Stderr, "write report: %v\n", err)
			os.Exit(1)
		}
	default:
		if *groupByOrder {
			writeJSON(*out, listing.Groups)
		} else {
			writeJSON(*out, listing.Lines)
		}
	}
}

func openOutput(path string) (*os.File, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	return f, func() { _ = f.Close() }
}

func writeJSON[T any](path string, v T) {
	w, done := openOutput(path)
	defer done()
	if err := utils.WriteIndentedJSON(w, v); err != nil {
		fmt.Fprintf(os.Stderr, "encode json: %v\n", err)
		os.Exit(1)
	}
}

// writeText prints one row per order with its total and tax split, in the configured currency.
func writeText(ctx context.Context, db *gorm.DB, path string, groups []backorder.OrderGroup) error {
	ids := make([]int, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.OrderId)
	}
	var orders []models.Order
	if len(ids) > 0 {
		if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&orders).Error; err != nil {
			return err
		}
	}
	byId := make(map[int]models.Order, len(orders))
	for _, o := range orders {
		byId[o.ID] = o
	}

	engine := money.NewEngine(config.LoadMoneyConfig())
	w, done := openOutput(path)
	defer done()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tCUSTOMER\tITEMS\tQTY\tPENDING\tSTATUS\tTOTAL\tTAX")
	for _, g := range groups {
		summary := byId[g.OrderId].TaxSummary(engine)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			g.OrderNumber, g.CustomerName, g.TotalItems, g.TotalQuantity, g.PendingQuantity,
			g.SummaryStatusText, engine.Format(summary.TotalAmount), engine.FormatWithDecimals(summary.TaxAmount))
	}
	return tw.Flush()
}
