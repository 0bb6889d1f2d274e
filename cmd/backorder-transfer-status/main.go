package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/backorder_backend/backorder"
	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/repository"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
)

func main() {
	orderLineID := flag.Int("order-line-id", 0, "Required: backordered order line id")
	status := flag.String("status", "", "Required: pending, in_transit, completed or cancelled")
	note := flag.String("note", "", "Note appended to the transfer's running notes")
	user := flag.String("user", os.Getenv("USER"), "Recorded as changed_by on the outbox event")
	strict := flag.Bool("strict", config.StrictTransferTransitions(), "Reject backward transitions")
	flag.Parse()

	if *orderLineID <= 0 || *status == "" {
		fmt.Fprintln(os.Stderr, "--order-line-id and --status are required")
		os.Exit(1)
	}

	if err := config.ConnectDatabaseWithRetry(5); err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	if err := config.ConnectRedisWithRetry(ctx, 3); err != nil {
		// row locks still serialize writers
		config.GetLogger().Warn("redis unavailable; continuing with row locks only: " + err.Error())
	}

	ctx = utils.SetSourceInContext(ctx, "backorder-transfer-status")
	ctx = utils.SetUserNameInContext(ctx, *user)
	ctx, correlationID := utils.EnsureCorrelationId(ctx)

	svc := backorder.NewService(repository.NewBackorderStore(config.GetDB()), config.GetLogger(),
		backorder.WithStrictTransitions(*strict),
		backorder.WithDebug(config.DebugBackorder()),
	)
	ok, err := svc.UpdateBackorderTransferStatus(ctx, *orderLineID, models.TransferStatus(*status), *note)
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		fmt.Fprintf(os.Stderr, "not found: %v\n", err)
		os.Exit(2)
	case errors.Is(err, backorder.ErrInvalidInput), errors.Is(err, backorder.ErrInvalidTransition):
		fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
		os.Exit(3)
	case errors.Is(err, utils.ErrorLockNotObtained):
		fmt.Fprintf(os.Stderr, "transfer is being updated by another request, retry: %v\n", err)
		os.Exit(4)
	case err != nil:
		fmt.Fprintf(os.Stderr, "update failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("updated=%v order_line_id=%d status=%s correlation_id=%s\n", ok, *orderLineID, *status, correlationID)
}
