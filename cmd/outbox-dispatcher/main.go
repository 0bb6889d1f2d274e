package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
	"bitbucket.org/mmdatafocus/backorder_backend/workflow"
	"github.com/sirupsen/logrus"
)

func main() {
	once := flag.Bool("once", false, "Dispatch a single batch and exit")
	batchSize := flag.Int("batch-size", 50, "Records claimed per batch")
	pollInterval := flag.Duration("poll-interval", 500*time.Millisecond, "Delay between batches")
	maxAttempts := flag.Int("max-attempts", 20, "Publish attempts before a record goes DEAD")
	statusTransferID := flag.Int("status-transfer-id", 0, "Print the latest outbox row for an inventory transfer and exit")
	requeueTransferID := flag.Int("requeue-transfer-id", 0, "Requeue FAILED/DEAD outbox rows of an inventory transfer and exit")
	flag.Parse()

	if err := config.ConnectDatabaseWithRetry(0); err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	logger := config.GetLogger()

	d := workflow.NewOutboxDispatcher(config.GetDB(), logger)
	d.BatchSize = *batchSize
	d.PollInterval = *pollInterval
	d.MaxAttempts = *maxAttempts

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *statusTransferID > 0 {
		status, err := models.GetOutboxStatus(ctx, config.GetDB(), models.OutboxReferenceTypeInventoryTransfer, *statusTransferID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "outbox status: %v\n", err)
			os.Exit(1)
		}
		_ = utils.WriteIndentedJSON(os.Stdout, status)
		return
	}
	if *requeueTransferID > 0 {
		n, err := models.RequeueOutbox(ctx, config.GetDB(), models.OutboxReferenceTypeInventoryTransfer, *requeueTransferID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "requeue outbox: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("requeued %d records\n", n)
		return
	}

	if *once {
		sent, err := d.DispatchOnce(ctx)
		if err != nil {
			config.LogError(logger, "cmd", "outbox-dispatcher", "dispatch once", nil, err)
			os.Exit(1)
		}
		fmt.Printf("sent %d records\n", sent)
		return
	}

	logger.WithFields(logrus.Fields{
		"dispatcher_id": d.DispatcherID,
		"batch_size":    d.BatchSize,
		"poll_interval": d.PollInterval.String(),
	}).Info("outbox dispatcher started")
	d.Run(ctx)
	logger.Info("outbox dispatcher stopped")
}
