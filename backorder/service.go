package backorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const moduleName = "backorder"

var tracer = otel.Tracer("backorder")

// Service answers backorder questions and performs the one transfer status update.
// It holds no state between calls.
type Service struct {
	store             Store
	logger            *logrus.Logger
	validate          *validator.Validate
	strictTransitions bool
	debug             bool
	now               func() time.Time
}

type Option func(*Service)

// WithStrictTransitions rejects backward transfer moves such as completed -> pending.
func WithStrictTransitions(strict bool) Option {
	return func(s *Service) { s.strictTransitions = strict }
}

// WithDebug logs every resolved line.
func WithDebug(debug bool) Option {
	return func(s *Service) { s.debug = debug }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, logger *logrus.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = config.GetLogger()
	}
	s := &Service{
		store:    store,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPendingBackorders returns backordered lines that no purchase line covers yet.
func (s *Service) ListPendingBackorders(ctx context.Context) ([]models.OrderLine, error) {
	ctx, span := tracer.Start(ctx, "backorder.ListPendingBackorders")
	defer span.End()

	var lines []models.OrderLine
	err := s.store.View(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		lines, err = repos.Lines.ListPendingPurchaseLines(ctx)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		config.LogError(s.logger, moduleName, "ListPendingBackorders", "list pending purchase lines", nil, err)
		return nil, err
	}
	if lines == nil {
		lines = []models.OrderLine{}
	}
	sortLines(lines)
	span.SetAttributes(attribute.Int("backorder.lines", len(lines)))
	return lines, nil
}

// ListPendingBackordersWithContext lists backordered lines that are not purchase
// linked, or that have a transfer, with their sources and statuses attached.
// All lines are resolved against one snapshot before any group summary is computed.
func (s *Service) ListPendingBackordersWithContext(ctx context.Context, opts ListOptions) (*Listing, error) {
	ctx, span := tracer.Start(ctx, "backorder.ListPendingBackordersWithContext", trace.WithAttributes(
		attribute.Bool("backorder.group_by_order", opts.GroupByOrder),
		attribute.Bool("backorder.include_transfer", opts.IncludeTransfer),
	))
	defer span.End()

	snapshot := NewSnapshot()
	var lines []models.OrderLine
	orders := make(map[int]models.Order)

	err := s.store.View(ctx, func(ctx context.Context, repos Repositories) error {
		all, err := repos.Lines.ListBackorderLines(ctx)
		if err != nil {
			return err
		}
		transfers, err := repos.Transfers.ListTransfersForOrders(ctx, orderIds(all))
		if err != nil {
			return err
		}
		snapshot.AddTransfers(transfers...)

		lines = make([]models.OrderLine, 0, len(all))
		for _, line := range all {
			if line.PurchaseLineId == nil || snapshot.HasTransfer(line) {
				lines = append(lines, line)
			}
		}

		purchaseLines, err := repos.Purchases.ListPurchaseLines(ctx, purchaseLineIds(lines))
		if err != nil {
			return err
		}
		snapshot.AddPurchaseLines(purchaseLines...)
		purchaseIds := make([]int, 0, len(purchaseLines))
		for _, pl := range purchaseLines {
			purchaseIds = append(purchaseIds, pl.PurchaseId)
		}
		purchases, err := repos.Purchases.ListPurchases(ctx, uniqueInts(purchaseIds))
		if err != nil {
			return err
		}
		snapshot.AddPurchases(purchases...)

		if opts.GroupByOrder {
			list, err := repos.Lines.ListOrders(ctx, orderIds(lines))
			if err != nil {
				return err
			}
			for _, o := range list {
				orders[o.ID] = o
			}
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		config.LogError(s.logger, moduleName, "ListPendingBackordersWithContext", "load snapshot", opts, err)
		return nil, err
	}

	sortLines(lines)
	withTransfer := opts.IncludeTransfer || opts.GroupByOrder
	items := make([]LineContext, 0, len(lines))
	for _, line := range lines {
		res := snapshot.Resolve(line)
		for _, inconsistency := range res.Inconsistencies {
			s.logger.WithFields(logrus.Fields{
				"field":              "ListPendingBackordersWithContext",
				"order_line_id":      line.ID,
				"order_id":           line.OrderId,
				"product_variant_id": line.ProductVariantId,
			}).Warn(inconsistency.Error())
		}
		item := buildLineContext(line, res, withTransfer)
		if s.debug {
			s.logger.WithFields(logrus.Fields{
				"field":             "ListPendingBackordersWithContext",
				"order_line_id":     line.ID,
				"purchase_status":   item.PurchaseStatus,
				"integrated_status": item.IntegratedStatus,
			}).Info("resolved backorder line")
		}
		items = append(items, item)
	}
	span.SetAttributes(attribute.Int("backorder.lines", len(items)))

	if opts.GroupByOrder {
		return &Listing{Groups: groupByOrder(items, orders)}, nil
	}
	return &Listing{Lines: items}, nil
}

type transferStatusInput struct {
	OrderLineId int    `validate:"required,gt=0"`
	Status      string `validate:"required,oneof=pending in_transit completed cancelled"`
	Note        string `validate:"max=2000"`
}

// UpdateBackorderTransferStatus sets the status of the transfer serving orderLineId and
// appends note to its running notes. The transfer row is locked for the read-modify-write;
// the status, the note and the outbox event commit together or not at all.
//
// A line without a transfer fails with ErrTransferNotFound; a missing line with
// ErrOrderLineNotFound. Both match utils.ErrorRecordNotFound.
func (s *Service) UpdateBackorderTransferStatus(ctx context.Context, orderLineId int, newStatus models.TransferStatus, note string) (bool, error) {
	ctx, span := tracer.Start(ctx, "backorder.UpdateBackorderTransferStatus", trace.WithAttributes(
		attribute.Int("backorder.order_line_id", orderLineId),
		attribute.String("backorder.new_status", string(newStatus)),
	))
	defer span.End()

	input := transferStatusInput{OrderLineId: orderLineId, Status: string(newStatus), Note: note}
	if err := s.validate.Struct(input); err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		recordSpanError(span, err)
		return false, err
	}

	changedBy, _ := utils.GetUserNameFromContext(ctx)
	source, _ := utils.GetSourceFromContext(ctx)
	var event models.TransferStatusChanged

	err := s.store.Update(ctx, func(ctx context.Context, repos Repositories) error {
		line, err := repos.Lines.GetOrderLine(ctx, orderLineId)
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return ErrOrderLineNotFound
		}
		if err != nil {
			return err
		}

		candidates, err := repos.Transfers.FindTransfers(ctx, line.OrderId, line.ProductVariantId)
		if err != nil {
			return err
		}
		picked, inconsistency := pickTransfer(*line, candidates)
		if picked == nil {
			return ErrTransferNotFound
		}
		if inconsistency != nil {
			config.LogError(s.logger, moduleName, "UpdateBackorderTransferStatus", "ambiguous transfer", orderLineId, inconsistency)
		}

		transfer, err := repos.Transfers.LockTransfer(ctx, picked.ID)
		if errors.Is(err, utils.ErrorRecordNotFound) {
			// deleted between lookup and lock
			return ErrTransferNotFound
		}
		if err != nil {
			return err
		}

		oldStatus := transfer.CurrentStatus
		if s.strictTransitions && !oldStatus.IsForwardMove(newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, oldStatus, newStatus)
		}

		transfer.AppendNote(note)
		if err := repos.Transfers.SaveTransferStatus(ctx, transfer.ID, newStatus, transfer.Notes); err != nil {
			return err
		}

		event = models.TransferStatusChanged{
			TransferId:       transfer.ID,
			OrderId:          transfer.OrderId,
			OrderLineId:      line.ID,
			ProductVariantId: transfer.ProductVariantId,
			OldStatus:        oldStatus,
			NewStatus:        newStatus,
			Note:             note,
			ChangedBy:        changedBy,
			ChangedAt:        s.now().UTC(),
		}
		return repos.Events.TransferStatusChanged(ctx, event)
	})
	if err != nil {
		recordSpanError(span, err)
		if !errors.Is(err, utils.ErrorRecordNotFound) && !errors.Is(err, ErrInvalidTransition) {
			config.LogError(s.logger, moduleName, "UpdateBackorderTransferStatus", "update transfer status", orderLineId, err)
		}
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"field":         "UpdateBackorderTransferStatus",
		"order_line_id": orderLineId,
		"transfer_id":   event.TransferId,
		"old_status":    event.OldStatus,
		"new_status":    event.NewStatus,
		"changed_by":    changedBy,
		"source":        source,
	}).Info("transfer status updated")
	return true, nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func orderIds(lines []models.OrderLine) []int {
	ids := make([]int, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.OrderId)
	}
	return uniqueInts(ids)
}

func purchaseLineIds(lines []models.OrderLine) []int {
	ids := make([]int, 0, len(lines))
	for _, l := range lines {
		if l.PurchaseLineId != nil {
			ids = append(ids, *l.PurchaseLineId)
		}
	}
	return uniqueInts(ids)
}

func uniqueInts(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
