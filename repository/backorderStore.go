package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/backorder_backend/backorder"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
	"github.com/bsm/redislock"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const transferLockType = "inventory_transfer"

// BackorderStore implements backorder.Store on MySQL.
type BackorderStore struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewBackorderStore(db *gorm.DB) *BackorderStore {
	return &BackorderStore{db: db}
}

// WithTx returns a store that runs View and Update on tx instead of opening its own
// transaction. The caller commits or rolls back.
func (s *BackorderStore) WithTx(tx *gorm.DB) *BackorderStore {
	return &BackorderStore{db: s.db, tx: tx}
}

// View runs fn in a read-only REPEATABLE READ transaction so every query fn makes
// sees the same snapshot.
func (s *BackorderStore) View(ctx context.Context, fn func(ctx context.Context, repos backorder.Repositories) error) error {
	if s.tx != nil {
		return fn(ctx, newGormRepos(s.tx.WithContext(ctx), nil))
	}
	tx := s.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := fn(ctx, newGormRepos(tx, nil)); err != nil {
		return err
	}
	return tx.Commit().Error
}

// Update runs fn in a transaction. Record locks taken through LockTransfer are
// released once the transaction has finished.
func (s *BackorderStore) Update(ctx context.Context, fn func(ctx context.Context, repos backorder.Repositories) error) error {
	locks := &lockSet{}
	defer locks.release(context.WithoutCancel(ctx))

	run := func(tx *gorm.DB) error {
		return fn(ctx, newGormRepos(tx, locks))
	}
	var err error
	if s.tx != nil {
		err = run(s.tx.WithContext(ctx))
	} else {
		err = s.db.WithContext(ctx).Transaction(run)
	}
	return mapLockError(err)
}

type lockSet struct {
	locks []*redislock.Lock
}

func (l *lockSet) add(lock *redislock.Lock) {
	if lock != nil {
		l.locks = append(l.locks, lock)
	}
}

func (l *lockSet) release(ctx context.Context) {
	for _, lock := range l.locks {
		utils.ReleaseRecordLock(ctx, lock)
	}
	l.locks = nil
}

// MySQL lock wait timeout and deadlock.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

func mapLockError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == mysqlErrLockWaitTimeout || myErr.Number == mysqlErrDeadlock) {
		return fmt.Errorf("%w: %v", utils.ErrorLockNotObtained, err)
	}
	return err
}

type gormRepos struct {
	tx    *gorm.DB
	locks *lockSet
}

func newGormRepos(tx *gorm.DB, locks *lockSet) backorder.Repositories {
	r := &gormRepos{tx: tx, locks: locks}
	return backorder.Repositories{Lines: r, Purchases: r, Transfers: r, Events: r}
}

func (r *gormRepos) GetOrderLine(ctx context.Context, id int) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.tx.WithContext(ctx).First(&line, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *gormRepos) openBackorderLines(ctx context.Context) *gorm.DB {
	return r.tx.WithContext(ctx).
		Select("order_lines.*").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("order_lines.is_backorder = ? AND orders.current_status = ?", true, models.OrderStatusOpen).
		Order("order_lines.order_id, order_lines.id")
}

func (r *gormRepos) ListPendingPurchaseLines(ctx context.Context) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.openBackorderLines(ctx).
		Where("order_lines.purchase_line_id IS NULL").
		Find(&lines).Error
	return lines, err
}

func (r *gormRepos) ListBackorderLines(ctx context.Context) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.openBackorderLines(ctx).Find(&lines).Error
	return lines, err
}

func (r *gormRepos) ListOrders(ctx context.Context, ids []int) ([]models.Order, error) {
	var orders []models.Order
	if len(ids) == 0 {
		return orders, nil
	}
	err := r.tx.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&orders).Error
	return orders, err
}

func (r *gormRepos) ListPurchaseLines(ctx context.Context, ids []int) ([]models.PurchaseLine, error) {
	var lines []models.PurchaseLine
	if len(ids) == 0 {
		return lines, nil
	}
	err := r.tx.WithContext(ctx).Where("id IN ?", ids).Find(&lines).Error
	return lines, err
}

func (r *gormRepos) ListPurchases(ctx context.Context, ids []int) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if len(ids) == 0 {
		return purchases, nil
	}
	err := r.tx.WithContext(ctx).Where("id IN ?", ids).Find(&purchases).Error
	return purchases, err
}

func (r *gormRepos) ListTransfersForOrders(ctx context.Context, orderIds []int) ([]models.InventoryTransfer, error) {
	var transfers []models.InventoryTransfer
	if len(orderIds) == 0 {
		return transfers, nil
	}
	err := r.tx.WithContext(ctx).Where("order_id IN ?", orderIds).Order("id").Find(&transfers).Error
	return transfers, err
}

func (r *gormRepos) FindTransfers(ctx context.Context, orderId int, productVariantId int) ([]models.InventoryTransfer, error) {
	var transfers []models.InventoryTransfer
	err := r.tx.WithContext(ctx).
		Where("order_id = ? AND product_variant_id = ?", orderId, productVariantId).
		Order("id").
		Find(&transfers).Error
	return transfers, err
}

// LockTransfer takes the redis record lock (best effort) and then the row lock.
func (r *gormRepos) LockTransfer(ctx context.Context, id int) (*models.InventoryTransfer, error) {
	if r.locks == nil {
		return nil, errors.New("LockTransfer called outside Update")
	}
	lock, err := utils.ObtainRecordLock(ctx, transferLockType, id, "repository", "LockTransfer")
	if err != nil {
		return nil, err
	}
	r.locks.add(lock)

	var transfer models.InventoryTransfer
	err = r.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&transfer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *gormRepos) SaveTransferStatus(ctx context.Context, id int, status models.TransferStatus, notes string) error {
	return r.tx.WithContext(ctx).
		Model(&models.InventoryTransfer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_status": status,
			"notes":          notes,
		}).Error
}

func (r *gormRepos) TransferStatusChanged(ctx context.Context, event models.TransferStatusChanged) error {
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	_, err := models.WriteOutbox(r.tx.WithContext(ctx),
		models.OutboxEventTransferStatusChanged,
		models.OutboxReferenceTypeInventoryTransfer,
		event.TransferId,
		event,
		correlationId,
	)
	return err
}
