package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/utils"
	"gorm.io/gorm"
)

// OutboxStatus is an operator view of the latest outbox row for one record.
type OutboxStatus struct {
	RecordId         int        `json:"record_id"`
	EventType        string     `json:"event_type"`
	ReferenceType    string     `json:"reference_type"`
	ReferenceId      int        `json:"reference_id"`
	PublishStatus    string     `json:"publish_status"`
	PublishAttempts  int        `json:"publish_attempts"`
	NextAttemptAt    *time.Time `json:"next_attempt_at"`
	LastPublishError *string    `json:"last_publish_error"`
	CreatedAt        time.Time  `json:"created_at"`
	PublishedAt      *time.Time `json:"published_at"`
}

func toOutboxStatus(r OutboxRecord) *OutboxStatus {
	return &OutboxStatus{
		RecordId:         r.ID,
		EventType:        r.EventType,
		ReferenceType:    r.ReferenceType,
		ReferenceId:      r.ReferenceId,
		PublishStatus:    r.PublishStatus,
		PublishAttempts:  r.PublishAttempts,
		NextAttemptAt:    r.NextAttemptAt,
		LastPublishError: r.LastPublishError,
		CreatedAt:        r.CreatedAt,
		PublishedAt:      r.PublishedAt,
	}
}

// GetOutboxStatus returns the latest outbox row for the reference.
func GetOutboxStatus(ctx context.Context, db *gorm.DB, referenceType string, referenceId int) (*OutboxStatus, error) {
	var record OutboxRecord
	err := db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceId).
		Order("id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return toOutboxStatus(record), nil
}

// RequeueOutbox puts FAILED and DEAD rows of the reference back to PENDING with a fresh
// attempt budget. It returns how many rows were requeued.
func RequeueOutbox(ctx context.Context, db *gorm.DB, referenceType string, referenceId int) (int64, error) {
	res := db.WithContext(ctx).
		Model(&OutboxRecord{}).
		Where("reference_type = ? AND reference_id = ? AND publish_status IN ?", referenceType, referenceId,
			[]string{OutboxPublishStatusFailed, OutboxPublishStatusDead}).
		Updates(map[string]interface{}{
			"publish_status":     OutboxPublishStatusPending,
			"publish_attempts":   0,
			"next_attempt_at":    nil,
			"locked_at":          nil,
			"locked_by":          nil,
			"last_publish_error": nil,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, utils.ErrorRecordNotFound
	}
	return res.RowsAffected, nil
}
