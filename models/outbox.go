package models

import (
	"encoding/json"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"gorm.io/gorm"
)

// OutboxRecord is written inside the business transaction and published after commit
// by the outbox dispatcher.
type OutboxRecord struct {
	ID               int        `gorm:"primary_key;index:idx_outbox_dispatch,priority:3" json:"id"`
	EventType        string     `gorm:"size:100;not null;index" json:"event_type"`
	ReferenceType    string     `gorm:"size:64;not null" json:"reference_type"`
	ReferenceId      int        `gorm:"index;not null" json:"reference_id"`
	Payload          []byte     `gorm:"type:blob" json:"payload"`
	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"` // PENDING|PROCESSING|SENT|FAILED|DEAD
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	PubSubMessageId  *string    `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TransferStatusChanged is the payload of OutboxEventTransferStatusChanged.
type TransferStatusChanged struct {
	TransferId       int            `json:"transfer_id"`
	OrderId          *int           `json:"order_id"`
	OrderLineId      int            `json:"order_line_id"`
	ProductVariantId int            `json:"product_variant_id"`
	OldStatus        TransferStatus `json:"old_status"`
	NewStatus        TransferStatus `json:"new_status"`
	Note             string         `json:"note,omitempty"`
	ChangedBy        string         `json:"changed_by,omitempty"`
	ChangedAt        time.Time      `json:"changed_at"`
}

// WriteOutbox stores an event on tx. The caller owns the transaction.
func WriteOutbox(tx *gorm.DB, eventType string, referenceType string, referenceId int, payload any, correlationId string) (*OutboxRecord, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	record := OutboxRecord{
		EventType:     eventType,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
		Payload:       data,
		PublishStatus: OutboxPublishStatusPending,
		CorrelationId: correlationId,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func ConvertToPubSubMessage(record OutboxRecord) config.PubSubMessage {
	return config.PubSubMessage{
		ID:            record.ID,
		EventType:     record.EventType,
		ReferenceType: record.ReferenceType,
		ReferenceId:   record.ReferenceId,
		OccurredAt:    record.CreatedAt,
		Payload:       record.Payload,
		CorrelationId: record.CorrelationId,
	}
}
