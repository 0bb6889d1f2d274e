package models

// Outbox publish statuses for OutboxRecord.PublishStatus.
const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)

// Outbox event types.
const (
	OutboxEventTransferStatusChanged = "backorder.transfer_status_changed"
)

const OutboxReferenceTypeInventoryTransfer = "inventory_transfers"
