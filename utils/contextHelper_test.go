package utils

import (
	"context"
	"testing"
)

func TestEnsureCorrelationId(t *testing.T) {
	ctx, id := EnsureCorrelationId(context.Background())
	if id == "" {
		t.Fatalf("expected a generated correlation id")
	}
	if got, _ := GetCorrelationIdFromContext(ctx); got != id {
		t.Fatalf("expected %q in context, got %q", id, got)
	}

	kept, again := EnsureCorrelationId(SetCorrelationIdInContext(context.Background(), "req-42"))
	if again != "req-42" {
		t.Fatalf("expected existing id to be kept, got %q", again)
	}
	if got, _ := GetCorrelationIdFromContext(kept); got != "req-42" {
		t.Fatalf("context lost correlation id: %q", got)
	}
}

func TestRecordLockKey(t *testing.T) {
	if got := RecordLockKey("inventory_transfer", 42); got != "lock:inventory_transfer:42" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestObtainRecordLock_WithoutRedis(t *testing.T) {
	// no ConnectRedisWithRetry in unit tests: the lock is skipped, not failed
	lock, err := ObtainRecordLock(context.Background(), "inventory_transfer", 1, "utils", "TestObtainRecordLock")
	if lock != nil || err != nil {
		t.Fatalf("expected nil lock and nil error, got %v %v", lock, err)
	}
	ReleaseRecordLock(context.Background(), lock)
}
