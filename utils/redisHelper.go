package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

const RecordLockTTL = 30 * time.Second

// RecordLockKey is the redis key guarding one record, e.g. lock:inventory_transfer:42.
func RecordLockKey(referenceType string, id int) string {
	return fmt.Sprintf("lock:%s:%d", referenceType, id)
}

// ObtainRecordLock takes a best-effort redis lock on one record.
//
// A nil lock with a nil error means redis is not configured or unreachable; the caller
// proceeds and relies on the database row lock. When another request holds the lock,
// ErrorLockNotObtained is returned so the caller can fail fast instead of queueing on
// the row lock.
func ObtainRecordLock(ctx context.Context, referenceType string, id int, moduleName string, functionName string) (*redislock.Lock, error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		return nil, nil
	}
	key := RecordLockKey(referenceType, id)
	lock, err := locker.Obtain(ctx, key, RecordLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		config.LogError(logger, moduleName, functionName, "Could not obtain record lock", key, err)
		return nil, ErrorLockNotObtained
	} else if err != nil {
		logger.WithFields(logrus.Fields{
			"field":    functionName,
			"lock_key": key,
		}).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
		return nil, nil
	}
	return lock, nil
}

// ReleaseRecordLock releases lock if it is non-nil. Release failures only log;
// the TTL expires the key anyway.
func ReleaseRecordLock(ctx context.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		config.GetLogger().WithFields(logrus.Fields{
			"field":    "ReleaseRecordLock",
			"lock_key": lock.Key(),
		}).Warn("failed to release redis lock: " + err.Error())
	}
}
