package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockFailed = errors.New("failed to acquire distributed lock")

// DistributedLock is a Redis SetNX lock with an expiry to avoid deadlock
// when a holder dies. The value identifies the holder so Unlock never
// releases a lock that has expired and been re-acquired by someone else.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts to take the lock without blocking.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock retries TryLock up to maxRetries times, waiting retryInterval between
// attempts.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock releases the lock. The check-and-delete runs as a Lua script so it
// is atomic and only removes the key when this holder still owns it.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewSettleLock scopes the lock to one spending. Settlement recomputation
// (write paid-at, count unpaid, flip is_reimbursed) must not interleave for
// the same spending; different spendings settle concurrently.
func NewSettleLock(client *redis.Client, spendingID string) *DistributedLock {
	key := fmt.Sprintf("reimbursement:lock:spending:%s", spendingID)
	return NewDistributedLock(client, key, uuid.NewString(), 30*time.Second)
}
