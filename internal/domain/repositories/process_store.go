package repositories

import (
	"context"
	"time"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// ProcessStore is the external idempotency/lock coordinator keyed by bot id.
// Every webhook delivery may land on a different stateless instance, so all
// cross-invocation coordination goes through this store. TryAcquire must be
// an atomic set-if-absent: a read followed by a write is explicitly unsafe.
type ProcessStore interface {
	// TryAcquire atomically acquires the per-bot lock. It returns false,
	// without error, when another invocation already holds it.
	TryAcquire(ctx context.Context, botID string, ttl time.Duration) (bool, error)
	// Release frees the lock. Callers pair it with TryAcquire via defer so
	// it runs on every exit path.
	Release(ctx context.Context, botID string) error

	GetRecord(ctx context.Context, botID string) (*entities.ProcessRecord, error)
	PutRecord(ctx context.Context, record *entities.ProcessRecord, ttl time.Duration) error
	// DeleteRecord removes the record after a failed run so a provider
	// redelivery can retry from scratch.
	DeleteRecord(ctx context.Context, botID string) error
}
