package reportcache

import (
	"context"
	"time"
)

// Store is the byte-level backing store for rendered reports.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
