package reportcache

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Cache is the read-through report cache. Closed fiscal periods are immutable
// and keep a long TTL; the still-open period stays fresh on a short one.
type Cache struct {
	store  Store
	holder *config.ReportConfigHolder
	clock  clock.Clock
	log    *zap.Logger
}

type Params struct {
	fx.In

	Store  Store
	Holder *config.ReportConfigHolder
	Clock  clock.Clock
	Log    *zap.Logger
}

func NewCache(p Params) *Cache {
	return &Cache{
		store:  p.Store,
		holder: p.Holder,
		clock:  p.Clock,
		log:    p.Log.Named("reportcache"),
	}
}

// Get returns the cached report for the key, if present. Store failures are
// logged and treated as a miss.
func (c *Cache) Get(ctx context.Context, key string) (domain.Report, bool) {
	payload, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return domain.Report{}, false
	}
	if !ok {
		return domain.Report{}, false
	}
	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		c.log.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return domain.Report{}, false
	}
	return report, true
}

// Contains reports whether the key is already cached without decoding it.
func (c *Cache) Contains(ctx context.Context, key string) bool {
	_, ok, err := c.store.Get(ctx, key)
	return err == nil && ok
}

// Set stores the report under the key with a TTL picked from whether the
// period is already closed. Failures are logged, never surfaced.
func (c *Cache) Set(ctx context.Context, key string, period domain.Period, report domain.Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	cfg := c.holder.Get()
	ttl := cfg.OpenPeriodTTL()
	if period.Closed(c.clock.Now()) {
		ttl = cfg.ClosedPeriodTTL()
	}
	if err := c.store.Set(ctx, key, payload, ttl); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Key builds a cache key from its parts: lowercased, trimmed, pipe-joined.
// Empty parts are skipped so optional segments never leave a dangling
// separator.
func Key(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
