package reportcache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T, now time.Time) (*Cache, *MemoryStore, *clock.FakeClock) {
	t.Helper()

	store := NewMemoryStore()
	fake := clock.NewFakeClock(now)
	cache := NewCache(Params{
		Store: store,
		Holder: config.NewStaticReportConfigHolder(config.ReportConfig{
			ClosedPeriodTTLSeconds: int((7 * 24 * time.Hour).Seconds()),
			OpenPeriodTTLSeconds:   int((15 * time.Minute).Seconds()),
			PrewarmYears:           2,
			PrewarmWorkers:         2,
			PrewarmQueueSize:       8,
		}),
		Clock: fake,
		Log:   zap.NewNop(),
	})
	return cache, store, fake
}

func TestKey(t *testing.T) {
	assert.Equal(t, "recoverability|b100|fy2026", Key("recoverability", " B100 ", "FY2026"))
	assert.Equal(t, "recoverability|b100", Key("recoverability", "B100", ""))
}

func TestCacheRoundTrip(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	cache, _, _ := newTestCache(t, now)

	fy := 2025
	report := domain.Report{
		BillerCode: "B100",
		FiscalYear: &fy,
		Clients: []domain.ClientEntry{{
			ClientID:     "C-1",
			TotalBalance: decimal.RequireFromString("125.50"),
			InvoiceCount: 3,
		}},
	}
	period := domain.Period{
		WindowStart: domain.FiscalYearStart(fy),
		WindowEnd:   domain.FiscalYearEnd(fy),
		FiscalYear:  fy,
	}

	key := Key("recoverability", "B100", period.CacheKeyPart())
	cache.Set(context.Background(), key, period, report)

	got, ok := cache.Get(context.Background(), key)
	require.True(t, ok)
	assert.Equal(t, "B100", got.BillerCode)
	require.Len(t, got.Clients, 1)
	assert.True(t, got.Clients[0].TotalBalance.Equal(decimal.RequireFromString("125.50")))
	assert.True(t, cache.Contains(context.Background(), key))
}

func TestCacheMiss(t *testing.T) {
	cache, _, _ := newTestCache(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))

	_, ok := cache.Get(context.Background(), Key("recoverability", "B100", "fy2020"))
	assert.False(t, ok)
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	cache, store, _ := newTestCache(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, store.Set(context.Background(), "bad", []byte("{not json"), time.Minute))
	_, ok := cache.Get(context.Background(), "bad")
	assert.False(t, ok)
}

func TestCacheTTLByPeriodState(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	cache, store, _ := newTestCache(t, now)

	closed := domain.Period{
		WindowStart: domain.FiscalYearStart(2024),
		WindowEnd:   domain.FiscalYearEnd(2024),
		FiscalYear:  2024,
	}
	open := domain.Period{
		WindowStart: domain.FiscalYearStart(2026),
		WindowEnd:   domain.FiscalYearEnd(2026),
		FiscalYear:  2026,
	}

	cache.Set(context.Background(), "closed", closed, domain.Report{BillerCode: "B100"})
	cache.Set(context.Background(), "open", open, domain.Report{BillerCode: "B100"})

	store.mu.RLock()
	closedExpiry := store.entries["closed"].expiresAt
	openExpiry := store.entries["open"].expiresAt
	store.mu.RUnlock()

	assert.True(t, closedExpiry.After(openExpiry), "closed periods must outlive open ones in cache")
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Minute))

	_, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok, err = store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}
