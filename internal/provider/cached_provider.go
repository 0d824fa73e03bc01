package provider

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched snapshot is served without asking upstream again.
const DefaultTTL = time.Hour

// CachedRatesProvider wraps a RatesProvider with a time-to-live snapshot cache.
type CachedRatesProvider struct {
	provider   RatesProvider
	store      SnapshotStore
	ttl        time.Duration
	now        func() time.Time
	serveStale bool
	log        *zap.SugaredLogger
	group      singleflight.Group
}

// CachedOption customizes a CachedRatesProvider.
type CachedOption func(*CachedRatesProvider)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) CachedOption {
	return func(p *CachedRatesProvider) { p.now = now }
}

// WithStaleFallback serves the last stored snapshot when a refresh fails.
func WithStaleFallback(enabled bool) CachedOption {
	return func(p *CachedRatesProvider) { p.serveStale = enabled }
}

// NewCachedRatesProvider creates a new CachedRatesProvider.
func NewCachedRatesProvider(provider RatesProvider, store SnapshotStore, ttl time.Duration, logger *zap.SugaredLogger, opts ...CachedOption) *CachedRatesProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if store == nil {
		store = NewMemorySnapshotStore()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	p := &CachedRatesProvider{
		provider: provider,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		log:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchRates returns the stored snapshot while it is younger than the TTL,
// otherwise fetches a new one. A failed fetch leaves the stored entry as it was.
func (p *CachedRatesProvider) FetchRates(ctx context.Context) (Snapshot, error) {
	entry, ok := p.load(ctx)
	if ok && p.fresh(entry) {
		return entry.Snapshot, nil
	}

	// The shared refresh must outlive any single caller; the HTTP client bounds it.
	refreshCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan("rates", func() (any, error) {
		// Another caller may have refreshed the store while we waited.
		if e, hit := p.load(refreshCtx); hit && p.fresh(e) {
			return e.Snapshot, nil
		}

		snap, err := p.provider.FetchRates(refreshCtx)
		if err != nil {
			return Snapshot{}, err
		}

		if err := p.store.Save(refreshCtx, CacheEntry{Snapshot: snap, FetchedAt: p.now()}); err != nil {
			p.log.Warnw("Failed to update rates cache", "error", err)
		}
		return snap, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	v, err := res.Val, res.Err
	if err != nil {
		if p.serveStale && ok {
			p.log.Warnw("Serving stale rates after fetch failure",
				"fetched_at", entry.FetchedAt, "error", err)
			return entry.Snapshot, nil
		}
		return Snapshot{}, err
	}

	return v.(Snapshot), nil
}

func (p *CachedRatesProvider) load(ctx context.Context) (CacheEntry, bool) {
	entry, ok, err := p.store.Load(ctx)
	if err != nil {
		p.log.Warnw("Failed to read rates cache", "error", err)
		return CacheEntry{}, false
	}
	return entry, ok
}

func (p *CachedRatesProvider) fresh(entry CacheEntry) bool {
	return p.now().Sub(entry.FetchedAt) < p.ttl
}

var _ RatesProvider = (*CachedRatesProvider)(nil)
