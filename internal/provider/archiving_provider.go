package provider

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SnapshotRecorder stores successfully fetched snapshots for later inspection.
type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context, source string, snap Snapshot, fetchedAt time.Time) error
}

// ArchivingProvider records every snapshot its provider returns.
// Recording errors are logged and never fail the fetch.
type ArchivingProvider struct {
	provider RatesProvider
	recorder SnapshotRecorder
	source   string
	log      *zap.SugaredLogger
}

// NewArchivingProvider creates a new ArchivingProvider.
func NewArchivingProvider(provider RatesProvider, recorder SnapshotRecorder, source string, logger *zap.SugaredLogger) *ArchivingProvider {
	return &ArchivingProvider{
		provider: provider,
		recorder: recorder,
		source:   source,
		log:      logger,
	}
}

// FetchRates delegates to the wrapped provider and archives the result.
func (p *ArchivingProvider) FetchRates(ctx context.Context) (Snapshot, error) {
	snap, err := p.provider.FetchRates(ctx)
	if err != nil {
		p.log.Warnw("Rates fetch failed", "source", p.source, "error", err)
		return Snapshot{}, err
	}

	p.log.Infow("Fetched rates", "source", p.source, "usd", snap.USDRate, "eur", snap.EURRate)
	if p.recorder != nil {
		if err := p.recorder.RecordSnapshot(ctx, p.source, snap, time.Now().UTC()); err != nil {
			p.log.Warnw("Failed to archive rates snapshot", "source", p.source, "error", err)
		}
	}
	return snap, nil
}

var _ RatesProvider = (*ArchivingProvider)(nil)
