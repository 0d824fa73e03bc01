package provider

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) FetchRates(ctx context.Context) (Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(Snapshot), args.Error(1)
}

// providerFunc adapts a function to RatesProvider.
type providerFunc func(ctx context.Context) (Snapshot, error)

func (f providerFunc) FetchRates(ctx context.Context) (Snapshot, error) { return f(ctx) }

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordSnapshot(ctx context.Context, source string, snap Snapshot, fetchedAt time.Time) error {
	args := m.Called(ctx, source, snap, fetchedAt)
	return args.Error(0)
}

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
