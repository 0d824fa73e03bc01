package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestArchivingProvider_FetchRates(t *testing.T) {
	logger := zap.NewNop().Sugar()
	snap := Snapshot{USDRate: 75, EURRate: 85}

	t.Run("records successful fetch", func(t *testing.T) {
		mockProv := new(MockProvider)
		rec := new(MockRecorder)
		mockProv.On("FetchRates", mock.Anything).Return(snap, nil)
		rec.On("RecordSnapshot", mock.Anything, "cbr_daily", snap, mock.Anything).Return(nil)

		got, err := NewArchivingProvider(mockProv, rec, "cbr_daily", logger).FetchRates(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, snap, got)
		rec.AssertExpectations(t)
	})

	t.Run("archive failure does not fail fetch", func(t *testing.T) {
		mockProv := new(MockProvider)
		rec := new(MockRecorder)
		mockProv.On("FetchRates", mock.Anything).Return(snap, nil)
		rec.On("RecordSnapshot", mock.Anything, "cbr_daily", snap, mock.Anything).Return(assert.AnError)

		got, err := NewArchivingProvider(mockProv, rec, "cbr_daily", logger).FetchRates(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, snap, got)
	})

	t.Run("fetch failure is not recorded", func(t *testing.T) {
		mockProv := new(MockProvider)
		rec := new(MockRecorder)
		mockProv.On("FetchRates", mock.Anything).Return(Snapshot{}, assert.AnError)

		_, err := NewArchivingProvider(mockProv, rec, "cbr_daily", logger).FetchRates(context.Background())

		assert.Error(t, err)
		rec.AssertNotCalled(t, "RecordSnapshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
