package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestExchangeProviderFacade_FetchRates(t *testing.T) {
	want := Snapshot{USDRate: 75, EURRate: 85}

	t.Run("first succeeds", func(t *testing.T) {
		m1 := new(MockProvider)
		m2 := new(MockProvider)

		m1.On("FetchRates", mock.Anything).Return(want, nil)

		p := NewExchangeProviderFacade(m1, m2)
		snap, err := p.FetchRates(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, want, snap)
		m1.AssertExpectations(t)
		m2.AssertNotCalled(t, "FetchRates", mock.Anything)
	})

	t.Run("first fails, second succeeds", func(t *testing.T) {
		m1 := new(MockProvider)
		m2 := new(MockProvider)

		m1.On("FetchRates", mock.Anything).Return(Snapshot{}, errors.New("m1 failed"))
		m2.On("FetchRates", mock.Anything).Return(want, nil)

		p := NewExchangeProviderFacade(m1, m2)
		snap, err := p.FetchRates(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, want, snap)
		m1.AssertExpectations(t)
		m2.AssertExpectations(t)
	})

	t.Run("all fail", func(t *testing.T) {
		m1 := new(MockProvider)
		m2 := new(MockProvider)

		m1.On("FetchRates", mock.Anything).Return(Snapshot{}, &FetchError{Provider: "m1", Reason: ReasonTimeout, Err: errors.New("m1 failed")})
		m2.On("FetchRates", mock.Anything).Return(Snapshot{}, errors.New("m2 failed"))

		p := NewExchangeProviderFacade(m1, m2)
		_, err := p.FetchRates(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "all providers failed")
		assert.Contains(t, err.Error(), "m1 failed")
		assert.Contains(t, err.Error(), "m2 failed")
		assert.True(t, errors.Is(err, ErrUnavailable))
		reason, ok := ReasonOf(err)
		assert.True(t, ok)
		assert.Equal(t, ReasonTimeout, reason)
		m1.AssertExpectations(t)
		m2.AssertExpectations(t)
	})

	t.Run("no providers", func(t *testing.T) {
		_, err := NewExchangeProviderFacade().FetchRates(context.Background())

		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}
