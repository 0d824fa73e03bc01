package api

import (
	"context"

	"rubconverter/internal/repository"
	"rubconverter/internal/service"
)

// mockConversionService implements service.ConversionServiceInterface for testing.
type mockConversionService struct {
	convertFunc           func(ctx context.Context, rawAmount, currency string) ([]*service.Conversion, error)
	requestConversionFunc func(ctx context.Context, rawAmount, currency string) (string, string, error)
	getConversionFunc     func(ctx context.Context, conversionID string) (*service.ConversionResult, error)
	currentRatesFunc      func(ctx context.Context) (map[service.Currency]float64, error)
	rateArchiveFunc       func(ctx context.Context, limit int) ([]repository.RateSnapshot, error)
	latestArchivedFunc    func(ctx context.Context) (*repository.RateSnapshot, error)
	history               []string
	cleared               bool
}

func (m *mockConversionService) Convert(ctx context.Context, rawAmount, currency string) ([]*service.Conversion, error) {
	return m.convertFunc(ctx, rawAmount, currency)
}

func (m *mockConversionService) RequestConversion(ctx context.Context, rawAmount, currency string) (string, string, error) {
	return m.requestConversionFunc(ctx, rawAmount, currency)
}

func (m *mockConversionService) GetConversion(ctx context.Context, conversionID string) (*service.ConversionResult, error) {
	return m.getConversionFunc(ctx, conversionID)
}

func (m *mockConversionService) ProcessConversion(_ context.Context, _ string, _ float64, _ string) (*service.Conversion, error) {
	return nil, nil // Not used in handler tests
}

func (m *mockConversionService) CurrentRates(ctx context.Context) (map[service.Currency]float64, error) {
	return m.currentRatesFunc(ctx)
}

func (m *mockConversionService) RateArchive(ctx context.Context, limit int) ([]repository.RateSnapshot, error) {
	return m.rateArchiveFunc(ctx, limit)
}

func (m *mockConversionService) LatestArchivedRates(ctx context.Context) (*repository.RateSnapshot, error) {
	return m.latestArchivedFunc(ctx)
}

func (m *mockConversionService) History() []string {
	return m.history
}

func (m *mockConversionService) ClearHistory() {
	m.cleared = true
	m.history = nil
}
