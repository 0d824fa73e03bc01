package provider

import (
	"context"
	"errors"
	"fmt"
)

var _ RatesProvider = (*ExchangeProviderFacade)(nil)

// ExchangeProviderFacade calls providers sequentially.
type ExchangeProviderFacade struct {
	providers []RatesProvider
}

// NewExchangeProviderFacade creates a new ExchangeProviderFacade with the given list of providers.
func NewExchangeProviderFacade(providers ...RatesProvider) *ExchangeProviderFacade {
	return &ExchangeProviderFacade{
		providers: providers,
	}
}

// FetchRates calls providers in order until one succeeds.
func (p *ExchangeProviderFacade) FetchRates(ctx context.Context) (Snapshot, error) {
	var errs []error
	for _, prov := range p.providers {
		snap, err := prov.FetchRates(ctx)
		if err == nil {
			return snap, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	if len(errs) == 0 {
		return Snapshot{}, &FetchError{Provider: "facade", Reason: ReasonConnection, Err: errors.New("no providers configured")}
	}
	return Snapshot{}, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}
