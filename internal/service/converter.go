// Package service implements RUB conversion on top of the rates provider.
package service

import (
	"context"
	"fmt"

	"rubconverter/internal/provider"
)

// Conversion is a successful conversion of a RUB amount into one currency.
type Conversion struct {
	Amount   float64
	Currency Currency
	Rate     float64
	Value    float64
	Text     string
}

// Converter converts RUB amounts using the rates returned by a provider.
type Converter struct {
	provider provider.RatesProvider
}

// NewConverter creates a new Converter.
func NewConverter(prov provider.RatesProvider) *Converter {
	return &Converter{provider: prov}
}

// Convert converts amount RUB into c.
// Unsupported selectors fail before rates are requested.
func (c *Converter) Convert(ctx context.Context, amount float64, cur Currency) (*Conversion, error) {
	if !cur.Supported() {
		return nil, ErrUnsupportedCurrency
	}

	snap, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return convertWith(snap, amount, cur)
}

// ConvertAll converts amount RUB into every supported currency using one snapshot.
func (c *Converter) ConvertAll(ctx context.Context, amount float64) ([]*Conversion, error) {
	snap, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Conversion, 0, len(supportedCurrencies))
	for _, cur := range supportedCurrencies {
		conv, err := convertWith(snap, amount, cur)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

// ConvertRaw parses a raw amount and currency code before converting.
func (c *Converter) ConvertRaw(ctx context.Context, rawAmount, code string) (*Conversion, error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}
	cur, err := ParseCurrency(code)
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, amount, cur)
}

// Rates returns the current rate of every supported currency, derived ones included.
func (c *Converter) Rates(ctx context.Context) (map[Currency]float64, error) {
	snap, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	rates := make(map[Currency]float64, len(supportedCurrencies))
	for _, cur := range supportedCurrencies {
		rate, err := cur.RateFrom(snap)
		if err != nil {
			return nil, err
		}
		rates[cur] = rate
	}
	return rates, nil
}

func (c *Converter) fetch(ctx context.Context) (provider.Snapshot, error) {
	snap, err := c.provider.FetchRates(ctx)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return snap, nil
}

func convertWith(snap provider.Snapshot, amount float64, cur Currency) (*Conversion, error) {
	rate, err := cur.RateFrom(snap)
	if err != nil {
		return nil, err
	}
	if !(rate > 0) {
		return nil, fmt.Errorf("%w: non-positive %s rate %v", ErrUpstreamUnavailable, cur, rate)
	}

	value := amount / rate
	return &Conversion{
		Amount:   amount,
		Currency: cur,
		Rate:     rate,
		Value:    value,
		Text:     FormatResult(value, cur),
	}, nil
}
