package service

import (
	"errors"
	"strings"

	"rubconverter/internal/provider"
)

// Currency is a target currency selector.
type Currency string

// Supported target currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	CNY Currency = "CNY"
)

// CNYPerEURDivisor approximates the CNY rate from the EUR rate: RUB/CNY = RUB/EUR / 7.5.
// It is not an independently sourced rate.
const CNYPerEURDivisor = 7.5

// supportedCurrencies lists selectors in display order.
var supportedCurrencies = []Currency{USD, EUR, CNY}

// ErrUnsupportedCurrency is returned when a currency is not in the supported list.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// SupportedCurrencies returns the selectors accepted by the converter.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// ParseCurrency resolves a currency code case-insensitively.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Supported() {
		return "", ErrUnsupportedCurrency
	}
	return c, nil
}

// Supported reports whether c is one of the fixed selectors.
func (c Currency) Supported() bool {
	for _, s := range supportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// RateFrom picks or derives the RUB rate for c from snap.
func (c Currency) RateFrom(snap provider.Snapshot) (float64, error) {
	switch c {
	case USD:
		return snap.USDRate, nil
	case EUR:
		return snap.EURRate, nil
	case CNY:
		return snap.EURRate / CNYPerEURDivisor, nil
	default:
		return 0, ErrUnsupportedCurrency
	}
}
