// Package provider fetches RUB exchange rates from the Central Bank feeds and caches them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// RatesProvider defines an interface for fetching the USD and EUR rates against RUB.
type RatesProvider interface {
	FetchRates(ctx context.Context) (Snapshot, error)
}

// Snapshot holds the amount of RUB equal to one unit of each foreign currency.
type Snapshot struct {
	USDRate float64
	EURRate float64
}

// Validate reports whether both rates are strictly positive finite numbers.
func (s Snapshot) Validate() error {
	if !validRate(s.USDRate) {
		return fmt.Errorf("invalid USD rate %v", s.USDRate)
	}
	if !validRate(s.EURRate) {
		return fmt.Errorf("invalid EUR rate %v", s.EURRate)
	}
	return nil
}

func validRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ErrUnavailable is matched by every upstream fetch failure.
var ErrUnavailable = errors.New("rates unavailable")

// FailureReason classifies why an upstream fetch failed.
type FailureReason string

// Failure reasons reported by FetchError.
const (
	ReasonConnection FailureReason = "connection"
	ReasonTimeout    FailureReason = "timeout"
	ReasonBadStatus  FailureReason = "bad_status"
	ReasonMalformed  FailureReason = "malformed_response"
)

// FetchError describes a failed upstream fetch.
type FetchError struct {
	Provider string
	Reason   FailureReason
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes every FetchError match ErrUnavailable.
func (e *FetchError) Is(target error) bool {
	return target == ErrUnavailable
}

// ReasonOf returns the failure reason of the first FetchError in err's chain.
func ReasonOf(err error) (FailureReason, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Reason, true
	}
	return "", false
}
