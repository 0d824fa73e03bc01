package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount indicates the amount is not a finite number.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrUpstreamUnavailable indicates rates could not be obtained.
var ErrUpstreamUnavailable = errors.New("rates unavailable")

// ErrInvalidConversionID indicates the conversion ID format is invalid.
var ErrInvalidConversionID = errors.New("invalid conversion_id")

// ErrNotFound indicates the requested resource was not found.
var ErrNotFound = errors.New("not found")

// ErrInternal indicates an internal server error.
var ErrInternal = errors.New("internal error")

// ErrInternalQueue indicates an internal queue error.
var ErrInternalQueue = errors.New("internal queue error")

// Messages shown to users for failed conversions.
const (
	MsgUnavailable   = "no data from server"
	MsgInvalidAmount = "enter a number"
	MsgUnsupported   = "unsupported currency"
	MsgInternal      = "internal error"
)

// FailureMessage returns the user-facing message for a conversion error.
// Upstream details never leak into it.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return MsgInvalidAmount
	case errors.Is(err, ErrUnsupportedCurrency):
		return MsgUnsupported
	case errors.Is(err, ErrUpstreamUnavailable):
		return MsgUnavailable
	default:
		return MsgInternal
	}
}

// publicFailure keeps a stored task error only if it is one of the user-facing messages.
func publicFailure(lastErr string) string {
	switch lastErr {
	case MsgUnavailable, MsgInvalidAmount, MsgUnsupported:
		return lastErr
	default:
		return MsgInternal
	}
}

// ParseAmount parses a raw RUB amount. Sign is not checked; NaN and infinities are rejected.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatResult renders a converted value as "2.00 USD".
func FormatResult(value float64, c Currency) string {
	return fmt.Sprintf("%.2f %s", value, c)
}

// FormatAmount renders a RUB amount without trailing zeros.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
