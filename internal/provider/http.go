package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const defaultBaseURL = "https://www.cbr-xml-daily.ru"

func newHTTPClient(timeoutSec int) *http.Client {
	if timeoutSec <= 0 {
		timeoutSec = 5
	}
	return &http.Client{Timeout: time.Duration(timeoutSec) * time.Second}
}

// getJSON issues a single GET and decodes the body into out.
// Every failure comes back as a *FetchError tagged with providerName.
func getJSON(ctx context.Context, client *http.Client, providerName, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return &FetchError{Provider: providerName, Reason: ReasonConnection, Err: fmt.Errorf("request creation failed: %w", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return &FetchError{Provider: providerName, Reason: transportReason(err), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &FetchError{Provider: providerName, Reason: ReasonBadStatus, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		reason := ReasonMalformed
		if isTimeout(err) {
			reason = ReasonTimeout
		}
		return &FetchError{Provider: providerName, Reason: reason, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func transportReason(err error) FailureReason {
	if isTimeout(err) {
		return ReasonTimeout
	}
	return ReasonConnection
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func malformed(providerName, format string, args ...any) error {
	return &FetchError{Provider: providerName, Reason: ReasonMalformed, Err: fmt.Errorf(format, args...)}
}
