package provider

import (
	"context"
	"net/http"
	"strings"
)

var _ RatesProvider = (*CBRLatestProvider)(nil)

// CBRLatestProvider reads the latest.js feed, which quotes foreign units per one RUB.
type CBRLatestProvider struct {
	baseURL string
	client  *http.Client
}

// NewCBRLatestProvider creates a new CBRLatestProvider.
func NewCBRLatestProvider(baseURL string, timeoutSec int) *CBRLatestProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &CBRLatestProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeoutSec),
	}
}

// Name identifies the feed in logs and in the rate archive.
func (p *CBRLatestProvider) Name() string { return "cbr_latest" }

type cbrLatestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates retrieves rates.USD and rates.EUR and inverts them.
func (p *CBRLatestProvider) FetchRates(ctx context.Context) (Snapshot, error) {
	var result cbrLatestResponse
	if err := getJSON(ctx, p.client, p.Name(), p.baseURL+"/latest.js", &result); err != nil {
		return Snapshot{}, err
	}
	if result.Base != "" && !strings.EqualFold(result.Base, "RUB") {
		return Snapshot{}, malformed(p.Name(), "unexpected base currency %q", result.Base)
	}

	usd, ok := result.Rates["USD"]
	if !ok || usd <= 0 {
		return Snapshot{}, malformed(p.Name(), "no positive rates.USD in response")
	}
	eur, ok := result.Rates["EUR"]
	if !ok || eur <= 0 {
		return Snapshot{}, malformed(p.Name(), "no positive rates.EUR in response")
	}

	snap := Snapshot{USDRate: 1 / usd, EURRate: 1 / eur}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, malformed(p.Name(), "%v", err)
	}
	return snap, nil
}
