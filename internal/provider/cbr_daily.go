package provider

import (
	"context"
	"net/http"
	"strings"
)

var _ RatesProvider = (*CBRDailyProvider)(nil)

// CBRDailyProvider reads the daily_json.js feed of cbr-xml-daily.ru.
type CBRDailyProvider struct {
	baseURL string
	client  *http.Client
}

// NewCBRDailyProvider creates a new CBRDailyProvider.
func NewCBRDailyProvider(baseURL string, timeoutSec int) *CBRDailyProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &CBRDailyProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeoutSec),
	}
}

// Name identifies the feed in logs and in the rate archive.
func (p *CBRDailyProvider) Name() string { return "cbr_daily" }

type cbrValute struct {
	Nominal float64  `json:"Nominal"`
	Value   *float64 `json:"Value"`
}

type cbrDailyResponse struct {
	Date   string                `json:"Date"`
	Valute map[string]*cbrValute `json:"Valute"`
}

// FetchRates retrieves Valute.USD.Value and Valute.EUR.Value.
func (p *CBRDailyProvider) FetchRates(ctx context.Context) (Snapshot, error) {
	var result cbrDailyResponse
	if err := getJSON(ctx, p.client, p.Name(), p.baseURL+"/daily_json.js", &result); err != nil {
		return Snapshot{}, err
	}

	usd, err := p.rate(result, "USD")
	if err != nil {
		return Snapshot{}, err
	}
	eur, err := p.rate(result, "EUR")
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{USDRate: usd, EURRate: eur}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, malformed(p.Name(), "%v", err)
	}
	return snap, nil
}

// rate returns RUB per one unit; quotes published per Nominal units are scaled down.
func (p *CBRDailyProvider) rate(result cbrDailyResponse, code string) (float64, error) {
	v, ok := result.Valute[code]
	if !ok || v == nil || v.Value == nil {
		return 0, malformed(p.Name(), "no Valute.%s.Value in response", code)
	}
	if v.Nominal > 0 {
		return *v.Value / v.Nominal, nil
	}
	return *v.Value, nil
}
