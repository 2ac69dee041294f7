package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"TradeOracle/internal/model"
)

// ExchangeProvider fetches OHLCV bar series for exchange-listed instruments
// from a twelvedata-style /time_series endpoint.
type ExchangeProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewExchangeProvider creates an exchange bar-series provider.
func NewExchangeProvider(baseURL, apiKey, proxyURL string) *ExchangeProvider {
	return &ExchangeProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (p *ExchangeProvider) Name() string { return "exchange" }

// Supports matches anything that is not a crypto pair. Registered after the
// crypto provider, it acts as the catch-all for tickers.
func (p *ExchangeProvider) Supports(symbol string) bool {
	return !strings.Contains(symbol, "/")
}

// timeSeries is the expected payload. Numeric fields arrive as strings.
type timeSeries struct {
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (p *ExchangeProvider) Fetch(ctx context.Context, symbol string, opts FetchOptions) (*model.PriceSeries, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", opts.Interval)
	q.Set("outputsize", strconv.Itoa(opts.OutputSize))
	if p.APIKey != "" {
		q.Set("apikey", p.APIKey)
	}
	u := fmt.Sprintf("%s/time_series?%s", p.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("exchange read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange: status %d, body: %s", resp.StatusCode, string(body))
	}

	var ts timeSeries
	if err := json.Unmarshal(body, &ts); err != nil {
		return nil, fmt.Errorf("exchange decode: %w", err)
	}
	if len(ts.Values) == 0 {
		// The provider reports errors with a 200 status and a message field;
		// a payload without "values" is the documented no-data signal.
		if ts.Message != "" {
			return nil, fmt.Errorf("exchange: %s: %w", ts.Message, ErrNoData)
		}
		return nil, fmt.Errorf("exchange: no values for %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.OHLCV, 0, len(ts.Values))
	for _, v := range ts.Values {
		t, err := parseBarTime(v.Datetime)
		if err != nil {
			continue
		}
		o, err1 := strconv.ParseFloat(v.Open, 64)
		h, err2 := strconv.ParseFloat(v.High, 64)
		l, err3 := strconv.ParseFloat(v.Low, 64)
		c, err4 := strconv.ParseFloat(v.Close, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue // drop rows missing a required field
		}
		vol, _ := strconv.ParseFloat(v.Volume, 64)
		bars = append(bars, model.OHLCV{Time: t, Open: o, High: h, Low: l, Close: c, Volume: vol})
	}

	newListing := model.TriFalse
	if len(ts.Values) < opts.OutputSize {
		// Shorter history than requested: the instrument has not traded
		// for the full window yet.
		newListing = model.TriTrue
	}
	return &model.PriceSeries{
		Symbol:     symbol,
		Bars:       bars,
		NewListing: newListing,
		FetchedAt:  time.Now(),
	}, nil
}

func parseBarTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable datetime %q", s)
}
