package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TradeOracle/internal/model"
)

// defaultCoinIDs maps crypto base symbols to provider coin ids. The map is
// fixed and extensible through NewCryptoProvider; an unmapped symbol is a
// lookup failure, never a fallback to some default coin.
var defaultCoinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"BNB":   "binancecoin",
	"LTC":   "litecoin",
	"DOT":   "polkadot",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"MATIC": "matic-network",
}

// CryptoProvider fetches recent spot prices from a CoinGecko-style
// market-chart endpoint. It handles symbols of the form BASE/QUOTE.
type CryptoProvider struct {
	BaseURL  string
	Currency string // vs_currency used when the symbol carries no quote
	Days     int    // history window requested from the provider
	Client   *http.Client
	CoinIDs  map[string]string
}

// NewCryptoProvider creates a crypto spot provider. Extra symbol→coin-id
// mappings extend (and may override) the built-in map.
func NewCryptoProvider(baseURL, currency string, proxyURL string, extraIDs map[string]string) *CryptoProvider {
	ids := make(map[string]string, len(defaultCoinIDs)+len(extraIDs))
	for k, v := range defaultCoinIDs {
		ids[k] = v
	}
	for k, v := range extraIDs {
		ids[model.NormalizeSymbol(k)] = v
	}
	return &CryptoProvider{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Currency: strings.ToLower(currency),
		Days:     2,
		Client:   newHTTPClient(proxyURL),
		CoinIDs:  ids,
	}
}

func (p *CryptoProvider) Name() string { return "crypto" }

// Supports reports whether the symbol looks like a crypto instrument:
// either a BASE/QUOTE pair or a directly mapped base symbol.
func (p *CryptoProvider) Supports(symbol string) bool {
	if strings.Contains(symbol, "/") {
		return true
	}
	_, ok := p.CoinIDs[symbol]
	return ok
}

// marketChart is the response shape of the market-chart endpoint:
// arrays of [unix_millis, value] pairs.
type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

func (p *CryptoProvider) Fetch(ctx context.Context, symbol string, _ FetchOptions) (*model.PriceSeries, error) {
	base, quote := splitPair(symbol)
	id, ok := p.CoinIDs[base]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
	}
	currency := p.Currency
	if quote != "" {
		currency = strings.ToLower(quote)
	}

	u := fmt.Sprintf("%s/api/v3/coins/%s/market_chart?vs_currency=%s&days=%d",
		p.BaseURL, url.PathEscape(id), url.QueryEscape(currency), p.Days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crypto fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("crypto read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crypto: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart marketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("crypto decode: %w", err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("crypto: no prices for %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.OHLCV, 0, len(chart.Prices))
	for _, pt := range chart.Prices {
		price := pt[1]
		bars = append(bars, model.OHLCV{
			Time:  time.UnixMilli(int64(pt[0])),
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		})
	}
	return &model.PriceSeries{
		Symbol:     symbol,
		Bars:       bars,
		NewListing: model.TriUnknown, // spot history says nothing about listing age
		FetchedAt:  time.Now(),
	}, nil
}

// splitPair splits "BTC/USD" into base and quote. A bare symbol has no quote.
func splitPair(symbol string) (base, quote string) {
	if i := strings.Index(symbol, "/"); i >= 0 {
		return symbol[:i], symbol[i+1:]
	}
	return symbol, ""
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
