// Package fetch retrieves candlestick data from the Financial Modeling
// Preparation (FMP) API.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/dnldd/quorum/shared"
	"github.com/tidwall/gjson"
)

// BaseURL is the FMP api base url.
const BaseURL = "https://financialmodelingprep.com/stable"

// MarketFetcher defines the requirements for fetching market data.
type MarketFetcher interface {
	// FetchDailyHistorical fetches daily historical candlesticks for the
	// provided market, ordered oldest first.
	FetchDailyHistorical(ctx context.Context, market string, start time.Time, end time.Time) ([]shared.Candlestick, error)
}

// FMPConfig represents the configuration for the FMP client.
type FMPConfig struct {
	// APIKey is the FMP API Key.
	APIKey string
	// BaseURL is the api base url.
	BaseURL string
}

// Validate asserts the config has sane inputs.
func (cfg *FMPConfig) Validate() error {
	var errs error

	if cfg.APIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("fmp api key cannot be an empty string"))
	}
	if cfg.BaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("fmp base url cannot be an empty string"))
	}

	return errs
}

// FMPClient represents the Financial Modeling Preparation (FMP) API client.
// The client is safe for concurrent use.
type FMPClient struct {
	cfg   *FMPConfig
	httpc http.Client
}

// Ensure the FMPClient implements the MarketFetcher interface.
var _ MarketFetcher = (*FMPClient)(nil)

// NewFMPClient initializes a new FMP client.
func NewFMPClient(cfg *FMPConfig) (*FMPClient, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating fmp config: %w", err)
	}

	return &FMPClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 5},
	}, nil
}

// formURL creates full urls including parameters for the api.
func (c *FMPClient) formURL(path string, params string) string {
	var buf bytes.Buffer
	buf.Grow(len(c.cfg.BaseURL) + len(path) + len(params) + 1)
	buf.WriteString(c.cfg.BaseURL)
	buf.WriteString(path)
	buf.WriteString("?")
	buf.WriteString(params)

	return buf.String()
}

// ParseCandlesticks parses candlesticks from the provided json data and
// returns them ordered oldest first.
func ParseCandlesticks(data []gjson.Result, market string) ([]shared.Candlestick, error) {
	candles := make([]shared.Candlestick, len(data))

	for idx := range data {
		var candle shared.Candlestick

		candle.Open = data[idx].Get("open").Float()
		candle.Low = data[idx].Get("low").Float()
		candle.High = data[idx].Get("high").Float()
		candle.Close = data[idx].Get("close").Float()
		candle.Volume = data[idx].Get("volume").Float()
		candle.Market = market

		dt, err := time.Parse(shared.DateLayout, data[idx].Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date: %w", err)
		}

		candle.Date = dt
		candles[idx] = candle
	}

	// The api returns the most recent bar first, indicators expect the
	// oldest bar first.
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})

	return candles, nil
}

// FetchDailyHistorical fetches daily historical candlesticks for the
// provided market, ordered oldest first.
func (c *FMPClient) FetchDailyHistorical(ctx context.Context, market string, start time.Time, end time.Time) ([]shared.Candlestick, error) {
	const dailyHistoricalPath = "/historical-price-eod/full"

	params := url.Values{}
	params.Add("symbol", market)
	params.Add("apikey", c.cfg.APIKey)
	params.Add("from", start.Format(shared.DateLayout))
	if !end.IsZero() {
		params.Add("to", end.Format(shared.DateLayout))
	}

	formedURL := c.formURL(dailyHistoricalPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating daily historical request for %s: %w", market, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching daily historical data for %s: %w", market, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching daily historical data for %s: status %d", market, resp.StatusCode)
	}

	data := gjson.ParseBytes(body).Array()

	return ParseCandlesticks(data, market)
}
