package quotes

import (
	"context"
	"fmt"
	"time"

	"TickerPulse/internal/domain/models"
	drepo "TickerPulse/internal/domain/repository"
	"TickerPulse/pkg/cache"
	xhttp "TickerPulse/pkg/http"
)

// REST implements QuoteProvider against the provider's REST API. The
// two endpoints mirror Finnhub's /quote and /stock/metric shapes.
type REST struct {
	client   *xhttp.Client
	baseURL  string
	apiKey   string
	cache    cache.Service
	cacheTTL time.Duration
}

// Option configures the REST provider.
type Option func(*REST)

// WithCache memoizes option stats, which providers refresh slowly.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(r *REST) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// NewREST creates a REST quote provider.
func NewREST(client *xhttp.Client, baseURL, apiKey string, opts ...Option) drepo.QuoteProvider {
	r := &REST{client: client, baseURL: baseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *REST) LastPrice(ctx context.Context, symbol string) (float64, error) {
	var resp struct {
		Current float64 `json:"c"`
	}
	err := r.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    r.baseURL + "/quote",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {r.apiKey},
		},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if resp.Current <= 0 {
		return 0, fmt.Errorf("quote %s: no price", symbol)
	}
	return resp.Current, nil
}

func (r *REST) OptionStats(ctx context.Context, symbol string) (models.OptionStats, error) {
	key := cache.Key("optstats", symbol)
	if r.cache != nil {
		var cached models.OptionStats
		if err := r.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	var resp struct {
		Metric struct {
			PutCallRatio float64 `json:"putCallRatio"`
			IVRank       float64 `json:"ivRank"`
		} `json:"metric"`
	}
	err := r.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    r.baseURL + "/stock/metric",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"metric": {"options"},
			"token":  {r.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.OptionStats{}, fmt.Errorf("option stats %s: %w", symbol, err)
	}
	if resp.Metric.PutCallRatio == 0 && resp.Metric.IVRank == 0 {
		return models.OptionStats{}, fmt.Errorf("option stats %s: empty", symbol)
	}

	stats := models.OptionStats{
		Symbol:       symbol,
		PutCallRatio: resp.Metric.PutCallRatio,
		IVRank:       resp.Metric.IVRank,
	}
	if r.cache != nil {
		_ = r.cache.Set(ctx, key, stats, r.cacheTTL)
	}
	return stats, nil
}
