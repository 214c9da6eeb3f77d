package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	models "TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
	icache "TickerPulse/internal/service/cache"
	"TickerPulse/internal/service/metrics"
	"TickerPulse/internal/service/ratelimit"
	"TickerPulse/internal/services/technicals"
	"TickerPulse/internal/usecase"
	xhttp "TickerPulse/pkg/http"
	xlogger "TickerPulse/pkg/logger"
	xutil "TickerPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler serves the analysis endpoints over Echo.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	uc       *usecase.AnalysisUseCase
	bars     *usecase.BarsUseCase
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, uc *usecase.AnalysisUseCase, bars *usecase.BarsUseCase) *AnalysisEchoHandler {
	metrics.Register()
	return &AnalysisEchoHandler{logger: logger, uc: uc, bars: bars, cacheTTL: 30 * time.Second, rl: ratelimit.New()}
}

// SetCache injects a short-TTL byte cache for rendered responses.
func (h *AnalysisEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetCacheTTL overrides the default 30s response cache TTL.
func (h *AnalysisEchoHandler) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/indicators", h.Indicators)
	g.GET("/score", h.Score)
	g.GET("/scan", h.Scan)
	g.GET("/bars", h.Bars)
}

func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	start := time.Now()
	endpoint := "analysis"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	if !h.rl.Allow(c.RealIP()+":analysis", 5, 2) {
		h.logger.Warn("analysis rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	cacheKey := "analysis:" + req.Symbol + ":" + string(tf)
	if b, ok := h.cached(cacheKey); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.uc.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Symbol: req.Symbol, N: req.N, Timeframe: tf, WithIndicators: true,
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, coreError(err))
	}
	h.store(cacheKey, res, h.cacheTTL)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Indicators(c echo.Context) error {
	start := time.Now()
	endpoint := "indicators"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	if !h.rl.Allow(c.RealIP()+":indicators", 5, 2) {
		h.logger.Warn("indicators rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	cacheKey := "indicators:" + req.Symbol + ":" + string(tf)
	if b, ok := h.cached(cacheKey); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.uc.Indicators(c.Request().Context(), usecase.AnalyzeParams{
		Symbol: req.Symbol, N: req.N, Timeframe: tf,
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("indicators usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, coreError(err))
	}
	h.store(cacheKey, res, h.cacheTTL)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Score(c echo.Context) error {
	start := time.Now()
	endpoint := "score"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	if !h.rl.Allow(c.RealIP()+":score", 5, 2) {
		h.logger.Warn("score rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	res, err := h.uc.Score(c.Request().Context(), usecase.AnalyzeParams{
		Symbol: req.Symbol, N: req.N, Timeframe: tf,
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("score usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, coreError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Scan(c echo.Context) error {
	start := time.Now()
	endpoint := "scan"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	// Scans fan out per symbol, so the budget is tighter.
	if !h.rl.Allow(c.RealIP()+":scan", 3, 1) {
		h.logger.Warn("scan rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	symbols := xutil.SplitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.BadRequestResponse(c, "symbols required")
	}
	if len(symbols) > 50 {
		symbols = symbols[:50]
	}

	entries := h.uc.Scan(c.Request().Context(), symbols, req.N, tf)
	return xhttp.SuccessResponse(c, entries)
}

func (h *AnalysisEchoHandler) Bars(c echo.Context) error {
	start := time.Now()
	endpoint := "bars"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	if !h.rl.Allow(c.RealIP()+":bars", 5, 2) {
		h.logger.Warn("bars rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	now := time.Now().UTC()
	to := xutil.ParseTimeDefault(req.To, now)
	from := xutil.ParseTimeDefault(req.From, to.Add(-250*tf.Duration()))
	from, to = xutil.AlignFromTo(from, to, string(tf))

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol: req.Symbol, From: from, To: to, Timeframe: tf, Limit: req.Limit,
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, coreError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache_get_error", xlogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *AnalysisEchoHandler) store(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	// Cache the envelope body the same way it is served.
	b, err := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: v})
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("cache_set_error", xlogger.Error(err))
	}
}

// coreError maps the computation sentinels onto HTTP statuses; anything
// unrecognized stays a 500.
func coreError(err error) error {
	switch {
	case errors.Is(err, technicals.ErrInsufficientData):
		return xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "", err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, technicals.ErrInvalidInput):
		return xhttp.NewAppError("ERR_INVALID_INPUT", "", err.Error(), http.StatusBadRequest)
	default:
		return err
	}
}
