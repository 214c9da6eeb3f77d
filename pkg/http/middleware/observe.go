package middleware

import (
	"strconv"
	"sync"
	"time"

	applogger "TickerPulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	observeInit sync.Once

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight *prometheus.GaugeVec
	httpRespSize *prometheus.HistogramVec
)

func registerHTTPMetrics() {
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status"})
	httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "Current number of in-flight HTTP requests",
	}, []string{"route", "method"})
	httpRespSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response size in bytes",
		Buckets: []float64{200, 500, 1_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000},
	}, []string{"route", "method", "status"})
}

// Observe records request metrics and logs failures and slow requests.
// The route label uses echo's matched path template, keeping metric
// cardinality independent of raw URLs.
func Observe(l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	observeInit.Do(registerHTTPMetrics)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			method := c.Request().Method

			httpInFlight.WithLabelValues(route, method).Inc()
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)
			httpInFlight.WithLabelValues(route, method).Dec()

			status := strconv.Itoa(c.Response().Status)
			httpRequests.WithLabelValues(route, method, status).Inc()
			httpDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
			httpRespSize.WithLabelValues(route, method, status).Observe(float64(c.Response().Size))

			if l != nil {
				switch {
				case c.Response().Status >= 500:
					l.Error("http request failed",
						applogger.String("route", route),
						applogger.String("method", method),
						applogger.String("status", status),
						applogger.Duration("duration_ms", elapsed))
				case slowThreshold > 0 && elapsed >= slowThreshold:
					l.Warn("http request slow",
						applogger.String("route", route),
						applogger.String("method", method),
						applogger.String("status", status),
						applogger.Duration("duration_ms", elapsed))
				default:
					l.Debug("http request",
						applogger.String("route", route),
						applogger.String("method", method),
						applogger.String("status", status),
						applogger.Duration("duration_ms", elapsed))
				}
			}
			return err
		}
	}
}
