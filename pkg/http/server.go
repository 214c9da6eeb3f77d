package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"TickerPulse/pkg/http/middleware"
	applogger "TickerPulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerOption configures the server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	host            string
	port            int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	cors            bool
	slowThreshold   time.Duration
	log             *applogger.Logger
}

// WithHost sets the bind address.
func WithHost(host string) ServerOption {
	return func(c *serverConfig) { c.host = host }
}

// WithPort sets the listen port.
func WithPort(port int) ServerOption {
	return func(c *serverConfig) { c.port = port }
}

// WithTimeouts sets read, write and shutdown timeouts.
func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.readTimeout = read
		c.writeTimeout = write
		c.shutdownTimeout = shutdown
	}
}

// WithCORS toggles permissive CORS for dashboard frontends.
func WithCORS(enabled bool) ServerOption {
	return func(c *serverConfig) { c.cors = enabled }
}

// WithLogger routes request logging and panic reports through l instead of
// the process logger.
func WithLogger(l *applogger.Logger) ServerOption {
	return func(c *serverConfig) { c.log = l }
}

// Server wraps an echo instance with the standard middleware stack and a
// /metrics endpoint.
type Server struct {
	echo            *echo.Echo
	addr            string
	shutdownTimeout time.Duration
}

// NewServer assembles the echo server and registers handler's routes.
func NewServer(handler Handler, opts ...ServerOption) *Server {
	cfg := serverConfig{
		host:            "0.0.0.0",
		port:            8080,
		readTimeout:     10 * time.Second,
		writeTimeout:    10 * time.Second,
		shutdownTimeout: 10 * time.Second,
		cors:            true,
		slowThreshold:   time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.readTimeout
	e.Server.WriteTimeout = cfg.writeTimeout

	e.Use(middleware.Recover(cfg.log))
	e.Use(middleware.Observe(cfg.log, cfg.slowThreshold))
	if cfg.cors {
		e.Use(middleware.CORS([]string{"*"}))
	}

	if handler != nil {
		handler.RegisterRoutes(e)
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{
		echo:            e,
		addr:            fmt.Sprintf("%s:%d", cfg.host, cfg.port),
		shutdownTimeout: cfg.shutdownTimeout,
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.echo.Logger.Errorf("http server: %v", err)
		}
	}()
	return nil
}

// Stop drains connections, bounded by ctx.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo { return s.echo }
