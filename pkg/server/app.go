package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TickerPulse/internal/handler/api"
	"TickerPulse/internal/repository"
	icache "TickerPulse/internal/service/cache"
	"TickerPulse/internal/usecase"
	pkgch "TickerPulse/pkg/clickhouse"
	"TickerPulse/pkg/config"
	xhttp "TickerPulse/pkg/http"
	pkgkafka "TickerPulse/pkg/kafka"
	applogger "TickerPulse/pkg/logger"
	pkgqueue "TickerPulse/pkg/queue"
)

// App owns the process lifecycle: it starts the collector, the Kafka
// consumer, the scan queue and the HTTP server, then tears them down in
// reverse when a shutdown signal arrives.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	collector   *usecase.TickCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	scanQueue   *pkgqueue.RedisQueue
	TickProc    *usecase.TickProcessor
}

func New(
	cfg *config.Config,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	return &App{
		cfg:       cfg,
		log:       l,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler injects the route handler built by DI.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetScanQueue injects the optional background watchlist refresh queue.
func (a *App) SetScanQueue(q *pkgqueue.RedisQueue) { a.scanQueue = q }

// Run starts everything and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.routeHandler(),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)

	a.startCollector(ctx)
	a.startConsumer()
	a.startScanQueue(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// routeHandler prefers the DI-injected handler; without one it wires a
// minimal read path straight off the bar store, with an in-memory
// response cache and no quotes collaborator.
func (a *App) routeHandler() xhttp.Handler {
	if a.httpHandler != nil {
		return a.httpHandler
	}
	if a.chClient == nil {
		return nil
	}

	store := repository.NewCHBarStore(a.chClient)
	store.SetLogger(a.log)
	uc := usecase.NewAnalysisUseCase(usecase.NewAnalyzer(store, nil), nil)

	h := api.NewAnalysisEchoHandler(a.log, uc, usecase.NewBarsUseCase(store))
	h.SetCache(icache.NewTTLCache())
	return h
}

func (a *App) startCollector(ctx context.Context) {
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			a.log.Error("collector error", applogger.Error(err))
		}
	}()
	a.log.Info("collector started", applogger.Strings("symbols", a.cfg.Quotes.Symbols))
}

func (a *App) startConsumer() {
	if a.consumer == nil || a.kh == nil {
		return
	}
	a.consumer.RegisterHandler(a.kh)
	go func() {
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer error", applogger.Error(err))
		}
	}()
	a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
}

func (a *App) startScanQueue(ctx context.Context) {
	if a.scanQueue == nil {
		return
	}
	if err := a.scanQueue.Start(); err != nil {
		a.log.Warn("scan queue start error", applogger.Error(err))
		return
	}
	go a.refreshLoop(ctx)
	a.log.Info("watchlist refresh started",
		applogger.Duration("interval", a.cfg.Analysis.RefreshInterval))
}

// refreshLoop periodically enqueues a scan of the configured symbols so
// reports stay fresh on the reports topic without user traffic.
func (a *App) refreshLoop(ctx context.Context) {
	interval := a.cfg.Analysis.RefreshInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload := usecase.ScanPayload{
				Symbols: a.cfg.Quotes.Symbols,
				N:       a.cfg.Analysis.HistoryBars,
				TF:      a.cfg.Analysis.Timeframe,
			}
			if err := a.scanQueue.PublishMessage(ctx, "scan", payload); err != nil {
				a.log.Warn("scan enqueue error", applogger.Error(err))
			}
		}
	}
}

// shutdown stops components in dependency order: sources first, then
// the server, then backing clients.
func (a *App) shutdown(ctx context.Context) error {
	if err := a.collector.Shutdown(ctx); err != nil {
		a.log.Warn("collector stop error", applogger.Error(err))
	}

	stopCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(stopCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.scanQueue != nil {
		if err := a.scanQueue.Stop(stopCtx); err != nil {
			a.log.Warn("scan queue stop error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.TickProc != nil {
		a.TickProc.Close()
	}

	a.log.Info("shutdown complete")
	return nil
}
