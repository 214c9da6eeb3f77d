package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"TickerPulse/internal/domain/repository"
	"TickerPulse/internal/handler/api"
	mid "TickerPulse/internal/middleware"
	internalrepo "TickerPulse/internal/repository"
	icache "TickerPulse/internal/service/cache"
	"TickerPulse/internal/service/quotes"
	"TickerPulse/internal/usecase"
	pkgcache "TickerPulse/pkg/cache"
	pkgch "TickerPulse/pkg/clickhouse"
	"TickerPulse/pkg/config"
	xhttp "TickerPulse/pkg/http"
	pkgkafka "TickerPulse/pkg/kafka"
	applogger "TickerPulse/pkg/logger"
	"TickerPulse/pkg/metrics"
	pkgqueue "TickerPulse/pkg/queue"
	"TickerPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS tickerpulse",
		"CREATE TABLE IF NOT EXISTS tickerpulse.ticks_raw (ts DateTime, symbol String, price Float64, volume Float64, source String, event_id String, seq UInt64) ENGINE=MergeTree ORDER BY (symbol, ts)",
		"CREATE TABLE IF NOT EXISTS tickerpulse.bars_1m (bucket DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)",
		"CREATE TABLE IF NOT EXISTS tickerpulse.bars_5m (bucket DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)",
		"CREATE TABLE IF NOT EXISTS tickerpulse.bars_1d (bucket DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)",
		"CREATE MATERIALIZED VIEW IF NOT EXISTS tickerpulse.bars_5m_mv TO tickerpulse.bars_5m AS SELECT toStartOfFiveMinutes(bucket) AS bucket, symbol, argMin(open, bucket) AS open, max(high) AS high, min(low) AS low, argMax(close, bucket) AS close, sum(vol) AS vol FROM tickerpulse.bars_1m GROUP BY symbol, toStartOfFiveMinutes(bucket)",
		"CREATE MATERIALIZED VIEW IF NOT EXISTS tickerpulse.bars_1d_mv TO tickerpulse.bars_1d AS SELECT toStartOfDay(bucket) AS bucket, symbol, argMin(open, bucket) AS open, max(high) AS high, min(low) AS low, argMax(close, bucket) AS close, sum(vol) AS vol FROM tickerpulse.bars_1m GROUP BY symbol, toStartOfDay(bucket)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriterTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithKeyOrdering(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore creates the ClickHouse bar store (reads and bar writes).
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) *internalrepo.CHBarStore {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideTickStorage creates ClickHouse tick storage.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) repository.TickStorage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".ticks_raw")
}

// ProvideTickPublisher creates the Kafka tick publisher.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.TickPublisher {
	return internalrepo.NewKafkaTickPublisher(producer, cfg.Kafka.TicksTopic)
}

// ProvideBarPublisher creates the Kafka bar publisher.
func ProvideBarPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.BarPublisher {
	return internalrepo.NewKafkaBarPublisher(producer, cfg.Kafka.BarsTopic)
}

// ProvideReportPublisher creates the Kafka report publisher.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ReportPublisher {
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroup(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBuffer(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaBarsHandler registers the handler for the bars topic.
func ProvideKafkaBarsHandler(store *internalrepo.CHBarStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.BarsTopic, store, m)
}

// ProvideQuoteStream creates the market-data websocket stream.
func ProvideQuoteStream(cfg *config.Config) repository.TickStream {
	return quotes.NewStream(
		cfg.Quotes.APIKey,
		cfg.Quotes.WebSocketURL,
		cfg.Quotes.Symbols,
		cfg.Quotes.ReconnectDelay,
		cfg.Quotes.PingInterval,
	)
}

// ProvideQuoteProvider creates the REST quote/options collaborator.
// Option stats are memoized for five minutes; with redis enabled the
// memo survives restarts via a layered memory+redis cache.
func ProvideQuoteProvider(cfg *config.Config) repository.QuoteProvider {
	timeout := cfg.Quotes.RestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := xhttp.NewClient(xhttp.WithTimeout(timeout))

	var svc pkgcache.Service = pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(1024))
	if cfg.Analysis.Redis.Enabled {
		host, port := splitAddr(cfg.Analysis.Redis.Addr)
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Analysis.Redis.Password),
			pkgcache.WithRedisDB(cfg.Analysis.Redis.DB),
		)
		if err == nil {
			svc = pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(1024))
		}
	}

	return quotes.NewREST(client, cfg.Quotes.RestURL, cfg.Quotes.APIKey,
		quotes.WithCache(svc, 5*time.Minute))
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideTickProcessor creates the tick processor use case.
func ProvideTickProcessor(
	pub repository.TickPublisher,
	store repository.TickStorage,
	bars repository.BarPublisher,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	builder := usecase.NewBarBuilder("1m")
	return usecase.NewTickProcessor(
		pub,
		store,
		bars,
		builder,
		metrics,
		cfg.Backend.Type,
	)
}

// ProvideTickCollector creates the tick collector use case.
func ProvideTickCollector(
	stream repository.TickStream,
	processor *usecase.TickProcessor,
	metrics repository.Metrics,
) *usecase.TickCollector {
	// Middleware pipeline between websocket and backend
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, metrics, pipe)
}

// ProvideAnalysisUseCase creates the report-building use case.
func ProvideAnalysisUseCase(
	store *internalrepo.CHBarStore,
	qp repository.QuoteProvider,
	reports repository.ReportPublisher,
	m repository.Metrics,
) *usecase.AnalysisUseCase {
	an := usecase.NewAnalyzer(store, qp)
	uc := usecase.NewAnalysisUseCase(an, reports)
	uc.SetMetrics(m)
	return uc
}

// ProvideBarsUseCase creates the raw bar retrieval use case.
func ProvideBarsUseCase(store *internalrepo.CHBarStore) *usecase.BarsUseCase {
	return usecase.NewBarsUseCase(store)
}

// ProvideScanQueue creates the redis-backed watchlist refresh queue.
// Returns nil when redis is disabled; the app skips the refresh loop.
func ProvideScanQueue(cfg *config.Config, l *applogger.Logger, uc *usecase.AnalysisUseCase) *pkgqueue.RedisQueue {
	if !cfg.Analysis.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Analysis.Redis.Addr,
		Password: cfg.Analysis.Redis.Password,
		DB:       cfg.Analysis.Redis.DB,
	})
	q := pkgqueue.New(l, client, pkgqueue.Config{Workers: 2, RetryLimit: 2})
	q.RegisterJob(usecase.NewScanJob(uc))
	return q
}

// ProvideAnalysisHandler creates the Echo analysis handler with caching.
func ProvideAnalysisHandler(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.AnalysisUseCase,
	bars *usecase.BarsUseCase,
) *api.AnalysisEchoHandler {
	h := api.NewAnalysisEchoHandler(l, uc, bars)
	h.SetCacheTTL(cfg.Analysis.CacheTTL)
	if cfg.Analysis.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Analysis.Redis.Addr,
			Password: cfg.Analysis.Redis.Password,
			DB:       cfg.Analysis.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	handler *api.AnalysisEchoHandler,
	scanQueue *pkgqueue.RedisQueue,
) *server.App {
	if consumer != nil {
		consumer.SetHook(pkgkafka.HookFunc(func(topic string, partition, attempts int, err error) {
			if err != nil {
				l.Error("kafka handler gave up",
					applogger.String("topic", topic),
					applogger.Int("partition", partition),
					applogger.Int("attempts", attempts),
					applogger.Error(err))
			}
		}))
	}

	// Repeated errors aggregate onto a Kafka topic instead of
	// flooding the console when an upstream flaps.
	if cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      internalrepo.NewKafkaLogPublisher(producer),
		})
	}

	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.SetScanQueue(scanQueue)
	if collector != nil {
		app.TickProc = collector.Processor()
	}
	return app
}
