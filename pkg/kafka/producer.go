package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// Message is one record to publish. Value may be []byte, string, or any
// JSON-marshalable value.
type Message struct {
	Key   []byte
	Value interface{}
}

// ProducerOption configures the producer before its writer is built.
type ProducerOption func(*producerConfig)

type producerConfig struct {
	brokers      []string
	acks         int
	codec        string
	maxAttempts  int
	writeTimeout time.Duration
	readTimeout  time.Duration
	batchSize    int
	batchBytes   int
	linger       time.Duration
	async        bool
	keyOrdering  bool
}

// WithBrokers sets the broker addresses. Required.
func WithBrokers(brokers []string) ProducerOption {
	return func(c *producerConfig) { c.brokers = brokers }
}

// WithCompression selects the payload codec: gzip, snappy, lz4 or zstd.
func WithCompression(codec string) ProducerOption {
	return func(c *producerConfig) { c.codec = codec }
}

// WithAcks sets required acknowledgements; -1 waits for all replicas.
func WithAcks(acks int) ProducerOption {
	return func(c *producerConfig) { c.acks = acks }
}

// WithBatching tunes writer batching: records per batch, target batch bytes,
// and how long an incomplete batch may linger before being flushed.
func WithBatching(size, bytes int, linger time.Duration) ProducerOption {
	return func(c *producerConfig) {
		if size > 0 {
			c.batchSize = size
		}
		if bytes > 0 {
			c.batchBytes = bytes
		}
		if linger > 0 {
			c.linger = linger
		}
	}
}

// WithWriterTimeouts sets the writer's write and read timeouts.
func WithWriterTimeouts(write, read time.Duration) ProducerOption {
	return func(c *producerConfig) {
		c.writeTimeout = write
		c.readTimeout = read
	}
}

// WithMaxAttempts bounds delivery retries inside the writer.
func WithMaxAttempts(n int) ProducerOption {
	return func(c *producerConfig) { c.maxAttempts = n }
}

// WithAsync makes writes fire-and-forget; delivery errors are only visible
// through writer stats.
func WithAsync(async bool) ProducerOption {
	return func(c *producerConfig) { c.async = async }
}

// WithKeyOrdering routes records with equal keys to the same partition so
// per-symbol ordering survives partitioning.
func WithKeyOrdering(on bool) ProducerOption {
	return func(c *producerConfig) { c.keyOrdering = on }
}

// Producer publishes JSON-encoded records through a shared kafka writer.
type Producer struct {
	writer *kafka.Writer
	codec  string
}

// NewProducer builds a producer from options. Brokers are mandatory;
// everything else has conservative defaults.
func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := producerConfig{
		acks:         -1,
		codec:        "gzip",
		maxAttempts:  3,
		writeTimeout: 10 * time.Second,
		readTimeout:  10 * time.Second,
		batchSize:    100,
		batchBytes:   1 << 20,
		linger:       time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.brokers) == 0 {
		return nil, fmt.Errorf("kafka producer: brokers are required")
	}

	var balancer kafka.Balancer = &kafka.LeastBytes{}
	if cfg.keyOrdering {
		balancer = &kafka.Hash{}
	}

	producerMetricsInit.Do(registerProducerMetrics)

	return &Producer{
		codec: cfg.codec,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.brokers...),
			Balancer:     balancer,
			RequiredAcks: kafka.RequiredAcks(cfg.acks),
			Compression:  compressionCodec(cfg.codec),
			MaxAttempts:  cfg.maxAttempts,
			WriteTimeout: cfg.writeTimeout,
			ReadTimeout:  cfg.readTimeout,
			BatchSize:    cfg.batchSize,
			BatchBytes:   int64(cfg.batchBytes),
			BatchTimeout: cfg.linger,
			Async:        cfg.async,
		},
	}, nil
}

// Publish sends a single record to topic.
func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	payload, err := encodeValue(value)
	if err != nil {
		return err
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: payload,
		Time:  start,
	})
	p.observe(topic, int64(len(payload)), 1, time.Since(start), err)
	return err
}

// PublishBatch sends all records to topic in one writer call.
func (p *Producer) PublishBatch(ctx context.Context, topic string, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	start := time.Now()
	records := make([]kafka.Message, len(messages))
	var total int64
	for i, m := range messages {
		payload, err := encodeValue(m.Value)
		if err != nil {
			return err
		}
		records[i] = kafka.Message{Topic: topic, Key: m.Key, Value: payload, Time: start}
		total += int64(len(payload))
	}

	err := p.writer.WriteMessages(ctx, records...)
	p.observe(topic, total, len(messages), time.Since(start), err)
	return err
}

// Close flushes pending batches and releases the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Producer) observe(topic string, bytes int64, count int, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		producerErrors.WithLabelValues(topic).Inc()
	}
	producerMessages.WithLabelValues(topic, p.codec, result).Add(float64(count))
	producerBytes.WithLabelValues(topic, p.codec).Add(float64(bytes))
	producerLatency.WithLabelValues(topic).Observe(elapsed.Seconds())
}

func encodeValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode kafka payload: %w", err)
		}
		return payload, nil
	}
}

func compressionCodec(name string) kafka.Compression {
	switch name {
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Gzip
	}
}

var (
	producerMetricsInit sync.Once
	producerMessages    *prometheus.CounterVec
	producerErrors      *prometheus.CounterVec
	producerBytes       *prometheus.CounterVec
	producerLatency     *prometheus.HistogramVec
)

func registerProducerMetrics() {
	producerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tickerpulse_kafka_producer_messages_total",
		Help: "Total messages published to Kafka",
	}, []string{"topic", "compression", "result"})
	producerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tickerpulse_kafka_producer_errors_total",
		Help: "Total producer errors",
	}, []string{"topic"})
	producerBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tickerpulse_kafka_producer_bytes_total",
		Help: "Total payload bytes published",
	}, []string{"topic", "compression"})
	producerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tickerpulse_kafka_producer_publish_seconds",
		Help:    "Publish latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
}
