package kafka

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler consumes raw payloads from one topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// ConsumerOption configures the consumer.
type ConsumerOption func(*consumerConfig)

type consumerConfig struct {
	brokers    []string
	group      string
	workers    int
	buffer     int
	retryMax   int
	backoffMin time.Duration
	backoffMax time.Duration
	dlqTopic   string
	minBytes   int
	maxBytes   int
}

// WithConsumerBrokers sets the broker addresses. Required.
func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *consumerConfig) { c.brokers = brokers }
}

// WithConsumerGroup sets the consumer group id.
func WithConsumerGroup(group string) ConsumerOption {
	return func(c *consumerConfig) { c.group = group }
}

// WithConsumerWorkers sets how many handler goroutines run. Messages from
// the same partition always land on the same worker, so raising this only
// parallelizes across partitions.
func WithConsumerWorkers(n int) ConsumerOption {
	return func(c *consumerConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithConsumerBuffer sets the per-worker queue depth. A full queue blocks
// the fetch loop, which is the intended backpressure.
func WithConsumerBuffer(n int) ConsumerOption {
	return func(c *consumerConfig) {
		if n > 0 {
			c.buffer = n
		}
	}
}

// WithConsumerRetry bounds handler retries and the backoff window between
// attempts.
func WithConsumerRetry(max int, backoffMin, backoffMax time.Duration) ConsumerOption {
	return func(c *consumerConfig) {
		c.retryMax = max
		c.backoffMin = backoffMin
		c.backoffMax = backoffMax
	}
}

// WithConsumerDLQ routes messages that exhaust retries to topic instead of
// blocking the partition forever.
func WithConsumerDLQ(topic string) ConsumerOption {
	return func(c *consumerConfig) { c.dlqTopic = topic }
}

// WithConsumerFetch sets the reader's fetch size bounds in bytes.
func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *consumerConfig) {
		c.minBytes = minBytes
		c.maxBytes = maxBytes
	}
}

// Consumer reads registered topics through group readers and dispatches
// each message to a worker picked by partition, preserving per-partition
// ordering without any locking in the handler path.
type Consumer struct {
	cfg      consumerConfig
	handlers map[string]MessageHandler
	readers  map[string]*kafka.Reader
	lanes    []chan inbound
	dlq      *kafka.Writer
	hook     Hook

	cancel context.CancelFunc
	wg     sync.WaitGroup
	stop   sync.Once
}

type inbound struct {
	topic string
	msg   kafka.Message
}

// NewConsumer builds a consumer from options. Brokers are mandatory.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := consumerConfig{
		group:      "default",
		workers:    1,
		buffer:     10,
		retryMax:   3,
		backoffMin: 50 * time.Millisecond,
		backoffMax: 2 * time.Second,
		minBytes:   10e3,
		maxBytes:   10e6,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer: brokers are required")
	}

	c := &Consumer{
		cfg:      cfg,
		handlers: make(map[string]MessageHandler),
		readers:  make(map[string]*kafka.Reader),
	}
	if cfg.dlqTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.brokers...), Balancer: &kafka.LeastBytes{}}
	}

	consumerMetricsInit.Do(registerConsumerMetrics)
	return c, nil
}

// RegisterHandler binds a handler to its topic. Must be called before Start;
// a second handler for the same topic is ignored with a warning.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, dup := c.handlers[topic]; dup {
		log.Printf("kafka consumer: duplicate handler for topic %s ignored", topic)
		return
	}
	c.handlers[topic] = handler
}

// SetHook installs an observer invoked after each message is handled.
func (c *Consumer) SetHook(h Hook) { c.hook = h }

// Start spawns the worker pool and one fetch loop per registered topic.
func (c *Consumer) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.lanes = make([]chan inbound, c.cfg.workers)
	for i := range c.lanes {
		c.lanes[i] = make(chan inbound, c.cfg.buffer)
		c.wg.Add(1)
		go c.work(ctx, c.lanes[i])
	}

	for topic := range c.handlers {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.brokers,
			Topic:    topic,
			GroupID:  c.cfg.group,
			MinBytes: c.cfg.minBytes,
			MaxBytes: c.cfg.maxBytes,
		})
		c.readers[topic] = reader
		c.wg.Add(1)
		go c.fetch(ctx, topic, reader)
	}

	log.Printf("kafka consumer: started topics=%d workers=%d", len(c.readers), c.cfg.workers)
	return nil
}

// Stop cancels fetching and waits for in-flight handlers, bounded by ctx.
func (c *Consumer) Stop(ctx context.Context) error {
	var err error
	c.stop.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = fmt.Errorf("kafka consumer: shutdown incomplete: %w", ctx.Err())
		}

		for topic, reader := range c.readers {
			if cerr := reader.Close(); cerr != nil {
				log.Printf("kafka consumer: close reader %s: %v", topic, cerr)
			}
		}
		if c.dlq != nil {
			if cerr := c.dlq.Close(); cerr != nil {
				log.Printf("kafka consumer: close dlq writer: %v", cerr)
			}
		}
	})
	return err
}

func (c *Consumer) fetch(ctx context.Context, topic string, reader *kafka.Reader) {
	defer c.wg.Done()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("kafka consumer: fetch %s: %v", topic, err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		lane := c.lanes[msg.Partition%len(c.lanes)]
		select {
		case lane <- inbound{topic: topic, msg: msg}:
			consumerQueueDepth.WithLabelValues(topic).Set(float64(len(lane)))
			consumerQueueFullness.WithLabelValues(topic).Set(float64(len(lane)) / float64(cap(lane)))
		case <-ctx.Done():
			return
		}
	}
}

func (c *Consumer) work(ctx context.Context, lane chan inbound) {
	defer c.wg.Done()

	for {
		select {
		case in := <-lane:
			c.process(ctx, in)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Consumer) process(ctx context.Context, in inbound) {
	handler := c.handlers[in.topic]
	if handler == nil {
		return
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("kafka consumer: panic handling %s: %v", in.topic, r)
		}
		consumerHandleLatency.WithLabelValues(in.topic).Observe(time.Since(start).Seconds())
	}()

	var err error
	attempts := 0
	for {
		attempts++
		err = handler.Handle(ctx, in.msg.Value)
		if err == nil || attempts > c.cfg.retryMax {
			break
		}
		select {
		case <-time.After(retryDelay(c.cfg.backoffMin, c.cfg.backoffMax, attempts)):
		case <-ctx.Done():
			return
		}
	}

	if c.hook != nil {
		c.hook.HandleDone(in.topic, in.msg.Partition, attempts, err)
	}

	if err != nil {
		log.Printf("kafka consumer: handler %s failed after %d attempts: %v", in.topic, attempts, err)
		if c.dlq != nil {
			dlqErr := c.dlq.WriteMessages(context.Background(), kafka.Message{
				Topic:   c.cfg.dlqTopic,
				Value:   in.msg.Value,
				Time:    time.Now(),
				Headers: []kafka.Header{{Key: "source_topic", Value: []byte(in.topic)}},
			})
			if dlqErr != nil {
				log.Printf("kafka consumer: dlq publish %s: %v", c.cfg.dlqTopic, dlqErr)
			}
		}
	}

	// Commit on success, or after DLQ so a poison message cannot wedge
	// the partition.
	if err == nil || c.dlq != nil {
		c.commit(in.topic, in.msg)
	}
}

func (c *Consumer) commit(topic string, msg kafka.Message) {
	reader := c.readers[topic]
	if reader == nil {
		return
	}
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = reader.CommitMessages(cctx, msg)
		cancel()
		if err == nil {
			return
		}
		time.Sleep(retryDelay(50*time.Millisecond, 500*time.Millisecond, attempt))
	}
	log.Printf("kafka consumer: commit %s failed: %v", topic, err)
}

func retryDelay(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	d := min << uint(attempt-1)
	if d > max || d < min {
		d = max
	}
	// jitter in [d/2, d]
	half := int64(d / 2)
	return time.Duration(half + rand.Int63n(half+1))
}

var (
	consumerMetricsInit   sync.Once
	consumerQueueDepth    *prometheus.GaugeVec
	consumerQueueFullness *prometheus.GaugeVec
	consumerHandleLatency *prometheus.HistogramVec
)

func registerConsumerMetrics() {
	consumerQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tickerpulse_kafka_consumer_queue_depth",
		Help: "Messages waiting in worker queues",
	}, []string{"topic"})
	consumerQueueFullness = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tickerpulse_kafka_consumer_queue_fullness",
		Help: "Worker queue utilization (len/cap)",
	}, []string{"topic"})
	consumerHandleLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "tickerpulse_kafka_consumer_handle_seconds",
		Help: "Handling time per message",
	}, []string{"topic"})
}
