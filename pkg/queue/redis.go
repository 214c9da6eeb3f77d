package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"TickerPulse/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a redis-list work queue with delayed retries and a
// dead-letter list. Messages are JSON envelopes on a single list; failed
// handles park in a sorted set scored by their retry time until a pump
// moves them back onto the list.
type RedisQueue struct {
	log    *logger.Logger
	client *redis.Client
	cfg    Config
	jobs   map[string]Job

	mainKey  string
	retryKey string
	deadKey  string

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
}

// Option customizes the queue.
type Option func(*RedisQueue)

// WithKeyPrefix overrides the redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(q *RedisQueue) {
		q.mainKey = prefix + ":messages"
		q.retryKey = prefix + ":retry"
		q.deadKey = prefix + ":dlq"
	}
}

type envelope struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	Queued   time.Time       `json:"queued_at"`
}

// New builds a queue that both publishes and consumes. Register jobs
// before calling Start.
func New(log *logger.Logger, client *redis.Client, cfg Config, opts ...Option) *RedisQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &RedisQueue{
		log:      log,
		client:   client,
		cfg:      cfg,
		jobs:     make(map[string]Job),
		mainKey:  "tickerpulse:queue:messages",
		retryKey: "tickerpulse:queue:retry",
		deadKey:  "tickerpulse:queue:dlq",
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// RegisterJob binds a job to its message type. Duplicate types are ignored.
func (q *RedisQueue) RegisterJob(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, dup := q.jobs[job.Type()]; dup {
		q.log.Warn("queue job already registered", logger.String("job", job.Name()))
		return
	}
	q.jobs[job.Type()] = job
	q.log.Info("queue job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start verifies the redis connection and spawns workers plus the retry pump.
func (q *RedisQueue) Start() error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	q.running = true
	q.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.client.Ping(pingCtx).Err(); err != nil {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
		return fmt.Errorf("redis ping: %w", err)
	}

	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.wg.Add(1)
	go q.retryPump()

	q.log.Info("redis queue started",
		logger.Int("workers", q.cfg.Workers),
		logger.String("addr", q.client.Options().Addr))
	return nil
}

// Stop cancels workers and waits for them, bounded by ctx.
func (q *RedisQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	q.mu.Unlock()

	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.log.Info("redis queue stopped")
		return nil
	case <-ctx.Done():
		q.log.Warn("queue workers did not stop in time", logger.Error(ctx.Err()))
		return fmt.Errorf("queue shutdown: %w", ctx.Err())
	}
}

// PublishMessage enqueues one payload under msgType.
func (q *RedisQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	q.mu.RLock()
	running := q.running
	_, known := q.jobs[msgType]
	q.mu.RUnlock()

	if !running {
		return fmt.Errorf("queue not running")
	}
	if !known {
		return fmt.Errorf("no job registered for type %q", msgType)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	env, err := json.Marshal(envelope{
		ID:      strconv.FormatInt(time.Now().UnixNano(), 36),
		Type:    msgType,
		Payload: raw,
		Queued:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := q.client.LPush(ctx, q.mainKey, env).Err(); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

func (q *RedisQueue) worker(id int) {
	defer q.wg.Done()
	q.log.Info("queue worker started", logger.Int("worker_id", id))

	for q.ctx.Err() == nil {
		res, err := q.client.BRPop(q.ctx, time.Second, q.mainKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || q.ctx.Err() != nil {
				continue
			}
			q.log.Error("queue pop", logger.Error(err))
			select {
			case <-time.After(time.Second):
			case <-q.ctx.Done():
			}
			continue
		}
		if len(res) == 2 {
			q.dispatch(res[1])
		}
	}
	q.log.Info("queue worker stopped", logger.Int("worker_id", id))
}

func (q *RedisQueue) dispatch(raw string) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		q.log.Error("queue decode", logger.Error(err))
		return
	}

	q.mu.RLock()
	job := q.jobs[env.Type]
	q.mu.RUnlock()
	if job == nil {
		q.log.Error("queue message without job",
			logger.String("type", env.Type),
			logger.String("id", env.ID))
		return
	}

	start := time.Now()
	err := job.Handle(q.ctx, env.Payload)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		q.log.Warn("queue message cancelled",
			logger.String("id", env.ID),
			logger.String("job", job.Name()),
			logger.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return
	}

	q.log.Error("queue handle failed",
		logger.String("id", env.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", env.Attempts+1),
		logger.Error(err))

	if env.Attempts < q.cfg.RetryLimit {
		env.Attempts++
		q.parkForRetry(env, time.Now().Add(q.cfg.RetryDelay))
	} else {
		q.parkDead(env)
	}
}

func (q *RedisQueue) parkForRetry(env envelope, due time.Time) {
	raw, err := json.Marshal(env)
	if err != nil {
		q.log.Error("queue encode retry", logger.Error(err))
		return
	}
	err = q.client.ZAdd(context.Background(), q.retryKey, redis.Z{
		Score:  float64(due.Unix()),
		Member: raw,
	}).Err()
	if err != nil {
		q.log.Error("queue park retry", logger.Error(err))
		return
	}
	q.log.Info("queue retry scheduled",
		logger.String("id", env.ID),
		logger.Int("attempt", env.Attempts),
		logger.String("due", due.Format(time.RFC3339)))
}

func (q *RedisQueue) parkDead(env envelope) {
	q.log.Error("queue retries exhausted", logger.String("id", env.ID))
	raw, err := json.Marshal(env)
	if err != nil {
		q.log.Error("queue encode dlq", logger.Error(err))
		return
	}
	if err := q.client.LPush(context.Background(), q.deadKey, raw).Err(); err != nil {
		q.log.Error("queue park dlq", logger.Error(err))
	}
}

// retryPump moves due retries back onto the main list every few seconds.
func (q *RedisQueue) retryPump() {
	defer q.wg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.moveDueRetries()
		}
	}
}

func (q *RedisQueue) moveDueRetries() {
	due, err := q.client.ZRangeByScoreWithScores(q.ctx, q.retryKey, &redis.ZRangeBy{
		Min: "0",
		Max: strconv.FormatInt(time.Now().Unix(), 10),
	}).Result()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			q.log.Error("queue fetch retries", logger.Error(err))
		}
		return
	}

	for _, z := range due {
		if q.ctx.Err() != nil {
			return
		}
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		pipe := q.client.TxPipeline()
		pipe.ZRem(q.ctx, q.retryKey, raw)
		pipe.LPush(q.ctx, q.mainKey, raw)
		if _, err := pipe.Exec(q.ctx); err != nil && !errors.Is(err, context.Canceled) {
			q.log.Error("queue requeue retry", logger.Error(err))
		}
	}
}
