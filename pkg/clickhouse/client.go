package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

// ClientOption configures the connection.
type ClientOption func(*clientConfig)

type clientConfig struct {
	host         string
	port         int
	database     string
	user         string
	password     string
	maxOpen      int
	maxIdle      int
	connLifetime time.Duration
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	useHTTP      bool
	asyncInsert  bool
	waitForAsync bool
	maxExecTime  time.Duration
}

// WithHost sets the server host. Required.
func WithHost(host string) ClientOption {
	return func(c *clientConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) ClientOption {
	return func(c *clientConfig) { c.port = port }
}

// WithDatabase selects the default database.
func WithDatabase(database string) ClientOption {
	return func(c *clientConfig) { c.database = database }
}

// WithCredentials sets user and password.
func WithCredentials(user, password string) ClientOption {
	return func(c *clientConfig) {
		c.user = user
		c.password = password
	}
}

// WithMaxConnections bounds the pool.
func WithMaxConnections(maxOpen, maxIdle int) ClientOption {
	return func(c *clientConfig) {
		c.maxOpen = maxOpen
		c.maxIdle = maxIdle
	}
}

// WithTimeouts sets dial, read and write timeouts. The write timeout stays
// client-side; some server versions reject it as a setting.
func WithTimeouts(dial, read, write time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.dialTimeout = dial
		c.readTimeout = read
		c.writeTimeout = write
	}
}

// WithHTTP switches from the native protocol to HTTP.
func WithHTTP(useHTTP bool) ClientOption {
	return func(c *clientConfig) { c.useHTTP = useHTTP }
}

// WithAsyncInsert enables server-side async inserts; wait makes each
// insert block until the server has flushed it.
func WithAsyncInsert(enabled, wait bool) ClientOption {
	return func(c *clientConfig) {
		c.asyncInsert = enabled
		c.waitForAsync = wait
	}
}

// WithMaxExecutionTime caps per-query execution time.
func WithMaxExecutionTime(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.maxExecTime = d }
}

// Client owns a ClickHouse connection pool behind database/sql.
type Client struct {
	db *sql.DB
}

// NewClient opens the pool and verifies the connection.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{
		maxOpen:      10,
		maxIdle:      5,
		connLifetime: 5 * time.Minute,
		dialTimeout:  5 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.host == "" {
		return nil, fmt.Errorf("clickhouse: host is required")
	}

	db, err := sql.Open("clickhouse", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	db.SetMaxOpenConns(cfg.maxOpen)
	db.SetMaxIdleConns(cfg.maxIdle)
	db.SetConnMaxLifetime(cfg.connLifetime)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}

	return &Client{db: db}, nil
}

func (c clientConfig) dsn() string {
	scheme := "clickhouse"
	if c.useHTTP {
		scheme = "clickhouse+http"
	}

	params := url.Values{}
	if c.dialTimeout > 0 {
		params.Set("dial_timeout", c.dialTimeout.String())
	}
	if c.readTimeout > 0 {
		params.Set("read_timeout", c.readTimeout.String())
	}
	if c.maxExecTime > 0 {
		params.Set("max_execution_time", strconv.Itoa(int(c.maxExecTime.Seconds())))
	}
	if c.asyncInsert {
		params.Set("async_insert", "1")
		if c.waitForAsync {
			params.Set("wait_for_async_insert", "1")
		}
	}

	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.user, c.password),
		Host:     fmt.Sprintf("%s:%d", c.host, c.port),
		Path:     "/" + c.database,
		RawQuery: params.Encode(),
	}
	return u.String()
}

// DB exposes the pool for direct queries.
func (c *Client) DB() *sql.DB { return c.db }

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the pool.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// InitSchema executes idempotent DDL statements in order.
func (c *Client) InitSchema(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
