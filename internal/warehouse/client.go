// Package warehouse implements the domain ports against a Snowflake account
// over database/sql with the gosnowflake driver. All statements use bind
// parameters; calls are rate limited to stay inside the account's service
// quotas.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sf "github.com/snowflakedb/gosnowflake"
	"golang.org/x/time/rate"

	"snowlens/internal/domain"
)

// Default client limits.
const (
	defaultMaxOpenConns = 4
	defaultQueryRPS     = 5
	defaultQueryBurst   = 10
	connMaxIdleTime     = 5 * time.Minute
)

// ConnectionParams holds a resolved connection profile. The core never reads
// the profile file itself; the surrounding application resolves it and hands
// the values down.
type ConnectionParams struct {
	Account   string
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string
	Role      string
}

// Validate checks the minimum fields required to build a DSN.
func (p ConnectionParams) Validate() error {
	if p.Account == "" || p.User == "" {
		return fmt.Errorf("account and user are required")
	}
	return nil
}

// Client owns the warehouse connection pool and the shared rate limiter.
type Client struct {
	db      *sql.DB
	limiter *rate.Limiter
	session domain.SessionContext
	logger  *slog.Logger
}

// Open builds a DSN from the connection params and opens the pool. The
// connection is lazy; call Ping to verify reachability.
func Open(params ConnectionParams, logger *slog.Logger) (*Client, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	dsn, err := sf.DSN(&sf.Config{
		Account:   params.Account,
		User:      params.User,
		Password:  params.Password,
		Database:  params.Database,
		Schema:    params.Schema,
		Warehouse: params.Warehouse,
		Role:      params.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("build DSN: %w", err)
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snowflake: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	return &Client{
		db:      db,
		limiter: rate.NewLimiter(rate.Limit(defaultQueryRPS), defaultQueryBurst),
		session: domain.SessionContext{Database: params.Database, Schema: params.Schema},
		logger:  logger,
	}, nil
}

// Session returns the active database/schema context used to qualify
// partially qualified table references.
func (c *Client) Session() domain.SessionContext { return c.session }

// Ping verifies the warehouse is reachable with the current credentials.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return domain.ErrDataUnavailable("warehouse unreachable: %v", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error { return c.db.Close() }

// queryContext applies the rate limiter before running a statement.
func (c *Client) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.db.QueryContext(ctx, query, args...)
}

func (c *Client) queryRowContext(ctx context.Context, query string, args ...interface{}) (*sql.Row, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.db.QueryRowContext(ctx, query, args...), nil
}
