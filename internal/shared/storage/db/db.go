package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
)

// Options sizes the connection pool for one process shape.
type Options struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

var openDB = sql.Open

// ServerPool sizes the pool for the long-running API process.
func ServerPool() Options {
	return Options{
		MaxOpen:     10,
		MaxIdle:     5,
		MaxLifetime: time.Hour,
		MaxIdleTime: 2 * time.Minute,
		PingTimeout: 5 * time.Second,
	}
}

// WorkerPool sizes the pool for the queue worker, which holds a handful of
// connections for concurrent ingestion jobs.
func WorkerPool() Options {
	return Options{
		MaxOpen:     5,
		MaxIdle:     2,
		MaxLifetime: time.Hour,
		MaxIdleTime: 2 * time.Minute,
		PingTimeout: 5 * time.Second,
	}
}

// MigratePool sizes the pool for the short-lived migration command.
func MigratePool() Options {
	return Options{
		MaxOpen:     1,
		MaxIdle:     1,
		MaxLifetime: time.Hour,
		MaxIdleTime: 2 * time.Minute,
		PingTimeout: 5 * time.Second,
	}
}

// LambdaPool keeps the pool small so concurrent execution environments do not
// exhaust the database.
func LambdaPool() Options {
	return Options{
		MaxOpen:     2,
		MaxIdle:     1,
		MaxLifetime: 15 * time.Minute,
		MaxIdleTime: 30 * time.Second,
		PingTimeout: 3 * time.Second,
	}
}

// FromEnv returns a copy of o with DB_* environment overrides applied.
// Invalid values are logged and skipped.
func (o Options) FromEnv() Options {
	set := func(key string, assign func(string) error) {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return
		}
		if err := assign(raw); err != nil {
			log.Printf("db: ignoring %s=%q: %v", key, raw, err)
		}
	}
	asInt := func(dst *int) func(string) error {
		return func(raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		}
	}
	asDuration := func(dst *time.Duration) func(string) error {
		return func(raw string) error {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			*dst = d
			return nil
		}
	}

	set("DB_MAX_OPEN_CONNS", asInt(&o.MaxOpen))
	set("DB_MAX_IDLE_CONNS", asInt(&o.MaxIdle))
	set("DB_CONN_MAX_LIFETIME", asDuration(&o.MaxLifetime))
	set("DB_CONN_MAX_IDLE_TIME", asDuration(&o.MaxIdleTime))
	set("DB_PING_TIMEOUT", asDuration(&o.PingTimeout))
	return o
}

func (o Options) apply(database *sql.DB) {
	if o.MaxOpen <= 0 {
		o.MaxOpen = 10
	}
	if o.MaxIdle <= 0 {
		o.MaxIdle = 5
	}
	if o.MaxLifetime <= 0 {
		o.MaxLifetime = time.Hour
	}
	database.SetMaxOpenConns(o.MaxOpen)
	database.SetMaxIdleConns(o.MaxIdle)
	database.SetConnMaxLifetime(o.MaxLifetime)
	if o.MaxIdleTime > 0 {
		database.SetConnMaxIdleTime(o.MaxIdleTime)
	}
}

// Connect opens a pooled *sql.DB for the given DATABASE_URL and verifies
// connectivity before returning it. Callers share the returned handle.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	database, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	opts.apply(database)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := database.Stats()
	log.Printf("db: pool ready max_open=%d idle=%d", stats.MaxOpenConnections, stats.Idle)
	return database, nil
}

var (
	sharedMu sync.Mutex
	sharedDB *sql.DB
)

// Shared returns a process-wide handle, connecting on first use. Lambda
// execution environments keep the pool alive across invocations; a failed
// connect is retried on the next call.
func Shared(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedDB != nil {
		return sharedDB, nil
	}
	database, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	sharedDB = database
	return sharedDB, nil
}

// RunningInLambda reports whether the process is an AWS Lambda function.
func RunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
