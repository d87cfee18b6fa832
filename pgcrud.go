package pgcrud

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pgcrud/postgres-crud-mcp/internal/protection"
	"github.com/pgcrud/postgres-crud-mcp/internal/sanitize"
	"github.com/pgcrud/postgres-crud-mcp/internal/timeout"
)

// Server is the core engine behind both façades: the MCP tool surface and
// the JSON-RPC item endpoint. It owns the connection pool; every call
// acquires its own connection and releases it on every exit path. All
// exported methods are safe for concurrent use from multiple goroutines.
type Server struct {
	config     Config
	pool       *pgxpool.Pool
	semaphore  chan struct{}
	protection *protection.Checker
	sanitizer  *sanitize.Sanitizer
	timeouts   *timeout.Resolver
	logger     zerolog.Logger
}

// New creates a new Server. connString is the PostgreSQL connection string
// (must include credentials). Panics on invalid config; returns an error only
// for runtime failures such as pool creation.
func New(ctx context.Context, connString string, config Config, logger zerolog.Logger) (*Server, error) {
	if connString == "" {
		panic("pgcrud: connString must be non-empty")
	}
	if config.Pool.MaxConns == 0 {
		config.Pool.MaxConns = 10
	}
	if config.Pool.MaxConns < 0 {
		panic("pgcrud: pool.max_conns must be > 0")
	}
	if config.Query.DefaultTimeoutSeconds == 0 {
		config.Query.DefaultTimeoutSeconds = 30
	}
	if config.Query.DefaultTimeoutSeconds < 0 {
		panic("pgcrud: query.default_timeout_seconds must be > 0")
	}
	if config.Query.IntrospectionTimeoutSeconds == 0 {
		config.Query.IntrospectionTimeoutSeconds = 10
	}
	if config.Query.IntrospectionTimeoutSeconds < 0 {
		panic("pgcrud: query.introspection_timeout_seconds must be > 0")
	}
	for _, rule := range config.Query.TimeoutRules {
		if rule.TimeoutSeconds <= 0 {
			panic(fmt.Sprintf("pgcrud: timeout_rule with pattern %q has timeout_seconds <= 0", rule.Pattern))
		}
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = int32(config.Pool.MaxConns)
	poolConfig.MinConns = int32(config.Pool.MinConns)
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	if config.Pool.MaxConnLifetime != "" {
		d, err := time.ParseDuration(config.Pool.MaxConnLifetime)
		if err != nil {
			panic(fmt.Sprintf("pgcrud: invalid pool.max_conn_lifetime %q: %v", config.Pool.MaxConnLifetime, err))
		}
		poolConfig.MaxConnLifetime = d
	}
	if config.Pool.MaxConnIdleTime != "" {
		d, err := time.ParseDuration(config.Pool.MaxConnIdleTime)
		if err != nil {
			panic(fmt.Sprintf("pgcrud: invalid pool.max_conn_idle_time %q: %v", config.Pool.MaxConnIdleTime, err))
		}
		poolConfig.MaxConnIdleTime = d
	}
	if config.Pool.HealthCheckPeriod != "" {
		d, err := time.ParseDuration(config.Pool.HealthCheckPeriod)
		if err != nil {
			panic(fmt.Sprintf("pgcrud: invalid pool.health_check_period %q: %v", config.Pool.HealthCheckPeriod, err))
		}
		poolConfig.HealthCheckPeriod = d
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	san, err := sanitize.New(mapSanitizationRules(config.Sanitization))
	if err != nil {
		panic(fmt.Sprintf("pgcrud: %v", err))
	}

	timeoutRules := make([]timeout.Rule, len(config.Query.TimeoutRules))
	for i, r := range config.Query.TimeoutRules {
		timeoutRules[i] = timeout.Rule{
			Pattern: r.Pattern,
			Timeout: time.Duration(r.TimeoutSeconds) * time.Second,
		}
	}

	return &Server{
		config:    config,
		pool:      pool,
		semaphore: make(chan struct{}, config.Pool.MaxConns),
		protection: protection.NewChecker(protection.Config{
			BlockMultiStatement:  config.Protection.BlockMultiStatement,
			BlockDrop:            config.Protection.BlockDrop,
			BlockTruncate:        config.Protection.BlockTruncate,
			BlockDDL:             config.Protection.BlockDDL,
			RequireWhereOnDelete: config.Protection.RequireWhereOnDelete,
			RequireWhereOnUpdate: config.Protection.RequireWhereOnUpdate,
		}),
		sanitizer: san,
		timeouts: timeout.NewResolver(timeout.Config{
			DefaultTimeout: time.Duration(config.Query.DefaultTimeoutSeconds) * time.Second,
			Rules:          timeoutRules,
		}),
		logger: logger,
	}, nil
}

// Close closes the connection pool. Accepts context for API
// forward-compatibility; pgxpool.Pool.Close() has no context-based shutdown.
func (s *Server) Close(ctx context.Context) {
	s.pool.Close()
}

// Ping verifies database connectivity.
func (s *Server) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return resourceError(err, "database ping failed")
	}
	return nil
}

func mapSanitizationRules(rules []SanitizationRule) []sanitize.Rule {
	result := make([]sanitize.Rule, len(rules))
	for i, r := range rules {
		result[i] = sanitize.Rule{
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
		}
	}
	return result
}
