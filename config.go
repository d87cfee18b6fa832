package pgcrud

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the base configuration used by library mode via New().
type Config struct {
	Connection   ConnectionConfig   `json:"connection"`
	Pool         PoolConfig         `json:"pool"`
	Query        QueryConfig        `json:"query"`
	Protection   ProtectionConfig   `json:"protection"`
	Sanitization []SanitizationRule `json:"sanitization"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config
	Server  ServerSettings `json:"server"`
	Logging LoggingConfig  `json:"logging"`
}

// ConnectionConfig holds database connection parameters. Password is never
// stored in config; it comes from PG_PASSWORD or an interactive prompt.
type ConnectionConfig struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	User    string `json:"user"`
	DBName  string `json:"dbname"`
	SSLMode string `json:"sslmode"`
}

// ApplyEnv overlays PG_HOST, PG_PORT, PG_USER, and PG_DATABASE onto the
// config, then fills the remaining defaults (localhost:5432).
func (c *ConnectionConfig) ApplyEnv() {
	if v := os.Getenv("PG_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("PG_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("PG_DATABASE"); v != "" {
		c.DBName = v
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
}

// ConnString builds a keyword/value pgx connection string from the config
// plus the given password.
func (c ConnectionConfig) ConnString(password string) string {
	parts := []string{}
	if c.Host != "" {
		parts = append(parts, "host="+c.Host)
	}
	if c.Port > 0 {
		parts = append(parts, fmt.Sprintf("port=%d", c.Port))
	}
	if c.DBName != "" {
		parts = append(parts, "dbname="+c.DBName)
	}
	if c.User != "" {
		parts = append(parts, "user="+c.User)
	}
	if password != "" {
		parts = append(parts, "password="+password)
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+c.SSLMode)
	}
	return strings.Join(parts, " ")
}

// PoolConfig holds connection pool settings. Duration fields use Go duration
// strings ("30m", "1h").
type PoolConfig struct {
	MaxConns          int    `json:"max_conns"`
	MinConns          int    `json:"min_conns"`
	MaxConnLifetime   string `json:"max_conn_lifetime"`
	MaxConnIdleTime   string `json:"max_conn_idle_time"`
	HealthCheckPeriod string `json:"health_check_period"`
}

// QueryConfig holds statement execution settings.
type QueryConfig struct {
	DefaultTimeoutSeconds       int           `json:"default_timeout_seconds"`
	IntrospectionTimeoutSeconds int           `json:"introspection_timeout_seconds"`
	TimeoutRules                []TimeoutRule `json:"timeout_rules"`
}

// TimeoutRule maps a SQL regex pattern to a specific timeout duration.
type TimeoutRule struct {
	Pattern        string `json:"pattern"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ProtectionConfig enables AST checks on custom mutating queries. All checks
// are off by default: execute_custom_query accepts mutating SQL as-is unless
// a rule is switched on.
type ProtectionConfig struct {
	BlockMultiStatement  bool `json:"block_multi_statement"`
	BlockDrop            bool `json:"block_drop"`
	BlockTruncate        bool `json:"block_truncate"`
	BlockDDL             bool `json:"block_ddl"`
	RequireWhereOnDelete bool `json:"require_where_on_delete"`
	RequireWhereOnUpdate bool `json:"require_where_on_update"`
}

// SanitizationRule defines a regex-based field sanitization rule applied to
// every returned record.
type SanitizationRule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	Description string `json:"description"`
}

// ServerSettings holds HTTP server settings for CLI mode.
type ServerSettings struct {
	Port               int    `json:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, stderr, or file path
}

// LoadServerConfig reads a ServerConfig from the given JSON file. A missing
// file is not an error; the zero config plus env overrides is a complete
// setup.
func LoadServerConfig(path string) (*ServerConfig, error) {
	var config ServerConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &config, nil
}
