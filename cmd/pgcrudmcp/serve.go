package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	pgcrud "github.com/pgcrud/postgres-crud-mcp"
	"github.com/pgcrud/postgres-crud-mcp/internal/jsonrpc"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const defaultPort = 8000

func runServe() error {
	ctx := context.Background()

	// .env is optional; real env vars win over file entries.
	_ = godotenv.Load()

	serverConfig, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serverConfig.Server.Port == 0 {
		serverConfig.Server.Port = defaultPort
	}
	if serverConfig.Server.Port < 0 {
		panic("pgcrudmcp: server.port must be > 0")
	}

	logger := setupLogger(serverConfig.Logging)

	connString := os.Getenv("PGCRUD_PG_CONNSTRING")
	if connString == "" {
		serverConfig.Connection.ApplyEnv()
		password := os.Getenv("PG_PASSWORD")
		if password == "" {
			if serverConfig.Connection.User == "" {
				serverConfig.Connection.User = promptInput("Username: ")
			}
			password = promptPassword("Password: ")
		}
		connString = serverConfig.Connection.ConnString(password)
	}

	db, err := pgcrud.New(ctx, connString, serverConfig.Config, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer db.Close(ctx)

	logger.Info().Msg("testing database connection")
	if err := db.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("database connection test failed")
		return fmt.Errorf("database connection test failed: %w", err)
	}
	logger.Info().Msg("database connection test successful")

	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer(pgcrud.ServerName, "1.0.0",
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)

	pgcrud.RegisterMCPTools(mcpServer, db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Liveness only; DB connectivity is reported by the ping tool.
	if serverConfig.Server.HealthCheckEnabled {
		path := serverConfig.Server.HealthCheckPath
		if path == "" {
			path = "/health"
		}
		r.Get(path, func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	r.Mount("/rpc", jsonrpc.NewHandler(db, logger).Routes())

	addr := fmt.Sprintf(":%d", serverConfig.Server.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Start() does not register the handler when a custom *http.Server is
	// provided, so mount it on the router ourselves.
	r.Handle("/mcp", streamableServer)

	logger.Info().Int("port", serverConfig.Server.Port).Msg("starting pgcrudmcp server")
	return streamableServer.Start(addr)
}

func loadServerConfig() (*pgcrud.ServerConfig, error) {
	configPath := os.Getenv("PGCRUD_CONFIG_PATH")
	if configPath == "" {
		configPath = ".pgcrudmcp/config.json"
	}
	return pgcrud.LoadServerConfig(configPath)
}

func setupLogger(config pgcrud.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	output, warning := logOutput(config)
	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	if warning != "" {
		logger.Warn().Msg(warning)
	}
	return logger
}

// logOutput resolves the configured log destination. When the configured log
// file cannot be opened it falls back to stderr and returns a warning so the
// operator can see the misconfigured path instead of losing logs silently.
func logOutput(config pgcrud.LoggingConfig) (io.Writer, string) {
	switch config.Output {
	case "", "stderr":
		return os.Stderr, ""
	case "stdout":
		return os.Stdout, ""
	}
	f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stderr, fmt.Sprintf("failed to open log file %s, falling back to stderr: %v", config.Output, err)
	}
	return f, ""
}

func promptInput(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var input string
	fmt.Scanln(&input)
	return input
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return ""
	}
	return string(password)
}
