package pgcrud

import (
	"context"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

const listTablesSQL = `
SELECT
    table_name,
    table_type,
    is_insertable_into,
    is_typed
FROM information_schema.tables
WHERE table_schema = $1
ORDER BY table_name
`

// ListTables returns all tables in the given schema ("public" by default)
// with their information_schema metadata.
func (s *Server) ListTables(ctx context.Context, input ListTablesInput) ([]Record, error) {
	startTime := time.Now()
	schema := defaultSchema(input.Schema)

	ictx, cancel := s.introspectionContext(ctx)
	defer cancel()

	tables, _, err := s.queryRecords(ictx, sqlbuild.Statement{Text: listTablesSQL, Args: []any{schema}})
	if err != nil {
		return nil, s.logToolError("list_tables", err)
	}

	s.logger.Info().
		Str("tool", "list_tables").
		Str("schema", schema).
		Int("table_count", len(tables)).
		Dur("duration", time.Since(startTime)).
		Msg("tables listed")
	return tables, nil
}

// introspectionContext bounds schema-introspection statements with their own
// (typically shorter) timeout.
func (s *Server) introspectionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(s.config.Query.IntrospectionTimeoutSeconds)*time.Second)
}
