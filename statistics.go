package pgcrud

import (
	"context"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

const tableInfoSQL = `
SELECT
    schemaname,
    tablename,
    tableowner,
    hasindexes,
    hasrules,
    hastriggers
FROM pg_tables
WHERE schemaname = $1 AND tablename = $2
`

const tableSizeSQL = `
SELECT
    pg_size_pretty(pg_total_relation_size($1::regclass)) AS total_size,
    pg_size_pretty(pg_relation_size($1::regclass)) AS table_size,
    pg_size_pretty(pg_total_relation_size($1::regclass) - pg_relation_size($1::regclass)) AS index_size
`

// TableStatistics reports pg_tables metadata, an exact row count, and
// relation sizes for one table. Fails with NotFoundError when the table is
// absent from pg_tables.
func (s *Server) TableStatistics(ctx context.Context, input TableStatisticsInput) (*TableStatisticsOutput, error) {
	startTime := time.Now()

	if input.TableName == "" {
		return nil, validationErrorf("table_name is required")
	}
	schema := defaultSchema(input.Schema)
	qualified := sqlbuild.QualifiedTable(schema, input.TableName)

	ictx, cancel := s.introspectionContext(ctx)
	defer cancel()

	tableInfo, err := s.queryRow(ictx, sqlbuild.Statement{Text: tableInfoSQL, Args: []any{schema, input.TableName}})
	if err != nil {
		return nil, s.logToolError("get_table_statistics", err)
	}
	if tableInfo == nil {
		return nil, notFoundErrorf("table '%s' not found", qualified)
	}

	// Row count uses an exact COUNT(*); the table name is a trusted
	// identifier here, same as in the CRUD tools. It deliberately runs under
	// the caller's context with the default query timeout rather than the
	// shorter introspection window: exact counts scan the table and can be
	// slow on large relations.
	countStmt, err := sqlbuild.SelectCount(schema, input.TableName, nil)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	countRecord, err := s.queryRow(ctx, countStmt)
	if err != nil {
		return nil, s.logToolError("get_table_statistics", err)
	}
	rowCount, err := countFromRecord(countRecord, "total")
	if err != nil {
		return nil, s.logToolError("get_table_statistics", &DatabaseError{Message: err.Error(), Err: err})
	}

	sizeInfo, err := s.queryRow(ictx, sqlbuild.Statement{Text: tableSizeSQL, Args: []any{qualified}})
	if err != nil {
		return nil, s.logToolError("get_table_statistics", err)
	}
	if sizeInfo == nil {
		sizeInfo = Record{}
	}

	s.logger.Info().
		Str("tool", "get_table_statistics").
		Str("table", qualified).
		Int64("row_count", rowCount).
		Dur("duration", time.Since(startTime)).
		Msg("table statistics collected")

	return &TableStatisticsOutput{
		TableInfo: tableInfo,
		RowCount:  rowCount,
		SizeInfo:  sizeInfo,
	}, nil
}
