package pgcrud

import (
	"context"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

const describeColumnsSQL = `
SELECT
    column_name,
    data_type,
    is_nullable,
    column_default,
    character_maximum_length,
    numeric_precision,
    numeric_scale,
    ordinal_position
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position
`

const describeConstraintsSQL = `
SELECT
    tc.constraint_name,
    tc.constraint_type,
    ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.constraint_column_usage ccu
    ON tc.constraint_name = ccu.constraint_name
WHERE tc.table_schema = $1 AND tc.table_name = $2
`

const describeIndexesSQL = `
SELECT
    indexname,
    indexdef
FROM pg_indexes
WHERE schemaname = $1 AND tablename = $2
`

// DescribeTable returns column, constraint, and index metadata for one
// table. A (schema, table) pair with no columns does not exist and yields a
// NotFoundError.
func (s *Server) DescribeTable(ctx context.Context, input DescribeTableInput) (*DescribeTableOutput, error) {
	startTime := time.Now()

	if input.TableName == "" {
		return nil, validationErrorf("table_name is required")
	}
	schema := defaultSchema(input.Schema)
	args := []any{schema, input.TableName}

	ictx, cancel := s.introspectionContext(ctx)
	defer cancel()

	columns, _, err := s.queryRecords(ictx, sqlbuild.Statement{Text: describeColumnsSQL, Args: args})
	if err != nil {
		return nil, s.logToolError("describe_table", err)
	}
	if len(columns) == 0 {
		return nil, notFoundErrorf("table '%s.%s' not found", schema, input.TableName)
	}

	constraints, _, err := s.queryRecords(ictx, sqlbuild.Statement{Text: describeConstraintsSQL, Args: args})
	if err != nil {
		return nil, s.logToolError("describe_table", err)
	}
	indexes, _, err := s.queryRecords(ictx, sqlbuild.Statement{Text: describeIndexesSQL, Args: args})
	if err != nil {
		return nil, s.logToolError("describe_table", err)
	}

	s.logger.Info().
		Str("tool", "describe_table").
		Str("table", schema+"."+input.TableName).
		Int("column_count", len(columns)).
		Dur("duration", time.Since(startTime)).
		Msg("table described")

	return &DescribeTableOutput{
		TableName:   input.TableName,
		Schema:      schema,
		Columns:     columns,
		Constraints: constraints,
		Indexes:     indexes,
	}, nil
}
