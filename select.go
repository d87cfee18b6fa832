package pgcrud

import (
	"context"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

// SelectRecords fetches a page of records plus pagination metadata. Two
// statements run per call: the row fetch (with ordering/limit/offset) and
// the count variant sharing the identical predicate and bound values. If
// either fails the whole call fails; there is no partial result.
func (s *Server) SelectRecords(ctx context.Context, input SelectRecordsInput) (*SelectRecordsOutput, error) {
	startTime := time.Now()

	if input.TableName == "" {
		return nil, validationErrorf("table_name is required")
	}
	if input.Limit != nil && *input.Limit < 0 {
		return nil, validationErrorf("limit cannot be negative")
	}
	if input.Offset != nil && *input.Offset < 0 {
		return nil, validationErrorf("offset cannot be negative")
	}
	schema := defaultSchema(input.Schema)

	var where *sqlbuild.Predicate
	if input.WhereClause != "" {
		where = &sqlbuild.Predicate{Clause: input.WhereClause, Args: input.WhereParams}
	}

	stmt, err := sqlbuild.Select(schema, input.TableName, sqlbuild.SelectOpts{
		Columns: input.Columns,
		Where:   where,
		OrderBy: input.OrderBy,
		Limit:   input.Limit,
		Offset:  input.Offset,
	})
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	countStmt, err := sqlbuild.SelectCount(schema, input.TableName, where)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	records, _, err := s.queryRecords(ctx, stmt)
	if err != nil {
		return nil, s.logToolError("select_records", err)
	}

	countRecord, err := s.queryRow(ctx, countStmt)
	if err != nil {
		return nil, s.logToolError("select_records", err)
	}
	total, err := countFromRecord(countRecord, "total")
	if err != nil {
		return nil, s.logToolError("select_records", &DatabaseError{Message: err.Error(), Err: err})
	}

	offset := 0
	if input.Offset != nil {
		offset = *input.Offset
	}

	s.logger.Info().
		Str("tool", "select_records").
		Str("table", sqlbuild.QualifiedTable(schema, input.TableName)).
		Int("returned_count", len(records)).
		Int64("total_count", total).
		Dur("duration", time.Since(startTime)).
		Msg("records selected")

	return &SelectRecordsOutput{
		Records:       records,
		TotalCount:    total,
		ReturnedCount: len(records),
		Limit:         input.Limit,
		Offset:        offset,
	}, nil
}
