package pgcrud

import (
	"context"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

// DeleteRecords deletes all rows matching the mandatory predicate. Matching
// zero rows is success with rows_affected of zero.
func (s *Server) DeleteRecords(ctx context.Context, input DeleteRecordsInput) (*DeleteRecordsOutput, error) {
	startTime := time.Now()

	if input.TableName == "" {
		return nil, validationErrorf("table_name is required")
	}
	if input.WhereClause == "" {
		return nil, validationErrorf("WHERE clause is required for DELETE operations for safety")
	}
	schema := defaultSchema(input.Schema)

	where := sqlbuild.Predicate{Clause: input.WhereClause, Args: input.WhereParams}
	stmt, err := sqlbuild.Delete(schema, input.TableName, where, input.ReturnRecords)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	output := &DeleteRecordsOutput{Success: true}
	if input.ReturnRecords {
		records, _, err := s.queryRecords(ctx, stmt)
		if err != nil {
			return nil, s.logToolError("delete_records", err)
		}
		output.Records = records
		output.RowsAffected = int64(len(records))
	} else {
		affected, _, err := s.execute(ctx, stmt)
		if err != nil {
			return nil, s.logToolError("delete_records", err)
		}
		output.RowsAffected = affected
	}

	s.logger.Info().
		Str("tool", "delete_records").
		Str("table", sqlbuild.QualifiedTable(schema, input.TableName)).
		Int64("rows_affected", output.RowsAffected).
		Dur("duration", time.Since(startTime)).
		Msg("records deleted")
	return output, nil
}
