package pgcrud

import (
	"context"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

// UpdateRecords updates all rows matching the mandatory predicate. Matching
// zero rows is success with rows_affected of zero, not an error.
func (s *Server) UpdateRecords(ctx context.Context, input UpdateRecordsInput) (*UpdateRecordsOutput, error) {
	startTime := time.Now()

	if input.TableName == "" {
		return nil, validationErrorf("table_name is required")
	}
	if len(input.Data) == 0 {
		return nil, validationErrorf("data dictionary cannot be empty")
	}
	if input.WhereClause == "" {
		return nil, validationErrorf("WHERE clause is required for UPDATE operations for safety")
	}
	schema := defaultSchema(input.Schema)
	returnRecords := input.ReturnRecords == nil || *input.ReturnRecords

	where := sqlbuild.Predicate{Clause: input.WhereClause, Args: input.WhereParams}
	stmt, err := sqlbuild.Update(schema, input.TableName, sortedColumnValues(input.Data), where, returnRecords)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	output := &UpdateRecordsOutput{Success: true}
	if returnRecords {
		records, _, err := s.queryRecords(ctx, stmt)
		if err != nil {
			return nil, s.logToolError("update_records", err)
		}
		output.Records = records
		output.RowsAffected = int64(len(records))
	} else {
		affected, _, err := s.execute(ctx, stmt)
		if err != nil {
			return nil, s.logToolError("update_records", err)
		}
		output.RowsAffected = affected
	}

	s.logger.Info().
		Str("tool", "update_records").
		Str("table", sqlbuild.QualifiedTable(schema, input.TableName)).
		Int64("rows_affected", output.RowsAffected).
		Dur("duration", time.Since(startTime)).
		Msg("records updated")
	return output, nil
}
