package pgcrud

import (
	"context"
	"sort"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

// InsertRecord inserts one record into schema.table. With ReturnRecord (the
// default) the inserted row comes back normalized; otherwise only the
// affected-row count does.
func (s *Server) InsertRecord(ctx context.Context, input InsertRecordInput) (*InsertRecordOutput, error) {
	startTime := time.Now()

	if input.TableName == "" {
		return nil, validationErrorf("table_name is required")
	}
	if len(input.Data) == 0 {
		return nil, validationErrorf("data dictionary cannot be empty")
	}
	schema := defaultSchema(input.Schema)
	returnRecord := input.ReturnRecord == nil || *input.ReturnRecord

	stmt, err := sqlbuild.Insert(schema, input.TableName, sortedColumnValues(input.Data), returnRecord)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	output := &InsertRecordOutput{Success: true}
	if returnRecord {
		record, err := s.queryRow(ctx, stmt)
		if err != nil {
			return nil, s.logToolError("insert_record", err)
		}
		if record == nil {
			return nil, &DatabaseError{Message: "insert returned no record"}
		}
		output.Record = record
	} else {
		affected, _, err := s.execute(ctx, stmt)
		if err != nil {
			return nil, s.logToolError("insert_record", err)
		}
		output.RowsAffected = &affected
	}

	s.logger.Info().
		Str("tool", "insert_record").
		Str("table", sqlbuild.QualifiedTable(schema, input.TableName)).
		Dur("duration", time.Since(startTime)).
		Msg("record inserted")
	return output, nil
}

// sortedColumnValues turns a JSON object into the builder's ordered column
// slice. JSON objects carry no wire-level order, so column names are sorted
// to make placeholder assignment deterministic within a build.
func sortedColumnValues(data map[string]any) []sqlbuild.ColumnValue {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]sqlbuild.ColumnValue, len(names))
	for i, name := range names {
		cols[i] = sqlbuild.ColumnValue{Column: name, Value: data[name]}
	}
	return cols
}

func defaultSchema(schema string) string {
	if schema == "" {
		return "public"
	}
	return schema
}

// logToolError records a tool failure and passes the error through.
func (s *Server) logToolError(tool string, err error) error {
	s.logger.Error().Str("tool", tool).Err(err).Msg("tool error")
	return err
}
