package pgcrud

import (
	"context"
	"strings"
	"time"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

// ExecuteCustomQuery runs caller-supplied SQL with bound parameters. A query
// declared SELECT must textually start with SELECT; anything else is treated
// as a mutating statement and — unless protection rules are enabled — is
// accepted as-is. This is a syntactic guard, not an injection defense, and is
// documented as such.
func (s *Server) ExecuteCustomQuery(ctx context.Context, input CustomQueryInput) (*CustomQueryOutput, error) {
	startTime := time.Now()

	queryType := strings.ToUpper(strings.TrimSpace(input.QueryType))
	if queryType == "" {
		queryType = "SELECT"
	}
	readOnly := queryType == "SELECT"

	stmt, err := sqlbuild.Custom(input.Query, input.Params, readOnly)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if readOnly {
		records, _, err := s.queryRecords(ctx, stmt)
		if err != nil {
			return nil, s.logToolError("execute_custom_query", err)
		}
		count := len(records)
		s.logger.Info().
			Str("tool", "execute_custom_query").
			Str("query_type", queryType).
			Int("record_count", count).
			Dur("duration", time.Since(startTime)).
			Msg("custom query executed")
		return &CustomQueryOutput{Success: true, Records: records, RecordCount: &count}, nil
	}

	if s.protection.Enabled() {
		if err := s.protection.Check(input.Query); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}

	affected, tag, err := s.execute(ctx, stmt)
	if err != nil {
		return nil, s.logToolError("execute_custom_query", err)
	}
	s.logger.Info().
		Str("tool", "execute_custom_query").
		Str("query_type", queryType).
		Int64("rows_affected", affected).
		Dur("duration", time.Since(startTime)).
		Msg("custom command executed")
	return &CustomQueryOutput{Success: true, Result: tag, RowsAffected: &affected}, nil
}
