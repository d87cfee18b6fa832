package pgcrud

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

// The executor. Each statement runs as its own autocommit unit on a
// connection drawn from the pool; the connection is released on every exit
// path and never leaks to the caller. A semaphore sized to the pool bounds
// concurrent statements so callers queue on cancellation-aware channel waits
// instead of piling up inside the pool.

// acquireSlot claims a query slot, respecting context cancellation.
func (s *Server) acquireSlot(ctx context.Context) error {
	select {
	case s.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return resourceError(ctx.Err(), "all %d connection slots are in use, context cancelled while waiting", cap(s.semaphore))
	}
}

func (s *Server) releaseSlot() {
	<-s.semaphore
}

// queryRecords executes stmt and returns all result rows as normalized,
// sanitized records preserving column order in the companion slice.
func (s *Server) queryRecords(ctx context.Context, stmt sqlbuild.Statement) ([]Record, []string, error) {
	if err := s.acquireSlot(ctx); err != nil {
		return nil, nil, err
	}
	defer s.releaseSlot()

	qctx, cancel := context.WithTimeout(ctx, s.timeouts.Resolve(stmt.Text))
	defer cancel()

	conn, err := s.pool.Acquire(qctx)
	if err != nil {
		return nil, nil, resourceError(err, "failed to acquire connection")
	}
	defer conn.Release()

	rows, err := conn.Query(qctx, stmt.Text, stmt.Args...)
	if err != nil {
		return nil, nil, classifyExecError(err)
	}
	records, columns, err := s.collectRows(rows)
	if err != nil {
		return nil, nil, classifyExecError(err)
	}
	return records, columns, nil
}

// queryRow is queryRecords limited to at most one row; returns nil with no
// error when the statement matched nothing.
func (s *Server) queryRow(ctx context.Context, stmt sqlbuild.Statement) (Record, error) {
	records, _, err := s.queryRecords(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// execute runs a mutating statement without RETURNING and reports the
// affected row count plus the backend's command tag.
func (s *Server) execute(ctx context.Context, stmt sqlbuild.Statement) (int64, string, error) {
	if err := s.acquireSlot(ctx); err != nil {
		return 0, "", err
	}
	defer s.releaseSlot()

	qctx, cancel := context.WithTimeout(ctx, s.timeouts.Resolve(stmt.Text))
	defer cancel()

	conn, err := s.pool.Acquire(qctx)
	if err != nil {
		return 0, "", resourceError(err, "failed to acquire connection")
	}
	defer conn.Release()

	tag, err := conn.Exec(qctx, stmt.Text, stmt.Args...)
	if err != nil {
		return 0, "", classifyExecError(err)
	}
	return tag.RowsAffected(), tag.String(), nil
}

// collectRows drains pgx.Rows into records, normalizing every value and
// applying sanitization rules before anything reaches a response envelope.
func (s *Server) collectRows(rows pgx.Rows) ([]Record, []string, error) {
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	records := make([]Record, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		record := make(Record, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return s.sanitizer.Apply(records), columns, nil
}

// normalizeValue converts a pgx-returned value into a JSON-compatible one.
// This is the single point where temporal values become ISO-8601 strings;
// sequences and maps normalize recursively, everything else passes through.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case float32:
		return normalizeFloat(float64(val))
	case float64:
		return normalizeFloat(val)
	case netip.Prefix:
		return val.String()
	case net.HardwareAddr:
		return val.String()
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		if val.NaN {
			return "NaN"
		}
		if val.InfinityModifier == pgtype.Infinity {
			return "Infinity"
		}
		if val.InfinityModifier == pgtype.NegativeInfinity {
			return "-Infinity"
		}
		b, err := val.MarshalJSON()
		if err != nil {
			return nil
		}
		return string(b)
	case pgtype.Time:
		if !val.Valid {
			return nil
		}
		return formatMicroseconds(val.Microseconds)
	case pgtype.Interval:
		if !val.Valid {
			return nil
		}
		return formatInterval(val)
	case [16]byte:
		// UUID
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
	case []byte:
		// bytea — base64 encode
		return base64.StdEncoding.EncodeToString(val)
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = normalizeValue(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = normalizeValue(v)
		}
		return result
	default:
		return val
	}
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return f
}

func formatMicroseconds(us int64) string {
	hours := us / 3_600_000_000
	us -= hours * 3_600_000_000
	minutes := us / 60_000_000
	us -= minutes * 60_000_000
	seconds := us / 1_000_000
	us -= seconds * 1_000_000
	if us > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%06d", hours, minutes, seconds, us)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

func formatInterval(val pgtype.Interval) string {
	parts := []string{}
	if val.Months != 0 {
		years := val.Months / 12
		months := val.Months % 12
		if years != 0 {
			parts = append(parts, fmt.Sprintf("%d year(s)", years))
		}
		if months != 0 {
			parts = append(parts, fmt.Sprintf("%d mon(s)", months))
		}
	}
	if val.Days != 0 {
		parts = append(parts, fmt.Sprintf("%d day(s)", val.Days))
	}
	if val.Microseconds != 0 {
		dur := time.Duration(val.Microseconds) * time.Microsecond
		parts = append(parts, dur.String())
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " ")
}

// countFromRecord pulls the COUNT(*) value out of a count-statement row.
func countFromRecord(record Record, field string) (int64, error) {
	if record == nil {
		return 0, fmt.Errorf("count query returned no rows")
	}
	switch n := record[field].(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", record[field])
	}
}
