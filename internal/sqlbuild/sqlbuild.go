// Package sqlbuild constructs parameterized SQL statements from structured
// call parameters. It is pure logic: no I/O, no driver types.
//
// Values always travel as positional bind arguments ($1, $2, ...). Identifiers
// (schema, table, column names) and caller-supplied predicate/order-by
// fragments are interpolated verbatim — that trust boundary belongs to the
// caller and is documented on the package that exposes it.
package sqlbuild

import (
	"fmt"
	"strconv"
	"strings"
)

// Statement is a built SQL statement: text plus its ordered bind arguments.
type Statement struct {
	Text string
	Args []any
}

// ColumnValue is one column assignment. Builders assign placeholders in slice
// order, so a stable input slice yields a deterministic statement.
type ColumnValue struct {
	Column string
	Value  any
}

// Predicate is a caller-supplied WHERE fragment referencing $1..$n, plus the
// values bound to those placeholders.
type Predicate struct {
	Clause string
	Args   []any
}

// SelectOpts are the optional parts of a SELECT statement.
type SelectOpts struct {
	Columns []string
	Where   *Predicate
	OrderBy string
	Limit   *int
	Offset  *int
}

// QualifiedTable joins schema and table into a qualified relation name.
// Neither part is quoted or validated; a caller-quoted name passes through.
func QualifiedTable(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}

// Insert builds INSERT INTO <schema>.<table> (cols...) VALUES ($1..$n),
// optionally appending RETURNING *.
func Insert(schema, table string, cols []ColumnValue, returning bool) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("table name is required")
	}
	if len(cols) == 0 {
		return Statement{}, fmt.Errorf("data cannot be empty")
	}

	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, cv := range cols {
		names[i] = cv.Column
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = cv.Value
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(QualifiedTable(schema, table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(placeholders, ", "))
	sb.WriteString(")")
	if returning {
		sb.WriteString(" RETURNING *")
	}
	return Statement{Text: sb.String(), Args: args}, nil
}

// Select builds SELECT <cols> FROM <schema>.<table> with optional WHERE,
// ORDER BY, LIMIT, and OFFSET. Predicate placeholders keep their original
// numbering; LIMIT and OFFSET each consume the next placeholder after them.
func Select(schema, table string, opts SelectOpts) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("table name is required")
	}

	columns := "*"
	if len(opts.Columns) > 0 {
		columns = strings.Join(opts.Columns, ", ")
	}

	var sb strings.Builder
	var args []any
	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(QualifiedTable(schema, table))

	if opts.Where != nil && opts.Where.Clause != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(opts.Where.Clause)
		args = append(args, opts.Where.Args...)
	}
	if opts.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(opts.OrderBy)
	}
	if opts.Limit != nil {
		args = append(args, *opts.Limit)
		sb.WriteString(" LIMIT $")
		sb.WriteString(strconv.Itoa(len(args)))
	}
	if opts.Offset != nil {
		args = append(args, *opts.Offset)
		sb.WriteString(" OFFSET $")
		sb.WriteString(strconv.Itoa(len(args)))
	}
	return Statement{Text: sb.String(), Args: args}, nil
}

// SelectCount builds the count variant of a Select: same relation, same
// predicate with its exact placeholder numbering, no ordering or pagination.
// With no predicate the WHERE clause is omitted entirely.
func SelectCount(schema, table string, where *Predicate) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("table name is required")
	}

	var sb strings.Builder
	var args []any
	sb.WriteString("SELECT COUNT(*) AS total FROM ")
	sb.WriteString(QualifiedTable(schema, table))
	if where != nil && where.Clause != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where.Clause)
		args = append(args, where.Args...)
	}
	return Statement{Text: sb.String(), Args: args}, nil
}

// Update builds UPDATE <schema>.<table> SET col=$1.. WHERE <predicate>,
// optionally appending RETURNING *. SET placeholders are numbered first;
// the predicate's $k references are renumbered to continue after them and
// its bind values are appended after the SET values.
func Update(schema, table string, sets []ColumnValue, where Predicate, returning bool) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("table name is required")
	}
	if len(sets) == 0 {
		return Statement{}, fmt.Errorf("data cannot be empty")
	}
	if where.Clause == "" {
		return Statement{}, fmt.Errorf("WHERE clause is required for UPDATE")
	}

	assignments := make([]string, len(sets))
	args := make([]any, 0, len(sets)+len(where.Args))
	for i, cv := range sets {
		assignments[i] = cv.Column + " = $" + strconv.Itoa(i+1)
		args = append(args, cv.Value)
	}
	args = append(args, where.Args...)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(QualifiedTable(schema, table))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	sb.WriteString(" WHERE ")
	sb.WriteString(RenumberPlaceholders(where.Clause, len(sets)))
	if returning {
		sb.WriteString(" RETURNING *")
	}
	return Statement{Text: sb.String(), Args: args}, nil
}

// Delete builds DELETE FROM <schema>.<table> WHERE <predicate>, optionally
// appending RETURNING *.
func Delete(schema, table string, where Predicate, returning bool) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("table name is required")
	}
	if where.Clause == "" {
		return Statement{}, fmt.Errorf("WHERE clause is required for DELETE")
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(QualifiedTable(schema, table))
	sb.WriteString(" WHERE ")
	sb.WriteString(where.Clause)
	if returning {
		sb.WriteString(" RETURNING *")
	}
	return Statement{Text: sb.String(), Args: where.Args}, nil
}

// Custom passes caller-supplied SQL through unchanged. When readOnly is true
// the trimmed text must begin with SELECT (case-insensitive); mutating
// statements are accepted as-is.
func Custom(text string, args []any, readOnly bool) (Statement, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Statement{}, fmt.Errorf("query cannot be empty")
	}
	if readOnly && !hasSelectPrefix(trimmed) {
		return Statement{}, fmt.Errorf("query must start with SELECT for query_type='SELECT'")
	}
	return Statement{Text: text, Args: args}, nil
}

func hasSelectPrefix(s string) bool {
	const kw = "SELECT"
	return len(s) >= len(kw) && strings.EqualFold(s[:len(kw)], kw)
}

// RenumberPlaceholders shifts every $k token in clause to $(k+offset). The
// clause is scanned token by token: a placeholder is '$' followed by its full
// digit run, so $1 inside $10 can never be rewritten on its own.
func RenumberPlaceholders(clause string, offset int) string {
	if offset == 0 {
		return clause
	}
	var sb strings.Builder
	sb.Grow(len(clause) + 8)
	for i := 0; i < len(clause); {
		if clause[i] == '$' && i+1 < len(clause) && isDigit(clause[i+1]) {
			j := i + 1
			for j < len(clause) && isDigit(clause[j]) {
				j++
			}
			n, err := strconv.Atoi(clause[i+1 : j])
			if err != nil {
				// Digit run too long for an int; leave the token untouched.
				sb.WriteString(clause[i:j])
			} else {
				sb.WriteByte('$')
				sb.WriteString(strconv.Itoa(n + offset))
			}
			i = j
			continue
		}
		sb.WriteByte(clause[i])
		i++
	}
	return sb.String()
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
