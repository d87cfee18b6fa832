// Package protection validates custom mutating SQL against opt-in rules.
// Statements are parsed with PostgreSQL's own parser (pg_query) and checked
// at the AST level, so keyword games in string literals or comments cannot
// slip past a rule. With no rules enabled the checker accepts everything
// without parsing.
package protection

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Config selects which checks run. Zero value disables all of them.
type Config struct {
	BlockMultiStatement  bool
	BlockDrop            bool
	BlockTruncate        bool
	BlockDDL             bool
	RequireWhereOnDelete bool
	RequireWhereOnUpdate bool
}

// Checker validates SQL statements against the configured rules.
type Checker struct {
	config Config
}

// NewChecker creates a Checker with the given config.
func NewChecker(config Config) *Checker {
	return &Checker{config: config}
}

// Enabled reports whether any rule is switched on.
func (c *Checker) Enabled() bool {
	return c.config != (Config{})
}

// Check parses sql and walks each statement. Returns nil if allowed, a
// descriptive error if a rule blocks it. Unparseable SQL passes through when
// no rule is enabled; with rules on, a parse failure is a rejection.
func (c *Checker) Check(sql string) error {
	if !c.Enabled() {
		return nil
	}

	result, err := pg_query.Parse(sql)
	if err != nil {
		return fmt.Errorf("SQL parse error: %w", err)
	}
	if len(result.Stmts) == 0 {
		return fmt.Errorf("SQL parse error: empty query")
	}
	if c.config.BlockMultiStatement && len(result.Stmts) > 1 {
		return fmt.Errorf("multi-statement queries are not allowed: found %d statements", len(result.Stmts))
	}

	for _, rawStmt := range result.Stmts {
		if err := c.checkNode(rawStmt.Stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkNode(node *pg_query.Node) error {
	if node == nil {
		return nil
	}

	switch n := node.Node.(type) {
	case *pg_query.Node_DropStmt:
		if c.config.BlockDrop {
			return fmt.Errorf("DROP statements are not allowed")
		}
	case *pg_query.Node_DropdbStmt:
		if c.config.BlockDrop {
			return fmt.Errorf("DROP DATABASE is not allowed")
		}
	case *pg_query.Node_TruncateStmt:
		if c.config.BlockTruncate {
			return fmt.Errorf("TRUNCATE is not allowed")
		}
	case *pg_query.Node_CreateStmt:
		if c.config.BlockDDL {
			return fmt.Errorf("CREATE TABLE is not allowed")
		}
	case *pg_query.Node_IndexStmt:
		if c.config.BlockDDL {
			return fmt.Errorf("CREATE INDEX is not allowed")
		}
	case *pg_query.Node_AlterTableStmt:
		if c.config.BlockDDL {
			return fmt.Errorf("ALTER TABLE is not allowed")
		}
	case *pg_query.Node_CreateTableAsStmt:
		if c.config.BlockDDL {
			return fmt.Errorf("CREATE TABLE AS is not allowed")
		}
	case *pg_query.Node_DeleteStmt:
		if c.config.RequireWhereOnDelete && n.DeleteStmt.WhereClause == nil {
			return fmt.Errorf("DELETE without WHERE clause is not allowed")
		}
	case *pg_query.Node_UpdateStmt:
		if c.config.RequireWhereOnUpdate && n.UpdateStmt.WhereClause == nil {
			return fmt.Errorf("UPDATE without WHERE clause is not allowed")
		}
	}
	return nil
}
