package protection

import (
	"strings"
	"testing"
)

func TestDisabledCheckerAllowsEverything(t *testing.T) {
	c := NewChecker(Config{})
	if c.Enabled() {
		t.Error("zero config should be disabled")
	}
	queries := []string{
		"DELETE FROM items",
		"DROP TABLE items",
		"TRUNCATE items",
		"not even valid sql",
	}
	for _, q := range queries {
		if err := c.Check(q); err != nil {
			t.Errorf("Check(%q) = %v, want nil", q, err)
		}
	}
}

func TestBlockRules(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		sql     string
		wantErr string
	}{
		{"drop blocked", Config{BlockDrop: true}, "DROP TABLE items", "DROP"},
		{"drop db blocked", Config{BlockDrop: true}, "DROP DATABASE app", "DROP DATABASE"},
		{"truncate blocked", Config{BlockTruncate: true}, "TRUNCATE items", "TRUNCATE"},
		{"create blocked", Config{BlockDDL: true}, "CREATE TABLE t (id int)", "CREATE TABLE"},
		{"create index blocked", Config{BlockDDL: true}, "CREATE INDEX idx ON items(name)", "CREATE INDEX"},
		{"alter blocked", Config{BlockDDL: true}, "ALTER TABLE items ADD COLUMN x int", "ALTER TABLE"},
		{"unscoped delete blocked", Config{RequireWhereOnDelete: true}, "DELETE FROM items", "DELETE without WHERE"},
		{"unscoped update blocked", Config{RequireWhereOnUpdate: true}, "UPDATE items SET name = 'x'", "UPDATE without WHERE"},
		{"multi-statement blocked", Config{BlockMultiStatement: true}, "SELECT 1; SELECT 2", "multi-statement"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewChecker(tc.config).Check(tc.sql)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestRulesAllowScopedStatements(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		sql    string
	}{
		{"scoped delete", Config{RequireWhereOnDelete: true}, "DELETE FROM items WHERE id = $1"},
		{"scoped update", Config{RequireWhereOnUpdate: true}, "UPDATE items SET name = $1 WHERE id = $2"},
		{"select under drop rule", Config{BlockDrop: true}, "SELECT * FROM items"},
		{"insert under ddl rule", Config{BlockDDL: true}, "INSERT INTO items (name) VALUES ('a')"},
		{"single statement", Config{BlockMultiStatement: true}, "SELECT 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := NewChecker(tc.config).Check(tc.sql); err != nil {
				t.Errorf("Check(%q) = %v, want nil", tc.sql, err)
			}
		})
	}
}

func TestEnabledCheckerRejectsUnparseableSQL(t *testing.T) {
	c := NewChecker(Config{BlockDrop: true})
	if err := c.Check("this is not sql"); err == nil {
		t.Error("expected parse error")
	}
}
