package timeout

import (
	"testing"
	"time"
)

func TestResolveDefault(t *testing.T) {
	r := NewResolver(Config{DefaultTimeout: 30 * time.Second})
	if got := r.Resolve("SELECT * FROM items"); got != 30*time.Second {
		t.Errorf("Resolve = %v, want 30s", got)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := NewResolver(Config{
		DefaultTimeout: 30 * time.Second,
		Rules: []Rule{
			{Pattern: `(?i)^\s*SELECT COUNT`, Timeout: 120 * time.Second},
			{Pattern: `(?i)SELECT`, Timeout: 10 * time.Second},
		},
	})

	tests := []struct {
		sql  string
		want time.Duration
	}{
		{"SELECT COUNT(*) AS total FROM items", 120 * time.Second},
		{"SELECT * FROM items", 10 * time.Second},
		{"DELETE FROM items WHERE id = $1", 30 * time.Second},
	}
	for _, tc := range tests {
		if got := r.Resolve(tc.sql); got != tc.want {
			t.Errorf("Resolve(%q) = %v, want %v", tc.sql, got, tc.want)
		}
	}
}

func TestNewResolverPanicsOnBadPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid regex")
		}
	}()
	NewResolver(Config{Rules: []Rule{{Pattern: "(", Timeout: time.Second}}})
}
