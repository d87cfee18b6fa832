package sqlbuild

import (
	"reflect"
	"strings"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestInsert(t *testing.T) {
	stmt, err := Insert("public", "items", []ColumnValue{
		{Column: "name", Value: "A"},
		{Column: "description", Value: "B"},
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "INSERT INTO public.items (name, description) VALUES ($1, $2) RETURNING *"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{"A", "B"}) {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestInsertPlaceholderCountMatchesColumns(t *testing.T) {
	cols := []ColumnValue{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		cols = append(cols, ColumnValue{Column: name, Value: name})
	}
	stmt, err := Insert("", "t", cols, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(stmt.Text, "$"); got != len(cols) {
		t.Errorf("placeholder count = %d, want %d", got, len(cols))
	}
	// Placeholders numbered in column order, including multi-digit.
	if !strings.Contains(stmt.Text, "$10, $11, $12") {
		t.Errorf("missing multi-digit placeholders: %s", stmt.Text)
	}
	if len(stmt.Args) != len(cols) {
		t.Errorf("args length = %d, want %d", len(stmt.Args), len(cols))
	}
}

func TestInsertEmptyData(t *testing.T) {
	if _, err := Insert("public", "items", nil, true); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestSelectDefaults(t *testing.T) {
	stmt, err := Select("public", "items", SelectOpts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Text != "SELECT * FROM public.items" {
		t.Errorf("text = %q", stmt.Text)
	}
	if len(stmt.Args) != 0 {
		t.Errorf("args = %v, want none", stmt.Args)
	}
}

func TestSelectFull(t *testing.T) {
	stmt, err := Select("public", "items", SelectOpts{
		Columns: []string{"id", "name"},
		Where:   &Predicate{Clause: "name ILIKE $1 AND id > $2", Args: []any{"%x%", 5}},
		OrderBy: "name ASC, id DESC",
		Limit:   intPtr(10),
		Offset:  intPtr(20),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SELECT id, name FROM public.items WHERE name ILIKE $1 AND id > $2 ORDER BY name ASC, id DESC LIMIT $3 OFFSET $4"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{"%x%", 5, 10, 20}) {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestSelectLimitWithoutPredicate(t *testing.T) {
	stmt, err := Select("public", "items", SelectOpts{Limit: intPtr(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Text != "SELECT * FROM public.items LIMIT $1" {
		t.Errorf("text = %q", stmt.Text)
	}
}

func TestSelectCount(t *testing.T) {
	where := &Predicate{Clause: "id = $1", Args: []any{7}}
	stmt, err := SelectCount("public", "items", where)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Text != "SELECT COUNT(*) AS total FROM public.items WHERE id = $1" {
		t.Errorf("text = %q", stmt.Text)
	}
	if !reflect.DeepEqual(stmt.Args, []any{7}) {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestSelectCountNoPredicateOmitsWhere(t *testing.T) {
	stmt, err := SelectCount("public", "items", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(stmt.Text, "WHERE") {
		t.Errorf("count without predicate must omit WHERE: %q", stmt.Text)
	}
}

func TestUpdateRenumbersPredicate(t *testing.T) {
	stmt, err := Update("public", "items", []ColumnValue{
		{Column: "name", Value: "new"},
		{Column: "description", Value: "d"},
	}, Predicate{Clause: "id = $1 OR parent_id = $2", Args: []any{1, 2}}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UPDATE public.items SET name = $1, description = $2 WHERE id = $3 OR parent_id = $4 RETURNING *"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{"new", "d", 1, 2}) {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestUpdateValidation(t *testing.T) {
	tests := []struct {
		name  string
		sets  []ColumnValue
		where Predicate
	}{
		{"empty data", nil, Predicate{Clause: "id = $1", Args: []any{1}}},
		{"missing predicate", []ColumnValue{{Column: "a", Value: 1}}, Predicate{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Update("public", "items", tc.sets, tc.where, false); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	stmt, err := Delete("public", "items", Predicate{Clause: "id = $1", Args: []any{9}}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Text != "DELETE FROM public.items WHERE id = $1" {
		t.Errorf("text = %q", stmt.Text)
	}
	if !reflect.DeepEqual(stmt.Args, []any{9}) {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestDeleteRequiresPredicate(t *testing.T) {
	if _, err := Delete("public", "items", Predicate{}, false); err == nil {
		t.Error("expected error for missing predicate")
	}
}

func TestCustom(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		readOnly bool
		wantErr  bool
	}{
		{"select ok", "SELECT 1", true, false},
		{"lowercase select ok", "  select * from items", true, false},
		{"delete declared readonly", "DELETE FROM items", true, true},
		{"delete declared mutating", "DELETE FROM items WHERE id = $1", false, false},
		{"empty", "   ", false, true},
		{"empty readonly", "", true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Custom(tc.text, nil, tc.readOnly)
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCustomReadOnlyErrorMessage(t *testing.T) {
	_, err := Custom("DELETE FROM items", nil, true)
	if err == nil || !strings.Contains(err.Error(), "must start with SELECT") {
		t.Errorf("err = %v, want mention of SELECT prefix", err)
	}
}

func TestRenumberPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		clause string
		offset int
		want   string
	}{
		{"zero offset", "id = $1", 0, "id = $1"},
		{"single", "id = $1", 2, "id = $3"},
		{"multiple", "a = $1 AND b = $2", 3, "a = $4 AND b = $5"},
		{"repeated token", "a = $1 OR b = $1", 1, "a = $2 OR b = $2"},
		{"multi-digit not split", "a = $1 AND b = $10", 5, "a = $6 AND b = $15"},
		{"dollar without digits", "price > $ AND id = $2", 1, "price > $ AND id = $3"},
		{"trailing dollar", "id = $1 || '$'", 1, "id = $2 || '$'"},
		{"adjacent text", "id=$1AND", 1, "id=$2AND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RenumberPlaceholders(tc.clause, tc.offset); got != tc.want {
				t.Errorf("RenumberPlaceholders(%q, %d) = %q, want %q", tc.clause, tc.offset, got, tc.want)
			}
		})
	}
}

func TestQualifiedTable(t *testing.T) {
	if got := QualifiedTable("", "items"); got != "items" {
		t.Errorf("got %q", got)
	}
	if got := QualifiedTable("app", "items"); got != "app.items" {
		t.Errorf("got %q", got)
	}
}
