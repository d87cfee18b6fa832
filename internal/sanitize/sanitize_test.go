package sanitize

import (
	"reflect"
	"testing"
)

func TestNewInvalidPattern(t *testing.T) {
	if _, err := New([]Rule{{Pattern: "(", Replacement: "x"}}); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestApplyNoRulesIsNoop(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	records := []map[string]any{{"email": "a@b.com"}}
	got := s.Apply(records)
	if got[0]["email"] != "a@b.com" {
		t.Errorf("no-rule apply changed value: %v", got[0]["email"])
	}
}

func TestApplyScrubsStrings(t *testing.T) {
	s, err := New([]Rule{
		{Pattern: `[\w.]+@[\w.]+`, Replacement: "[redacted]"},
	})
	if err != nil {
		t.Fatal(err)
	}
	records := []map[string]any{
		{"email": "user@example.com", "count": int64(3), "ok": true},
	}
	got := s.Apply(records)
	if got[0]["email"] != "[redacted]" {
		t.Errorf("email = %v", got[0]["email"])
	}
	if got[0]["count"] != int64(3) || got[0]["ok"] != true {
		t.Errorf("non-string values changed: %v", got[0])
	}
}

func TestApplyRecursesIntoNestedValues(t *testing.T) {
	s, err := New([]Rule{{Pattern: "secret", Replacement: "***"}})
	if err != nil {
		t.Fatal(err)
	}
	records := []map[string]any{
		{
			"meta": map[string]any{"token": "secret-token"},
			"tags": []any{"secret", "public"},
		},
	}
	got := s.Apply(records)
	meta := got[0]["meta"].(map[string]any)
	if meta["token"] != "***-token" {
		t.Errorf("nested map value = %v", meta["token"])
	}
	tags := got[0]["tags"].([]any)
	if !reflect.DeepEqual(tags, []any{"***", "public"}) {
		t.Errorf("nested slice = %v", tags)
	}
}
