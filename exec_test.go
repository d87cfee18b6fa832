package pgcrud

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeValue_Time(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 3, 15, 10, 30, 0, 123456000, time.UTC)
	got := normalizeValue(ts)
	if got != "2024-03-15T10:30:00.123456Z" {
		t.Errorf("unexpected timestamp format: %v", got)
	}
}

func TestNormalizeValue_Floats(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"plain float64", 3.14, 3.14},
		{"float32 widened", float32(2), float64(2)},
		{"NaN", math.NaN(), "NaN"},
		{"positive infinity", math.Inf(1), "Infinity"},
		{"negative infinity", math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeValue(tt.in); got != tt.want {
				t.Errorf("normalizeValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue_UUID(t *testing.T) {
	t.Parallel()
	uuid := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}
	got := normalizeValue(uuid)
	if got != "12345678-9abc-def0-1234-56789abcdef0" {
		t.Errorf("unexpected UUID format: %v", got)
	}
}

func TestNormalizeValue_Bytea(t *testing.T) {
	t.Parallel()
	got := normalizeValue([]byte("hello"))
	if got != "aGVsbG8=" {
		t.Errorf("expected base64 bytea, got %v", got)
	}
}

func TestNormalizeValue_Nested(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := map[string]any{
		"when": ts,
		"tags": []any{ts, "plain"},
	}
	got, ok := normalizeValue(in).(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", normalizeValue(in))
	}
	if got["when"] != "2024-01-01T00:00:00Z" {
		t.Errorf("nested timestamp not normalized: %v", got["when"])
	}
	tags, ok := got["tags"].([]any)
	if !ok || tags[0] != "2024-01-01T00:00:00Z" || tags[1] != "plain" {
		t.Errorf("nested slice not normalized: %v", got["tags"])
	}
}

func TestNormalizeValue_Passthrough(t *testing.T) {
	t.Parallel()
	if got := normalizeValue(int64(42)); got != int64(42) {
		t.Errorf("int64 should pass through, got %v", got)
	}
	if got := normalizeValue("text"); got != "text" {
		t.Errorf("string should pass through, got %v", got)
	}
	if got := normalizeValue(nil); got != nil {
		t.Errorf("nil should pass through, got %v", got)
	}
}

func TestCountFromRecord(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		record  Record
		want    int64
		wantErr bool
	}{
		{"int64", Record{"total": int64(12)}, 12, false},
		{"int32", Record{"total": int32(7)}, 7, false},
		{"float64", Record{"total": float64(3)}, 3, false},
		{"nil record", nil, 0, true},
		{"wrong type", Record{"total": "many"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := countFromRecord(tt.record, "total")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatMicroseconds(t *testing.T) {
	t.Parallel()
	if got := formatMicroseconds(3_600_000_000 + 60_000_000 + 1_000_000); got != "01:01:01" {
		t.Errorf("expected 01:01:01, got %s", got)
	}
	if got := formatMicroseconds(500); got != "00:00:00.000500" {
		t.Errorf("expected fractional seconds, got %s", got)
	}
}
