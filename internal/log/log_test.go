package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestAppendCtx(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatJSON, nil)

	ctx := AppendCtx(context.Background(), slog.String("request_id", "abc"))
	ctx = AppendCtx(ctx, slog.String("route", "/recipes"))
	logger.InfoContext(ctx, "hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshaling record: %v", err)
	}
	if record["request_id"] != "abc" {
		t.Errorf("expected request_id %q, got %v", "abc", record["request_id"])
	}
	if record["route"] != "/recipes" {
		t.Errorf("expected route %q, got %v", "/recipes", record["route"])
	}
}

func TestAppendCtx_SiblingsAreIndependent(t *testing.T) {
	base := AppendCtx(context.Background(), slog.String("a", "1"))
	left := AppendCtx(base, slog.String("b", "2"))
	right := AppendCtx(base, slog.String("c", "3"))

	leftAttrs := left.Value(slogFields).([]slog.Attr)
	rightAttrs := right.Value(slogFields).([]slog.Attr)
	if len(leftAttrs) != 2 || len(rightAttrs) != 2 {
		t.Fatalf("expected 2 attrs each, got %d and %d", len(leftAttrs), len(rightAttrs))
	}
	if leftAttrs[1].Key != "b" {
		t.Errorf("expected left attr %q, got %q", "b", leftAttrs[1].Key)
	}
	if rightAttrs[1].Key != "c" {
		t.Errorf("expected right attr %q, got %q", "c", rightAttrs[1].Key)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
