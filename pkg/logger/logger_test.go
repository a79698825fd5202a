package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLevelFromEnv_Table(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := LevelFromEnv(in); got != want {
			t.Fatalf("LevelFromEnv(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestNewJSONTo_FiltersAndEncodes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewJSONTo(&buf, slog.LevelWarn)

	log.Info("dropped")
	log.Warn("claim failed", "pow_id", "X1")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("expected exactly one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "claim failed" || rec["pow_id"] != "X1" || rec["level"] != "WARN" {
		t.Fatalf("unexpected record: %v", rec)
	}
}
