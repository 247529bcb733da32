package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRunHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	h := &runHandler{w: &buf, runID: "run-123"}
	logger := slog.New(h)

	logger.Info("unit committed", "unit", "posts.sql", "statements", 7)

	line := buf.String()
	fields := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	if len(fields) != 6 {
		t.Fatalf("field count = %d (%q), want 6", len(fields), line)
	}
	if _, err := time.Parse("2006-01-02T15:04:05Z", fields[0]); err != nil {
		t.Errorf("timestamp %q not parseable: %v", fields[0], err)
	}
	if fields[1] != "INFO" || fields[2] != "run-123" || fields[3] != "unit committed" {
		t.Errorf("fields = %v", fields)
	}
	if fields[4] != "unit=posts.sql" || fields[5] != "statements=7" {
		t.Errorf("attr fields = %v", fields[4:])
	}
}

func TestRunHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &runHandler{w: &buf, runID: "r"}
	logger := slog.New(h).With("stage", "load")

	logger.Warn("retrying")

	if !strings.Contains(buf.String(), "stage=load") {
		t.Errorf("pre-set attrs missing from output: %q", buf.String())
	}
}

func TestRunHandlerEnabled(t *testing.T) {
	h := &runHandler{w: &bytes.Buffer{}, runID: "r"}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("all levels should be enabled")
	}
}
