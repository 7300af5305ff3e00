package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"ceresmaint/internal/logging"
)

func TestConsoleFormatIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "walker")
	logger.Info("node visited", logging.String(logging.FieldNode, "servers.web01.cpu"), logging.Int("depth", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO walker: node visited") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "node=servers.web01.cpu") {
		t.Fatalf("expected node attr in line: %q", line)
	}
	if !strings.Contains(line, "depth=3") {
		t.Fatalf("expected depth attr in line: %q", line)
	}
}

func TestConsoleFormatQuotesAwkwardValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("odd value", logging.String("msg", "a b=c"))
	if !strings.Contains(buf.String(), `msg="a b=c"`) {
		t.Fatalf("expected quoted attr, got %q", buf.String())
	}
}

func TestJSONFormatEmitsLowercaseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("probe")
	if !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Fatalf("expected lowercase level, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"msg":"probe"`) {
		t.Fatalf("expected msg key, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestDetectFormatFallsBackToJSON(t *testing.T) {
	if got := logging.DetectFormat(&bytes.Buffer{}); got != "json" {
		t.Fatalf("expected json for non-terminal writer, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"fatal":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled at every level")
	}
}
