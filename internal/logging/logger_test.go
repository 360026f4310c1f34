package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/cognisync/internal/logging"
)

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelInfo,
		Output: &buf,
	})

	logger.Info("scan finished", "items", 3)

	output := buf.String()
	if !strings.Contains(output, "scan finished") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "items=3") {
		t.Errorf("expected output to contain 'items=3', got: %s", output)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelInfo,
		Output: &buf,
		JSON:   true,
	})

	logger.Info("mirror created", logging.Provider("claude"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if entry["msg"] != "mirror created" {
		t.Errorf("expected msg='mirror created', got: %v", entry["msg"])
	}
	if entry["provider"] != "claude" {
		t.Errorf("expected provider='claude', got: %v", entry["provider"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelWarn,
		Output: &buf,
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below warn should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should appear at warn level")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := logging.DefaultOptions()
	if opts.Level != logging.LevelWarn {
		t.Errorf("expected default level Warn, got: %v", opts.Level)
	}
	if opts.JSON || opts.AddSource {
		t.Error("expected text output without source by default")
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})

	ctx := logging.NewContext(context.Background(), logger)
	logging.FromContext(ctx).Info("context message")

	if !strings.Contains(buf.String(), "context message") {
		t.Error("expected logger from context to write to buffer")
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf}))

	logging.FromContext(context.Background()).Info("fallback message")

	if !strings.Contains(buf.String(), "fallback message") {
		t.Error("expected FromContext to fall back to default logger")
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf}))

	logging.With("component", "projector").Info("child message")

	if !strings.Contains(buf.String(), "component=projector") {
		t.Errorf("expected attribute in output, got: %s", buf.String())
	}
}

func TestPackageLevelLogging(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))

	logging.Debug("debug message")
	logging.Info("info message")
	logging.Warn("warn message")
	logging.Error("error message")

	output := buf.String()
	for _, msg := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(output, msg) {
			t.Errorf("expected %q in output", msg)
		}
	}
}

func TestTimer(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))

	done := logging.Timer("scan")
	done()

	output := buf.String()
	if !strings.Contains(output, "operation=scan") {
		t.Errorf("expected operation attribute, got: %s", output)
	}
	if !strings.Contains(output, "duration=") {
		t.Errorf("expected duration attribute, got: %s", output)
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"Provider", logging.Provider("claude"), "provider", "claude"},
		{"Cognitive", logging.Cognitive("code-reviewer"), "cognitive", "code-reviewer"},
		{"Type", logging.Type("skill"), "type", "skill"},
		{"Path", logging.Path("/tmp/store"), "path", "/tmp/store"},
		{"Operation", logging.Operation("sync"), "operation", "sync"},
		{"Method", logging.Method("copy"), "method", "copy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("got key %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("got value %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	if attr := logging.Err(nil); attr.Key != "" {
		t.Errorf("expected empty key for nil error, got: %q", attr.Key)
	}

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf, JSON: true})
	logger.Info("failed", logging.Err(context.Canceled))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if entry["error"] == nil {
		t.Error("expected error field in output")
	}
}

func TestCount(t *testing.T) {
	attr := logging.Count(42)
	if attr.Key != "count" || attr.Value.Int64() != 42 {
		t.Errorf("Count(42) = %v", attr)
	}
}
