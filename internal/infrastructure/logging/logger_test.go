package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("sync cycle started", "entity_type", "products")

	out := buf.String()
	if !strings.Contains(out, "sync cycle started") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "entity_type=products") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("ready")

	out := buf.String()
	if !strings.Contains(out, `"msg":"ready"`) {
		t.Errorf("output not JSON: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("output missing warn message: %q", out)
	}
}

func TestContextEnrichment(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatText, Output: &buf})

	ctx := WithCycleID(context.Background(), "cycle-1")
	ctx = WithEntityType(ctx, "sales")

	logger.InfoContext(ctx, "collecting pending records")

	out := buf.String()
	if !strings.Contains(out, "cycle_id=cycle-1") {
		t.Errorf("output missing cycle_id: %q", out)
	}
	if !strings.Contains(out, "entity_type=sales") {
		t.Errorf("output missing entity_type: %q", out)
	}
}

func TestCycleID(t *testing.T) {
	if got := CycleID(context.Background()); got != "" {
		t.Errorf("CycleID(empty) = %q, want empty", got)
	}

	ctx := WithCycleID(context.Background(), "cycle-9")
	if got := CycleID(ctx); got != "cycle-9" {
		t.Errorf("CycleID() = %q, want cycle-9", got)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf}).
		With("component", "engine")

	logger.Info("hello")

	if !strings.Contains(buf.String(), "component=engine") {
		t.Errorf("output missing bound attribute: %q", buf.String())
	}
}
