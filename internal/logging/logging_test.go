package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn line should be written")
	}
	if !strings.Contains(out, "run_id") {
		t.Error("log lines should carry run_id")
	}
}

func TestNew_Off(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("off", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("off logger wrote %q", buf.String())
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
}
