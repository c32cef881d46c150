package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewProdWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("listing served", "count", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "listing served" || entry["count"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewDevWritesTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("cache miss", "key", "page:u1")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "key=page:u1") {
		t.Errorf("output = %q", out)
	}
}
