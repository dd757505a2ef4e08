package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	Init("mx-test", &buf, false)

	ctx := WithRequestID(context.Background(), "req-1")
	Error(ctx, "list failed", errors.New("boom"), Fields{"page": 2})

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}

	if entry.Level != "error" {
		t.Errorf("Expected level 'error', got %q", entry.Level)
	}
	if entry.Service != "mx-test" {
		t.Errorf("Expected service 'mx-test', got %q", entry.Service)
	}
	if entry.RequestID != "req-1" {
		t.Errorf("Expected request id 'req-1', got %q", entry.RequestID)
	}
	if entry.Error != "boom" {
		t.Errorf("Expected error 'boom', got %q", entry.Error)
	}
	if entry.Fields["page"] != float64(2) {
		t.Errorf("Expected page field 2, got %v", entry.Fields["page"])
	}
}

func TestDebugIsSuppressedUnlessEnabled(t *testing.T) {
	var buf bytes.Buffer
	Init("mx-test", &buf, false)

	Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}

	Init("mx-test", &buf, true)
	Debug(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}

func TestRequestIDMissing(t *testing.T) {
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("Expected empty request id, got %q", id)
	}
}
