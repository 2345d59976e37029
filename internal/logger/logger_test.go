package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("hidden %d", 1)
	log.Warn("shown %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["message"] != "shown 2" {
		t.Errorf("message = %v, want %q", entry["message"], "shown 2")
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.With("file", "cartera.xlsx").Debug("reading")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["file"] != "cartera.xlsx" {
		t.Errorf("file = %v, want cartera.xlsx", entry["file"])
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hola %s", "mundo")
	if !strings.Contains(buf.String(), "hola mundo") {
		t.Errorf("console output %q missing message", buf.String())
	}
}
