package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)
	logger.Info("patient registered", "patient_id", "p-1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["msg"] != "patient registered" {
		t.Errorf("msg = %v, want 'patient registered'", entry["msg"])
	}
	if entry["patient_id"] != "p-1" {
		t.Errorf("patient_id = %v, want p-1", entry["patient_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("error", &buf)
	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info log emitted at error level: %s", buf.String())
	}
	logger.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("error log missing: %s", buf.String())
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("verbose", &buf)
	logger.Debug("dropped")
	if buf.Len() != 0 {
		t.Errorf("debug log emitted at default level")
	}
	logger.Info("kept")
	if buf.Len() == 0 {
		t.Errorf("info log missing at default level")
	}
}

func TestWithCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf).With("role", "doctor")
	logger.Info("hello")
	if !strings.Contains(buf.String(), `"role":"doctor"`) {
		t.Errorf("child logger missing attribute: %s", buf.String())
	}
}
