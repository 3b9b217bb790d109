package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"Jaffer/backend/go/internal/models"

	"github.com/sirupsen/logrus"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(logrus.DebugLevel, &buf)
	defer Init(logrus.InfoLevel)

	New("chat_service", "trace-1", "").
		WithError(models.ErrorInfo{Message: "boom", Type: "search_error"}).
		Warn("search failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "search failed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "warning" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["service_name"] != "chat_service" || entry["trace_id"] != "trace-1" {
		t.Errorf("unexpected base fields: %v", entry)
	}
	if _, ok := entry["user_id"]; ok {
		t.Errorf("empty user_id should be omitted")
	}
	errField, ok := entry["error"].(map[string]interface{})
	if !ok || errField["message"] != "boom" {
		t.Errorf("error field = %v", entry["error"])
	}
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(logrus.InfoLevel, &buf)
	defer Init(logrus.InfoLevel)

	base := New("chat_service", "", "")
	_ = base.WithPayload(map[string]interface{}{"k": "v"})
	base.Info("plain")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, ok := entry["payload"]; ok {
		t.Errorf("payload leaked into parent logger: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != logrus.DebugLevel {
		t.Errorf("debug not parsed")
	}
	if ParseLevel("nonsense") != logrus.InfoLevel {
		t.Errorf("invalid level should fall back to info")
	}
}
