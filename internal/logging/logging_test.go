package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingestion.log")
	logger, flush, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("stage completed", zap.String("stage", "upsert"))
	flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, line)
	}
	if entry["msg"] != "stage completed" {
		t.Fatalf("unexpected message %v", entry["msg"])
	}
	if entry["stage"] != "upsert" {
		t.Fatalf("structured field missing: %v", entry)
	}
}

func TestNewConsoleOnly(t *testing.T) {
	logger, flush, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer flush()
	logger.Info("console only")
}

func TestNewBadPath(t *testing.T) {
	if _, _, err := New(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Fatalf("expected open error for missing directory")
	}
}
