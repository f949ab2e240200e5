package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func testCommand(t *testing.T) (*cobra.Command, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	c := &cobra.Command{}
	c.SetContext(context.Background())
	c.SetOut(&out)
	return c, &out
}

func setIngestEnv(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LAUNCH_API_URL", apiURL)
	t.Setenv("LAUNCHFEED_STORAGE_DRIVER", "sqlite")
	t.Setenv("LAUNCHFEED_SQLITE_PATH", filepath.Join(dir, "launches.db"))
	t.Setenv("LAUNCHFEED_LOG_FILE", filepath.Join(dir, "ingestion.log"))
	t.Setenv("LAUNCHFEED_ARCHIVE_DRIVER", "fs")
	t.Setenv("LAUNCHFEED_ARCHIVE_FS_ROOT", filepath.Join(dir, "archive"))
	return dir
}

func TestIngestCommandEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc123","name":"Starlink 6-1","success":true,` +
			`"date_utc":"2023-05-01T12:00:00","launchpad":"pad-east",` +
			`"payloads":[{"mass_kg":500}]}`))
	}))
	defer srv.Close()

	dir := setIngestEnv(t, srv.URL)
	cmd, out := testCommand(t)
	if err := runIngest(cmd, nil); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Launch Performance Over Time") {
		t.Fatalf("expected reports in output:\n%s", text)
	}

	logData, err := os.ReadFile(filepath.Join(dir, "ingestion.log"))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(logData), "launch inserted") {
		t.Fatalf("expected insert log entry:\n%s", logData)
	}

	if _, err := os.Stat(filepath.Join(dir, "archive", "launches", "abc123.json")); err != nil {
		t.Fatalf("archived document missing: %v", err)
	}

	// Aggregate and report subcommands run against the same store.
	cmd, out = testCommand(t)
	if err := runAggregate(cmd, nil); err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !strings.Contains(out.String(), "1") {
		t.Fatalf("expected aggregate row:\n%s", out.String())
	}

	cmd, out = testCommand(t)
	if err := runReport(cmd, nil); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out.String(), "Launch Site Utilization") {
		t.Fatalf("expected site report:\n%s", out.String())
	}
}

func TestIngestCommandFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	setIngestEnv(t, srv.URL)
	cmd, _ := testCommand(t)
	if err := runIngest(cmd, nil); err == nil {
		t.Fatalf("expected fetch failure to surface as command error")
	}
}

func TestIngestCommandRejectsUnknownPolicy(t *testing.T) {
	setIngestEnv(t, "http://localhost:0")
	t.Setenv("LAUNCHFEED_MEASURES", "guesswork")
	cmd, _ := testCommand(t)
	if err := runIngest(cmd, nil); err == nil {
		t.Fatalf("expected unknown policy error")
	}
}
