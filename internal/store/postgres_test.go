package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"launchfeed/internal/launch"
)

var errBoom = errors.New("boom")

type failConnector struct{}

func (failConnector) Connect(context.Context) (driver.Conn, error) { return failConn{}, nil }
func (failConnector) Driver() driver.Driver                        { return nil }

type failConn struct{}

func (failConn) Prepare(string) (driver.Stmt, error) { return nil, errBoom }
func (failConn) Close() error                        { return nil }
func (failConn) Begin() (driver.Tx, error)           { return nil, errBoom }

func TestNewPostgresRequiresDSN(t *testing.T) {
	if _, err := NewPostgres(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestNewPostgresOpenFailure(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) {
		return nil, errBoom
	})
	defer restore()
	_, err := NewPostgres(context.Background(), "postgres://localhost/spacex")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped open error, got %v", err)
	}
}

func TestUpsertStorageErrorIsWrappedAndReleased(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) {
		return sql.OpenDB(failConnector{}), nil
	})
	defer restore()

	s, err := NewPostgres(context.Background(), "postgres://localhost/spacex")
	if err != nil {
		t.Fatalf("new postgres: %v", err)
	}

	_, err = s.Upsert(context.Background(), launch.Record{ID: "abc123", Raw: launch.Document{"id": "abc123"}})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "insert launch abc123") {
		t.Fatalf("error should carry operation context: %v", err)
	}

	if err := s.EnsureSchema(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped schema error, got %v", err)
	}
	if err := s.RebuildAggregates(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped rebuild error, got %v", err)
	}

	// The handle is still releasable after the failures: no leaked conns.
	if err := s.Close(); err != nil {
		t.Fatalf("close after storage error: %v", err)
	}
}
