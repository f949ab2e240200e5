package archive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"launchfeed/internal/config"
)

func TestKey(t *testing.T) {
	if got := Key("abc123"); got != "launches/abc123.json" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestMemoryPutIsCreateOnly(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.Put(ctx, "launches/a.json", []byte(`{"id":"a"}`), "application/json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	err := m.Put(ctx, "launches/a.json", []byte(`{"id":"overwrite"}`), "application/json")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	data, err := m.Get(ctx, "launches/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"id":"a"}` {
		t.Fatalf("original blob was modified: %s", data)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	if _, err := NewMemory().Get(context.Background(), "launches/none.json"); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestFilesystemRoundTrip(t *testing.T) {
	fs, err := NewFilesystem(filepath.Join(t.TempDir(), "blobs"))
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	ctx := context.Background()
	if err := fs.Put(ctx, Key("abc123"), []byte(`{"id":"abc123"}`), "application/json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := fs.Put(ctx, Key("abc123"), []byte(`{}`), "application/json"); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists on duplicate, got %v", err)
	}
	data, err := fs.Get(ctx, Key("abc123"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"id":"abc123"}` {
		t.Fatalf("unexpected blob contents %s", data)
	}
}

func TestFilesystemRejectsEscapingKeys(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	for _, key := range []string{"../outside.json", "/abs.json", "."} {
		if err := fs.Put(context.Background(), key, []byte("x"), ""); err == nil {
			t.Fatalf("expected rejection of key %q", key)
		}
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.Config{ArchiveDriver: "off"})
	if err != nil || s != nil {
		t.Fatalf("off driver should disable archival, got %v %v", s, err)
	}

	s, err = Open(ctx, config.Config{ArchiveDriver: "memory"})
	if err != nil || s == nil {
		t.Fatalf("memory driver: %v", err)
	}
	if s.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", s.Driver())
	}

	s, err = Open(ctx, config.Config{ArchiveDriver: "fs", ArchiveFSRoot: filepath.Join(t.TempDir(), "a")})
	if err != nil || s.Driver() != DriverFS {
		t.Fatalf("fs driver: %v", err)
	}

	if _, err := Open(ctx, config.Config{ArchiveDriver: "s3"}); err == nil {
		t.Fatalf("s3 driver without bucket must fail")
	}

	if _, err := Open(ctx, config.Config{ArchiveDriver: "tape"}); err == nil {
		t.Fatalf("unknown driver must fail")
	}
}
