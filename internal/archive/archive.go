// Package archive stores verbatim copies of ingested launch documents in a
// blob backend. Writes are create-only so a duplicate ingest can never
// clobber the originally archived document.
package archive

import (
	"context"
	"errors"
	"fmt"

	"launchfeed/internal/config"
)

// Driver identifies a blob backend.
type Driver string

const (
	DriverFS     Driver = "fs"     // local filesystem (default)
	DriverS3     Driver = "s3"     // S3 / MinIO compatible
	DriverMemory Driver = "memory" // in-memory (tests)
)

// ErrExists indicates the key is already archived. Callers treat it as a
// skip, mirroring the upsert's duplicate semantics.
var ErrExists = errors.New("blob already exists")

// Store is the minimal blob surface the pipeline needs.
type Store interface {
	Driver() Driver
	// Put stores data at key. MUST fail with ErrExists when the key is taken.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get retrieves the blob contents.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Key returns the archive key for a launch id.
func Key(launchID string) string {
	return "launches/" + launchID + ".json"
}

// Open selects a blob backend from the resolved configuration. Returns
// (nil, nil) when archival is disabled.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch Driver(cfg.ArchiveDriver) {
	case "off", "":
		return nil, nil
	case DriverFS:
		return NewFilesystem(cfg.ArchiveFSRoot)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.ArchiveS3Bucket,
			Region:    cfg.ArchiveS3Region,
			Endpoint:  cfg.ArchiveS3Endpoint,
			PathStyle: cfg.ArchiveS3PathStyle,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %s", cfg.ArchiveDriver)
	}
}
