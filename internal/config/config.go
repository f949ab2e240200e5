// Package config resolves process-wide configuration from the environment
// once at startup. The resulting struct is threaded explicitly into component
// constructors; nothing reads the environment ad hoc after parse.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable for a pipeline run. Defaults suit local
// development against a stock Postgres.
type Config struct {
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"spacex"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`

	APIURL      string        `env:"LAUNCH_API_URL" envDefault:"https://api.spacexdata.com/v4/launches/latest"`
	HTTPTimeout time.Duration `env:"LAUNCHFEED_HTTP_TIMEOUT" envDefault:"15s"`

	// StorageDriver selects the relational backend: postgres|sqlite.
	StorageDriver string `env:"LAUNCHFEED_STORAGE_DRIVER" envDefault:"postgres"`
	SQLitePath    string `env:"LAUNCHFEED_SQLITE_PATH" envDefault:"launchfeed.db"`

	// Measures selects the ingest measure policy: derived|simulated.
	Measures string `env:"LAUNCHFEED_MEASURES" envDefault:"derived"`

	LogFile     string `env:"LAUNCHFEED_LOG_FILE" envDefault:"ingestion.log"`
	MetricsAddr string `env:"LAUNCHFEED_METRICS_ADDR"`

	// ArchiveDriver selects the raw-document archive backend: off|fs|s3|memory.
	ArchiveDriver      string `env:"LAUNCHFEED_ARCHIVE_DRIVER" envDefault:"off"`
	ArchiveFSRoot      string `env:"LAUNCHFEED_ARCHIVE_FS_ROOT" envDefault:"archive"`
	ArchiveS3Bucket    string `env:"LAUNCHFEED_ARCHIVE_S3_BUCKET"`
	ArchiveS3Region    string `env:"LAUNCHFEED_ARCHIVE_S3_REGION"`
	ArchiveS3Endpoint  string `env:"LAUNCHFEED_ARCHIVE_S3_ENDPOINT"`
	ArchiveS3PathStyle bool   `env:"LAUNCHFEED_ARCHIVE_S3_PATH_STYLE"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// PostgresDSN assembles the connection string for the pgx stdlib driver.
func (c Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
