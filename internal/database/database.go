package database

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/metrics"
)

// Default timeout for database operations.
const defaultTimeout = 5 * time.Second

// Database manages the guestbook store.
type Database struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the guestbook database at dbPath. The parent
// directory must exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("guestbook database path: %s", dbPath)

	// busy_timeout prevents "database is locked" errors when the playback
	// loop and an upload handler write concurrently.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("guestbook database ready at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS photos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		hash TEXT NOT NULL,
		uploader TEXT NOT NULL DEFAULT '',
		caption TEXT NOT NULL DEFAULT '',
		added_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		times_shown INTEGER NOT NULL DEFAULT 0,
		last_shown INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_photos_hash ON photos(hash);
	CREATE INDEX IF NOT EXISTS idx_photos_last_shown ON photos(last_shown);
	`

	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// recordQuery records guestbook query metrics.
func recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// HashFile returns the hex MD5 of the file's content. MD5 is a content
// fingerprint for duplicate detection, not a security boundary.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
