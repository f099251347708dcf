package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
)

// ErrNotFound is returned when a guestbook entry does not exist.
var ErrNotFound = errors.New("guestbook entry not found")

// Entry is one photo's guestbook record. Name is the bare file name; Hash
// is the hex MD5 of the content.
type Entry struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Hash       string     `json:"hash"`
	Uploader   string     `json:"uploader"`
	Caption    string     `json:"caption"`
	AddedAt    time.Time  `json:"added_at"`
	TimesShown int64      `json:"times_shown"`
	LastShown  *time.Time `json:"last_shown,omitempty"`
}

// Upsert inserts or updates the entry keyed by name. Display counters are
// preserved on update.
func (d *Database) Upsert(ctx context.Context, e *Entry) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO photos (name, hash, uploader, caption)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			hash = excluded.hash,
			uploader = excluded.uploader,
			caption = excluded.caption
	`, e.Name, e.Hash, e.Uploader, e.Caption)
	return err
}

// Get returns the entry for the named photo.
func (d *Database) Get(ctx context.Context, name string) (*Entry, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx, `
		SELECT id, name, hash, uploader, caption, added_at, times_shown, last_shown
		FROM photos WHERE name = ?
	`, name)

	e, scanErr := scanEntry(row)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			err = ErrNotFound
			return nil, err
		}
		err = scanErr
		return nil, err
	}
	return e, nil
}

// List returns all entries ordered by when they were added, newest first.
func (d *Database) List(ctx context.Context) ([]Entry, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, hash, uploader, caption, added_at, times_shown, last_shown
		FROM photos ORDER BY added_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, scanErr := scanEntry(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		entries = append(entries, *e)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes the entry for the named photo.
func (d *Database) Delete(ctx context.Context, name string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM photos WHERE name = ?", name)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// FindByHash returns entries whose content hash matches, for duplicate
// detection on upload.
func (d *Database) FindByHash(ctx context.Context, hash string) ([]Entry, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("find_by_hash", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, hash, uploader, caption, added_at, times_shown, last_shown
		FROM photos WHERE hash = ?
	`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, scanErr := scanEntry(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		entries = append(entries, *e)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordShown bumps the display counter for the photo at path, keyed by
// base name so the guestbook survives the photo directory moving. It is
// called from the playback loop, so failures are logged, never returned;
// a missing row gets a bare entry so counters survive photos that predate
// the guestbook.
func (d *Database) RecordShown(path string, at time.Time) {
	name := filepath.Base(path)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	start := time.Now()
	var err error
	defer func() { recordQuery("record_shown", start, err) }()

	result, err := d.db.ExecContext(ctx, `
		UPDATE photos SET times_shown = times_shown + 1, last_shown = ? WHERE name = ?
	`, at.Unix(), name)
	if err != nil {
		logging.Error("failed to record photo shown %s: %v", name, err)
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		_, err = d.db.ExecContext(ctx, `
			INSERT INTO photos (name, hash, times_shown, last_shown)
			VALUES (?, '', 1, ?)
			ON CONFLICT(name) DO UPDATE SET
				times_shown = times_shown + 1,
				last_shown = excluded.last_shown
		`, name, at.Unix())
		if err != nil {
			logging.Error("failed to create guestbook entry for %s: %v", name, err)
		}
	}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e         Entry
		addedAt   int64
		lastShown sql.NullInt64
	)
	if err := s.Scan(&e.ID, &e.Name, &e.Hash, &e.Uploader, &e.Caption, &addedAt, &e.TimesShown, &lastShown); err != nil {
		return nil, err
	}
	e.AddedAt = time.Unix(addedAt, 0)
	if lastShown.Valid {
		t := time.Unix(lastShown.Int64, 0)
		e.LastShown = &t
	}
	return &e, nil
}
