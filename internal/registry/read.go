package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get returns version of subject. Returns ErrNotFound if it does not exist.
func (r *Registry) Get(ctx context.Context, subject string, version int) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM schema_versions
		WHERE subject = ? AND version = ?
	`, subject, version)
	return scanOne(row, "get version")
}

// Latest returns the highest version of subject. Returns ErrNotFound if the
// subject has no versions.
func (r *Registry) Latest(ctx context.Context, subject string) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM schema_versions
		WHERE subject = ?
		ORDER BY version DESC
		LIMIT 1
	`, subject)
	return scanOne(row, "latest version")
}

// Versions returns every version of subject, oldest first. Returns an empty
// slice (not nil) for unknown subjects.
func (r *Registry) Versions(ctx context.Context, subject string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM schema_versions
		WHERE subject = ?
		ORDER BY version ASC
	`, subject)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}
	return scanEntries(rows)
}

// List returns the registered subjects in byte order.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT subject
		FROM schema_versions
		ORDER BY subject COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	subjects := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return subjects, nil
}

// ByFingerprint returns every version, across subjects, whose canonical
// form has the given CRC-64-AVRO fingerprint.
func (r *Registry) ByFingerprint(ctx context.Context, fingerprint uint64) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM schema_versions
		WHERE fingerprint = ?
		ORDER BY subject COLLATE BINARY ASC, version ASC
	`, int64(fingerprint))
	if err != nil {
		return nil, fmt.Errorf("query fingerprint: %w", err)
	}
	return scanEntries(rows)
}

func scanOne(row *sql.Row, op string) (Entry, error) {
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}
