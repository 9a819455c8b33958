package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/avrovalue/internal/schema"
)

// Register adds s to subject and returns its entry. When an existing
// version of subject compares equal to s that version is returned with
// created false; otherwise s becomes the next version.
func (r *Registry) Register(ctx context.Context, subject string, s schema.Schema) (entry Entry, created bool, err error) {
	if subject == "" {
		return Entry{}, false, errors.New("register: empty subject")
	}

	entry, schemaJSON, err := newEntry(subject, s)
	if err != nil {
		return Entry{}, false, fmt.Errorf("register: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, false, fmt.Errorf("register: begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM schema_versions
		WHERE subject = ?
		ORDER BY version ASC
	`, subject)
	if err != nil {
		return Entry{}, false, fmt.Errorf("register: query versions: %w", err)
	}
	existing, err := scanEntries(rows)
	if err != nil {
		return Entry{}, false, fmt.Errorf("register: %w", err)
	}

	for _, e := range existing {
		if r.compare(e, entry) {
			slog.Debug("schema already registered", "subject", subject, "version", e.Version)
			return e, false, nil
		}
	}

	entry.ID = r.ids.Generate()
	entry.Version = 1
	if n := len(existing); n > 0 {
		entry.Version = existing[n-1].Version + 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schema_versions
		(`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Subject,
		entry.Version,
		schemaJSON,
		entry.Canonical,
		int64(entry.Fingerprint),
		entry.SHA256,
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("register: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, false, fmt.Errorf("register: commit: %w", err)
	}

	slog.Debug("registered schema", "subject", subject, "version", entry.Version, "id", entry.ID)
	return entry, true, nil
}

// Delete removes every version of subject and returns how many there were.
func (r *Registry) Delete(ctx context.Context, subject string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schema_versions WHERE subject = ?`, subject)
	if err != nil {
		return 0, fmt.Errorf("delete subject: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete subject: %w", err)
	}
	return int(n), nil
}
