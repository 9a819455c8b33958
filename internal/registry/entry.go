package registry

import (
	"database/sql"
	"fmt"

	"github.com/roach88/avrovalue/internal/schema"
)

// Entry is one registered schema version.
type Entry struct {
	ID          string
	Subject     string
	Version     int
	Schema      schema.Schema
	Canonical   string
	Fingerprint uint64
	SHA256      string
}

// newEntry computes the stored forms of s.
func newEntry(subject string, s schema.Schema) (Entry, string, error) {
	data, err := schema.MarshalJSON(s)
	if err != nil {
		return Entry{}, "", err
	}
	canonical, err := schema.CanonicalForm(s)
	if err != nil {
		return Entry{}, "", err
	}
	fingerprint, err := schema.Fingerprint64(s)
	if err != nil {
		return Entry{}, "", err
	}
	sum, err := schema.FingerprintSHA256(s)
	if err != nil {
		return Entry{}, "", err
	}

	return Entry{
		Subject:     subject,
		Schema:      s,
		Canonical:   canonical,
		Fingerprint: fingerprint,
		SHA256:      sum,
	}, string(data), nil
}

const entryColumns = `id, subject, version, schema_json, canonical, fingerprint, sha256`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e           Entry
		schemaJSON  string
		fingerprint int64
	)
	if err := row.Scan(&e.ID, &e.Subject, &e.Version, &schemaJSON, &e.Canonical, &fingerprint, &e.SHA256); err != nil {
		return Entry{}, err
	}
	// Stored as the signed bit pattern of the fingerprint
	e.Fingerprint = uint64(fingerprint)

	s, err := schema.Parse([]byte(schemaJSON))
	if err != nil {
		return Entry{}, fmt.Errorf("stored schema %s: %w", e.ID, err)
	}
	e.Schema = s
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return entries, nil
}
