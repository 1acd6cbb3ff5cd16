package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const selectFingerprint = `
	SELECT id, session, name, seq, value_hash, schema_hash, schema_json, merges_json, recorded_at
	FROM fingerprints
`

// ReadFingerprint retrieves a single record by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadFingerprint(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectFingerprint+`WHERE id = ?`, id)
	return scanRecord(row)
}

// LatestByName returns the record of name with the highest seq.
// Returns sql.ErrNoRows if name was never recorded.
func (s *Store) LatestByName(ctx context.Context, name string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectFingerprint+`
		WHERE name = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, name)
	return scanRecord(row)
}

// ListByName returns every record of name ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) if none exist.
func (s *Store) ListByName(ctx context.Context, name string) ([]Record, error) {
	return s.queryRecords(ctx, selectFingerprint+`
		WHERE name = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, name)
}

// ListSession returns every record of a session ordered by seq ASC, id ASC.
func (s *Store) ListSession(ctx context.Context, session string) ([]Record, error) {
	return s.queryRecords(ctx, selectFingerprint+`
		WHERE session = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, session)
}

// Session summarizes one recording session.
type Session struct {
	ID       string `json:"id"`
	Records  int    `json:"records"`
	FirstSeq int64  `json:"firstSeq"`
	LastSeq  int64  `json:"lastSeq"`
}

// ListSessions returns all sessions ordered by their first seq.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, COUNT(*), MIN(seq), MAX(seq)
		FROM fingerprints
		GROUP BY session
		ORDER BY MIN(seq) ASC, session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Records, &sess.FirstSeq, &sess.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return records, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord returns sql.ErrNoRows unwrapped so callers can compare directly.
func scanRecord(row scanner) (Record, error) {
	var (
		rec                    Record
		schemaJSON, mergesJSON string
		recordedAt             string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Session,
		&rec.Name,
		&rec.Seq,
		&rec.ValueHash,
		&rec.SchemaHash,
		&schemaJSON,
		&mergesJSON,
		&recordedAt,
	)
	if err == sql.ErrNoRows {
		return Record{}, err
	}
	if err != nil {
		return Record{}, fmt.Errorf("scan fingerprint: %w", err)
	}

	if rec.Schema, err = unmarshalSchema(schemaJSON); err != nil {
		return Record{}, fmt.Errorf("fingerprint %s: %w", rec.ID, err)
	}
	if rec.Merges, err = unmarshalMerges(mergesJSON); err != nil {
		return Record{}, fmt.Errorf("fingerprint %s: %w", rec.ID, err)
	}
	if rec.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
		return Record{}, fmt.Errorf("fingerprint %s: recorded_at: %w", rec.ID, err)
	}
	return rec, nil
}
