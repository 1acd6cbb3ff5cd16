package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/canonical"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/fingerprint"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
)

// ErrSeqTaken is returned when a different record already occupies the
// (session, name, seq) slot.
var ErrSeqTaken = errors.New("sequence number already used for this session and name")

// Record is one ledger entry.
type Record struct {
	ID         string        `json:"id"`
	Session    string        `json:"session"`
	Name       string        `json:"name"`
	Seq        int64         `json:"seq"`
	ValueHash  string        `json:"decodedValueHash"`
	SchemaHash string        `json:"decodedSchemaHash"`
	Schema     *schema.Node  `json:"schema"`
	Merges     schema.Merges `json:"merges,omitempty"`
	RecordedAt time.Time     `json:"recordedAt"`
}

// NewRecord builds a ledger record from a fingerprint. ID and RecordedAt are
// filled in by WriteFingerprint.
func NewRecord(session, name string, seq int64, res *fingerprint.Result, merges schema.Merges) Record {
	return Record{
		Session:    session,
		Name:       name,
		Seq:        seq,
		ValueHash:  res.DecodedValueHash,
		SchemaHash: res.DecodedSchemaHash,
		Schema:     res.Schema,
		Merges:     merges,
	}
}

// Result converts the record back to a fingerprint for comparison.
// Diagnostics and the decoded value are not persisted.
func (r Record) Result() *fingerprint.Result {
	return &fingerprint.Result{
		Schema:            r.Schema,
		DecodedValueHash:  r.ValueHash,
		DecodedSchemaHash: r.SchemaHash,
	}
}

// WriteFingerprint appends rec to the ledger and returns it with ID and
// RecordedAt set. inserted is false when the identical record was already
// present; the stored copy is returned in that case.
//
// Returns ErrSeqTaken (wrapped) when another record holds the same
// (session, name, seq).
func (s *Store) WriteFingerprint(ctx context.Context, rec Record) (_ Record, inserted bool, err error) {
	if rec.Session == "" || rec.Name == "" {
		return Record{}, false, fmt.Errorf("write fingerprint: session and name are required")
	}
	if rec.Schema == nil {
		return Record{}, false, fmt.Errorf("write fingerprint: schema is required")
	}

	rec.ID, err = canonical.RecordID(rec.Session, rec.Name, rec.ValueHash, rec.SchemaHash, rec.Seq)
	if err != nil {
		return Record{}, false, fmt.Errorf("write fingerprint: %w", err)
	}
	rec.RecordedAt = s.now().UTC()

	schemaJSON, err := marshalSchema(rec.Schema)
	if err != nil {
		return Record{}, false, fmt.Errorf("write fingerprint: %w", err)
	}
	mergesJSON, err := marshalMerges(rec.Merges)
	if err != nil {
		return Record{}, false, fmt.Errorf("write fingerprint: %w", err)
	}

	// ON CONFLICT DO NOTHING covers both a duplicate ID and an occupied
	// (session, name, seq) slot; the two are told apart below.
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO fingerprints
		(id, session, name, seq, value_hash, schema_hash, schema_json, merges_json, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rec.ID,
		rec.Session,
		rec.Name,
		rec.Seq,
		rec.ValueHash,
		rec.SchemaHash,
		schemaJSON,
		mergesJSON,
		rec.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, false, fmt.Errorf("write fingerprint: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return Record{}, false, fmt.Errorf("write fingerprint: rows affected: %w", err)
	}
	if n > 0 {
		return rec, true, nil
	}

	existing, err := s.ReadFingerprint(ctx, rec.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, fmt.Errorf("write fingerprint %s/%s seq %d: %w", rec.Session, rec.Name, rec.Seq, ErrSeqTaken)
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("write fingerprint: %w", err)
	}
	return existing, false, nil
}
