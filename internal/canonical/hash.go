package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// DomainRecord prefixes ledger record IDs. The version suffix leaves room
// for a future algorithm change without colliding with old IDs.
const DomainRecord = "driftprint/record/v1"

// Digest canonicalizes v and returns the lower-case hex SHA-256 of its
// canonical encoding (64 characters).
func Digest(v value.Value) (string, error) {
	return DigestDepth(v, value.DefaultMaxDepth)
}

// DigestDepth is Digest with an explicit depth limit.
func DigestDepth(v value.Value, maxDepth int) (string, error) {
	cv, err := CanonicalizeDepth(v, maxDepth)
	if err != nil {
		return "", err
	}
	data, err := MarshalDepth(cv, maxDepth)
	if err != nil {
		return "", err
	}
	return DigestBytes(data), nil
}

// DigestBytes hashes already-encoded canonical bytes.
func DigestBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data). The null separator prevents ambiguity at the
// domain/data boundary.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordID computes the content-addressed ID of a ledger record. Recording
// the same fingerprint under the same name, session and sequence number
// always yields the same ID.
func RecordID(session, name, valueHash, schemaHash string, seq int64) (string, error) {
	obj := value.Object{
		"session":     value.String(session),
		"name":        value.String(name),
		"value_hash":  value.String(valueHash),
		"schema_hash": value.String(schemaHash),
		"seq":         value.Int(seq),
	}

	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("RecordID: failed to marshal: %w", err)
	}
	return HashWithDomain(DomainRecord, data), nil
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when the input is known to be acyclic.
func MustDigest(v value.Value) string {
	d, err := Digest(v)
	if err != nil {
		panic(err)
	}
	return d
}
