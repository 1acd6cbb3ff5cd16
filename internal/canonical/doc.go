// Package canonical normalizes values and produces the deterministic byte
// encoding and digests used for fingerprint identity.
//
// Three steps, always in this order:
//
//	Canonicalize  drop Undefined-valued properties, deep copy
//	Marshal       RFC 8785 JSON (UTF-16 key order, NFC strings)
//	Digest        lower-case hex SHA-256 of the marshaled bytes
//
// Two values that are structurally equal after Canonicalize always marshal
// to identical bytes, regardless of how their objects were built.
package canonical
