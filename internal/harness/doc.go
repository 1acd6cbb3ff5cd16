// Package harness runs fingerprint reproducibility scenarios.
//
// A scenario fingerprints a recorded input, optionally replays a second
// input against it, and checks the digests and the comparison outcome.
// Scenario digests double as cross-run (and cross-SDK) vectors: the same
// input must hash to the same bytes everywhere.
//
// # Scenario Format
//
//	name: base64_json_body
//	description: "Base64-encoded JSON body is decoded before hashing"
//	input:
//	  body: eyJ1c2VyIjoieCJ9
//	  status: 200
//	merges:
//	  body: {encoding: BASE64, decodedType: JSON}
//	expect:
//	  decodedValueHash: 2d9d7182...
//	  decodedSchemaHash: a7fb0784...
//	  diagnostics: 0
//	replay:
//	  input: {...}
//	  expect:
//	    valueMatch: false
//	    schemaMatch: true
//
// input_json may replace input when exact JSON number text matters (YAML
// would read large integers as floats in other tools).
//
// # Deterministic Testing
//
// Each run records into a fresh in-memory ledger with a fixed session token
// and a step clock, then reads the recorded fingerprint back before
// comparing, so scenarios also exercise the ledger round trip.
package harness
