package fingerprint

import (
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
)

// Comparison describes how a replayed fingerprint relates to a recorded one.
type Comparison struct {
	// ValueMatch is true when the decoded values are identical.
	ValueMatch bool `json:"valueMatch"`

	// SchemaMatch is true when the shapes are identical.
	SchemaMatch bool `json:"schemaMatch"`

	// Differences lists structural drift; empty when SchemaMatch.
	Differences []schema.Difference `json:"differences,omitempty"`
}

// Compare checks a replayed fingerprint against a recorded one.
func Compare(recorded, replayed *Result) Comparison {
	c := Comparison{
		ValueMatch:  recorded.DecodedValueHash == replayed.DecodedValueHash,
		SchemaMatch: recorded.DecodedSchemaHash == replayed.DecodedSchemaHash,
	}
	if !c.SchemaMatch {
		c.Differences = schema.Diff(recorded.Schema, replayed.Schema)
	}
	return c
}
