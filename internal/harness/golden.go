package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/canonical"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/fingerprint"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Snapshot renders a run as a Value for canonical serialization. The
// schema is rendered in its hashed (ordinal) form; diagnostic messages are
// left out because they quote decoder error text.
func Snapshot(name string, r *Result) value.Object {
	snap := value.Object{
		"scenario_name": value.String(name),
		"recorded":      fingerprintValue(r.Recorded),
		"record_id":     value.String(r.Record.ID),
	}
	if r.Comparison != nil {
		replay := fingerprintValue(r.Replayed)
		replay["valueMatch"] = value.Bool(r.Comparison.ValueMatch)
		replay["schemaMatch"] = value.Bool(r.Comparison.SchemaMatch)
		diffs := make(value.Array, 0, len(r.Comparison.Differences))
		for _, d := range r.Comparison.Differences {
			obj := value.Object{
				"path":   value.String(d.Path),
				"change": value.String(string(d.Change)),
			}
			if d.Recorded != "" {
				obj["recorded"] = value.String(d.Recorded)
			}
			if d.Replayed != "" {
				obj["replayed"] = value.String(d.Replayed)
			}
			diffs = append(diffs, obj)
		}
		replay["differences"] = diffs
		snap["replay"] = replay
	}
	return snap
}

func fingerprintValue(res *fingerprint.Result) value.Object {
	obj := value.Object{
		"decodedValueHash":  value.String(res.DecodedValueHash),
		"decodedSchemaHash": value.String(res.DecodedSchemaHash),
		"schema":            res.Schema.Value(),
	}
	if len(res.Diagnostics) > 0 {
		diags := make(value.Array, len(res.Diagnostics))
		for i, d := range res.Diagnostics {
			diags[i] = value.Object{
				"field":       value.String(d.Field),
				"encoding":    value.String(d.Encoding.String()),
				"decodedType": value.String(d.DecodedType.String()),
			}
		}
		obj["diagnostics"] = diags
	}
	return obj
}

// RunWithGolden executes a scenario and compares its canonical snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}

	data, err := canonical.Marshal(Snapshot(scenario.Name, result))
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
