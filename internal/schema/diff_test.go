package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/decode"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

func TestDiffIdentical(t *testing.T) {
	assert.Empty(t, Diff(sampleSchema(), sampleSchema()))
	assert.Empty(t, Diff(nil, nil))
}

func TestDiff(t *testing.T) {
	recorded := sampleSchema()
	replayed := sampleSchema()

	delete(replayed.Properties, "meta")
	replayed.Properties["extra"] = Leaf(value.KindBoolean)
	replayed.Properties["tags"].Items = Leaf(value.KindNumber)
	replayed.Properties["body"].DecodedType = decode.TypeYAML
	replayed.Properties["empty"].Items = Leaf(value.KindString)

	want := []Difference{
		{Path: "$.body", Change: EncodingChanged, Recorded: "OBJECT (BASE64/JSON)", Replayed: "OBJECT (BASE64/YAML)"},
		{Path: "$.empty[]", Change: Added, Replayed: "STRING"},
		{Path: "$.extra", Change: Added, Replayed: "BOOLEAN"},
		{Path: "$.meta", Change: Removed, Recorded: "OBJECT"},
		{Path: "$.tags[]", Change: TypeChanged, Recorded: "STRING", Replayed: "NUMBER"},
	}
	assert.Equal(t, want, Diff(recorded, replayed))
}

func TestDiffTypeChangeStopsDescent(t *testing.T) {
	recorded := ObjectNode(map[string]*Node{"a": ObjectNode(map[string]*Node{"b": Leaf(value.KindString)})})
	replayed := ObjectNode(map[string]*Node{"a": ListNode(Leaf(value.KindString))})

	diffs := Diff(recorded, replayed)
	assert.Equal(t, []Difference{
		{Path: "$.a", Change: TypeChanged, Recorded: "OBJECT", Replayed: "ORDERED_LIST"},
	}, diffs)
}
