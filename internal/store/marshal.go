package store

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
)

func marshalSchema(n *schema.Node) (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(data), nil
}

// marshalMerges stores nil merges as "{}".
func marshalMerges(m schema.Merges) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal merges: %w", err)
	}
	return string(data), nil
}

func unmarshalSchema(data string) (*schema.Node, error) {
	var n schema.Node
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return &n, nil
}

func unmarshalMerges(data string) (schema.Merges, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var m schema.Merges
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("unmarshal merges: %w", err)
	}
	return m, nil
}
