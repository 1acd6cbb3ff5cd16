package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Scenario defines one fingerprint reproducibility scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	Input     yaml.Node `yaml:"input,omitempty"`
	InputJSON string    `yaml:"input_json,omitempty"`

	// Merges are root-level decode directives.
	Merges schema.Merges `yaml:"merges,omitempty"`

	// Expect pins the recorded fingerprint. Empty fields are not checked.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Replay, when present, is fingerprinted with the same merges and
	// compared against the recorded fingerprint.
	Replay *Replay `yaml:"replay,omitempty"`

	// Session is an optional fixed ledger session token.
	// Defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`
}

// Expectation pins the digests of a fingerprint.
type Expectation struct {
	DecodedValueHash  string `yaml:"decodedValueHash,omitempty"`
	DecodedSchemaHash string `yaml:"decodedSchemaHash,omitempty"`

	// Diagnostics is the expected number of recovered decode failures.
	Diagnostics *int `yaml:"diagnostics,omitempty"`
}

// Replay is the replayed side of a scenario.
type Replay struct {
	Input     yaml.Node          `yaml:"input,omitempty"`
	InputJSON string             `yaml:"input_json,omitempty"`
	Expect    *ReplayExpectation `yaml:"expect"`
}

// ReplayExpectation is the expected comparison outcome.
type ReplayExpectation struct {
	ValueMatch  *bool `yaml:"valueMatch,omitempty"`
	SchemaMatch *bool `yaml:"schemaMatch,omitempty"`

	// Differences is the expected number of structural differences.
	Differences *int `yaml:"differences,omitempty"`
}

var errNoInput = errors.New("exactly one of input or input_json is required")

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// RecordedValue returns the scenario's recorded input.
func (s *Scenario) RecordedValue() (value.Value, error) {
	return inputValue(&s.Input, s.InputJSON)
}

// ReplayedValue returns the replayed input, or nil without a replay.
func (s *Scenario) ReplayedValue() (value.Value, error) {
	if s.Replay == nil {
		return nil, nil
	}
	return inputValue(&s.Replay.Input, s.Replay.InputJSON)
}

func inputValue(n *yaml.Node, js string) (value.Value, error) {
	if js != "" {
		return value.ParseJSON([]byte(js))
	}
	return value.FromYAMLNode(n)
}

func hasInput(n *yaml.Node, js string) bool {
	return (n.Kind != 0) != (js != "")
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !hasInput(&s.Input, s.InputJSON) {
		return errNoInput
	}
	if err := s.Merges.Validate(); err != nil {
		return err
	}
	if s.Expect == nil && s.Replay == nil {
		return fmt.Errorf("expect or replay is required")
	}
	if s.Replay != nil {
		if !hasInput(&s.Replay.Input, s.Replay.InputJSON) {
			return fmt.Errorf("replay: %w", errNoInput)
		}
		if s.Replay.Expect == nil {
			return fmt.Errorf("replay: expect is required")
		}
	}
	return nil
}
