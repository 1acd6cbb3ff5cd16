package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Input formats accepted by --input-format.
const (
	InputAuto = "auto"
	InputJSON = "json"
	InputYAML = "yaml"
	InputBSON = "bson"
)

// InputFormats lists the valid --input-format values.
var InputFormats = []string{InputAuto, InputJSON, InputYAML, InputBSON}

// mergesSchema closes every directive so that misspelled keys are errors.
const mergesSchema = `[string]: close({
	encoding?:    string | int
	decodedType?: string | int
})`

// LoadMerges reads a merge-directive file: a map from root field name to
// {encoding, decodedType}.
//
// .cue and .json files are evaluated with CUE (JSON is valid CUE);
// .yaml and .yml files are decoded strictly with yaml.v3.
func LoadMerges(path string) (schema.Merges, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read merges file: %w", err)
	}

	var m schema.Merges
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue", ".json":
		m, err = parseMergesCUE(path, data)
	case ".yaml", ".yml":
		m, err = parseMergesYAML(data)
	default:
		return nil, fmt.Errorf("merges file %s: unsupported extension %q (want .cue, .json, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("merges file %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("merges file %s: %w", path, err)
	}
	return m, nil
}

func parseMergesCUE(path string, data []byte) (schema.Merges, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	v = ctx.CompileString(mergesSchema).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var m schema.Merges
	if err := v.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}

func parseMergesYAML(data []byte) (schema.Merges, error) {
	var m schema.Merges
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return m, nil
}

// LoadInput reads one value from path ("-" reads stdin), nesting at most
// maxDepth levels.
//
// With format auto the extension decides: .yaml/.yml → YAML, .bson → BSON,
// .json → JSON; anything else is tried as JSON first, then YAML.
func LoadInput(path, format string, maxDepth int, stdin io.Reader) (value.Value, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if format == InputAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = InputJSON
		case ".yaml", ".yml":
			format = InputYAML
		case ".bson":
			format = InputBSON
		}
	}

	switch format {
	case InputJSON:
		return value.ParseJSONDepth(data, maxDepth)
	case InputYAML:
		return value.ParseYAMLDepth(data, maxDepth)
	case InputBSON:
		return value.ParseBSONDepth(data, maxDepth)
	case InputAuto:
		v, jsonErr := value.ParseJSONDepth(data, maxDepth)
		if jsonErr == nil {
			return v, nil
		}
		if value.IsDepthExceeded(jsonErr) {
			return nil, jsonErr
		}
		v, yamlErr := value.ParseYAMLDepth(data, maxDepth)
		if yamlErr == nil {
			return v, nil
		}
		return nil, errors.Join(jsonErr, yamlErr)
	default:
		return nil, fmt.Errorf("unknown input format %q: must be one of %v", format, InputFormats)
	}
}
