package decode

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encoding is a wire encoding applied to a raw leaf before interpretation.
type Encoding int

const (
	EncodingUnspecified Encoding = iota
	EncodingBase64
)

var encodingNames = []string{
	EncodingUnspecified: "UNSPECIFIED",
	EncodingBase64:      "BASE64",
}

// Type is the content interpretation of a decoded leaf.
//
// Ordinals match the DecodedType enumeration carried by recorded traces.
type Type int

const (
	TypeUnspecified Type = iota
	TypeJSON
	TypeHTML
	TypeCSS
	TypeJavaScript
	TypeXML
	TypeYAML
	TypeMarkdown
	TypeCSV
	TypeSQL
	TypeGraphQL
	TypePlainText
	TypeFormData
	TypeMultipartForm
	TypePDF
	TypeAudio
	TypeVideo
	TypeGzip
	TypeBinary
	TypeJPEG
	TypePNG
	TypeGIF
	TypeWebP
	TypeSVG
	TypeZip
)

var typeNames = []string{
	TypeUnspecified:   "UNSPECIFIED",
	TypeJSON:          "JSON",
	TypeHTML:          "HTML",
	TypeCSS:           "CSS",
	TypeJavaScript:    "JAVASCRIPT",
	TypeXML:           "XML",
	TypeYAML:          "YAML",
	TypeMarkdown:      "MARKDOWN",
	TypeCSV:           "CSV",
	TypeSQL:           "SQL",
	TypeGraphQL:       "GRAPHQL",
	TypePlainText:     "PLAIN_TEXT",
	TypeFormData:      "FORM_DATA",
	TypeMultipartForm: "MULTIPART_FORM",
	TypePDF:           "PDF",
	TypeAudio:         "AUDIO",
	TypeVideo:         "VIDEO",
	TypeGzip:          "GZIP",
	TypeBinary:        "BINARY",
	TypeJPEG:          "JPEG",
	TypePNG:           "PNG",
	TypeGIF:           "GIF",
	TypeWebP:          "WEBP",
	TypeSVG:           "SVG",
	TypeZip:           "ZIP",
}

const (
	encodingPrefix = "ENCODING_TYPE_"
	typePrefix     = "DECODED_TYPE_"
)

// Types returns every known decoded type in ordinal order.
func Types() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

// String returns the enumeration name (e.g. "BASE64").
func (e Encoding) String() string {
	if e.Valid() {
		return encodingNames[e]
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// Valid reports whether e is a known encoding (UNSPECIFIED included).
func (e Encoding) Valid() bool {
	return e >= 0 && int(e) < len(encodingNames)
}

// ParseEncoding parses a name, an ENCODING_TYPE_ prefixed name or an ordinal.
func ParseEncoding(s string) (Encoding, error) {
	i, err := parseEnum(s, encodingPrefix, encodingNames)
	if err != nil {
		return EncodingUnspecified, fmt.Errorf("unknown encoding %q", s)
	}
	return Encoding(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Encoding) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("unknown encoding %d", int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// UnmarshalJSON accepts both the name and the integer ordinal.
func (e *Encoding) UnmarshalJSON(data []byte) error {
	return e.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// UnmarshalYAML accepts both the name and the integer ordinal.
func (e *Encoding) UnmarshalYAML(n *yaml.Node) error {
	return e.UnmarshalText([]byte(n.Value))
}

// String returns the enumeration name (e.g. "JSON").
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known decoded type (UNSPECIFIED included).
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(typeNames)
}

// ParseType parses a name, a DECODED_TYPE_ prefixed name or an ordinal.
func ParseType(s string) (Type, error) {
	i, err := parseEnum(s, typePrefix, typeNames)
	if err != nil {
		return TypeUnspecified, fmt.Errorf("unknown decoded type %q", s)
	}
	return Type(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown decoded type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalJSON accepts both the name and the integer ordinal.
func (t *Type) UnmarshalJSON(data []byte) error {
	return t.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// UnmarshalYAML accepts both the name and the integer ordinal.
func (t *Type) UnmarshalYAML(n *yaml.Node) error {
	return t.UnmarshalText([]byte(n.Value))
}

func parseEnum(s, prefix string, names []string) (int, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), prefix)
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(names) {
		return i, nil
	}
	return 0, fmt.Errorf("unknown enum value %q", s)
}
