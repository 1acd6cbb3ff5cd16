package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the closed classification of a Value's shape.
//
// Ordinals match the JsonSchemaType enumeration used by recorded traces so
// that schemas captured by other SDKs can be ingested by number.
type Kind int

const (
	KindUnspecified Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindNull
	KindUndefined
	KindObject
	KindOrderedList
	KindUnorderedList
	KindFunction
)

var kindNames = map[Kind]string{
	KindUnspecified:   "UNSPECIFIED",
	KindNumber:        "NUMBER",
	KindString:        "STRING",
	KindBoolean:       "BOOLEAN",
	KindNull:          "NULL",
	KindUndefined:     "UNDEFINED",
	KindObject:        "OBJECT",
	KindOrderedList:   "ORDERED_LIST",
	KindUnorderedList: "UNORDERED_LIST",
	KindFunction:      "FUNCTION",
}

// kindPrefix is the prefix used by protobuf-style enum names.
const kindPrefix = "JSON_SCHEMA_TYPE_"

// String returns the enumeration name (e.g. "OBJECT").
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a known, specified kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok && k != KindUnspecified
}

// ParseKind parses an enumeration name, a prefixed protobuf-style name
// ("JSON_SCHEMA_TYPE_OBJECT") or a decimal ordinal.
func ParseKind(s string) (Kind, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), kindPrefix)
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil {
		if _, ok := kindNames[Kind(n)]; ok {
			return Kind(n), nil
		}
	}
	return KindUnspecified, fmt.Errorf("unknown value kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown value kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalJSON accepts both the enumeration name and its integer ordinal.
func (k *Kind) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	return k.UnmarshalText([]byte(s))
}
