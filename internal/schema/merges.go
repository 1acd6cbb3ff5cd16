package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/decode"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Directive instructs the generator to decode a root-level field.
type Directive = decode.Directive

// Merges maps root-level field names to decode directives. A directive only
// ever applies to the root object's property of that name; same-named
// properties deeper in the tree are left alone.
//
// Merges is read-only once handed to a Generator.
type Merges map[string]Directive

// Validate rejects empty field names and unknown enumeration values.
func (m Merges) Validate() error {
	var errs []error
	for _, field := range m.Fields() {
		if field == "" {
			errs = append(errs, errors.New("merges: empty field name"))
			continue
		}
		if err := m[field].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("merges: field %q: %w", field, err))
		}
	}
	return errors.Join(errs...)
}

// Fields returns the directed field names in canonical key order.
func (m Merges) Fields() []string {
	fields := make([]string, 0, len(m))
	for k := range m {
		fields = append(fields, k)
	}
	slices.SortFunc(fields, value.CompareKeys)
	return fields
}

// BodyMerges returns the directive recorded HTTP spans use for their body
// field: base64 on the wire, interpreted per the content type.
func BodyMerges(field, contentType string) Merges {
	return Merges{
		field: {
			Encoding:    decode.EncodingBase64,
			DecodedType: decode.TypeFromContentType(contentType),
		},
	}
}
