package decode

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTypeOrdinals(t *testing.T) {
	assert.Equal(t, 0, int(TypeUnspecified))
	assert.Equal(t, 1, int(TypeJSON))
	assert.Equal(t, 11, int(TypePlainText))
	assert.Equal(t, 18, int(TypeBinary))
	assert.Equal(t, 24, int(TypeZip))
	assert.Len(t, Types(), 25)
	assert.Equal(t, 1, int(EncodingBase64))
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"JSON", TypeJSON},
		{"json", TypeJSON},
		{"DECODED_TYPE_MULTIPART_FORM", TypeMultipartForm},
		{"PLAIN_TEXT", TypePlainText},
		{"24", TypeZip},
		{" 1 ", TypeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"TIFF", "25", "-1", ""} {
		_, err := ParseType(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseEncoding(t *testing.T) {
	for _, in := range []string{"BASE64", "base64", "ENCODING_TYPE_BASE64", "1"} {
		got, err := ParseEncoding(in)
		require.NoError(t, err, in)
		assert.Equal(t, EncodingBase64, got)
	}

	_, err := ParseEncoding("HEX")
	require.Error(t, err)
}

func TestDirectiveJSON(t *testing.T) {
	d := Directive{Encoding: EncodingBase64, DecodedType: TypeJSON}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"encoding":"BASE64","decodedType":"JSON"}`, string(b))

	var fromNames, fromOrdinals Directive
	require.NoError(t, json.Unmarshal([]byte(`{"encoding":"ENCODING_TYPE_BASE64","decodedType":"DECODED_TYPE_JSON"}`), &fromNames))
	require.NoError(t, json.Unmarshal([]byte(`{"encoding":1,"decodedType":1}`), &fromOrdinals))
	assert.Equal(t, d, fromNames)
	assert.Equal(t, d, fromOrdinals)

	b, err = json.Marshal(Directive{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestDirectiveYAML(t *testing.T) {
	var d Directive
	require.NoError(t, yaml.Unmarshal([]byte("encoding: BASE64\ndecodedType: 6\n"), &d))
	assert.Equal(t, Directive{Encoding: EncodingBase64, DecodedType: TypeYAML}, d)

	err := yaml.Unmarshal([]byte("encoding: ROT13\n"), &d)
	require.Error(t, err)
}

func TestDirectiveValidate(t *testing.T) {
	assert.NoError(t, Directive{Encoding: EncodingBase64, DecodedType: TypeJSON}.Validate())
	assert.Error(t, Directive{Encoding: Encoding(7)}.Validate())
	assert.Error(t, Directive{DecodedType: Type(99)}.Validate())
	assert.True(t, Directive{}.IsZero())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "BASE64", EncodingBase64.String())
	assert.Equal(t, "MULTIPART_FORM", TypeMultipartForm.String())
	assert.Equal(t, "Type(99)", Type(99).String())

	_, err := Type(99).MarshalText()
	require.Error(t, err)
}
