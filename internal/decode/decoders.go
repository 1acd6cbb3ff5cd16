package decode

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// MaxDecompressedSize caps the output of the GZIP decoder.
const MaxDecompressedSize = 64 << 20

var (
	errInvalidUTF8 = errors.New("content is not valid UTF-8")
	errNoBoundary  = errors.New("multipart: no boundary line")
)

func defaultDecoders(maxDepth int) map[Type]Decoder {
	text := DecoderFunc(decodeText)
	return map[Type]Decoder{
		TypeUnspecified: DecoderFunc(decodeOpaque),
		TypeBinary:      DecoderFunc(decodeOpaque),
		TypeJSON: DecoderFunc(func(data []byte) (value.Value, error) {
			return value.ParseJSONDepth(data, maxDepth)
		}),
		TypeYAML: DecoderFunc(func(data []byte) (value.Value, error) {
			return value.ParseYAMLDepth(data, maxDepth)
		}),
		TypeFormData:      DecoderFunc(decodeForm),
		TypeMultipartForm: DecoderFunc(decodeMultipart),
		TypeCSV:           DecoderFunc(decodeCSV),
		TypeGzip:          DecoderFunc(decodeGzip),
		TypeHTML:          text,
		TypeCSS:           text,
		TypeJavaScript:    text,
		TypeMarkdown:      text,
		TypeSQL:           text,
		TypeGraphQL:       text,
		TypePlainText:     text,
		TypeXML:           DecoderFunc(decodeXML),
		TypeSVG:           DecoderFunc(decodeSVG),
		TypePDF:           magic("application/pdf"),
		TypeJPEG:          magic("image/jpeg"),
		TypePNG:           magic("image/png"),
		TypeGIF:           magic("image/gif"),
		TypeWebP:          magic("image/webp"),
		TypeZip:           magic("application/zip"),
		TypeAudio:         magic("audio/", "application/ogg"),
		TypeVideo:         magic("video/", "application/ogg"),
	}
}

func decodeOpaque(data []byte) (value.Value, error) {
	return textOrBytes(data), nil
}

func decodeText(data []byte) (value.Value, error) {
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8
	}
	return value.String(data), nil
}

// decodeForm parses application/x-www-form-urlencoded data. Single-valued
// fields become STRING, repeated fields ORDERED_LIST of STRING.
func decodeForm(data []byte) (value.Value, error) {
	q, err := url.ParseQuery(string(bytes.TrimSpace(data)))
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	out := make(value.Object, len(q))
	for k, vs := range q {
		out[k] = stringsValue(vs)
	}
	return out, nil
}

// decodeMultipart parses multipart/form-data. The boundary is taken from the
// first line of the body. Field parts become STRING (or Bytes when not
// UTF-8); file parts become {filename, contentType, content}. Repeated
// names collect into an ORDERED_LIST.
func decodeMultipart(data []byte) (value.Value, error) {
	boundary, err := sniffBoundary(data)
	if err != nil {
		return nil, err
	}

	r := multipart.NewReader(bytes.NewReader(data), boundary)
	fields := make(map[string][]value.Value)
	var order []string
	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}
		body, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}

		var v value.Value
		if name := part.FileName(); name != "" {
			v = value.Object{
				"filename":    value.String(name),
				"contentType": value.String(part.Header.Get("Content-Type")),
				"content":     value.Bytes(body),
			}
		} else {
			v = textOrBytes(body)
		}

		key := part.FormName()
		if _, seen := fields[key]; !seen {
			order = append(order, key)
		}
		fields[key] = append(fields[key], v)
	}

	out := make(value.Object, len(order))
	for _, k := range order {
		if vs := fields[k]; len(vs) == 1 {
			out[k] = vs[0]
		} else {
			out[k] = value.Array(vs)
		}
	}
	return out, nil
}

func sniffBoundary(data []byte) (string, error) {
	line, err := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "--") || len(line) <= 2 {
		return "", errNoBoundary
	}
	return strings.TrimSpace(line[2:]), nil
}

// decodeCSV reads a header row followed by records and yields an
// ORDERED_LIST of OBJECT keyed by header. Ragged rows are an error.
func decodeCSV(data []byte) (value.Value, error) {
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(rows) == 0 {
		return value.Array{}, nil
	}

	header := rows[0]
	out := make(value.Array, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(value.Object, len(header))
		for i, col := range header {
			rec[col] = value.String(row[i])
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeGzip inflates gzip data (github.com/klauspost/compress). The result is
// text when it is valid UTF-8 and bytes otherwise.
func decodeGzip(data []byte) (value.Value, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if len(out) > MaxDecompressedSize {
		return nil, fmt.Errorf("gzip: decompressed size exceeds %d bytes", MaxDecompressedSize)
	}
	return textOrBytes(out), nil
}

func decodeXML(data []byte) (value.Value, error) {
	if _, err := xmlRoot(data); err != nil {
		return nil, err
	}
	return value.String(data), nil
}

func decodeSVG(data []byte) (value.Value, error) {
	root, err := xmlRoot(data)
	if err != nil {
		return nil, err
	}
	if root != "svg" {
		return nil, fmt.Errorf("svg: root element is <%s>", root)
	}
	return value.String(data), nil
}

// xmlRoot checks that data is a well-formed XML document and returns the
// local name of its root element.
func xmlRoot(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errInvalidUTF8
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("xml: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && root == "" {
			root = se.Name.Local
		}
	}
	if root == "" {
		return "", errors.New("xml: no root element")
	}
	return root, nil
}

// magic returns a decoder that verifies the content's signature against the
// expected MIME types (exact, or a "type/" prefix) and yields the bytes.
func magic(expected ...string) Decoder {
	return DecoderFunc(func(data []byte) (value.Value, error) {
		detected := mimetype.Detect(data)
		for m := detected; m != nil; m = m.Parent() {
			for _, want := range expected {
				if strings.HasSuffix(want, "/") && strings.HasPrefix(m.String(), want) {
					return value.Bytes(bytes.Clone(data)), nil
				}
				if m.Is(want) {
					return value.Bytes(bytes.Clone(data)), nil
				}
			}
		}
		return nil, fmt.Errorf("content signature is %s, want %s", detected.String(), strings.Join(expected, " or "))
	})
}

func stringsValue(vs []string) value.Value {
	if len(vs) == 1 {
		return value.String(vs[0])
	}
	out := make(value.Array, len(vs))
	for i, s := range vs {
		out[i] = value.String(s)
	}
	return out
}
