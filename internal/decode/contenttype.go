package decode

import (
	"mime"
	"strings"
)

var mediaTypes = map[string]Type{
	"application/json":                  TypeJSON,
	"text/json":                         TypeJSON,
	"application/x-ndjson":              TypeJSON,
	"text/html":                         TypeHTML,
	"application/xhtml+xml":             TypeHTML,
	"text/css":                          TypeCSS,
	"application/javascript":            TypeJavaScript,
	"application/x-javascript":          TypeJavaScript,
	"application/ecmascript":            TypeJavaScript,
	"text/javascript":                   TypeJavaScript,
	"application/xml":                   TypeXML,
	"text/xml":                          TypeXML,
	"application/yaml":                  TypeYAML,
	"application/x-yaml":                TypeYAML,
	"text/yaml":                         TypeYAML,
	"text/x-yaml":                       TypeYAML,
	"text/markdown":                     TypeMarkdown,
	"text/x-markdown":                   TypeMarkdown,
	"text/csv":                          TypeCSV,
	"application/sql":                   TypeSQL,
	"application/graphql":               TypeGraphQL,
	"text/plain":                        TypePlainText,
	"application/x-www-form-urlencoded": TypeFormData,
	"multipart/form-data":               TypeMultipartForm,
	"application/pdf":                   TypePDF,
	"application/gzip":                  TypeGzip,
	"application/x-gzip":                TypeGzip,
	"application/octet-stream":          TypeBinary,
	"image/jpeg":                        TypeJPEG,
	"image/jpg":                         TypeJPEG,
	"image/png":                         TypePNG,
	"image/gif":                         TypeGIF,
	"image/webp":                        TypeWebP,
	"image/svg+xml":                     TypeSVG,
	"application/zip":                   TypeZip,
	"application/x-zip-compressed":      TypeZip,
}

// TypeFromContentType infers the decoded type of a body from its MIME
// content type. Parameters are ignored and structured-syntax suffixes
// (+json, +xml, +yaml) are honored. Unknown types map to TypeUnspecified.
func TypeFromContentType(contentType string) Type {
	mt := mediaType(contentType)
	if mt == "" {
		return TypeUnspecified
	}
	if t, ok := mediaTypes[mt]; ok {
		return t
	}

	switch {
	case strings.HasSuffix(mt, "+json"):
		return TypeJSON
	case strings.HasSuffix(mt, "+xml"):
		return TypeXML
	case strings.HasSuffix(mt, "+yaml"):
		return TypeYAML
	}

	major, _, _ := strings.Cut(mt, "/")
	switch major {
	case "text":
		return TypePlainText
	case "audio":
		return TypeAudio
	case "video":
		return TypeVideo
	case "image", "font":
		return TypeBinary
	}
	return TypeUnspecified
}

func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	// Lenient fallback for values mime rejects (e.g. a stray trailing ';').
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
