// Package encoding provides text decoding for mesh, material and table files.
//
// Exporters on Windows frequently write a UTF-8 byte order mark or emit
// UTF-16 text, and OBJ paths may use backslash separators. Everything handed
// to the parsers goes through ToUTF8 first.
package encoding

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ToUTF8 converts input text to UTF-8, honouring a UTF-8 or UTF-16 byte order mark.
// Text without a BOM is assumed to be UTF-8 already and returned unchanged.
// Returns the original bytes if conversion fails.
func ToUTF8(data []byte) []byte {
	if !hasBOM(data) {
		return data
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return data
	}
	return result
}

// ToUTF8String is ToUTF8 returning a string.
func ToUTF8String(data []byte) string {
	return string(ToUTF8(data))
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

// Lines splits text into lines, accepting \n, \r\n and lone \r terminators.
// The final line is included even without a trailing newline.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// NormalizeAssetPath converts a path written inside a mesh or material file
// to the current OS separator convention.
func NormalizeAssetPath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "\\", "/")
	return filepath.Clean(filepath.FromSlash(path))
}
