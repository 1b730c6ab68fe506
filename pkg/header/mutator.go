package header

import (
	"strings"

	"github.com/aretw0/timethings/pkg/core"
)

// SetValue replaces the value of the field at path, keeping the key and its
// indentation. It reports whether a line was written; a field that cannot
// be located is left alone and never created.
func SetValue(doc core.LineDocument, path, value string) bool {
	i, ok := Locate(doc, path)
	if !ok {
		return false
	}
	key, _, _ := strings.Cut(doc.Line(i), ":")
	doc.SetLine(i, key+": "+value)
	return true
}

// RawValue returns the trimmed text after the first colon of the field at path.
func RawValue(doc core.LineDocument, path string) (string, bool) {
	i, ok := Locate(doc, path)
	if !ok {
		return "", false
	}
	_, value, _ := strings.Cut(doc.Line(i), ":")
	return strings.TrimSpace(value), true
}
