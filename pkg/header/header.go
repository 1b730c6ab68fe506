// Package header locates and rewrites fields of a frontmatter header.
//
// Two representations are supported. The line functions (Locate, SetValue,
// RawValue) work on a raw core.LineDocument whose first line is the marker
// "---" and whose header ends at the next line equal to the marker. Nesting
// is derived only from leading whitespace: a path "a.b" names an indented
// "b:" line found after a top-level "a:" line. The structured functions
// (Get, Set) work on an already parsed core.Metadata tree.
//
// Only scalar leaves are addressed. Lists, multi-line values and quoted
// keys are not interpreted.
package header

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/timethings/pkg/core"
)

// Marker opens and closes a header block.
const Marker = "---"

// Separator splits a field path into segments.
const Separator = "."

// NotFound is the line index returned when a field cannot be located.
const NotFound = -1

// HeaderEnd returns the index of the closing marker line.
// ok is false when line 0 is not the marker or no closing marker exists.
func HeaderEnd(doc core.LineDocument) (end int, ok bool) {
	if doc == nil || doc.LineCount() == 0 || doc.Line(0) != Marker {
		return NotFound, false
	}
	for i := 1; i < doc.LineCount(); i++ {
		if doc.Line(i) == Marker {
			return i, true
		}
	}
	return NotFound, false
}

// HasHeader reports whether doc starts with a complete header block.
func HasHeader(doc core.LineDocument) bool {
	_, ok := HeaderEnd(doc)
	return ok
}

// SplitPath splits a dotted path into its segments.
// ok is false if the path is empty or has an empty segment.
func SplitPath(path string) (segments []string, ok bool) {
	segments = strings.Split(path, Separator)
	for _, s := range segments {
		if s == "" {
			return nil, false
		}
	}
	return segments, true
}

// lineKey is the trimmed text before the first colon.
func lineKey(line string) string {
	key, _, _ := strings.Cut(line, ":")
	return strings.TrimSpace(key)
}

// isIndented reports whether line starts with whitespace. Tabs and spaces
// both count.
func isIndented(line string) bool {
	r, size := utf8.DecodeRuneInString(line)
	return size > 0 && unicode.IsSpace(r)
}
