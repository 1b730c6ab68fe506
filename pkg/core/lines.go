package core

import "strings"

// Lines is an in-memory LineDocument.
type Lines []string

// SplitLines splits text on "\n".
func SplitLines(text string) Lines {
	return Lines(strings.Split(text, "\n"))
}

func (l Lines) LineCount() int { return len(l) }

// Line returns "" for an out-of-range index.
func (l Lines) Line(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

// SetLine ignores out-of-range indexes.
func (l Lines) SetLine(i int, text string) {
	if i < 0 || i >= len(l) {
		return
	}
	l[i] = text
}

func (l Lines) String() string {
	return strings.Join(l, "\n")
}
