package fs

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/timethings/pkg/core"
)

// Buffer is the line view of a note file. Each line keeps its own
// terminator (LF, CRLF or none) and SetLine never touches other lines.
type Buffer struct {
	path  string
	lines []string
	eols  []string
	dirty bool
}

var _ core.LineDocument = (*Buffer)(nil)

// openBuffer reads path into a Buffer.
func openBuffer(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newBuffer(path, string(data)), nil
}

func newBuffer(path, text string) *Buffer {
	b := &Buffer{path: path}
	for _, raw := range strings.SplitAfter(text, "\n") {
		if raw == "" {
			continue
		}
		line, eol := raw, ""
		switch {
		case strings.HasSuffix(raw, "\r\n"):
			line, eol = raw[:len(raw)-2], "\r\n"
		case strings.HasSuffix(raw, "\n"):
			line, eol = raw[:len(raw)-1], "\n"
		}
		b.lines = append(b.lines, line)
		b.eols = append(b.eols, eol)
	}
	return b
}

// LineCount implements core.LineDocument.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line implements core.LineDocument.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// SetLine implements core.LineDocument.
func (b *Buffer) SetLine(i int, text string) {
	if i < 0 || i >= len(b.lines) || b.lines[i] == text {
		return
	}
	b.lines[i] = text
	b.dirty = true
}

// Dirty reports whether a line changed since the buffer was read or saved.
func (b *Buffer) Dirty() bool { return b.dirty }

// String renders the buffer with its original terminators.
func (b *Buffer) String() string {
	var sb strings.Builder
	for i, line := range b.lines {
		sb.WriteString(line)
		sb.WriteString(b.eols[i])
	}
	return sb.String()
}

// save writes the buffer back when it is dirty.
func (b *Buffer) save() (bool, error) {
	if !b.dirty {
		return false, nil
	}
	if err := writeFileAtomic(b.path, []byte(b.String()), 0644); err != nil {
		return false, fmt.Errorf("failed to save %s: %w", b.path, err)
	}
	b.dirty = false
	return true, nil
}
