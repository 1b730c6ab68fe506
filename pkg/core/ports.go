package core

import (
	"context"
	"time"
)

// LineDocument is a document addressed as an ordered sequence of lines.
// Replacing a line never reflows the others.
type LineDocument interface {
	// LineCount returns the number of lines.
	LineCount() int
	// Line returns the text of line i without its terminator.
	Line(i int) string
	// SetLine replaces the text of line i.
	SetLine(i int, text string)
}

// HeaderProcessor runs a read-modify-write transaction over the parsed
// header of a document. fn runs exactly once, synchronously; keys it does
// not touch are left as they were.
type HeaderProcessor interface {
	ProcessHeader(ctx context.Context, id string, fn func(Metadata) error) error
}

// LineEditor runs fn over the line view of a document and persists the
// lines fn changed. A document with no changes is not written.
type LineEditor interface {
	EditLines(ctx context.Context, id string, fn func(LineDocument) error) error
}

// Clock is the time source used for timestamps and cooldowns.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// StatusSink receives status display updates.
type StatusSink interface {
	// EditDuration reports the accumulated edit time of the active document.
	EditDuration(id string, seconds int64)
	// Clock reports the rendered clock text.
	Clock(text string)
}
