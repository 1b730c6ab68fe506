package header

import "github.com/aretw0/timethings/pkg/core"

// scanState is a state of the field resolution machine.
type scanState int

const (
	// stateSeek scans forward for the line whose key equals the current segment.
	stateSeek scanState = iota
	// stateConfirm decides whether a matching line is an ancestor, the
	// target, or a same-named key at the wrong depth.
	stateConfirm
	stateFound
	stateFail
)

// locator resolves one field path against one header.
type locator struct {
	doc      core.LineDocument
	segments []string
	end      int // closing marker line, exclusive bound of the scan

	seg   int // index of the segment being resolved
	line  int // line under the cursor
	state scanState
}

// Locate returns the index of the line holding the field at path.
//
// Segments are resolved in order; each one is searched for starting on the
// line after its parent matched, and the first matching line wins. The
// matched line of a multi-segment path must be indented, otherwise it is a
// top-level key reusing the name and resolution fails. The matched line of
// a single-segment path must not be indented; an indented line of that name
// belongs to another parent and the scan continues past it.
func Locate(doc core.LineDocument, path string) (int, bool) {
	end, ok := HeaderEnd(doc)
	if !ok {
		return NotFound, false
	}
	segments, ok := SplitPath(path)
	if !ok {
		return NotFound, false
	}

	l := &locator{doc: doc, segments: segments, end: end, line: 1, state: stateSeek}
	for l.state != stateFound && l.state != stateFail {
		l.step()
	}
	if l.state == stateFail {
		return NotFound, false
	}
	return l.line, true
}

// step performs one transition.
func (l *locator) step() {
	switch l.state {
	case stateSeek:
		if l.line >= l.end {
			l.state = stateFail
			return
		}
		if lineKey(l.doc.Line(l.line)) == l.segments[l.seg] {
			l.state = stateConfirm
			return
		}
		l.line++

	case stateConfirm:
		if l.seg < len(l.segments)-1 {
			// Ancestor matched: its children follow.
			l.seg++
			l.line++
			l.state = stateSeek
			return
		}

		indented := isIndented(l.doc.Line(l.line))
		switch {
		case len(l.segments) > 1 && !indented:
			l.state = stateFail
		case len(l.segments) == 1 && indented:
			l.line++
			l.state = stateSeek
		default:
			l.state = stateFound
		}
	}
}
