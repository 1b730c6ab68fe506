// Package timefmt formats and strictly parses timestamps with moment-style
// format strings ("YYYY-MM-DD[T]HH:mm:ss.SSSZ", "hh:mm A").
//
// Format strings are compiled into Go reference layouts, so parsing and
// formatting are delegated to the time package. Tokens without a Go layout
// equivalent (H, k, Do, X, x, Q, w, W, ...) are rejected at compile time.
package timefmt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// ErrUnsupported is returned for format strings that cannot be expressed
// as a Go layout.
var ErrUnsupported = errors.New("unsupported format")

// token maps one moment token to Go layout fragments. parse differs from
// format only for offsets, where moment accepts a literal "Z" on input but
// always writes a numeric offset. width is the shape moment accepts in
// strict mode; the time package reads some fields ("15") at either width.
type token struct {
	moment string
	format string
	parse  string
	width  string
}

// tokens is ordered longest first within each letter.
var tokens = []token{
	{"YYYY", "2006", "2006", `\d{4}`},
	{"YY", "06", "06", `\d{2}`},
	{"MMMM", "January", "January", `[A-Za-z]+`},
	{"MMM", "Jan", "Jan", `[A-Za-z]{3}`},
	{"MM", "01", "01", `\d{2}`},
	{"M", "1", "1", `\d{1,2}`},
	{"DDDD", "002", "002", `\d{3}`},
	{"DD", "02", "02", `\d{2}`},
	{"D", "2", "2", `\d{1,2}`},
	{"dddd", "Monday", "Monday", `[A-Za-z]+`},
	{"ddd", "Mon", "Mon", `[A-Za-z]{3}`},
	{"HH", "15", "15", `\d{2}`},
	{"hh", "03", "03", `\d{2}`},
	{"h", "3", "3", `\d{1,2}`},
	{"mm", "04", "04", `\d{2}`},
	{"m", "4", "4", `\d{1,2}`},
	{"ss", "05", "05", `\d{2}`},
	{"s", "5", "5", `\d{1,2}`},
	{"SSS", "000", "000", `\d{3}`},
	{"SS", "00", "00", `\d{2}`},
	{"S", "0", "0", `\d`},
	{"A", "PM", "PM", `[AaPp][Mm]`},
	{"a", "pm", "pm", `[AaPp][Mm]`},
	{"ZZ", "-0700", "Z0700", `(?:Z|[+-]\d{4})`},
	{"Z", "-07:00", "Z07:00", `(?:Z|[+-]\d{2}:\d{2})`},
}

// unsupported lists moment tokens that have no layout equivalent.
const unsupported = "HkdXxQwWEeGgNnYy"

// goReserved are fragments the time package would read as layout elements
// if they appeared inside literal text.
var goReserved = []string{"Jan", "Mon", "MST", "PM", "pm", "Z07", "-07", "+07"}

// Layout is a compiled moment format.
type Layout struct {
	source string
	format string
	parse  string
	widths *regexp.Regexp
}

var compiled sync.Map // moment format -> Layout

// Compile translates a moment format string into a Layout.
func Compile(moment string) (Layout, error) {
	if l, ok := compiled.Load(moment); ok {
		return l.(Layout), nil
	}
	l, err := compile(moment)
	if err != nil {
		return Layout{}, err
	}
	compiled.Store(moment, l)
	return l, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(moment string) Layout {
	l, err := Compile(moment)
	if err != nil {
		panic(err)
	}
	return l
}

func compile(moment string) (Layout, error) {
	if moment == "" {
		return Layout{}, fmt.Errorf("%w: empty format", ErrUnsupported)
	}

	var format, parse, widths strings.Builder
	widths.WriteString("^")
	rest := moment
	prevFrac := false

outer:
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return Layout{}, fmt.Errorf("%w: unterminated literal in %q", ErrUnsupported, moment)
			}
			if err := writeLiteral(&format, &parse, rest[1:end]); err != nil {
				return Layout{}, fmt.Errorf("%w in %q", err, moment)
			}
			widths.WriteString(regexp.QuoteMeta(rest[1:end]))
			rest = rest[end+1:]
			prevFrac = false
			continue
		}

		if strings.HasPrefix(rest, "Do") || (strings.HasPrefix(rest, "DDD") && !strings.HasPrefix(rest, "DDDD")) {
			return Layout{}, fmt.Errorf("%w: token %q in %q", ErrUnsupported, rest[:min(3, len(rest))], moment)
		}

		for _, tk := range tokens {
			if !strings.HasPrefix(rest, tk.moment) {
				continue
			}
			if tk.moment[0] == 'S' && !prevFrac {
				// Go only reads fractional seconds right after a separator.
				return Layout{}, fmt.Errorf("%w: %s must follow '.' or ',' in %q", ErrUnsupported, tk.moment, moment)
			}
			format.WriteString(tk.format)
			parse.WriteString(tk.parse)
			widths.WriteString(tk.width)
			rest = rest[len(tk.moment):]
			prevFrac = false
			continue outer
		}

		if strings.ContainsRune(unsupported, rune(rest[0])) {
			return Layout{}, fmt.Errorf("%w: token %q in %q", ErrUnsupported, rest[:1], moment)
		}

		if err := writeLiteral(&format, &parse, rest[:1]); err != nil {
			return Layout{}, fmt.Errorf("%w in %q", err, moment)
		}
		widths.WriteString(regexp.QuoteMeta(rest[:1]))
		prevFrac = rest[0] == '.' || rest[0] == ','
		rest = rest[1:]
	}

	widths.WriteString("$")
	return Layout{
		source: moment,
		format: format.String(),
		parse:  parse.String(),
		widths: regexp.MustCompile(widths.String()),
	}, nil
}

func writeLiteral(format, parse *strings.Builder, lit string) error {
	if strings.ContainsAny(lit, "0123456789_") {
		return fmt.Errorf("%w: literal %q", ErrUnsupported, lit)
	}
	for _, r := range goReserved {
		if strings.Contains(lit, r) {
			return fmt.Errorf("%w: literal %q", ErrUnsupported, lit)
		}
	}
	format.WriteString(lit)
	parse.WriteString(lit)
	return nil
}

// String returns the moment format the layout was compiled from.
func (l Layout) String() string { return l.source }

// Format renders t in its own location.
func (l Layout) Format(t time.Time) string {
	return t.Format(l.format)
}

// Parse reads value strictly: every token must be present with its exact
// width and no trailing text is allowed. Values without an offset are read
// in loc (time.Local when nil).
func (l Layout) Parse(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if l.widths != nil && !l.widths.MatchString(value) {
		return time.Time{}, fmt.Errorf("parsing time %q as %q: field width mismatch", value, l.source)
	}
	return time.ParseInLocation(l.parse, value, loc)
}

// Format renders t with a moment format string.
func Format(t time.Time, moment string) (string, error) {
	l, err := Compile(moment)
	if err != nil {
		return "", err
	}
	return l.Format(t), nil
}

// ParseStrict parses value with a moment format string.
func ParseStrict(value, moment string, loc *time.Location) (time.Time, error) {
	l, err := Compile(moment)
	if err != nil {
		return time.Time{}, err
	}
	return l.Parse(value, loc)
}

// Valid reports whether value strictly matches the moment format.
func Valid(value, moment string) bool {
	_, err := ParseStrict(value, moment, nil)
	return err == nil
}
