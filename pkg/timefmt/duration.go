package timefmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Humanize renders a second count the way the status bar and the most
// edited listing show it: "45 seconds", "3 minutes, 20 seconds",
// "2 days, 5 hours". Durations of a day or more drop minutes and seconds.
func Humanize(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	const minute, hour, day = 60, 60 * 60, 24 * 60 * 60

	switch {
	case seconds < minute:
		return plural(seconds, "second")
	case seconds < day:
		minutes, rest := seconds/minute, seconds%minute
		if rest == 0 {
			return plural(minutes, "minute")
		}
		return plural(minutes, "minute") + ", " + plural(rest, "second")
	default:
		days := seconds / day
		hours := (seconds % day) / hour
		if hours == 0 {
			return plural(days, "day")
		}
		return plural(days, "day") + ", " + plural(hours, "hour")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}

// durationUnits are the tokens FormatSeconds understands, largest first.
var durationUnits = []struct {
	token   byte
	seconds int64
}{
	{'d', 86400},
	{'h', 3600},
	{'m', 60},
	{'s', 1},
}

type durationPart struct {
	unit    int64
	width   int
	literal string // text following the token up to the next one
}

// FormatSeconds renders a second count with a moment duration template
// such as "h[h] m[m]". Leading parts that come out as zero are trimmed
// together with their trailing literal, and the last part is rounded.
func FormatSeconds(seconds int64, template string) (string, error) {
	prefix, parts, err := parseDuration(template)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return prefix, nil
	}

	values := make([]int64, len(parts))
	rest := seconds
	if rest < 0 {
		rest = 0
	}
	for i, p := range parts {
		if i == len(parts)-1 {
			values[i] = int64(math.Round(float64(rest) / float64(p.unit)))
			break
		}
		values[i] = rest / p.unit
		rest -= values[i] * p.unit
	}

	first := 0
	for first < len(parts)-1 && values[first] == 0 {
		first++
	}

	var b strings.Builder
	b.WriteString(prefix)
	for i := first; i < len(parts); i++ {
		fmt.Fprintf(&b, "%0*d", parts[i].width, values[i])
		b.WriteString(parts[i].literal)
	}
	return strings.TrimRight(b.String(), " "), nil
}

func parseDuration(template string) (string, []durationPart, error) {
	var prefix strings.Builder
	var parts []durationPart

	appendLiteral := func(s string) {
		if len(parts) == 0 {
			prefix.WriteString(s)
			return
		}
		parts[len(parts)-1].literal += s
	}

	rest := template
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", nil, fmt.Errorf("%w: unterminated literal in %q", ErrUnsupported, template)
			}
			appendLiteral(rest[1:end])
			rest = rest[end+1:]
			continue
		}

		unit := int64(0)
		for _, u := range durationUnits {
			if rest[0] == u.token {
				unit = u.seconds
				break
			}
		}
		if unit == 0 {
			appendLiteral(rest[:1])
			rest = rest[1:]
			continue
		}

		width := 1
		for width < len(rest) && rest[width] == rest[0] {
			width++
		}
		if n := len(parts); n > 0 && parts[n-1].unit <= unit {
			return "", nil, fmt.Errorf("%w: duration tokens out of order in %q", ErrUnsupported, template)
		}
		parts = append(parts, durationPart{unit: unit, width: width})
		rest = rest[width:]
	}
	return prefix.String(), parts, nil
}
