package timefmt

import "time"

var clockFaces = [...]string{"🕛", "🕐", "🕑", "🕒", "🕓", "🕔", "🕕", "🕖", "🕗", "🕘", "🕙", "🕚"}

// ClockEmoji returns the clock face showing the hour of t.
func ClockEmoji(t time.Time) string {
	return clockFaces[t.Hour()%12]
}

// ClockText renders the status clock: t in UTC or local time, formatted
// with the moment format, optionally prefixed with the clock face.
func ClockText(t time.Time, moment string, utc, emoji bool) (string, error) {
	if utc {
		t = t.UTC()
	} else {
		t = t.Local()
	}
	text, err := Format(t, moment)
	if err != nil {
		return "", err
	}
	if emoji {
		return ClockEmoji(t) + " " + text, nil
	}
	return text, nil
}
