package timefmt

import (
	"errors"
	"testing"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0 seconds"},
		{1, "1 second"},
		{45, "45 seconds"},
		{60, "1 minute"},
		{61, "1 minute, 1 second"},
		{200, "3 minutes, 20 seconds"},
		{3600, "60 minutes"},
		{86399, "1439 minutes, 59 seconds"},
		{86400, "1 day"},
		{86400 + 3*3600 + 59, "1 day, 3 hours"},
		{2*86400 + 3600, "2 days, 1 hour"},
		{-5, "0 seconds"},
	}
	for _, tc := range tests {
		if got := Humanize(tc.seconds); got != tc.want {
			t.Errorf("Humanize(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds  int64
		template string
		want     string
	}{
		{3725, "h[h] m[m]", "1h 2m"},
		{300, "h[h] m[m]", "5m"},
		{0, "h[h] m[m]", "0m"},
		{7200, "h[h] m[m]", "2h 0m"},
		{89, "m[m] s[s]", "1m 29s"},
		{3661, "hh:mm:ss", "01:01:01"},
		{90000, "d[d] h[h]", "1d 1h"},
		{29, "m[m]", "0m"},
		{31, "m[m]", "1m"},
		{120, "[total ]m[m]", "total 2m"},
	}
	for _, tc := range tests {
		got, err := FormatSeconds(tc.seconds, tc.template)
		if err != nil {
			t.Errorf("FormatSeconds(%d, %q) error = %v", tc.seconds, tc.template, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FormatSeconds(%d, %q) = %q, want %q", tc.seconds, tc.template, got, tc.want)
		}
	}
}

func TestFormatSeconds_Invalid(t *testing.T) {
	for _, tmpl := range []string{"m[m] h[h]", "h[h", "s m"} {
		if _, err := FormatSeconds(60, tmpl); !errors.Is(err, ErrUnsupported) {
			t.Errorf("FormatSeconds(%q) error = %v, want ErrUnsupported", tmpl, err)
		}
	}
}
