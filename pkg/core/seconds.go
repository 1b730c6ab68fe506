package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSeconds reads a duration field written as text. Empty text is zero
// and fractions are floored.
func ParseSeconds(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	return floorSeconds(f)
}

// SecondsOf reads a duration field from a decoded header value. A missing
// (nil) value is zero.
func SecondsOf(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d", ErrNotNumeric, n)
		}
		return int64(n), nil
	case float64:
		return floorSeconds(n)
	case json.Number:
		return ParseSeconds(n.String())
	case string:
		return ParseSeconds(n)
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}

func floorSeconds(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v", ErrNotNumeric, f)
	}
	return int64(math.Floor(f)), nil
}
