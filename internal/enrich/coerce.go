package enrich

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseCurrency coerces a currency value into integer currency units.
//
// Numeric input is floored. String input follows the convention of the
// upstream data: the currency symbol, whitespace, thousands dots and decimal
// commas are all stripped and the remaining digits concatenated, so
// "R$ 1.234,56" parses to 123456. This matches the digits already stored in
// the snapshot log; changing it would reinterpret existing data. Unparseable
// or empty input yields 0 — indistinguishable from a genuine zero price,
// which is an accepted limitation.
func ParseCurrency(v interface{}) int {
	switch val := v.(type) {
	case nil:
		return 0
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(math.Floor(val))
	case string:
		return parseCurrencyString(val)
	default:
		return 0
	}
}

func parseCurrencyString(s string) int {
	var cleaned strings.Builder
	for _, r := range s {
		switch {
		case r == 'R' || r == '$' || r == '.' || r == ',':
			// currency symbol and separators
		case unicode.IsSpace(r):
		default:
			cleaned.WriteRune(r)
		}
	}
	return longestDigitRun(cleaned.String())
}

// longestDigitRun extracts the longest contiguous run of digits; the first
// run wins ties. No digits at all yields 0.
func longestDigitRun(s string) int {
	best := ""
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start > len(best) {
			best = s[start:i]
		}
		start = -1
	}
	if start >= 0 && len(s)-start > len(best) {
		best = s[start:]
	}
	if best == "" {
		return 0
	}
	n, err := strconv.Atoi(best)
	if err != nil {
		return 0
	}
	return n
}

// ParseCount coerces a count-like value (rooms, area) to an integer.
// Non-numeric input coerces to 0.
func ParseCount(v interface{}) int {
	switch val := v.(type) {
	case nil:
		return 0
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(math.Floor(val))
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(math.Floor(f))
		}
		return 0
	default:
		return 0
	}
}

// PricePerArea recomputes price per square meter rounded to 2 decimals. The
// upstream-provided value is never trusted; deriving it here keeps it
// consistent with Price and Area at all times.
func PricePerArea(price, area int) float64 {
	if area <= 0 {
		return 0
	}
	return math.Round(float64(price)/float64(area)*100) / 100
}
