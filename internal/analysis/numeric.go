package analysis

import (
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sodash/internal/dataset"
)

// Coerce converts a survey cell to a number; absent or malformed cells are
// missing.
func Coerce(v dataset.Value) Number {
	if v.Absent {
		return Number{}
	}
	f, ok := ParseNumber(v.Raw)
	if !ok {
		return Number{}
	}
	return Number{V: f, Valid: true}
}

// ParseNumber parses plain and locale-formatted numbers ("62268.0",
// "1.050,5", "100,000", "1 200"). Text answers such as "Less than 1 year"
// fail.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
	if raw == "" {
		return 0, false
	}
	dec := decimalSep(raw)
	// Remove thousands separators that differ from the decimal separator.
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decimalSep picks the decimal separator of raw. When both separators occur
// the last one is decimal. A lone comma is decimal unless it repeats or
// groups exactly three trailing digits; a lone dot is decimal unless it
// repeats.
func decimalSep(raw string) rune {
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			return ','
		}
		return '.'
	case cpos >= 0:
		if groupsThousands(raw, ",") {
			return '.'
		}
		return ','
	case dpos >= 0 && strings.Count(raw, ".") > 1:
		return ','
	}
	return '.'
}

func groupsThousands(raw, sep string) bool {
	if strings.Count(raw, sep) > 1 {
		return true
	}
	i := strings.Index(raw, sep)
	tail := raw[i+1:]
	if i == 0 || len(tail) != 3 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
