package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// The extraction heuristics below are intentionally preserved as-is,
// including their permissive edge cases: the rating scan collects every
// digit/period in the tail of the query, the price window is a fixed 20
// characters, and the limit takes the first numeral anywhere in the text.
// Tightening any of them would change answers for queries already in the
// wild.

// priceKeywords are checked in this fixed order; the first keyword present
// in the query wins.
var priceKeywords = []string{"under", "below", "less than", "cheaper than", "up to"}

var priceRe = regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)`)

var limitRe = regexp.MustCompile(`\b(\d+)\s*(?:most|recent|high|priority|orders?|top)?`)

// ExtractMinRating reads a rating floor triggered by the word "above"
// co-occurring with a digit. The value is assembled from all digit and
// period characters found after the "above" token; an unparseable
// assembly leaves the filter unset.
func ExtractMinRating(lowered string) *float64 {
	if !strings.Contains(lowered, "above") || !strings.ContainsAny(lowered, "0123456789") {
		return nil
	}

	start := strings.Index(lowered, "above") + 5
	if start > len(lowered) {
		return nil
	}

	var b strings.Builder
	for _, c := range lowered[start:] {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return nil
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ExtractMaxPrice reads a price ceiling from a 20-character window after the
// first matching price keyword. A window with no number falls through to the
// next keyword.
func ExtractMaxPrice(lowered string) *float64 {
	for _, kw := range priceKeywords {
		idx := strings.Index(lowered, kw)
		if idx < 0 {
			continue
		}

		start := idx + len(kw)
		end := start + 20
		if end > len(lowered) {
			end = len(lowered)
		}

		m := priceRe.FindStringSubmatch(lowered[start:end])
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// ExtractLimit reads a result limit from the first integer token in the
// query. Values outside [1,100] are rejected, leaving the caller's default
// in place.
func ExtractLimit(lowered string) (int, bool) {
	m := limitRe.FindStringSubmatch(lowered)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > 100 {
		return 0, false
	}
	return n, true
}
