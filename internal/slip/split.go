package slip

import (
	"math"
	"strconv"
	"strings"
)

// castCount counts the non-blank names.
func castCount(names ...string) int {
	n := 0
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			n++
		}
	}
	return n
}

// roundHalfUp rounds x to the nearest integer, halves away from zero for
// positive amounts.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// splitTotal divides a slip total between casts when two or more share it.
func splitTotal(total int64, casts int) int64 {
	if casts < 2 {
		return total
	}
	return roundHalfUp(float64(total) / float64(casts))
}

// splitField divides a free-text amount when it is a plain number and leaves
// anything else untouched.
func splitField(value string, casts int) string {
	value = strings.TrimSpace(value)
	if casts < 2 || value == "" {
		return value
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return value
	}
	return strconv.FormatInt(roundHalfUp(n/float64(casts)), 10)
}
