// Package pattern expands an accent type into an explicit low/high pitch
// pattern over a word's mora.
package pattern

import "strings"

// Expand converts accentType (0 = heiban, k = drop after the k-th mora)
// and moraCount into an L/H string. When includeParticle is true, one
// extra position is appended to represent a following particle mora, and
// a heiban word stays high through it.
func Expand(accentType, moraCount int, includeParticle bool) string {
	if moraCount == 0 {
		return ""
	}

	total := moraCount
	if includeParticle {
		total++
	}

	if moraCount == 1 && !includeParticle {
		if accentType == 1 {
			return "H"
		}
		return "L"
	}

	switch {
	case accentType == 0:
		return "L" + strings.Repeat("H", total-1)
	case accentType == 1:
		return "H" + strings.Repeat("L", total-1)
	case accentType > total:
		// Out-of-range accent degrades to heiban shape.
		return "L" + strings.Repeat("H", total-1)
	default:
		high := accentType - 1
		low := total - accentType
		return "L" + strings.Repeat("H", high) + strings.Repeat("L", low)
	}
}
