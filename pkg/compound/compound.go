// Package compound applies length-driven pitch accent sandhi (the
// Kubozono/TUFS tradition) to noun+noun sequences, merging them into a
// single accent nucleus.
package compound

import (
	"fmt"

	"github.com/japaniel/pitchaccent/pkg/mora"
)

// heibanSuffixes make a compound heiban regardless of its components'
// accent.
var heibanSuffixes = map[string]bool{
	"語": true, "色": true, "的": true, "性": true, "化": true,
	"家": true, "者": true, "員": true, "式": true, "用": true,
	"中": true, "内": true, "外": true, "上": true, "下": true,
	"間": true, "前": true, "後": true, "代": true, "感": true,
}

// Noun is one component of a compound: surface form, hiragana reading, and
// its accent type in isolation.
type Noun struct {
	Surface string
	Reading string
	Accent  int
}

// Result is the outcome of folding two or more Nouns into one nucleus.
type Result struct {
	Reading string
	Accent  int
	Rules   []string
}

// ComputePair merges n1 and n2 into a single accent nucleus, following
// length-conditioned sandhi rules keyed on n2's mora count.
func ComputePair(n1, n2 Noun) (accent int, rule string) {
	if heibanSuffixes[n2.Surface] {
		return 0, "heiban_suffix"
	}

	n1Len := mora.CountMora(n1.Reading)
	n2Len := mora.CountMora(n2.Reading)

	switch {
	case n2Len <= 2:
		accentPos := n1Len
		if mora.EndsWithSpecialMora(n1.Reading) {
			shift := mora.TrailingSpecialMoraCount(n1.Reading)
			accentPos = n1Len - shift
			if accentPos < 1 {
				accentPos = 1
			}
			return accentPos, fmt.Sprintf("N2<=2_special_shift_%d", shift)
		}
		return accentPos, "N2<=2_boundary"

	case n2Len == 3 || n2Len == 4:
		isHeiban := n2.Accent == 0
		isOdaka := n2.Accent == n2Len
		if isHeiban || isOdaka {
			return n1Len + 1, "N2=3-4_heiban/odaka->N2_initial"
		}
		return n1Len + n2.Accent, "N2=3-4_preserve_N2"

	default: // n2Len >= 5
		if n2.Accent == 0 {
			return 0, "N2>=5_heiban->compound_heiban"
		}
		return n1Len + n2.Accent, "N2>=5_preserve_N2"
	}
}

// FoldLeft combines 2+ nouns left-associatively: ((N1+N2)+N3)+... The
// surface field of intermediate nuclei is unused by the rule and is not
// tracked here; callers concatenate surfaces themselves.
func FoldLeft(nouns []Noun) Result {
	if len(nouns) == 0 {
		return Result{}
	}
	if len(nouns) == 1 {
		return Result{Reading: nouns[0].Reading, Accent: nouns[0].Accent, Rules: []string{"single_noun"}}
	}

	current := nouns[0]
	var rules []string

	for _, next := range nouns[1:] {
		accent, rule := ComputePair(current, next)
		rules = append(rules, rule)
		current = Noun{
			Reading: current.Reading + next.Reading,
			Accent:  accent,
		}
	}

	return Result{Reading: current.Reading, Accent: current.Accent, Rules: rules}
}
