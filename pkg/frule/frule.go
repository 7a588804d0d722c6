// Package frule applies UniDic's F-type suffix combination rules (F1-F6)
// and aModType inflection-modification rules to fold one auxiliary's
// contribution into a running accent/mora accumulator.
package frule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Term is one parsed F-rule: a kind (F1..F6) plus optional M/L parameters.
// M and L default to 0 when absent.
type Term struct {
	Kind string
	M    int
	L    int
}

var modTypeRe = regexp.MustCompile(`^M(1|4)@(-?\d+)$`)

// ApplyModType applies an aModType spec ("M4@n" or "M1@n") to a base accent.
// Any other spec, including "*" or the empty string, leaves the accent
// unchanged.
func ApplyModType(modType string, base int) int {
	if modType == "" || modType == "*" {
		return base
	}
	m := modTypeRe.FindStringSubmatch(modType)
	if m == nil {
		return base
	}
	kind := m[1]
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return base
	}
	switch kind {
	case "4":
		// Stem-shortening shift: heiban stays heiban, otherwise shift left
		// by n, clipped at 0.
		if base == 0 {
			return 0
		}
		shifted := base - n
		if shifted < 0 {
			return 0
		}
		return shifted
	case "1":
		return n
	}
	return base
}

var fRuleRe = regexp.MustCompile(`^F([1-6])(?:@(-?\d+))?(?:@(-?\d+))?$`)

// ParseAConType parses a comma-separated aConType spec
// ("動詞%F4@1,形容詞%F5") into a map from the preceding-POS key
// (動詞/形容詞/名詞) to the F-rule term for that POS.
func ParseAConType(aConType string) map[string]Term {
	if aConType == "" || aConType == "*" {
		return nil
	}
	out := make(map[string]Term)
	for _, part := range strings.Split(aConType, ",") {
		idx := strings.Index(part, "%")
		if idx < 0 {
			continue
		}
		pos, spec := part[:idx], part[idx+1:]
		m := fRuleRe.FindStringSubmatch(spec)
		if m == nil {
			continue
		}
		term := Term{Kind: "F" + m[1]}
		if m[2] != "" {
			if v, err := strconv.Atoi(m[2]); err == nil {
				term.M = v
			}
		}
		if m[3] != "" {
			if v, err := strconv.Atoi(m[3]); err == nil {
				term.L = v
			}
		}
		out[pos] = term
	}
	return out
}

// TermForPOS picks the F-rule term matching prevPOS (動詞/形容詞/名詞) from a
// parsed aConType, re-parsing it on every call. It returns ok=false when no
// term matches, meaning "no F-rule found".
func TermForPOS(aConType, prevPOS string) (Term, bool) {
	parsed := ParseAConType(aConType)
	if parsed == nil {
		return Term{}, false
	}
	t, ok := parsed[prevPOS]
	return t, ok
}

// Apply runs one F-rule term against the preceding element's accent (a) and
// mora count (N).
func Apply(t Term, a, n int) int {
	switch t.Kind {
	case "F1":
		return a
	case "F2":
		if a == 0 {
			return n + t.M
		}
		return a
	case "F3":
		if a == 0 {
			return 0
		}
		return n + t.M
	case "F4":
		return n + t.M
	case "F5":
		return 0
	case "F6":
		if a == 0 {
			return n + t.M
		}
		return n + t.L
	default:
		return a
	}
}

// POSKey maps a raw POS1 label to one of the three F-rule lookup keys
// (動詞, 形容詞, 名詞), defaulting to 名詞 for anything else.
func POSKey(pos1 string) string {
	switch {
	case strings.Contains(pos1, "動詞"):
		return "動詞"
	case strings.Contains(pos1, "形容詞"):
		return "形容詞"
	default:
		return "名詞"
	}
}

// TraceEntry is one step of a fold's breakdown, rendered as a human-readable
// trace string.
type TraceEntry string

// FoldResult is the outcome of folding one auxiliary morpheme into a
// running accumulator.
type FoldResult struct {
	Accent int
	Trace  TraceEntry
}

// Fold applies one auxiliary's aConType against the running accent a and
// the preceding element's mora count n, for the given head-POS lookup key.
// When no F-rule term matches, the accent is preserved and the trace notes
// the fallback.
func Fold(aConType, headPOSKey, auxSurface string, a, n int) FoldResult {
	term, ok := TermForPOS(aConType, headPOSKey)
	if !ok {
		return FoldResult{
			Accent: a,
			Trace:  TraceEntry(fmt.Sprintf("+ %s: no F-rule found, preserving accent=%d", auxSurface, a)),
		}
	}
	newAccent := Apply(term, a, n)
	ruleStr := term.Kind
	if term.M != 0 {
		ruleStr += fmt.Sprintf("@%d", term.M)
	}
	if term.L != 0 {
		ruleStr += fmt.Sprintf(",%d", term.L)
	}
	return FoldResult{
		Accent: newAccent,
		Trace:  TraceEntry(fmt.Sprintf("+ %s: %s (N1=%d, M1=%d) -> accent=%d", auxSurface, ruleStr, n, a, newAccent)),
	}
}

// ParseAType parses a UniDic aType spec ("1", "*", or "1,0") into an integer
// accent. "*" and the empty string mean 0; a comma-separated list always
// takes the first token.
func ParseAType(aType string) int {
	if aType == "" || aType == "*" {
		return 0
	}
	first := aType
	if idx := strings.Index(aType, ","); idx >= 0 {
		first = aType[:idx]
	}
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0
	}
	return n
}
