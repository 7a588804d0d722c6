// Package accent is the sentence accent driver: it coordinates the mora,
// pattern, F-rule, compound, and numeral engines to annotate every content
// word of a sentence with its pitch accent.
package accent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/japaniel/pitchaccent/pkg/compound"
	"github.com/japaniel/pitchaccent/pkg/constituent"
	"github.com/japaniel/pitchaccent/pkg/frule"
	"github.com/japaniel/pitchaccent/pkg/mora"
	"github.com/japaniel/pitchaccent/pkg/morph"
	"github.com/japaniel/pitchaccent/pkg/numeral"
	"github.com/japaniel/pitchaccent/pkg/numreading"
	"github.com/japaniel/pitchaccent/pkg/pattern"
	"github.com/japaniel/pitchaccent/pkg/rules"
)

// WordResult is the per-content-word output of the accent pipeline.
type WordResult struct {
	Surface       string
	Reading       string
	AccentType    int
	MoraCount     int
	Pattern       string
	Breakdown     []string
	CompoundRules []string
	IsCompound    bool
	IsContent     bool
	Unannotated   bool

	// Definitions is left empty by Annotate; it exists so downstream
	// consumers (pkg/store, pkg/cards) can attach dictionary glosses to a
	// WordResult without inventing a second carrier type.
	Definitions string
}

// UnknownSuffixFunc is notified whenever the constituent builder sees a
// 接尾辞 morpheme it cannot classify as extending a noun run.
type UnknownSuffixFunc func(constituent.UnclassifiedSuffix)

// Annotate tokenizes text, groups it into constituents, and computes a
// WordResult for every content constituent. Failures in one constituent are
// caught and reported as "unannotated" results; they never abort the rest
// of the sentence.
func Annotate(ctx context.Context, text string, tokenizer morph.Tokenizer, table *rules.Table, onUnknownSuffix UnknownSuffixFunc) ([]WordResult, []error) {
	morphemes, err := tokenizer.Tokenize(ctx, text)
	if err != nil {
		return nil, []error{fmt.Errorf("accent: tokenize: %w", err)}
	}

	var cb func(constituent.UnclassifiedSuffix)
	if onUnknownSuffix != nil {
		cb = func(u constituent.UnclassifiedSuffix) { onUnknownSuffix(u) }
	}
	constituents := constituent.Build(morphemes, cb)

	var results []WordResult
	var errs []error

	for _, c := range constituents {
		if !isContentConstituent(c) {
			continue
		}
		wr, err := computeConstituent(c, table)
		if err != nil {
			errs = append(errs, err)
			wr.Unannotated = true
		}
		results = append(results, wr)
	}

	return results, errs
}

func isContentConstituent(c constituent.Constituent) bool {
	switch c.Kind {
	case constituent.Inflected, constituent.NounCompound, constituent.NumeralCounter:
		return true
	default:
		return constituent.IsContent(c.Morphemes[0])
	}
}

func computeConstituent(c constituent.Constituent, table *rules.Table) (WordResult, error) {
	switch c.Kind {
	case constituent.Inflected:
		return computeInflected(c.Morphemes, table)
	case constituent.NumeralCounter:
		return computeNumeralCounter(c.Morphemes)
	case constituent.NounCompound:
		return computeNounCompound(c.Morphemes)
	default:
		return computeSimple(c.Morphemes[0])
	}
}

// readingOf returns the hiragana reading for a morpheme, falling back to
// the surface form when no kana reading is supplied.
func readingOf(m morph.Morpheme) (reading string, fellBack bool) {
	if m.Kana == "" {
		return m.Surface, true
	}
	return mora.KataToHira(m.Kana), false
}

func moraCountOf(reading string, fellBack bool) int {
	if fellBack {
		return mora.CountMoraFallback(reading)
	}
	return mora.CountMora(reading)
}

func computeSimple(m morph.Morpheme) (WordResult, error) {
	reading, fellBack := readingOf(m)
	accent := frule.ParseAType(m.AType)
	accent = frule.ApplyModType(m.AModType, accent)
	moraCount := moraCountOf(reading, fellBack)
	return WordResult{
		Surface:    m.Surface,
		Reading:    reading,
		AccentType: accent,
		MoraCount:  moraCount,
		Pattern:    pattern.Expand(accent, moraCount, true),
		IsContent:  true,
		Breakdown:  []string{fmt.Sprintf("%s: base accent=%d", m.Surface, accent)},
	}, nil
}

func computeInflected(ms []morph.Morpheme, table *rules.Table) (WordResult, error) {
	head := ms[0]
	headPOSKey := frule.POSKey(head.POS1)

	baseAccent := frule.ParseAType(head.AType)
	accent := baseAccent
	var breakdown []string

	modType := head.AModType
	if (modType == "" || modType == "*") && table != nil {
		modType = table.ModTypeForForm(head.CType, head.CForm)
	}

	if modType != "" && modType != "*" {
		accent = frule.ApplyModType(modType, baseAccent)
		breakdown = append(breakdown, fmt.Sprintf("%s: base=%d, aModType=%s -> %d", head.Surface, baseAccent, modType, accent))
	} else {
		breakdown = append(breakdown, fmt.Sprintf("%s: base accent=%d", head.Surface, accent))
	}

	reading, fellBack := readingOf(head)
	moraCount := moraCountOf(reading, fellBack)
	surface := head.Surface

	for _, aux := range ms[1:] {
		auxReading, auxFellBack := readingOf(aux)
		auxMora := moraCountOf(auxReading, auxFellBack)

		term, ok := frule.TermForPOS(aux.AConType, headPOSKey)
		if !ok {
			if t, tableOK := table.TermForSurface(aux.Surface, headPOSKey); tableOK {
				term, ok = t, true
			}
		}

		if !ok {
			breakdown = append(breakdown, fmt.Sprintf("+ %s: no F-rule found, preserving accent=%d", aux.Surface, accent))
		} else {
			prevAccent := accent
			accent = frule.Apply(term, accent, moraCount)
			ruleStr := term.Kind
			if term.M != 0 {
				ruleStr += fmt.Sprintf("@%d", term.M)
			}
			if term.L != 0 {
				ruleStr += fmt.Sprintf(",%d", term.L)
			}
			breakdown = append(breakdown, fmt.Sprintf("+ %s: %s (N1=%d, M1=%d) -> accent=%d", aux.Surface, ruleStr, moraCount, prevAccent, accent))
		}

		moraCount += auxMora
		reading += auxReading
		surface += aux.Surface
	}

	return WordResult{
		Surface:    surface,
		Reading:    reading,
		AccentType: accent,
		MoraCount:  moraCount,
		Pattern:    pattern.Expand(accent, moraCount, true),
		IsContent:  true,
		Breakdown:  breakdown,
	}, nil
}

// digitReadingOrFallback converts an all-ASCII-digit string to its kana
// reading; on parse failure it returns the original string unchanged.
func digitReadingOrFallback(s string) (string, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s, false
	}
	return numreading.ToReading(n), true
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// nounReading resolves one noun-like morpheme's reading, substituting the
// number-to-reading conversion when its surface or supplied reading is all
// ASCII digits.
func nounReading(m morph.Morpheme) string {
	if isASCIIDigits(m.Surface) {
		if r, ok := digitReadingOrFallback(m.Surface); ok {
			return r
		}
	}
	reading, _ := readingOf(m)
	if isASCIIDigits(reading) {
		if r, ok := digitReadingOrFallback(reading); ok {
			return r
		}
	}
	return reading
}

func computeNounCompound(ms []morph.Morpheme) (WordResult, error) {
	nouns := make([]compound.Noun, len(ms))
	var surface strings.Builder
	for i, m := range ms {
		nouns[i] = compound.Noun{
			Surface: m.Surface,
			Reading: nounReading(m),
			Accent:  frule.ParseAType(m.AType),
		}
		surface.WriteString(m.Surface)
	}
	result := compound.FoldLeft(nouns)
	moraCount := mora.CountMora(result.Reading)
	return WordResult{
		Surface:       surface.String(),
		Reading:       result.Reading,
		AccentType:    result.Accent,
		MoraCount:     moraCount,
		Pattern:       pattern.Expand(result.Accent, moraCount, true),
		IsContent:     true,
		IsCompound:    true,
		CompoundRules: result.Rules,
	}, nil
}

func computeNumeralCounter(ms []morph.Morpheme) (WordResult, error) {
	var numeralSurface strings.Builder
	var counter morph.Morpheme
	haveCounter := false

	for _, m := range ms {
		if m.POS2 == "数詞" {
			numeralSurface.WriteString(m.Surface)
		} else if m.POS2 == "助数詞" && !haveCounter {
			counter = m
			haveCounter = true
		}
	}

	var surface strings.Builder
	for _, m := range ms {
		surface.WriteString(m.Surface)
	}

	digits := numeralSurface.String()
	n, err := strconv.Atoi(digits)
	if err != nil {
		// Numeral parse failure: emit heiban with reading = surface.
		return WordResult{
			Surface:    surface.String(),
			Reading:    surface.String(),
			AccentType: 0,
			MoraCount:  mora.CountMoraFallback(surface.String()),
			Pattern:    pattern.Expand(0, mora.CountMoraFallback(surface.String()), true),
			IsContent:  true,
			IsCompound: true,
			CompoundRules: []string{
				fmt.Sprintf("numeral_parse_failure: %v", err),
			},
		}, fmt.Errorf("accent: numeral parse failure on %q: %w", digits, err)
	}

	result := numeral.ComputePhrase(n, counter.Surface)
	moraCount := mora.CountMora(result.Reading)
	return WordResult{
		Surface:       surface.String(),
		Reading:       result.Reading,
		AccentType:    result.Accent,
		MoraCount:     moraCount,
		Pattern:       pattern.Expand(result.Accent, moraCount, true),
		IsContent:     true,
		IsCompound:    true,
		CompoundRules: []string{fmt.Sprintf("numeral: %s", result.Rule)},
	}, nil
}
