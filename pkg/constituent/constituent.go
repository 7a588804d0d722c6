// Package constituent groups a morpheme stream into the linguistic units
// the accent pipeline computes accent for: simple words, verb/adjective +
// auxiliary chains, noun compounds, and numeral+counter phrases.
package constituent

import (
	"github.com/japaniel/pitchaccent/pkg/morph"
)

// Kind tags the variant a Constituent holds.
type Kind int

const (
	// Simple is one morpheme not covered by the other variants.
	Simple Kind = iota
	// Inflected is a verbal or adjectival head plus zero or more auxiliary
	// morphemes (助動詞, and 助詞/接続助詞 like て).
	Inflected
	// NounCompound is two or more consecutive noun-like morphemes.
	NounCompound
	// NumeralCounter is one or more 数詞 morphemes followed by a 助数詞.
	NumeralCounter
)

func (k Kind) String() string {
	switch k {
	case Simple:
		return "Simple"
	case Inflected:
		return "Inflected"
	case NounCompound:
		return "NounCompound"
	case NumeralCounter:
		return "NumeralCounter"
	default:
		return "Unknown"
	}
}

// Constituent is one grouped unit of the morpheme stream.
type Constituent struct {
	Kind      Kind
	Morphemes []morph.Morpheme
}

var skipPOS = map[string]bool{
	"助詞": true, "助動詞": true, "補助記号": true, "空白": true, "記号": true,
}

var contentPOS = map[string]bool{
	"動詞": true, "名詞": true, "形容詞": true, "副詞": true, "代名詞": true,
}

// IsContent reports whether a single morpheme is a content word eligible
// for pitch annotation.
func IsContent(m morph.Morpheme) bool {
	if skipPOS[m.POS1] {
		return false
	}
	if m.POS2 == "数詞" || m.POS2 == "助数詞" {
		return true
	}
	return contentPOS[m.POS1]
}

func isNounStart(m morph.Morpheme) bool {
	return m.POS1 == "名詞" || m.POS1 == "代名詞" || m.POS2 == "数詞" || m.POS2 == "助数詞"
}

func isNounExtend(m morph.Morpheme) bool {
	if m.POS1 == "名詞" || m.POS2 == "数詞" || m.POS2 == "助数詞" {
		return true
	}
	return m.POS1 == "接尾辞" && m.POS2 == "名詞的"
}

func isAuxExtend(m morph.Morpheme) bool {
	if m.POS1 == "助動詞" {
		return true
	}
	return m.POS1 == "助詞" && m.POS2 == "接続助詞"
}

// UnclassifiedSuffix is reported by Build, via the optional onUnclassifiedSuffix
// callback, whenever a 接尾辞 morpheme is encountered that is not labelled
// 名詞的 and therefore does not extend a noun run. Rather than silently
// dropping it, Build hands it back so the caller can log or inspect it.
type UnclassifiedSuffix struct {
	Surface string
	POS2    string
}

// Build groups a morpheme stream into constituents, left to right.
// onUnclassifiedSuffix, if non-nil, is called once for every 接尾辞
// morpheme whose POS2 isn't 名詞的 and which therefore wasn't folded into
// a preceding noun run.
func Build(morphemes []morph.Morpheme, onUnclassifiedSuffix func(UnclassifiedSuffix)) []Constituent {
	var out []Constituent
	i := 0
	n := len(morphemes)

	for i < n {
		m := morphemes[i]

		if isNounStart(m) {
			j := i + 1
			for j < n && isNounExtend(morphemes[j]) {
				j++
			}
			group := morphemes[i:j]

			hasNumeral, hasCounter := false, false
			for _, g := range group {
				if g.POS2 == "数詞" {
					hasNumeral = true
				}
				if g.POS2 == "助数詞" {
					hasCounter = true
				}
			}

			kind := Simple
			switch {
			case hasNumeral && hasCounter:
				kind = NumeralCounter
			case len(group) > 1:
				kind = NounCompound
			}
			out = append(out, Constituent{Kind: kind, Morphemes: group})
			i = j
			continue
		}

		if m.POS1 == "接尾辞" && m.POS2 != "名詞的" && onUnclassifiedSuffix != nil {
			onUnclassifiedSuffix(UnclassifiedSuffix{Surface: m.Surface, POS2: m.POS2})
		}

		if m.POS1 == "動詞" || m.POS1 == "形容詞" {
			j := i + 1
			for j < n && isAuxExtend(morphemes[j]) {
				j++
			}
			out = append(out, Constituent{Kind: Inflected, Morphemes: morphemes[i:j]})
			i = j
			continue
		}

		out = append(out, Constituent{Kind: Simple, Morphemes: morphemes[i : i+1]})
		i++
	}

	return out
}
