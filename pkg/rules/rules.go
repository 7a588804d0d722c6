// Package rules loads the static suffix-combination (F-rule) table and the
// verb inflection-pattern table that drive the accent pipeline. Tables are
// read once at startup and are read-only afterward.
package rules

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/japaniel/pitchaccent/pkg/frule"
)

//go:embed rules.json
var defaultTable []byte

var logger zerolog.Logger

// SetLogger installs the package-level logger used for load-time warnings
// (e.g. an aConType entry whose JSON shape is neither a string nor an
// object).
func SetLogger(l zerolog.Logger) { logger = l }

// SuffixRule is one entry of the suffix-rule table: a surface/POS/
// conjugation-type key, with its aConType resolved into F-rule terms keyed
// by the preceding element's POS.
type SuffixRule struct {
	Surface string
	POS1    string
	POS2    string
	CType   string
	Lemma   string
	Parsed  map[string]frule.Term
}

// VerbInflectionPattern is one entry of the verb_inflection_patterns table,
// keyed by (cType, cForm).
type VerbInflectionPattern struct {
	CType    string
	CForm    string
	Example  string
	AModType string
}

// Table is the rule table, indexed for fast lookup by the sentence accent
// driver (pkg/accent).
type Table struct {
	BySurface    map[string][]SuffixRule
	VerbPatterns map[string]VerbInflectionPattern
}

// LoadDefault returns the table embedded in the binary via go:embed.
func LoadDefault() (*Table, error) {
	return parse(defaultTable)
}

// Load reads a rule table from path, in the same JSON shape as the embedded
// default.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}
	t, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	return t, nil
}

// parse decodes the two top-level keys (suffix_rules, verb_inflection_patterns)
// using gjson so that each entry's aConType can be inspected for shape before
// deciding how to resolve it: it may arrive either as a raw string
// ("動詞%F4@1") or as a pre-parsed structure ({"動詞": {"type": "F4", "M": 1}}).
func parse(data []byte) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("rules: invalid JSON")
	}
	root := gjson.ParseBytes(data)

	table := &Table{
		BySurface:    make(map[string][]SuffixRule),
		VerbPatterns: make(map[string]VerbInflectionPattern),
	}

	root.Get("suffix_rules").ForEach(func(_, v gjson.Result) bool {
		rule := SuffixRule{
			Surface: v.Get("surface").String(),
			POS1:    v.Get("pos1").String(),
			POS2:    v.Get("pos2").String(),
			CType:   v.Get("cType").String(),
			Lemma:   v.Get("lemma").String(),
			Parsed:  resolveAConType(v.Get("aConType")),
		}
		table.BySurface[rule.Surface] = append(table.BySurface[rule.Surface], rule)
		return true
	})

	root.Get("verb_inflection_patterns").ForEach(func(k, v gjson.Result) bool {
		table.VerbPatterns[k.String()] = VerbInflectionPattern{
			CType:    v.Get("cType").String(),
			CForm:    v.Get("cForm").String(),
			Example:  v.Get("example").String(),
			AModType: v.Get("aModType").String(),
		}
		return true
	})

	return table, nil
}

// resolveAConType handles both shapes the aConType field may arrive in: a
// raw UniDic spec string, parsed by pkg/frule, or an already-parsed object
// mapping POS to {type, M, L}. It runs for every entry at load time; raw
// strings are not kept and parsing is not deferred to lookup.
func resolveAConType(v gjson.Result) map[string]frule.Term {
	switch {
	case v.Type == gjson.String:
		return frule.ParseAConType(v.String())
	case v.IsObject():
		out := make(map[string]frule.Term)
		v.ForEach(func(pos, term gjson.Result) bool {
			t := frule.Term{Kind: term.Get("type").String()}
			if m := term.Get("M"); m.Exists() {
				t.M = int(m.Int())
			}
			if l := term.Get("L"); l.Exists() {
				t.L = int(l.Int())
			}
			out[pos.String()] = t
			return true
		})
		return out
	default:
		logger.Warn().Str("aConType", v.Raw).Msg("rules: unrecognized aConType shape, ignoring")
		return nil
	}
}

// TermForSurface looks up the F-rule term for a suffix surface form under
// the given head-POS key, trying every rule registered under that surface
// (a surface may carry several POS/conjugation variants) and returning the
// first match; ok is false when no rule under that surface has a term for
// headPOSKey.
func (t *Table) TermForSurface(surface, headPOSKey string) (frule.Term, bool) {
	for _, rule := range t.BySurface[surface] {
		if term, ok := rule.Parsed[headPOSKey]; ok {
			return term, true
		}
	}
	return frule.Term{}, false
}

// ModTypeForForm looks up the aModType for a (cType, cForm) pair from the
// verb inflection-pattern table, returning "" (no modification) when the
// form is unknown.
func (t *Table) ModTypeForForm(cType, cForm string) string {
	p, ok := t.VerbPatterns[cType+"|"+cForm]
	if !ok {
		return ""
	}
	return p.AModType
}
