// Package tokenize implements the morph.Tokenizer interface on top of
// kagome/UniDic, the one dictionary in the kagome family that carries the
// aType/aConType/aModType accent features the core pipeline's data model
// requires.
package tokenize

import (
	"context"

	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/japaniel/pitchaccent/pkg/morph"
)

// UniDic short-unit feature indices, in the order kagome-dict/uni exposes
// them via Token.Features(): pos1, pos2, pos3, pos4, cType, cForm, lForm,
// lemma, orth, pron, orthBase, pronBase, goshu, iType, iForm, fType, fForm,
// iConType, fConType, type, kana, kanaBase, form, formBase, aType,
// aConType, aModType, lid, lemma_id.
const (
	idxPOS1     = 0
	idxPOS2     = 1
	idxCType    = 4
	idxCForm    = 5
	idxLemma    = 7
	idxKana     = 20
	idxAType    = 24
	idxAConType = 25
	idxAModType = 26
)

// Tokenizer wraps a kagome UniDic tokenizer to satisfy morph.Tokenizer.
type Tokenizer struct {
	t *tokenizer.Tokenizer
}

// New builds a Tokenizer using the embedded UniDic dictionary.
func New() (*Tokenizer, error) {
	t, err := tokenizer.New(uni.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Tokenizer{t: t}, nil
}

// Tokenize splits text into morph.Morpheme records carrying UniDic's
// short-unit features. ctx is accepted for interface compliance; kagome's
// tokenizer call is synchronous and CPU-bound, so it is not itself
// cancellable.
func (tk *Tokenizer) Tokenize(ctx context.Context, text string) ([]morph.Morpheme, error) {
	tokens := tk.t.Tokenize(text)
	out := make([]morph.Morpheme, 0, len(tokens))

	for _, tok := range tokens {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		f := tok.Features()
		out = append(out, morph.Morpheme{
			Surface:  tok.Surface,
			Kana:     feature(f, idxKana),
			Lemma:    featureOr(f, idxLemma, tok.Surface),
			POS1:     feature(f, idxPOS1),
			POS2:     feature(f, idxPOS2),
			CType:    feature(f, idxCType),
			CForm:    feature(f, idxCForm),
			AType:    feature(f, idxAType),
			AConType: feature(f, idxAConType),
			AModType: feature(f, idxAModType),
		})
	}

	return out, nil
}

func feature(f []string, idx int) string {
	if idx < 0 || idx >= len(f) {
		return ""
	}
	v := f[idx]
	if v == "*" {
		return ""
	}
	return v
}

func featureOr(f []string, idx int, fallback string) string {
	if v := feature(f, idx); v != "" {
		return v
	}
	return fallback
}
