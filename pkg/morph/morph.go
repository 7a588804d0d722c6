// Package morph defines the morpheme record the accent pipeline consumes
// and the Tokenizer interface that supplies it. The pipeline performs no
// morphological analysis of its own: it trusts whatever POS and accent
// features the tokenizer attaches to each morpheme.
package morph

import "context"

// Morpheme is one unit of the UniDic short-unit scheme. Fields not
// supplied by a tokenizer should be left at their zero value ("" for
// strings); the pipeline treats an empty AType/AConType/AModType the
// same as the literal "*" UniDic uses for "not applicable".
type Morpheme struct {
	Surface string // as it appears in the text
	Kana    string // katakana reading; may be empty
	Lemma   string // dictionary form

	POS1 string // primary part of speech, e.g. 動詞, 名詞, 助動詞, 助詞
	POS2 string // secondary part of speech, e.g. 接続助詞, 数詞, 助数詞, 名詞的

	CType string // conjugation type
	CForm string // conjugation form

	AType     string // base accent: "1", "*", or "1,0"
	AConType  string // F-rule spec, e.g. "動詞%F4@1,形容詞%F5"
	AModType  string // inflection modification spec, e.g. "M4@1"
}

// Reading returns the morpheme's reading, falling back to its surface
// form when the tokenizer supplied none.
func (m Morpheme) Reading() string {
	if m.Kana != "" {
		return m.Kana
	}
	return m.Surface
}

// Tokenizer splits Japanese text into morphemes carrying UniDic-scheme
// features. The accent pipeline is the sole consumer of this interface;
// it never inspects the underlying analyzer.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]Morpheme, error)
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(ctx context.Context, text string) ([]Morpheme, error)

// Tokenize calls f.
func (f TokenizerFunc) Tokenize(ctx context.Context, text string) ([]Morpheme, error) {
	return f(ctx, text)
}
