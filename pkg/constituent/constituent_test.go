package constituent

import (
	"testing"

	"github.com/japaniel/pitchaccent/pkg/morph"
)

func word(surface, pos1, pos2 string) morph.Morpheme {
	return morph.Morpheme{Surface: surface, Kana: surface, POS1: pos1, POS2: pos2}
}

func TestBuildSimpleNoun(t *testing.T) {
	ms := []morph.Morpheme{word("猫", "名詞", "普通名詞")}
	cs := Build(ms, nil)
	if len(cs) != 1 || cs[0].Kind != Simple {
		t.Fatalf("got %+v", cs)
	}
}

func TestBuildNounCompound(t *testing.T) {
	ms := []morph.Morpheme{
		word("安全", "名詞", "普通名詞"),
		word("保障", "名詞", "普通名詞"),
	}
	cs := Build(ms, nil)
	if len(cs) != 1 || cs[0].Kind != NounCompound || len(cs[0].Morphemes) != 2 {
		t.Fatalf("got %+v", cs)
	}
}

func TestBuildNumeralCounter(t *testing.T) {
	ms := []morph.Morpheme{
		word("3", "名詞", "数詞"),
		word("本", "接尾辞", "助数詞"),
	}
	cs := Build(ms, nil)
	if len(cs) != 1 || cs[0].Kind != NumeralCounter {
		t.Fatalf("got %+v", cs)
	}
}

func TestBuildInflectedChain(t *testing.T) {
	ms := []morph.Morpheme{
		word("食べ", "動詞", "一般"),
		word("ます", "助動詞", "*"),
	}
	cs := Build(ms, nil)
	if len(cs) != 1 || cs[0].Kind != Inflected || len(cs[0].Morphemes) != 2 {
		t.Fatalf("got %+v", cs)
	}
}

func TestBuildInflectedWithConnectiveParticle(t *testing.T) {
	ms := []morph.Morpheme{
		word("食べ", "動詞", "一般"),
		word("て", "助詞", "接続助詞"),
	}
	cs := Build(ms, nil)
	if len(cs) != 1 || cs[0].Kind != Inflected || len(cs[0].Morphemes) != 2 {
		t.Fatalf("got %+v", cs)
	}
}

func TestBuildMixedSentence(t *testing.T) {
	ms := []morph.Morpheme{
		word("彼女", "代名詞", "*"),
		word("は", "助詞", "係助詞"),
		word("本", "名詞", "普通名詞"),
		word("を", "助詞", "格助詞"),
		word("読ん", "動詞", "一般"),
		word("で", "助詞", "接続助詞"),
		word("いる", "動詞", "非自立可能"),
		word("。", "補助記号", "句点"),
	}
	cs := Build(ms, nil)
	// 彼女 | は | 本 | を | 読んで | いる | 。 — いる is a 動詞, not an
	// auxiliary, so it starts its own inflected chain.
	var kinds []Kind
	for _, c := range cs {
		kinds = append(kinds, c.Kind)
	}
	if len(cs) != 7 {
		t.Fatalf("expected 7 constituents, got %d: %+v", len(cs), kinds)
	}
	if cs[4].Kind != Inflected || len(cs[4].Morphemes) != 2 {
		t.Fatalf("expected a 2-morpheme inflected chain, got %+v", cs[4])
	}
}

func TestBuildUnclassifiedSuffixCallback(t *testing.T) {
	ms := []morph.Morpheme{
		word("お", "接頭辞", "*"),
		word("さ", "接尾辞", "形状詞的"), // not 名詞的: should be reported
	}
	var reported []UnclassifiedSuffix
	Build(ms, func(u UnclassifiedSuffix) { reported = append(reported, u) })
	if len(reported) != 1 || reported[0].Surface != "さ" {
		t.Fatalf("expected one unclassified suffix report, got %+v", reported)
	}
}

func TestIsContent(t *testing.T) {
	cases := []struct {
		m    morph.Morpheme
		want bool
	}{
		{word("猫", "名詞", "普通名詞"), true},
		{word("が", "助詞", "格助詞"), false},
		{word("ます", "助動詞", "*"), false},
		{word("3", "名詞", "数詞"), true},
		{word("本", "接尾辞", "助数詞"), true},
		{word("食べる", "動詞", "一般"), true},
		{word("。", "補助記号", "句点"), false},
	}
	for _, c := range cases {
		if got := IsContent(c.m); got != c.want {
			t.Errorf("IsContent(%+v) = %v, want %v", c.m, got, c.want)
		}
	}
}
