package accent

import (
	"context"
	"testing"

	"github.com/japaniel/pitchaccent/pkg/constituent"
	"github.com/japaniel/pitchaccent/pkg/morph"
	"github.com/japaniel/pitchaccent/pkg/rules"
)

func mustTable(t *testing.T) *rules.Table {
	t.Helper()
	table, err := rules.LoadDefault()
	if err != nil {
		t.Fatalf("rules.LoadDefault: %v", err)
	}
	return table
}

func TestComputeInflectedTabemasu(t *testing.T) {
	// 食べる (aType=2) + ます -> accent_type=3, pattern_with_particle="LHHLL".
	ms := []morph.Morpheme{
		{Surface: "食べ", Kana: "タベ", POS1: "動詞", AType: "2"},
		{Surface: "ます", Kana: "マス", POS1: "助動詞", AConType: "動詞%F4@1"},
	}
	wr, err := computeInflected(ms, mustTable(t))
	if err != nil {
		t.Fatalf("computeInflected: %v", err)
	}
	if wr.AccentType != 3 {
		t.Errorf("accent_type = %d, want 3", wr.AccentType)
	}
	if wr.Pattern != "LHHLL" {
		t.Errorf("pattern = %q, want LHHLL", wr.Pattern)
	}
	if wr.Surface != "食べます" {
		t.Errorf("surface = %q", wr.Surface)
	}
}

func TestComputeInflectedIkuHeibanStable(t *testing.T) {
	// Scenario 2: 行く (aType=0) + た remains heiban:
	// accent_type=0, pattern_with_particle="LHHH".
	ms := []morph.Morpheme{
		{Surface: "行っ", Kana: "イッ", POS1: "動詞", AType: "0"},
		{Surface: "た", Kana: "タ", POS1: "助動詞", AConType: "動詞%F1"},
	}
	wr, err := computeInflected(ms, mustTable(t))
	if err != nil {
		t.Fatalf("computeInflected: %v", err)
	}
	if wr.AccentType != 0 {
		t.Errorf("accent_type = %d, want 0", wr.AccentType)
	}
	if wr.Pattern != "LHHH" {
		t.Errorf("pattern = %q, want LHHH", wr.Pattern)
	}
}

func TestComputeInflectedModTypeShift(t *testing.T) {
	// Scenario 3: an ichidan stem with aModType=M4@1 and base accent 2
	// produces accent 1 before further folds.
	ms := []morph.Morpheme{
		{Surface: "食べ", Kana: "タベ", POS1: "動詞", AType: "2", AModType: "M4@1"},
	}
	wr, err := computeInflected(ms, mustTable(t))
	if err != nil {
		t.Fatalf("computeInflected: %v", err)
	}
	if wr.AccentType != 1 {
		t.Errorf("accent_type = %d, want 1", wr.AccentType)
	}
}

func TestComputeInflectedFallsBackToTableWhenMorphemeLacksAConType(t *testing.T) {
	ms := []morph.Morpheme{
		{Surface: "食べ", Kana: "タベ", POS1: "動詞", AType: "0"},
		{Surface: "ます", Kana: "マス", POS1: "助動詞"}, // no AConType on the morpheme itself
	}
	wr, err := computeInflected(ms, mustTable(t))
	if err != nil {
		t.Fatalf("computeInflected: %v", err)
	}
	// ます under 動詞 is F4@1 in the embedded table: N1(2)+1 = 3.
	if wr.AccentType != 3 {
		t.Errorf("accent_type = %d, want 3 (via table fallback)", wr.AccentType)
	}
}

func TestComputeNounCompoundNihongo(t *testing.T) {
	// Scenario 4: 日本(にほん,2) + 語(ご,1) -> heiban suffix -> accent 0.
	ms := []morph.Morpheme{
		{Surface: "日本", Kana: "ニホン", POS1: "名詞", AType: "2"},
		{Surface: "語", Kana: "ゴ", POS1: "名詞", AType: "1"},
	}
	wr, err := computeNounCompound(ms)
	if err != nil {
		t.Fatalf("computeNounCompound: %v", err)
	}
	if wr.AccentType != 0 {
		t.Errorf("accent_type = %d, want 0", wr.AccentType)
	}
	if wr.Reading != "にほんご" {
		t.Errorf("reading = %q, want にほんご", wr.Reading)
	}
	if !wr.IsCompound {
		t.Error("expected IsCompound=true")
	}
}

func TestComputeNounCompoundAnzenHoshou(t *testing.T) {
	// Scenario 5: 安全(あんぜん,0) + 保障(ほしょう,0) -> accent=5.
	ms := []morph.Morpheme{
		{Surface: "安全", Kana: "アンゼン", POS1: "名詞", AType: "0"},
		{Surface: "保障", Kana: "ホショウ", POS1: "名詞", AType: "0"},
	}
	wr, err := computeNounCompound(ms)
	if err != nil {
		t.Fatalf("computeNounCompound: %v", err)
	}
	if wr.AccentType != 5 {
		t.Errorf("accent_type = %d, want 5", wr.AccentType)
	}
	if wr.Reading != "あんぜんほしょう" {
		t.Errorf("reading = %q", wr.Reading)
	}
}

func TestComputeNumeralCounterSanbon(t *testing.T) {
	ms := []morph.Morpheme{
		{Surface: "3", Kana: "3", POS1: "名詞", POS2: "数詞"},
		{Surface: "本", Kana: "ホン", POS1: "接尾辞", POS2: "助数詞"},
	}
	wr, err := computeNumeralCounter(ms)
	if err != nil {
		t.Fatalf("computeNumeralCounter: %v", err)
	}
	if wr.AccentType != 2 {
		t.Errorf("accent_type = %d, want 2", wr.AccentType)
	}
	if wr.Reading != "さんぼん" {
		t.Errorf("reading = %q, want さんぼん", wr.Reading)
	}
}

func TestComputeNumeralCounterParseFailure(t *testing.T) {
	ms := []morph.Morpheme{
		{Surface: "三", Kana: "サン", POS1: "名詞", POS2: "数詞"}, // kanji, not parseable as int
		{Surface: "本", Kana: "ホン", POS1: "接尾辞", POS2: "助数詞"},
	}
	wr, err := computeNumeralCounter(ms)
	if err == nil {
		t.Fatal("expected a numeral parse failure error")
	}
	if wr.AccentType != 0 {
		t.Errorf("accent_type = %d, want 0 (heiban fallback)", wr.AccentType)
	}
	if wr.Reading != wr.Surface {
		t.Errorf("reading = %q, want it to fall back to surface %q", wr.Reading, wr.Surface)
	}
}

func TestAnnotateDoesNotAbortOnPartialFailure(t *testing.T) {
	tok := morph.TokenizerFunc(func(ctx context.Context, text string) ([]morph.Morpheme, error) {
		return []morph.Morpheme{
			{Surface: "三", Kana: "サン", POS1: "名詞", POS2: "数詞"},
			{Surface: "本", Kana: "ホン", POS1: "接尾辞", POS2: "助数詞"},
			{Surface: "の", Kana: "ノ", POS1: "助詞", POS2: "格助詞"},
			{Surface: "猫", Kana: "ネコ", POS1: "名詞", AType: "1"},
		}, nil
	})

	results, errs := Annotate(context.Background(), "三本の猫", tok, mustTable(t), nil)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 word results despite the failure, got %d", len(results))
	}
	if !results[0].Unannotated {
		t.Error("expected the numeral+counter result to be marked unannotated")
	}
	if results[1].Surface != "猫" || results[1].AccentType != 1 {
		t.Errorf("second result = %+v", results[1])
	}
}

func TestAnnotateSkipsNonContentMorphemes(t *testing.T) {
	tok := morph.TokenizerFunc(func(ctx context.Context, text string) ([]morph.Morpheme, error) {
		return []morph.Morpheme{
			{Surface: "猫", Kana: "ネコ", POS1: "名詞", AType: "1"},
			{Surface: "が", Kana: "ガ", POS1: "助詞", POS2: "格助詞"},
		}, nil
	})
	results, errs := Annotate(context.Background(), "猫が", tok, mustTable(t), nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 content word, got %d", len(results))
	}
}

func TestAnnotateReportsUnclassifiedSuffix(t *testing.T) {
	tok := morph.TokenizerFunc(func(ctx context.Context, text string) ([]morph.Morpheme, error) {
		return []morph.Morpheme{
			{Surface: "さ", POS1: "接尾辞", POS2: "形状詞的"},
		}, nil
	})
	var reported int
	_, _ = Annotate(context.Background(), "さ", tok, mustTable(t), func(u constituent.UnclassifiedSuffix) {
		reported++
	})
	if reported != 1 {
		t.Errorf("reported = %d, want 1", reported)
	}
}
