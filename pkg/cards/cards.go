// Package cards renders annotated sentences into Anki-importable flashcards.
// It depends only on accent.WordResult's exported fields and must never be
// imported back by pkg/accent: card rendering is a presentation concern,
// not part of the accent pipeline.
package cards

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/pitchaccent/pkg/accent"
)

// Card is a single Anki-importable flashcard: front is the plain sentence,
// back is its HTML-formatted pitch annotation, tags are space-joined.
type Card struct {
	Front string
	Back  string
	Tags  []string
}

// BuildCard renders one sentence and its annotated content words into a
// Card. words should be the IsContent subset of accent.Annotate's output
// for this sentence, in surface order.
func BuildCard(sentence string, words []accent.WordResult) Card {
	return Card{
		Front: sentence,
		Back:  formatBack(words),
		Tags:  []string{"pitch_accent"},
	}
}

// formatBack renders each word as "surface（reading）[n]" with per-mora
// high/low spans, one word per line, matching the original HTMLFormatter's
// color-coded layout.
func formatBack(words []accent.WordResult) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(formatWord(w))
	}
	return b.String()
}

func formatWord(w accent.WordResult) string {
	var b strings.Builder
	b.WriteString(w.Surface)
	b.WriteString("（")
	b.WriteString(annotatePattern(w.Reading, w.Pattern))
	b.WriteString("）")
	fmt.Fprintf(&b, "[%d]", w.AccentType)
	if w.Unannotated {
		b.WriteString(" ⚠")
	}
	return b.String()
}

// annotatePattern interleaves reading morae with the L/H pattern string,
// wrapping each mora in a colored span. The pattern may carry one extra
// trailing position for a following particle (as accent.Annotate's patterns
// do); that position is not rendered. It degrades to the bare reading if the
// pattern length is neither the mora count nor the mora count plus one,
// rather than mis-coloring a mismatched pattern.
func annotatePattern(reading, pattern string) string {
	morae := splitMorae(reading)
	if len(pattern) != len(morae) && len(pattern) != len(morae)+1 {
		return reading
	}
	var b strings.Builder
	for i, m := range morae {
		color := "blue"
		if pattern[i] == 'H' {
			color = "red"
		}
		fmt.Fprintf(&b, `<span style="color:%s">%s</span>`, color, m)
	}
	return b.String()
}

// splitMorae is a minimal mora splitter: it groups each small-kana (ゃゅょぁぃぅぇぉ
// etc.) onto the preceding character and treats everything else as one mora
// per rune. Full mora segmentation lives in pkg/mora; this is kept local and
// deliberately simple because card rendering only needs morae to line up
// with an existing pattern string, not to compute one.
func splitMorae(s string) []string {
	var morae []string
	for _, r := range s {
		if isSmallKana(r) && len(morae) > 0 {
			morae[len(morae)-1] += string(r)
			continue
		}
		morae = append(morae, string(r))
	}
	return morae
}

func isSmallKana(r rune) bool {
	switch r {
	case 'ゃ', 'ゅ', 'ょ', 'ぁ', 'ぃ', 'ぅ', 'ぇ', 'ぉ',
		'ャ', 'ュ', 'ョ', 'ァ', 'ィ', 'ゥ', 'ェ', 'ォ':
		return true
	}
	return false
}

// ExportTSV writes cards as tab-separated front/back/tags rows, the format
// Anki's "Import File" expects for a three-field note type.
func ExportTSV(w io.Writer, cards []Card) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	for _, c := range cards {
		row := []string{c.Front, c.Back, strings.Join(c.Tags, " ")}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cards: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cards: flush: %w", err)
	}
	return nil
}
