// Package mora counts mora in kana strings and converts between kana
// scripts. A mora is the timing unit of Japanese: one kana character
// counts as one mora except small kana, which attach to the preceding
// one; the long-vowel mark ー and the geminate っ/ッ each count as a
// full mora of their own.
package mora

import "golang.org/x/text/width"

// smallKana are the kana that attach to the preceding mora instead of
// counting as their own. っ/ッ (sokuon) are deliberately excluded: they
// count as one mora for accent purposes even though they're written
// with a small kana.
var smallKana = map[rune]bool{
	'ぁ': true, 'ぃ': true, 'ぅ': true, 'ぇ': true, 'ぉ': true,
	'ゃ': true, 'ゅ': true, 'ょ': true, 'ゎ': true,
	'ァ': true, 'ィ': true, 'ゥ': true, 'ェ': true, 'ォ': true,
	'ャ': true, 'ュ': true, 'ョ': true, 'ヮ': true,
}

// specialMora are the mora that never host an accent nucleus boundary
// shift target in compound sandhi: ん, っ, ー.
var specialMora = map[rune]bool{
	'ん': true, 'っ': true, 'ー': true,
}

var longVowelPairs = map[string]bool{
	"おう": true, "うう": true, "おお": true, "えい": true, "いい": true, "ああ": true,
}

// Normalize folds half-width katakana (occasionally produced by
// tokenizers on loanword fragments) to full-width, since every table in
// this package is keyed on full-width kana.
func Normalize(s string) string {
	return width.Widen.String(s)
}

// CountMora counts the mora in reading. Small kana contribute 0 (they
// attach to the preceding mora); every other code point, including ー
// and っ/ッ, contributes 1.
func CountMora(reading string) int {
	count := 0
	for _, r := range reading {
		if smallKana[r] {
			continue
		}
		count++
	}
	return count
}

// EndsWithSpecialMora reports whether reading ends on ん, っ, ー, or a
// long vowel sequence (おう, うう, おお, えい, いい, ああ).
func EndsWithSpecialMora(reading string) bool {
	runes := []rune(reading)
	if len(runes) == 0 {
		return false
	}
	last := runes[len(runes)-1]
	if specialMora[last] {
		return true
	}
	if len(runes) >= 2 {
		pair := string(runes[len(runes)-2:])
		if longVowelPairs[pair] {
			return true
		}
	}
	return false
}

// TrailingSpecialMoraCount counts how many special-mora characters
// (ん/っ/ー) sit at the end of reading, for the compound engine's
// accent-shift-left rule.
func TrailingSpecialMoraCount(reading string) int {
	runes := []rune(reading)
	count := 0
	for i := len(runes) - 1; i >= 0; i-- {
		if specialMora[runes[i]] {
			count++
			continue
		}
		break
	}
	return count
}

// KataToHira converts katakana code points U+30A1..U+30F6 to their
// hiragana counterparts by subtracting 0x60; every other code point
// passes through unchanged.
func KataToHira(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// HiraToKata converts hiragana code points U+3041..U+3096 to their
// katakana counterparts by adding 0x60; every other code point passes
// through unchanged.
func HiraToKata(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x3041 && r <= 0x3096 {
			runes[i] = r + 0x60
		}
	}
	return string(runes)
}

// IsKana reports whether r lies in the hiragana or katakana block.
func IsKana(r rune) bool {
	return (r >= 0x3041 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF)
}

// CountMoraFallback counts mora for a string with no kana reading
// available: every non-kana code point counts as one mora, a
// best-effort approximation.
func CountMoraFallback(surface string) int {
	count := 0
	for _, r := range surface {
		if IsKana(r) && smallKana[r] {
			continue
		}
		count++
	}
	return count
}
