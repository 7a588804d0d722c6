// Package numeral computes the reading and accent of a numeral+counter
// phrase (e.g. 3本, 1年), applying the phonological alternations
// (gemination, rendaku, suppletive readings) and the Miyazaki-style
// category x numeral override table.
package numeral

import (
	"fmt"

	"github.com/japaniel/pitchaccent/pkg/mora"
	"github.com/japaniel/pitchaccent/pkg/numreading"
)

// categories maps a counter surface to its Miyazaki category label.
var categories = map[string]string{
	"つ": "α", "個": "α", "枚": "α",
	"本": "β", "杯": "β",
	"階": "γ", "軒": "γ",
	"年": "δ", "月": "δ", "週": "δ",
	"回": "ε", "度": "ε",
	"分": "ζ", "秒": "ζ",
	"円": "η",
	"歳": "θ", "才": "θ",
	"時": "ι", "時間": "ι",
	"日": "κ", "日間": "κ",
	"人": "λ", "名": "λ",
	"台": "μ", "匹": "μ", "頭": "μ",
	"番": "ν", "号": "ν",
}

// Category returns the Miyazaki category for a counter surface, and false
// if the counter is not in the closed mapping.
func Category(counter string) (string, bool) {
	c, ok := categories[counter]
	return c, ok
}

type altKey struct {
	numeral int
	counter string
}

// alternations encodes explicit (numeral_reading, counter_reading) pairs
// for (numeral, counter) combinations that undergo gemination, rendaku, or
// a suppletive reading.
var alternations = map[altKey][2]string{
	{1, "本"}: {"いっ", "ぽん"},
	{1, "杯"}: {"いっ", "ぱい"},
	{1, "回"}: {"いっ", "かい"},
	{1, "階"}: {"いっ", "かい"},
	{6, "本"}: {"ろっ", "ぽん"},
	{6, "杯"}: {"ろっ", "ぱい"},
	{6, "回"}: {"ろっ", "かい"},
	{8, "本"}: {"はっ", "ぽん"},
	{8, "杯"}: {"はっ", "ぱい"},
	{8, "回"}: {"はっ", "かい"},
	{10, "本"}: {"じゅっ", "ぽん"},
	{10, "杯"}: {"じゅっ", "ぱい"},
	{10, "回"}: {"じっ", "かい"},

	{3, "本"}: {"さん", "ぼん"},

	{1, "人"}: {"ひと", "り"},
	{2, "人"}: {"ふた", "り"},
	{4, "人"}: {"よ", "にん"},

	{1, "日"}:  {"つい", "たち"},
	{2, "日"}:  {"ふつ", "か"},
	{3, "日"}:  {"みっ", "か"},
	{4, "日"}:  {"よっ", "か"},
	{5, "日"}:  {"いつ", "か"},
	{6, "日"}:  {"むい", "か"},
	{7, "日"}:  {"なの", "か"},
	{8, "日"}:  {"よう", "か"},
	{9, "日"}:  {"ここの", "か"},
	{10, "日"}: {"とお", "か"},
	{14, "日"}: {"じゅうよっ", "か"},
	{20, "日"}: {"はつ", "か"},
	{24, "日"}: {"にじゅうよっ", "か"},

	{4, "時"}: {"よ", "じ"},
	{7, "時"}: {"しち", "じ"},
	{9, "時"}: {"く", "じ"},
}

// defaultCounterReadings gives the plain reading for each counter surface
// when no alternation entry applies.
var defaultCounterReadings = map[string]string{
	"年": "ねん", "月": "がつ", "日": "にち", "時": "じ",
	"分": "ふん", "秒": "びょう", "人": "にん", "本": "ほん",
	"回": "かい", "円": "えん", "歳": "さい", "個": "こ",
	"枚": "まい", "台": "だい", "階": "かい", "番": "ばん",
	"つ": "つ", "杯": "はい", "軒": "けん", "週": "しゅう",
	"度": "ど", "分間": "ふんかん", "名": "めい", "匹": "ひき",
	"頭": "とう", "号": "ごう",
}

// overrides maps (numeral, category) to a rule code: 0 normal sandhi,
// 1 force heiban, 2 accent on counter's first mora, 3 accent on counter's
// last mora.
var overrides = map[int]map[string]int{
	1:  {"δ": 1, "λ": 0, "β": 2, "η": 1, "ε": 2, "ι": 2, "κ": 0},
	2:  {"δ": 1, "λ": 0, "β": 2, "η": 1, "ε": 1, "ι": 2, "κ": 0},
	3:  {"δ": 1, "λ": 1, "β": 0, "η": 1, "ε": 1, "ι": 2, "κ": 0},
	4:  {"δ": 1, "λ": 1, "β": 2, "η": 1, "ε": 1, "ι": 2, "κ": 0},
	5:  {"δ": 1, "λ": 2, "β": 2, "η": 1, "ε": 1, "ι": 2, "κ": 0},
	6:  {"δ": 1, "λ": 2, "β": 0, "η": 1, "ε": 0, "ι": 2, "κ": 0},
	7:  {"δ": 1, "λ": 2, "β": 2, "η": 1, "ε": 1, "ι": 2, "κ": 0},
	8:  {"δ": 1, "λ": 2, "β": 0, "η": 1, "ε": 0, "ι": 2, "κ": 0},
	9:  {"δ": 1, "λ": 2, "β": 2, "η": 1, "ε": 1, "ι": 2, "κ": 0},
	10: {"δ": 1, "λ": 2, "β": 0, "η": 1, "ε": 0, "ι": 2, "κ": 0},
}

// numeralReading gives the default numeral reading, falling back to the
// decimal place-value converter for numerals past those explicitly listed.
func numeralReading(n int) string {
	switch n {
	case 0:
		return "ゼロ"
	case 1:
		return "いち"
	case 2:
		return "に"
	case 3:
		return "さん"
	case 4:
		return "よん"
	case 5:
		return "ご"
	case 6:
		return "ろく"
	case 7:
		return "なな"
	case 8:
		return "はち"
	case 9:
		return "きゅう"
	case 10:
		return "じゅう"
	default:
		return numreading.ToReading(int64(n))
	}
}

// Reading returns the (numeral_reading, counter_reading) pair for a
// numeral+counter combination, applying phonological alternation when one
// is registered and falling back to default readings otherwise.
func Reading(n int, counter string) (numReading, counterReading string) {
	if alt, ok := alternations[altKey{n, counter}]; ok {
		return alt[0], alt[1]
	}
	counterReading, ok := defaultCounterReadings[counter]
	if !ok {
		counterReading = counter
	}
	return numeralReading(n), counterReading
}

// Result is the outcome of computing a numeral+counter phrase's accent.
type Result struct {
	Reading string
	Accent  int
	Rule    string
}

// ComputePhrase computes the reading and accent of a numeral+counter
// phrase, per the category/numeral override table. Numerals above the
// override table's 1-10 range default to heiban; numerals below it (0 or
// negative) get normal sandhi.
func ComputePhrase(n int, counter string) Result {
	category, hasCategory := Category(counter)
	numReading, counterReading := Reading(n, counter)
	fullReading := numReading + counterReading

	if !hasCategory {
		return Result{Reading: fullReading, Accent: 0, Rule: "uncategorized_counter_default_heiban"}
	}

	catOverrides, ok := overrides[n]
	var code int
	if !ok {
		if n > 10 {
			return Result{Reading: fullReading, Accent: 0, Rule: "large_number_default_heiban"}
		}
		code = 0
	} else {
		code, ok = catOverrides[category]
		if !ok {
			code = 0
		}
	}

	numMora := mora.CountMora(numReading)
	counterMora := mora.CountMora(counterReading)
	totalMora := mora.CountMora(fullReading)

	switch code {
	case 0:
		var accent int
		if counterMora <= 2 {
			accent = numMora
		} else {
			accent = numMora + 1
		}
		return Result{Reading: fullReading, Accent: accent, Rule: fmt.Sprintf("normal_sandhi_cat_%s", category)}
	case 1:
		return Result{Reading: fullReading, Accent: 0, Rule: fmt.Sprintf("heiban_cat_%s", category)}
	case 2:
		return Result{Reading: fullReading, Accent: numMora + 1, Rule: fmt.Sprintf("counter_initial_cat_%s", category)}
	case 3:
		return Result{Reading: fullReading, Accent: totalMora, Rule: fmt.Sprintf("counter_final_cat_%s", category)}
	default:
		return Result{Reading: fullReading, Accent: 0, Rule: "unknown"}
	}
}
