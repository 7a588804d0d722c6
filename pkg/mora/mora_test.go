package mora

import "testing"

func TestCountMora(t *testing.T) {
	cases := []struct {
		name    string
		reading string
		want    int
	}{
		{"empty", "", 0},
		{"plain", "たべる", 3},
		{"small_kana_ya", "きゃく", 2},
		{"sokuon_counts", "がっこう", 4},
		{"long_vowel_mark", "ラーメン", 4},
		{"n_counts", "ほん", 2},
		{"mixed_small_and_sokuon", "しゅっちょう", 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CountMora(c.reading); got != c.want {
				t.Errorf("CountMora(%q) = %d, want %d", c.reading, got, c.want)
			}
		})
	}
}

func TestKataToHiraRoundTripsMora(t *testing.T) {
	for _, s := range []string{"タベル", "キャク", "ガッコウ", "ラーメン", "ホン", ""} {
		if got, want := CountMora(KataToHira(s)), CountMora(s); got != want {
			t.Errorf("CountMora(KataToHira(%q)) = %d, want %d", s, got, want)
		}
	}
}

func TestEndsWithSpecialMora(t *testing.T) {
	cases := []struct {
		reading string
		want    bool
	}{
		{"ほん", true},
		{"がっ", true},
		{"ラー", true},
		{"たべる", false},
		{"とう", false},
		{"こおう", true},
		{"", false},
	}
	for _, c := range cases {
		if got := EndsWithSpecialMora(c.reading); got != c.want {
			t.Errorf("EndsWithSpecialMora(%q) = %v, want %v", c.reading, got, c.want)
		}
	}
}

func TestTrailingSpecialMoraCount(t *testing.T) {
	cases := []struct {
		reading string
		want    int
	}{
		{"にほんん", 2},
		{"たべる", 0},
		{"ー", 1},
		{"", 0},
	}
	for _, c := range cases {
		if got := TrailingSpecialMoraCount(c.reading); got != c.want {
			t.Errorf("TrailingSpecialMoraCount(%q) = %d, want %d", c.reading, got, c.want)
		}
	}
}

// FuzzCountMora verifies CountMora never panics and is stable under a
// katakana/hiragana round trip: count_mora(kata_to_hira(s)) == count_mora(s).
func FuzzCountMora(f *testing.F) {
	f.Add("たべる")
	f.Add("")
	f.Add("ラーメン")
	f.Add("キャ")
	f.Add("\xff\xfe")

	f.Fuzz(func(t *testing.T, s string) {
		got := CountMora(s)
		if got < 0 {
			t.Fatalf("CountMora(%q) returned negative %d", s, got)
		}
		if got2 := CountMora(KataToHira(s)); got2 != got {
			t.Fatalf("CountMora(KataToHira(%q))=%d != CountMora(%q)=%d", s, got2, s, got)
		}
	})
}
