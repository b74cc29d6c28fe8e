package kana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitialSkipsDecoration(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"（ソフト）アイスランド", "ア"},
		{"Åland", "Å"},
		{"Åland", "Å"}, // decomposed input composes before extraction
		{"「そと」かっこ", "か"},
		{"［註］ウルグアイ", "ウ"},
		{"・ー、。", ""},
		{"（とじない", ""},
		{"", ""},
		{"   ", ""},
		{"　カナダ", "カ"},
		{"--test", "t"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Initial(c.in), "Initial(%q)", c.in)
	}
}

func TestInitialAdvancesByCharacter(t *testing.T) {
	// Characters outside the basic plane must come back whole, not as a
	// broken surrogate half.
	require.Equal(t, "𩸽", Initial("（𩸽）の国"))
}

func TestRowBuckets(t *testing.T) {
	cases := []struct {
		in   rune
		want string
	}{
		{'あ', "a"},
		{'ん', "wa"},
		{'を', "wa"},
		{'や', "ya"},
		{'ア', "a"},  // katakana folds to hiragana
		{'ガ', "ka"}, // fold, then strip dakuten
		{'ぱ', "ha"}, // handakuten stripped
		{'っ', "ta"}, // small kana widened
		{'ゃ', "ya"},
		{'ヶ', "ka"},
		{'A', ""},
		{'ー', ""},
		{'漢', ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Row(c.in), "Row(%q)", string(c.in))
	}
}

func TestRowAgreesAfterDiacriticStripping(t *testing.T) {
	a := Initial("がんま")
	b := Initial("かんた")
	require.Equal(t, Row([]rune(a)[0]), Row([]rune(b)[0]))
	require.Equal(t, "ka", Row([]rune(a)[0]))
}

func TestRowTitle(t *testing.T) {
	require.Equal(t, "あ行", RowTitle("a"))
	require.Equal(t, "わ行", RowTitle("wa"))
	require.Equal(t, "zz", RowTitle("zz"))
}
