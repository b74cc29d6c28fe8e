// Package kana provides the text classification primitives used to
// derive initial-letter quiz themes: initial-character extraction that
// skips decorative punctuation, and bucketing of kana characters into
// the ten gojūon rows.
package kana

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// leadSkip is the set of loose characters ignored when looking for a
// name's initial: quotes, mid-dots, hyphens and sentence punctuation in
// both half- and full-width forms.
var leadSkip = map[rune]struct{}{}

func init() {
	const skip = "\"'“”‘’〝〟・･·" +
		"-‐‑–—−ー~〜" +
		"。、．，.,　 " +
		")）]］}｝」』】〉》〕" // stray closers with no opener
	for _, r := range skip {
		leadSkip[r] = struct{}{}
	}
}

// bracketPairs maps opening brackets to their closing counterpart. A
// leading bracketed group is an annotation, not part of the name, so
// the whole group is skipped.
var bracketPairs = map[rune]rune{
	'(': ')', '（': '）',
	'[': ']', '［': '］',
	'{': '}', '｛': '｝',
	'「': '」', '『': '』',
	'【': '】', '〈': '〉',
	'《': '》', '〔': '〕',
}

// Initial returns the first character of s that is neither decorative
// punctuation nor part of a leading bracketed annotation, after NFC
// normalization and whitespace trimming. The result is a string because
// the character may be outside the basic plane; it is empty when
// nothing remains.
func Initial(s string) string {
	runes := []rune(strings.TrimSpace(norm.NFC.String(s)))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if closing, ok := bracketPairs[r]; ok {
			for i++; i < len(runes) && runes[i] != closing; i++ {
			}
			continue
		}
		if _, ok := leadSkip[r]; ok {
			continue
		}
		return string(r)
	}
	return ""
}

// smallToLarge folds small and contracted kana to their full-size
// equivalents before row classification.
var smallToLarge = map[rune]rune{
	'ぁ': 'あ', 'ぃ': 'い', 'ぅ': 'う', 'ぇ': 'え', 'ぉ': 'お',
	'っ': 'つ',
	'ゃ': 'や', 'ゅ': 'ゆ', 'ょ': 'よ',
	'ゎ': 'わ', 'ゕ': 'か', 'ゖ': 'け',
}

// rowMembers maps each row key to the hiragana belonging to it.
var rowMembers = map[string]string{
	"a":  "あいうえお",
	"ka": "かきくけこ",
	"sa": "さしすせそ",
	"ta": "たちつてと",
	"na": "なにぬねの",
	"ha": "はひふへほ",
	"ma": "まみむめも",
	"ya": "やゆよ",
	"ra": "らりるれろ",
	"wa": "わをん",
}

// rowTitles maps row keys to their display labels.
var rowTitles = map[string]string{
	"a":  "あ行",
	"ka": "か行",
	"sa": "さ行",
	"ta": "た行",
	"na": "な行",
	"ha": "は行",
	"ma": "ま行",
	"ya": "や行",
	"ra": "ら行",
	"wa": "わ行",
}

// RowKeys lists the row keys in gojūon order.
var RowKeys = []string{"a", "ka", "sa", "ta", "na", "ha", "ma", "ya", "ra", "wa"}

const (
	katakanaLo = 0x30A1 // ァ
	katakanaHi = 0x30F6 // ヶ
	kataToHira = 0x60
)

// Row classifies r into one of the ten gojūon rows and returns the row
// key ("a" through "wa"), or "" when r is not a kana character.
// Katakana is folded to hiragana, voicing marks are stripped, and small
// kana are widened before the membership check.
func Row(r rune) string {
	// Recompose in case the caller hands us a decomposed base+mark pair's
	// base; single runes normalize to themselves otherwise.
	if c := norm.NFC.String(string(r)); c != "" {
		r, _ = firstRune(c)
	}

	if r >= katakanaLo && r <= katakanaHi {
		r -= kataToHira
	}

	// Decompose to base+mark and keep the base only, discarding the
	// (han)dakuten: が → か, ぱ → は.
	for _, d := range norm.NFD.String(string(r)) {
		r = d
		break
	}

	if full, ok := smallToLarge[r]; ok {
		r = full
	}

	for _, key := range RowKeys {
		if strings.ContainsRune(rowMembers[key], r) {
			return key
		}
	}
	return ""
}

// RowTitle returns the display label for a row key, e.g. "a" → "あ行".
// Unknown keys come back unchanged.
func RowTitle(key string) string {
	if title, ok := rowTitles[key]; ok {
		return title
	}
	return key
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
