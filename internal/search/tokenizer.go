package search

import (
	"strings"
	"unicode"
)

var reservedWords = map[string]bool{
	"and": true, "or": true, "not": true, "near": true,
}

// cjkTables lists the blocks whose characters are each emitted as an
// individual token rather than merged into a run.
var cjkTables = []*unicode.RangeTable{
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Han, // covers CJK Unified Ideographs, Extension A, and Compatibility Ideographs
	unicode.Hangul,
}

func isCJK(r rune) bool {
	return unicode.IsOneOf(cjkTables, r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ExtractTokens implements the FTS token-extraction rule:
// maximal runs of letters/digits/underscore are one token each; CJK
// characters are always single-rune tokens even mid-run; FTS reserved
// words are discarded case-insensitively; at most 10 tokens survive, in
// order.
func ExtractTokens(query string) []string {
	runes := []rune(query)
	var raw []string

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case isCJK(r):
			raw = append(raw, string(r))
			i++
		case isWordRune(r):
			start := i
			for i < len(runes) && isWordRune(runes[i]) && !isCJK(runes[i]) {
				i++
			}
			raw = append(raw, string(runes[start:i]))
		default:
			i++
		}
	}

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if reservedWords[strings.ToLower(t)] {
			continue
		}
		tokens = append(tokens, t)
		if len(tokens) == 10 {
			break
		}
	}
	return tokens
}
