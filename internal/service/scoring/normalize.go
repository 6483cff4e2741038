// Package scoring implements the reconciliation and scoring core for
// pronunciation assessment: text normalization, sequence alignment,
// insertion/omission classification, and score aggregation.
package scoring

import "strings"

// strippedPunctuation is the character set removed from text before
// tokenization.
const strippedPunctuation = "!\"#$%&()*+,-./:;<=>?@[]^_`{|}~"

// NormalizeText lowercases text, strips punctuation, and splits it into an
// ordered sequence of word tokens. Pure and idempotent: normalizing an
// already-normalized sequence yields the same tokens.
func NormalizeText(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, strings.ToLower(text))
	return strings.Fields(cleaned)
}
