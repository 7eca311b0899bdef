package extract

import (
	"strings"
	"unicode"
)

// token is one whitespace-delimited unit of the input with its original
// surface form preserved alongside the normalized form used for matching.
type token struct {
	Raw  string // as typed, punctuation trimmed
	Norm string // lower-cased Raw
}

// tokenize splits input into tokens, trimming surrounding punctuation but
// keeping interior apostrophes and hyphens ("won't", "v-belt"). Malformed
// input yields fewer tokens, never an error.
func tokenize(text string) []token {
	fields := strings.Fields(text)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if trimmed == "" {
			continue
		}
		tokens = append(tokens, token{Raw: trimmed, Norm: strings.ToLower(trimmed)})
	}
	return tokens
}

// joinNorm renders tokens[start:end) as a normalized phrase.
func joinNorm(tokens []token, start, end int) string {
	parts := make([]string, 0, end-start)
	for _, t := range tokens[start:end] {
		parts = append(parts, t.Norm)
	}
	return strings.Join(parts, " ")
}
