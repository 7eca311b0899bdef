package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

var (
	// faultCodePattern matches engine fault codes like "E047", "SPN-3363"
	// or "P0217": a short letter prefix, optional hyphen, 2+ digits.
	faultCodePattern = regexp.MustCompile(`^[a-z]{1,3}-?\d{2,5}$`)

	// numericPattern matches bare numbers, which surface as generic CODE
	// entities ("generator 1" keeps its unit number searchable).
	numericPattern = regexp.MustCompile(`^\d{1,6}$`)
)

// stopwords are never worth an entity on their own.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "again": {},
	"my": {}, "our": {}, "for": {}, "of": {}, "on": {}, "in": {}, "at": {},
	"to": {}, "and": {}, "or": {}, "it": {}, "its": {}, "this": {}, "that": {},
	"with": {}, "all": {}, "any": {}, "show": {}, "me": {}, "find": {},
	"search": {}, "list": {}, "get": {}, "please": {}, "need": {}, "needs": {},
	"not": {}, "no": {},
}

// classifyResidual runs the fallback heuristics over unclaimed tokens:
// fault-code shapes, bare numbers, and capitalized proper-noun runs. These
// produce lower-confidence entities so downstream stages can weigh them
// against real gazetteer hits.
func (e *extractor) classifyResidual(tokens []token, claimed []bool) []models.ExtractedEntity {
	var out []models.ExtractedEntity

	for i := 0; i < len(tokens); i++ {
		if claimed[i] {
			continue
		}
		t := tokens[i]
		if _, stop := stopwords[t.Norm]; stop {
			continue
		}

		switch {
		case faultCodePattern.MatchString(t.Norm):
			out = append(out, models.ExtractedEntity{
				Type:       models.EntityFaultCode,
				Value:      strings.ToUpper(t.Norm),
				Confidence: ConfidenceHeuristic,
				Span:       models.Span{Start: i, End: i + 1},
				Source:     models.SourceHeuristic,
			})
			claimed[i] = true

		case numericPattern.MatchString(t.Norm):
			out = append(out, models.ExtractedEntity{
				Type:       models.EntityCode,
				Value:      t.Norm,
				Confidence: ConfidenceHeuristic,
				Span:       models.Span{Start: i, End: i + 1},
				Source:     models.SourceHeuristic,
			})
			claimed[i] = true

		case isCapitalized(t.Raw):
			// Extend over a run of adjacent capitalized tokens so
			// "Volvo Penta" style names come out as one candidate.
			end := i + 1
			for end < len(tokens) && !claimed[end] && isCapitalized(tokens[end].Raw) {
				end++
			}
			out = append(out, models.ExtractedEntity{
				Type:       models.EntityName,
				Value:      joinNorm(tokens, i, end),
				Confidence: ConfidenceFallback,
				Span:       models.Span{Start: i, End: end},
				Source:     models.SourceFallback,
			})
			claim(claimed, i, end)
			i = end - 1
		}
	}
	return out
}

// isCapitalized reports whether a raw token starts with an upper-case
// letter. All-caps short tokens count too (brand abbreviations).
func isCapitalized(raw string) bool {
	for _, r := range raw {
		return unicode.IsUpper(r)
	}
	return false
}
