// Package extract turns raw query text into typed entities by matching
// token n-grams against the gazetteer, longest phrases first, with a
// regex-heuristic fallback for whatever the gazetteer does not know.
package extract

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/gazetteer"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// Match confidence by source. Compound gazetteer phrases are near-certain;
// single-word gazetteer hits are strong; heuristic and fallback matches are
// progressively weaker and classify accordingly downstream.
const (
	ConfidenceCompound  = 0.95
	ConfidenceGazetteer = 0.85
	ConfidenceHeuristic = 0.65
	ConfidenceFallback  = 0.40
)

// negationWindow is how many tokens before a stock-status phrase are
// scanned for a negator. "not low stock" must not read as low stock.
const negationWindow = 2

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "isn't": {}, "aren't": {}, "without": {},
}

// Extractor resolves query text to an ordered entity list. It is a pure
// function of its input and the gazetteer snapshot it reads: no state, no
// side effects, and it never fails; worst case is an empty entity list.
type Extractor interface {
	Extract(ctx context.Context, text string) []models.ExtractedEntity
}

type extractor struct {
	provider *gazetteer.Provider
	logger   *zap.Logger
}

// NewExtractor creates an Extractor over the given gazetteer provider.
func NewExtractor(provider *gazetteer.Provider, logger *zap.Logger) Extractor {
	return &extractor{
		provider: provider,
		logger:   logger.Named("extractor"),
	}
}

var _ Extractor = (*extractor)(nil)

func (e *extractor) Extract(ctx context.Context, text string) []models.ExtractedEntity {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	// One snapshot for the whole request. A concurrent reload must never
	// give the second half of a scan a different phrase table.
	store := e.provider.Current()

	claimed := make([]bool, len(tokens))
	var entities []models.ExtractedEntity

	// Longest-match-first n-gram scan. Span coverage beats weight: a
	// compound phrase claims its tokens before any shorter match gets a
	// look in, so sub-words of a matched phrase never surface as
	// competing entities.
	maxN := store.MaxPhraseTokens()
	if maxN > len(tokens) {
		maxN = len(tokens)
	}
	for n := maxN; n >= 1; n-- {
		for start := 0; start+n <= len(tokens); start++ {
			end := start + n
			if anyClaimed(claimed, start, end) {
				continue
			}
			candidates := store.Lookup(joinNorm(tokens, start, end))
			if len(candidates) == 0 {
				continue
			}

			// Candidates are pre-sorted by weight, then by the fixed
			// type order, so the winner for this span is candidates[0].
			// The losers are discarded outright: the same text is never
			// double-counted as two unrelated entities.
			best := candidates[0]

			entity := models.ExtractedEntity{
				Type:       best.EntityType,
				Value:      best.Value(),
				Confidence: ConfidenceGazetteer,
				Span:       models.Span{Start: start, End: end},
				Source:     models.SourceGazetteer,
				Synonyms:   best.Synonyms,
			}
			if n > 1 {
				entity.Confidence = ConfidenceCompound
			}
			if best.EntityType == models.EntityStockStatus && negatedBefore(tokens, start) {
				// Flag only. Auto-negating would turn "not low stock"
				// into a confident claim about the opposite state.
				entity.Ambiguous = true
				entity.Confidence = ConfidenceFallback
			}

			entities = append(entities, entity)
			claim(claimed, start, end)
		}
	}

	// Whatever the gazetteer left unclaimed goes through the heuristics.
	entities = append(entities, e.classifyResidual(tokens, claimed)...)

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Span.Start < entities[j].Span.Start
	})

	entities = mergeUnitNumbers(entities)

	e.logger.Debug("Extraction complete",
		zap.Int("tokens", len(tokens)),
		zap.Int("entities", len(entities)),
		zap.String("gazetteer_version", store.Version()))

	return entities
}

func anyClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func claim(claimed []bool, start, end int) {
	for i := start; i < end; i++ {
		claimed[i] = true
	}
}

// mergeUnitNumbers folds a bare number directly after an equipment name
// into that entity ("generator" + "1" -> "generator 1"), carrying the unit
// number onto every synonym variant. Installed equipment is named with unit
// designators, so the merged form is what exact matching needs.
func mergeUnitNumbers(entities []models.ExtractedEntity) []models.ExtractedEntity {
	out := entities[:0]
	for i := 0; i < len(entities); i++ {
		cur := entities[i]
		if cur.Type == models.EntityEquipmentName && i+1 < len(entities) {
			next := entities[i+1]
			if next.Type == models.EntityCode && next.Span.Start == cur.Span.End {
				cur.Value = cur.Value + " " + next.Value
				// Copy before appending: the synonym slice is shared with
				// the gazetteer snapshot.
				withUnit := make([]string, len(cur.Synonyms))
				for j, s := range cur.Synonyms {
					withUnit[j] = s + " " + next.Value
				}
				cur.Synonyms = withUnit
				cur.Span.End = next.Span.End
				cur.Confidence = ConfidenceCompound
				i++
			}
		}
		out = append(out, cur)
	}
	return out
}

func negatedBefore(tokens []token, start int) bool {
	low := start - negationWindow
	if low < 0 {
		low = 0
	}
	for i := low; i < start; i++ {
		if _, ok := negators[tokens[i].Norm]; ok {
			return true
		}
	}
	return false
}
