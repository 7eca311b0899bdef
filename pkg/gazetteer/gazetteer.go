// Package gazetteer holds the curated phrase lists the entity extractor
// matches against. The store is built once at startup from an embedded YAML
// source and is immutable afterwards; a reload builds a fresh store and swaps
// it atomically so no request ever observes a half-updated phrase table.
package gazetteer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// Entry is one phrase registered for an entity type.
type Entry struct {
	EntityType models.EntityType
	Phrase     string
	// Canonical is the value the extractor should emit for this phrase.
	// Empty means the phrase is its own canonical form.
	Canonical string
	// Synonyms are variant surface forms that share this entry's canonical
	// value. They are registered as phrases in their own right and also
	// attached to matches for OR-expansion at query time.
	Synonyms []string
	// Weight is the type's precedence weight, resolved at load time from
	// config defaults plus overrides. Higher wins when the same span
	// matches more than one type.
	Weight int
}

// Value returns the canonical value a match on this entry should carry.
func (e Entry) Value() string {
	if e.Canonical != "" {
		return e.Canonical
	}
	return e.Phrase
}

// Store is an immutable phrase index. Lookups are by exact normalized
// phrase; multi-word handling (n-gram generation, longest-first ordering)
// is the extractor's job.
type Store struct {
	byPhrase        map[string][]Entry
	precedence      map[models.EntityType]int
	maxPhraseTokens int
	version         string
}

// Lookup returns every entry registered for the exact normalized phrase,
// ordered by descending weight, ties broken by the fixed type order.
func (s *Store) Lookup(phrase string) []Entry {
	return s.byPhrase[phrase]
}

// Precedence returns the tie-break weight for an entity type. Types absent
// from the table rank below every configured type.
func (s *Store) Precedence(t models.EntityType) int {
	return s.precedence[t]
}

// MaxPhraseTokens is the longest registered phrase, in tokens. The extractor
// uses it to bound n-gram generation.
func (s *Store) MaxPhraseTokens() int {
	return s.maxPhraseTokens
}

// Version identifies the loaded gazetteer snapshot.
func (s *Store) Version() string {
	return s.version
}

// EntryCount returns the number of indexed phrases.
func (s *Store) EntryCount() int {
	return len(s.byPhrase)
}

// Normalize canonicalizes a phrase for indexing and lookup: lower-cased,
// whitespace collapsed to single spaces.
func Normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// build assembles an immutable store from entries and a resolved precedence
// table. Within a type, duplicate phrases are rejected: a type must map each
// phrase to exactly one canonical value.
func build(entries []Entry, precedence map[models.EntityType]int, version string) (*Store, error) {
	byPhrase := make(map[string][]Entry)
	seen := make(map[string]struct{})
	maxTokens := 1

	for _, e := range entries {
		norm := Normalize(e.Phrase)
		if norm == "" {
			return nil, fmt.Errorf("empty phrase for type %s", e.EntityType)
		}
		key := string(e.EntityType) + "\x00" + norm
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate phrase %q for type %s", norm, e.EntityType)
		}
		seen[key] = struct{}{}

		e.Phrase = norm
		e.Weight = precedence[e.EntityType]
		byPhrase[norm] = append(byPhrase[norm], e)

		if n := len(strings.Fields(norm)); n > maxTokens {
			maxTokens = n
		}
	}

	// Candidates for one phrase sort by weight desc, then by the fixed
	// type order so ties never depend on YAML ordering.
	for phrase := range byPhrase {
		cands := byPhrase[phrase]
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].Weight != cands[j].Weight {
				return cands[i].Weight > cands[j].Weight
			}
			return typeOrder(cands[i].EntityType) < typeOrder(cands[j].EntityType)
		})
	}

	prec := make(map[models.EntityType]int, len(precedence))
	for k, v := range precedence {
		prec[k] = v
	}

	return &Store{
		byPhrase:        byPhrase,
		precedence:      prec,
		maxPhraseTokens: maxTokens,
		version:         version,
	}, nil
}

// typeOrderTable is the documented fixed ordering used to break exact weight
// ties between entity types. Lower index wins.
var typeOrderTable = []models.EntityType{
	models.EntityStockStatus,
	models.EntityFaultCode,
	models.EntityEquipmentName,
	models.EntityEquipmentType,
	models.EntityBrand,
	models.EntityPartName,
	models.EntityDocumentType,
	models.EntityWorkOrderRef,
	models.EntitySymptom,
	models.EntityLocation,
	models.EntitySeverity,
	models.EntityUrgency,
	models.EntityCode,
	models.EntityName,
}

func typeOrder(t models.EntityType) int {
	for i, o := range typeOrderTable {
		if o == t {
			return i
		}
	}
	return len(typeOrderTable)
}
