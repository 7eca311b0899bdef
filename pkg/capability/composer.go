package capability

import (
	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// PredicateMode selects the match strategy for a wave.
type PredicateMode string

const (
	// ModeExact is case-normalized equality. Cheapest, highest precision.
	ModeExact PredicateMode = "exact"
	// ModeFuzzy is ILIKE substring matching. Runs only when exact
	// under-returned.
	ModeFuzzy PredicateMode = "fuzzy"
)

// Predicate is one entity's contribution to a table query: its value and
// synonym variants OR-ed together across the columns the entity can match.
type Predicate struct {
	EntityType models.EntityType
	Columns    []string
	// Values are the entity's canonical value plus synonyms; variants of
	// one entity always combine with OR.
	Values []string
}

// TableQuery is the plan for one table within a wave. Predicates combine
// with AND: every extracted entity the table understands must match.
type TableQuery struct {
	Capability Capability
	Predicates []Predicate
}

// QueryWave is one UNION ALL batch sharing a match strategy. Waves within a
// tier run in wave order; a later tier runs only if earlier tiers
// under-returned.
type QueryWave struct {
	Tier   int
	Wave   int
	Mode   PredicateMode
	Tables []TableQuery
}

// Composer maps a detection context onto query waves.
type Composer interface {
	Compose(dc *models.DetectionContext) []QueryWave
}

type composer struct {
	catalog []Capability
	logger  *zap.Logger
}

// NewComposer creates a Composer over the given catalog. The catalog must
// already have passed ValidateCatalog.
func NewComposer(catalog []Capability, logger *zap.Logger) Composer {
	return &composer{catalog: catalog, logger: logger.Named("composer")}
}

var _ Composer = (*composer)(nil)

// Compose selects the capabilities triggered by the context's entities,
// groups them into tiers by domain ownership, and emits an exact wave
// before a fuzzy wave per tier. Returns no waves when nothing is
// searchable, which downstream treats as an empty result, not an error.
func (c *composer) Compose(dc *models.DetectionContext) []QueryWave {
	tier1, tier2 := c.selectTables(dc)

	// Deterministic order: tier 1 exact, tier 1 fuzzy, tier 2 exact,
	// tier 2 fuzzy.
	var waves []QueryWave
	waves = appendTierWaves(waves, 1, tier1)
	waves = appendTierWaves(waves, 2, tier2)

	c.logger.Debug("Plan composed",
		zap.Int("tier1_tables", len(tier1)),
		zap.Int("tier2_tables", len(tier2)),
		zap.Int("waves", len(waves)))

	return waves
}

func appendTierWaves(waves []QueryWave, tier int, tables []TableQuery) []QueryWave {
	if len(tables) == 0 {
		return waves
	}
	waves = append(waves,
		QueryWave{Tier: tier, Wave: 0, Mode: ModeExact, Tables: tables},
		QueryWave{Tier: tier, Wave: 1, Mode: ModeFuzzy, Tables: tables},
	)
	return waves
}

// selectTables builds the per-table predicate lists and splits them into
// tiers. In focused mode the detected domain's own tables are Tier 1 and
// other triggered tables Tier 2; in explore mode everything triggered is
// Tier 1, since breadth is the point.
func (c *composer) selectTables(dc *models.DetectionContext) (tier1, tier2 []TableQuery) {
	for _, cap := range c.catalog {
		var preds []Predicate
		for _, e := range dc.Entities {
			cols, ok := cap.EntityColumns[e.Type]
			if !ok {
				continue
			}
			preds = append(preds, Predicate{
				EntityType: e.Type,
				Columns:    cols,
				Values:     e.SearchValues(),
			})
		}
		if len(preds) == 0 {
			continue
		}
		tq := TableQuery{Capability: cap, Predicates: preds}

		if dc.Focused() && !ownsDomain(cap, *dc.Domain) {
			tier2 = append(tier2, tq)
			continue
		}
		tier1 = append(tier1, tq)
	}
	return tier1, tier2
}
