package models

// EntityType identifies the semantic category an extracted phrase belongs to.
// The set is closed: gazetteer sources and heuristics may only produce these.
type EntityType string

const (
	EntityEquipmentName EntityType = "EQUIPMENT_NAME"
	EntityEquipmentType EntityType = "EQUIPMENT_TYPE"
	EntityBrand         EntityType = "BRAND"
	EntityPartName      EntityType = "PART_NAME"
	EntityFaultCode     EntityType = "FAULT_CODE"
	EntityStockStatus   EntityType = "STOCK_STATUS"
	EntityDocumentType  EntityType = "DOCUMENT_TYPE"
	EntityWorkOrderRef  EntityType = "WORK_ORDER_REF"
	EntitySeverity      EntityType = "WARNING_SEVERITY"
	EntityUrgency       EntityType = "URGENCY_LEVEL"
	EntityLocation      EntityType = "LOCATION"
	EntitySymptom       EntityType = "SYMPTOM"
	EntityCode          EntityType = "CODE"
	EntityName          EntityType = "NAME"
)

// EntitySource records which matching layer produced an entity.
type EntitySource string

const (
	SourceGazetteer EntitySource = "gazetteer"
	SourceHeuristic EntitySource = "heuristic"
	SourceFallback  EntitySource = "fallback"
)

// Span marks the token range [Start, End) an entity covers in the input.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of tokens the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one token.
func (s Span) Overlaps(o Span) bool { return s.Start < o.End && o.Start < s.End }

// ExtractedEntity is one typed phrase recognized in the query text.
// Entities are request-scoped values; extraction never mutates shared state.
type ExtractedEntity struct {
	Type       EntityType   `json:"type"`
	Value      string       `json:"value"`
	Confidence float64      `json:"confidence"`
	Span       Span         `json:"span"`
	Source     EntitySource `json:"source"`

	// Ambiguous is set when the surrounding text casts doubt on the match
	// (e.g. a negation immediately before a stock-status phrase). The
	// extractor flags, it never inverts meaning.
	Ambiguous bool `json:"ambiguous,omitempty"`

	// Synonyms holds gazetteer variants of Value that should match with OR
	// semantics when the entity drives a search predicate.
	Synonyms []string `json:"synonyms,omitempty"`
}

// SearchValues returns the value plus its synonym variants, deduplicated,
// in a stable order. These combine with OR in a single predicate.
func (e ExtractedEntity) SearchValues() []string {
	values := make([]string, 0, 1+len(e.Synonyms))
	values = append(values, e.Value)
	for _, s := range e.Synonyms {
		if s != e.Value {
			values = append(values, s)
		}
	}
	return values
}
