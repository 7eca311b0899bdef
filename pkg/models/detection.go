package models

// Domain is a business area a query can resolve to.
type Domain string

const (
	DomainEquipment Domain = "equipment"
	DomainFault     Domain = "fault"
	DomainWorkOrder Domain = "work_order"
	DomainParts     Domain = "parts"
	DomainInventory Domain = "inventory"
	DomainDocument  Domain = "document"
	DomainSupplier  Domain = "supplier"
)

// Intent is what the user wants to do with the matched records.
type Intent string

const (
	IntentRead   Intent = "READ"
	IntentCreate Intent = "CREATE"
	IntentUpdate Intent = "UPDATE"
	IntentDelete Intent = "DELETE"
)

// SearchMode controls how wide the query plan casts its net.
type SearchMode string

const (
	// ModeFocused narrows the plan to the detected domain's own tables.
	ModeFocused SearchMode = "focused"
	// ModeExplore searches broadly across domains. Used whenever domain
	// confidence is too low to justify narrowing.
	ModeExplore SearchMode = "explore"
)

// DetectionContext is the classifier's verdict on a query. It is built once
// per request and treated as immutable by everything downstream.
type DetectionContext struct {
	// Domain is nil when confidence fell below the classification threshold.
	Domain           *Domain           `json:"domain"`
	DomainConfidence float64           `json:"domain_confidence"`
	Intent           Intent            `json:"intent"`
	IntentConfidence float64           `json:"intent_confidence"`
	Mode             SearchMode        `json:"mode"`
	Entities         []ExtractedEntity `json:"entities"`
}

// Focused reports whether the plan may narrow to a single domain.
func (d *DetectionContext) Focused() bool {
	return d.Mode == ModeFocused && d.Domain != nil
}

// EntitiesOfType returns the extracted entities of the given type, in
// extraction order.
func (d *DetectionContext) EntitiesOfType(t EntityType) []ExtractedEntity {
	var out []ExtractedEntity
	for _, e := range d.Entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
