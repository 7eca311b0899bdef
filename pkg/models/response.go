package models

import "github.com/google/uuid"

// SearchResponse is the pipeline's outbound payload. Rendering and action
// dispatch are the caller's problem; the pipeline only resolves and gates.
type SearchResponse struct {
	Query    string            `json:"query"`
	Entities []ExtractedEntity `json:"entities"`
	Domain   *Domain           `json:"domain"`
	Intent   Intent            `json:"intent"`
	Mode     SearchMode        `json:"mode"`
	Results  []NormalizedResult `json:"results"`

	// ActionsByResult maps each result ID to the actions the caller's
	// identity is permitted to take on it.
	ActionsByResult map[uuid.UUID][]ActionDescriptor `json:"actions_by_result"`

	// Degraded is set when one or more table queries failed or timed out
	// and results were assembled from the remainder. It distinguishes
	// "nothing found" from "search ran short-handed".
	Degraded bool `json:"degraded,omitempty"`
}
