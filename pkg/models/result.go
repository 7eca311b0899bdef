package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ResultType is the closed set of record kinds the pipeline can return.
// The value is derived strictly from the table a row was unioned from;
// there is deliberately no "unknown" member and no default branch anywhere
// that maps a present source tag to a generic type.
type ResultType string

const (
	ResultEquipment ResultType = "equipment"
	ResultPart      ResultType = "part"
	ResultWorkOrder ResultType = "work_order"
	ResultFault     ResultType = "fault"
	ResultDocument  ResultType = "document"
	ResultSupplier  ResultType = "supplier"
)

// resultTypes enumerates every valid ResultType for validation.
var resultTypes = map[ResultType]struct{}{
	ResultEquipment: {},
	ResultPart:      {},
	ResultWorkOrder: {},
	ResultFault:     {},
	ResultDocument:  {},
	ResultSupplier:  {},
}

// ParseResultType validates a type token. Unknown tokens are an error, not
// a fallback: misattributing a row's origin breaks action gating downstream.
func ParseResultType(s string) (ResultType, error) {
	rt := ResultType(s)
	if _, ok := resultTypes[rt]; !ok {
		return "", fmt.Errorf("unknown result type %q", s)
	}
	return rt, nil
}

// NormalizedResult is the common shape every candidate table's rows are
// flattened into before action gating and response assembly.
type NormalizedResult struct {
	ID uuid.UUID `json:"id"`

	// SourceTable is the table the row actually came from, carried through
	// the union as a literal tag. Type is always derived from it.
	SourceTable string     `json:"source_table"`
	Type        ResultType `json:"type"`
	Title       string     `json:"title"`

	// Metadata holds the display fields for the source table, keyed by
	// column name. Values are as scanned, nil for SQL NULL.
	Metadata map[string]any `json:"metadata"`
}

// Status returns the row's status metadata field, if present. Action-state
// predicates read it; an absent status is returned as the empty string.
// Part rows carry their state in stock_status, so that key is the fallback.
func (r *NormalizedResult) Status() string {
	for _, key := range []string{"status", "stock_status"} {
		if s, ok := r.Metadata[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
