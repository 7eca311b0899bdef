package apperrors

import "errors"

var (
	// ErrServiceUnavailable is returned when every table in a wave was
	// unreachable. Callers must be able to tell this apart from an empty
	// result set, so it is never swallowed into a zero-row success.
	ErrServiceUnavailable = errors.New("search backend unavailable")

	// ErrContractViolation marks internal wiring bugs that must fail loudly:
	// a capability missing yacht scoping, an unioned row without its source
	// tag, an illegal identifier in the static catalog. These are never
	// papered over with defaults in production.
	ErrContractViolation = errors.New("pipeline contract violation")

	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidIdentity = errors.New("invalid identity context")
)

// Code classifies pipeline outcomes for logging and response flags. The
// degraded codes are ordinary values, not errors: they change search mode or
// set response flags, never abort a request.
type Code string

const (
	CodeExtractionDegraded      Code = "EXTRACTION_DEGRADED"
	CodeClassificationAmbiguous Code = "CLASSIFICATION_AMBIGUOUS"
	CodePartialQueryFailure     Code = "PARTIAL_QUERY_FAILURE"
	CodeTotalQueryFailure       Code = "TOTAL_QUERY_FAILURE"
	CodeContractViolation       Code = "CONTRACT_VIOLATION"
)
