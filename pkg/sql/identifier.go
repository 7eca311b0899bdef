// Package sql provides validation utilities for the search planner: legal
// identifiers for the static capability catalog and an injection screen for
// user-supplied values. Values are always bound parameters regardless; the
// screen rejects hostile input before it reaches the database at all.
package sql

import (
	"fmt"
	"regexp"
)

// identifierPattern is the shape every table and column name in the
// capability catalog must have. Identifiers are interpolated into SQL text
// (values never are), so anything else fails catalog validation outright.
var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidateIdentifier checks that a catalog identifier is safe to appear in
// generated SQL.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("illegal SQL identifier %q", name)
	}
	return nil
}
