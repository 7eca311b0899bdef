// Package actions filters the static next-action catalog down to what a
// given identity may do with a given result. Gating is a pure read-only
// filter; executing a chosen action is someone else's job entirely.
package actions

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

//go:embed data/actions.yaml
var builtinCatalog []byte

type catalogFile struct {
	Actions []models.ActionDescriptor `yaml:"actions"`
}

// LoadCatalog parses the embedded action catalog. Called once at startup;
// the returned slice is treated as immutable from then on.
func LoadCatalog() ([]models.ActionDescriptor, error) {
	return ParseCatalog(builtinCatalog)
}

// ParseCatalog parses a catalog source and validates it: unique action ids,
// a known result type per action, and at least one allowed role.
func ParseCatalog(source []byte) ([]models.ActionDescriptor, error) {
	var file catalogFile
	if err := yaml.Unmarshal(source, &file); err != nil {
		return nil, fmt.Errorf("failed to parse action catalog: %w", err)
	}
	if len(file.Actions) == 0 {
		return nil, fmt.Errorf("action catalog is empty")
	}

	seen := make(map[string]struct{}, len(file.Actions))
	for _, a := range file.Actions {
		if a.ActionID == "" || a.Label == "" {
			return nil, fmt.Errorf("action catalog entry missing id or label")
		}
		if _, dup := seen[a.ActionID]; dup {
			return nil, fmt.Errorf("duplicate action id %q", a.ActionID)
		}
		seen[a.ActionID] = struct{}{}
		if _, err := models.ParseResultType(string(a.AppliesTo)); err != nil {
			return nil, fmt.Errorf("action %s: %w", a.ActionID, err)
		}
		if len(a.AllowedRoles) == 0 {
			return nil, fmt.Errorf("action %s: no allowed roles", a.ActionID)
		}
	}
	return file.Actions, nil
}
