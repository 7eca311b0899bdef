package actions

import (
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// Gate filters the action catalog per result and identity.
type Gate interface {
	// Allowed returns the actions the identity may take on the result:
	// actions for the result's type, whose allowed roles include the
	// caller's role (or "any", optionally narrowed by department), and
	// whose state predicate holds for the result's current status.
	//
	// Allowed mutates nothing and touches no storage; calling it twice
	// with the same inputs returns the same set.
	Allowed(result *models.NormalizedResult, identity models.Identity) []models.ActionDescriptor
}

type gate struct {
	catalog []models.ActionDescriptor
}

// NewGate creates a Gate over a validated catalog.
func NewGate(catalog []models.ActionDescriptor) Gate {
	return &gate{catalog: catalog}
}

var _ Gate = (*gate)(nil)

func (g *gate) Allowed(result *models.NormalizedResult, identity models.Identity) []models.ActionDescriptor {
	status := result.Status()

	var allowed []models.ActionDescriptor
	for _, a := range g.catalog {
		if a.AppliesTo != result.Type {
			continue
		}
		if !a.AllowsRole(identity.Role) {
			continue
		}
		if !a.AllowsDepartment(identity.Department) {
			continue
		}
		if !a.RequiredState.Holds(status) {
			continue
		}
		allowed = append(allowed, a)
	}
	return allowed
}
