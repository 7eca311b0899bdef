package models

// RoleAny in an action's allowed_roles list opens the action to every role.
// Department-scoped catalogs can still narrow it via allowed_departments.
const RoleAny Role = "any"

// StatePredicate restricts an action to results in particular states.
// An empty Statuses list means the action applies regardless of state.
type StatePredicate struct {
	Statuses []string `yaml:"statuses" json:"statuses,omitempty"`
}

// Holds reports whether the predicate is satisfied by the given status.
func (p StatePredicate) Holds(status string) bool {
	if len(p.Statuses) == 0 {
		return true
	}
	for _, s := range p.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// ActionDescriptor is one entry of the static next-action catalog.
// The catalog is loaded at startup and never mutated by the pipeline;
// gating is a pure filter over it.
type ActionDescriptor struct {
	ActionID string `yaml:"action_id" json:"action_id"`
	Label    string `yaml:"label" json:"label"`

	// AppliesTo names the result type the action is relevant for.
	AppliesTo ResultType `yaml:"applies_to" json:"applies_to"`

	AllowedRoles       []Role       `yaml:"allowed_roles" json:"allowed_roles"`
	AllowedDepartments []Department `yaml:"allowed_departments,omitempty" json:"allowed_departments,omitempty"`

	RequiredState StatePredicate `yaml:"required_state" json:"required_state"`
}

// AllowsRole reports whether the role may see this action.
func (a ActionDescriptor) AllowsRole(role Role) bool {
	for _, r := range a.AllowedRoles {
		if r == role || r == RoleAny {
			return true
		}
	}
	return false
}

// AllowsDepartment reports whether the department may see this action.
// An empty list means no department restriction.
func (a ActionDescriptor) AllowsDepartment(dep Department) bool {
	if len(a.AllowedDepartments) == 0 {
		return true
	}
	for _, d := range a.AllowedDepartments {
		if d == dep {
			return true
		}
	}
	return false
}
