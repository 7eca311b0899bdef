package models

import "github.com/google/uuid"

// Role is a crew member's position for access-control purposes.
type Role string

const (
	RoleCaptain       Role = "captain"
	RoleChiefEngineer Role = "chief_engineer"
	RoleEngineer      Role = "engineer"
	RoleCrew          Role = "crew"
	RoleManager       Role = "manager"
)

// Department groups crew by area of responsibility.
type Department string

const (
	DepartmentEngineering Department = "engineering"
	DepartmentDeck        Department = "deck"
	DepartmentInterior    Department = "interior"
	DepartmentGalley      Department = "galley"
)

// Identity is the yacht-scoped caller context the pipeline trusts.
// Token validation happens upstream; by the time an Identity exists the
// claims behind it have already been verified.
type Identity struct {
	YachtID    uuid.UUID  `json:"yacht_id"`
	UserID     string     `json:"user_id"`
	Role       Role       `json:"role"`
	Department Department `json:"department"`
}

// Valid reports whether the identity carries the minimum fields the
// pipeline requires. A zero yacht ID can never scope a query.
func (i Identity) Valid() bool {
	return i.YachtID != uuid.Nil && i.UserID != "" && i.Role != ""
}
