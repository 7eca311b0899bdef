// Package auth maps upstream-validated token claims to the yacht-scoped
// Identity the pipeline consumes, and provides context plumbing for it.
// Signature verification and token issuance happen at the gateway; by the
// time a token reaches this process it has already been validated, so
// claims are decoded without re-verification.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// Claims are the token claims bosun-engine reads.
type Claims struct {
	jwt.RegisteredClaims
	YachtID    string `json:"yacht_id"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// knownRoles guards against junk in the role claim reaching the action
// gate, where an unknown role would silently match nothing.
var knownRoles = map[models.Role]struct{}{
	models.RoleCaptain:       {},
	models.RoleChiefEngineer: {},
	models.RoleEngineer:      {},
	models.RoleCrew:          {},
	models.RoleManager:       {},
}

// IdentityFromToken decodes a validated token's claims into an Identity.
func IdentityFromToken(tokenString string) (models.Identity, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return models.Identity{}, fmt.Errorf("failed to decode token claims: %w", err)
	}
	return IdentityFromClaims(&claims)
}

// IdentityFromClaims validates decoded claims into an Identity.
func IdentityFromClaims(claims *Claims) (models.Identity, error) {
	yachtID, err := uuid.Parse(claims.YachtID)
	if err != nil || yachtID == uuid.Nil {
		return models.Identity{}, fmt.Errorf("%w: missing or malformed yacht_id claim", apperrors.ErrInvalidIdentity)
	}
	if claims.Subject == "" {
		return models.Identity{}, fmt.Errorf("%w: missing subject claim", apperrors.ErrInvalidIdentity)
	}
	role := models.Role(claims.Role)
	if _, ok := knownRoles[role]; !ok {
		return models.Identity{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, claims.Role)
	}

	return models.Identity{
		YachtID:    yachtID,
		UserID:     claims.Subject,
		Role:       role,
		Department: models.Department(claims.Department),
	}, nil
}
