package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func validClaims(yachtID uuid.UUID) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
		YachtID:          yachtID.String(),
		Role:             "engineer",
		Department:       "engineering",
	}
}

func TestIdentityFromToken(t *testing.T) {
	yachtID := uuid.New()

	identity, err := IdentityFromToken(signedToken(t, validClaims(yachtID)))
	require.NoError(t, err)

	assert.Equal(t, yachtID, identity.YachtID)
	assert.Equal(t, "user-42", identity.UserID)
	assert.Equal(t, models.RoleEngineer, identity.Role)
	assert.Equal(t, models.DepartmentEngineering, identity.Department)
	assert.True(t, identity.Valid())
}

func TestIdentityFromToken_Malformed(t *testing.T) {
	_, err := IdentityFromToken("not-a-token")
	require.Error(t, err)
}

func TestIdentityFromClaims_Validation(t *testing.T) {
	yachtID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(*Claims)
		wantErr error
	}{
		{
			name:    "missing yacht id",
			mutate:  func(c *Claims) { c.YachtID = "" },
			wantErr: apperrors.ErrInvalidIdentity,
		},
		{
			name:    "malformed yacht id",
			mutate:  func(c *Claims) { c.YachtID = "not-a-uuid" },
			wantErr: apperrors.ErrInvalidIdentity,
		},
		{
			name:    "nil yacht id",
			mutate:  func(c *Claims) { c.YachtID = uuid.Nil.String() },
			wantErr: apperrors.ErrInvalidIdentity,
		},
		{
			name:    "missing subject",
			mutate:  func(c *Claims) { c.Subject = "" },
			wantErr: apperrors.ErrInvalidIdentity,
		},
		{
			name:    "unknown role",
			mutate:  func(c *Claims) { c.Role = "stowaway" },
			wantErr: apperrors.ErrInvalidRole,
		},
		{
			name:    "missing role",
			mutate:  func(c *Claims) { c.Role = "" },
			wantErr: apperrors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims(yachtID)
			tt.mutate(&claims)
			_, err := IdentityFromClaims(&claims)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestIdentityFromClaims_DepartmentIsOptional(t *testing.T) {
	claims := validClaims(uuid.New())
	claims.Department = ""

	identity, err := IdentityFromClaims(&claims)
	require.NoError(t, err)
	assert.Empty(t, identity.Department)
	assert.True(t, identity.Valid())
}
