package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := models.Identity{YachtID: uuid.New(), UserID: "u1", Role: models.RoleCaptain}

	ctx := SetIdentity(context.Background(), identity)
	got, ok := GetIdentity(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)

	_, ok = GetIdentity(context.Background())
	assert.False(t, ok)
}

func TestRequireIdentity(t *testing.T) {
	identity := models.Identity{YachtID: uuid.New(), UserID: "u1", Role: models.RoleCaptain}

	got, err := RequireIdentity(SetIdentity(context.Background(), identity))
	require.NoError(t, err)
	assert.Equal(t, identity, got)

	_, err = RequireIdentity(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentity)

	// Present but unusable identities are rejected too.
	_, err = RequireIdentity(SetIdentity(context.Background(), models.Identity{}))
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentity)
}
