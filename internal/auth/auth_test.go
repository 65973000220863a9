package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinbot/internal/storage/stubs"
)

func TestGate_Capability(t *testing.T) {
	store := stubs.NewMockStore(1, 0)
	ctx := context.Background()
	require.NoError(t, store.AddAdmin(ctx, 7))

	gate := NewGate(store)

	cap, err := gate.Capability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Owner, cap)

	cap, err = gate.Capability(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, Admin, cap)

	cap, err = gate.Capability(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, User, cap)
}

func TestGate_DemotionTakesEffectImmediately(t *testing.T) {
	store := stubs.NewMockStore(1, 0)
	ctx := context.Background()
	require.NoError(t, store.AddAdmin(ctx, 7))

	gate := NewGate(store)

	cap, err := gate.Capability(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, Admin, cap)

	require.NoError(t, store.RemoveAdmin(ctx, 7))

	cap, err = gate.Capability(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, User, cap)
}

func TestCapability_AtLeast(t *testing.T) {
	assert.True(t, Owner.AtLeast(Admin))
	assert.True(t, Owner.AtLeast(Owner))
	assert.True(t, Admin.AtLeast(User))
	assert.False(t, Admin.AtLeast(Owner))
	assert.False(t, User.AtLeast(Admin))
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "owner", Owner.String())
	assert.Equal(t, "admin", Admin.String())
	assert.Equal(t, "user", User.String())
}
