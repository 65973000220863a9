package pg

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgresTC "github.com/testcontainers/testcontainers-go/modules/postgres"

	"coinbot/internal/models"
	"coinbot/internal/storage"
)

const (
	testOwnerID      = int64(1)
	testStartBalance = int64(0)
)

// setupTestDB starts a Postgres container, applies the goose migrations and
// connects a Store to it.
func setupTestDB(t *testing.T) (*Store, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgresTC.Run(ctx,
		"postgres:16-alpine",
		postgresTC.WithDatabase("coinbot_test"),
		postgresTC.WithUsername("postgres"),
		postgresTC.WithPassword("postgres"),
		postgresTC.BasicWaitStrategies(),
	)
	require.NoError(t, err, "Failed to start Postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../../../migrations"), "Failed to run migrations")
	require.NoError(t, db.Close())

	store, err := New(ctx, dsn, testOwnerID, testStartBalance)
	require.NoError(t, err, "Failed to connect to Postgres")
	require.NoError(t, store.Initialize(ctx))

	cleanup := func() {
		store.Close()
		container.Terminate(ctx)
	}
	return store, cleanup
}

func TestPGStore_AccountLifecycle(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	acct, err := store.GetOrCreateAccount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), acct.UserID)
	assert.Equal(t, testStartBalance, acct.Balance)
	assert.Nil(t, acct.LastLuckClaim)

	// Second call returns the existing row untouched.
	acct, err = store.GetOrCreateAccount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, testStartBalance, acct.Balance)

	acct, err = store.AdjustBalance(ctx, 42, 500)
	require.NoError(t, err)
	assert.Equal(t, testStartBalance+500, acct.Balance)

	// Negative deltas are allowed below zero.
	acct, err = store.AdjustBalance(ctx, 42, -600)
	require.NoError(t, err)
	assert.Equal(t, testStartBalance-100, acct.Balance)
}

func TestPGStore_AdjustBalanceCreatesAccount(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	acct, err := store.AdjustBalance(context.Background(), 99, 250)
	require.NoError(t, err)
	assert.Equal(t, testStartBalance+250, acct.Balance)
}

func TestPGStore_ClaimLuck(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	acct, err := store.ClaimLuck(ctx, 42, now, 24*time.Hour, 800)
	require.NoError(t, err)
	assert.Equal(t, testStartBalance+800, acct.Balance)
	require.NotNil(t, acct.LastLuckClaim)

	// Inside the window: rejected with the current account, balance untouched.
	acct, err = store.ClaimLuck(ctx, 42, now.Add(23*time.Hour), 24*time.Hour, 800)
	assert.ErrorIs(t, err, storage.ErrOnCooldown)
	assert.Equal(t, testStartBalance+800, acct.Balance)
	assert.WithinDuration(t, now, *acct.LastLuckClaim, time.Second)

	// Outside the window: granted again with a fresh timestamp.
	acct, err = store.ClaimLuck(ctx, 42, now.Add(25*time.Hour), 24*time.Hour, 100)
	require.NoError(t, err)
	assert.Equal(t, testStartBalance+900, acct.Balance)
	assert.WithinDuration(t, now.Add(25*time.Hour), *acct.LastLuckClaim, time.Second)
}

func TestPGStore_PromoCodes(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	created := time.Now().UTC().Truncate(time.Second)

	promo := models.PromoCode{Code: "WIN2025", Value: 1000, MaxUses: 2, CreatedBy: testOwnerID, CreatedAt: created}
	require.NoError(t, store.CreateCode(ctx, promo))
	assert.ErrorIs(t, store.CreateCode(ctx, promo), storage.ErrCodeExists)

	stored, err := store.GetCode(ctx, "WIN2025")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stored.Value)
	assert.Equal(t, 0, stored.Uses)
	assert.Equal(t, 2, stored.MaxUses)

	_, err = store.GetCode(ctx, "NOPE")
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)

	value, acct, err := store.RedeemCode(ctx, "WIN2025", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), value)
	assert.Equal(t, testStartBalance+1000, acct.Balance)

	value, acct, err = store.RedeemCode(ctx, "WIN2025", 43)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), value)
	assert.Equal(t, testStartBalance+1000, acct.Balance)

	_, _, err = store.RedeemCode(ctx, "WIN2025", 44)
	assert.ErrorIs(t, err, storage.ErrCodeExhausted)

	_, _, err = store.RedeemCode(ctx, "NOPE", 42)
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
}

func TestPGStore_ConcurrentRedemptions(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateCode(ctx, models.PromoCode{
		Code: "RACE", Value: 10, MaxUses: 5, CreatedBy: testOwnerID, CreatedAt: time.Now().UTC(),
	}))

	// Ten concurrent redemptions of a five-use code: exactly five succeed.
	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, _, err := store.RedeemCode(ctx, "RACE", userID)
			results <- err
		}(int64(100 + i))
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, storage.ErrCodeExhausted)
		}
	}
	assert.Equal(t, 5, successes)

	promo, err := store.GetCode(ctx, "RACE")
	require.NoError(t, err)
	assert.Equal(t, 5, promo.Uses)
}

func TestPGStore_AdminRoster(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Initialize seeded the owner.
	isAdmin, err := store.IsAdmin(ctx, testOwnerID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, store.AddAdmin(ctx, 7))
	require.NoError(t, store.AddAdmin(ctx, 7)) // idempotent

	admins, err := store.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{testOwnerID, 7}, admins)

	assert.ErrorIs(t, store.RemoveAdmin(ctx, testOwnerID), storage.ErrIsOwner)
	assert.ErrorIs(t, store.RemoveAdmin(ctx, 999), storage.ErrNotAdmin)

	require.NoError(t, store.RemoveAdmin(ctx, 7))
	isAdmin, err = store.IsAdmin(ctx, 7)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestPGStore_ListCodesOrdered(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i, code := range []string{"CHARLIE", "ALPHA", "BRAVO"} {
		require.NoError(t, store.CreateCode(ctx, models.PromoCode{
			Code: code, Value: 1, MaxUses: 1, CreatedBy: testOwnerID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	codes, err := store.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 3)
	assert.Equal(t, "CHARLIE", codes[0].Code)
	assert.Equal(t, "ALPHA", codes[1].Code)
	assert.Equal(t, "BRAVO", codes[2].Code)
}
