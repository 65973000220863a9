package stubs

import (
	"context"
	"sort"
	"sync"
	"time"

	"coinbot/internal/models"
	"coinbot/internal/storage"
)

// MockStore is an in-memory implementation of the storage.Store interface for
// testing. It honors the same atomicity contract as the real backends but
// persists nothing.
type MockStore struct {
	mu           sync.Mutex
	ownerID      int64
	startBalance int64
	accounts     map[int64]models.Account
	codes        map[string]models.PromoCode
	admins       map[int64]bool
}

// NewMockStore creates a mock store with the given owner already in the roster.
func NewMockStore(ownerID, startBalance int64) *MockStore {
	return &MockStore{
		ownerID:      ownerID,
		startBalance: startBalance,
		accounts:     make(map[int64]models.Account),
		codes:        make(map[string]models.PromoCode),
		admins:       map[int64]bool{ownerID: true},
	}
}

func (m *MockStore) Initialize(ctx context.Context) error { return nil }
func (m *MockStore) Close() error                         { return nil }
func (m *MockStore) OwnerID() int64                       { return m.ownerID }

func (m *MockStore) GetOrCreateAccount(ctx context.Context, userID int64) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if acct, ok := m.accounts[userID]; ok {
		return acct, nil
	}
	acct := models.Account{UserID: userID, Balance: m.startBalance}
	m.accounts[userID] = acct
	return acct, nil
}

func (m *MockStore) AdjustBalance(ctx context.Context, userID int64, delta int64) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[userID]
	if !ok {
		acct = models.Account{UserID: userID, Balance: m.startBalance}
	}
	acct.Balance += delta
	m.accounts[userID] = acct
	return acct, nil
}

func (m *MockStore) ClaimLuck(ctx context.Context, userID int64, now time.Time, cooldown time.Duration, payout int64) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[userID]
	if !ok {
		acct = models.Account{UserID: userID, Balance: m.startBalance}
	}
	if acct.LastLuckClaim != nil && now.Sub(*acct.LastLuckClaim) < cooldown {
		return acct, storage.ErrOnCooldown
	}
	claimed := now
	acct.Balance += payout
	acct.LastLuckClaim = &claimed
	m.accounts[userID] = acct
	return acct, nil
}

func (m *MockStore) GetCode(ctx context.Context, code string) (models.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	promo, ok := m.codes[code]
	if !ok {
		return models.PromoCode{}, storage.ErrCodeNotFound
	}
	return promo, nil
}

func (m *MockStore) CreateCode(ctx context.Context, code models.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.codes[code.Code]; ok {
		return storage.ErrCodeExists
	}
	m.codes[code.Code] = code
	return nil
}

func (m *MockStore) RedeemCode(ctx context.Context, code string, userID int64) (int64, models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	promo, ok := m.codes[code]
	if !ok {
		return 0, models.Account{}, storage.ErrCodeNotFound
	}
	if promo.Exhausted() {
		return 0, models.Account{}, storage.ErrCodeExhausted
	}
	promo.Uses++
	m.codes[code] = promo

	acct, ok := m.accounts[userID]
	if !ok {
		acct = models.Account{UserID: userID, Balance: m.startBalance}
	}
	acct.Balance += promo.Value
	m.accounts[userID] = acct
	return promo.Value, acct, nil
}

func (m *MockStore) ListCodes(ctx context.Context) ([]models.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	codes := make([]models.PromoCode, 0, len(m.codes))
	for _, promo := range m.codes {
		codes = append(codes, promo)
	}
	sort.Slice(codes, func(i, j int) bool {
		if !codes[i].CreatedAt.Equal(codes[j].CreatedAt) {
			return codes[i].CreatedAt.Before(codes[j].CreatedAt)
		}
		return codes[i].Code < codes[j].Code
	})
	return codes, nil
}

func (m *MockStore) AddAdmin(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[userID] = true
	return nil
}

func (m *MockStore) RemoveAdmin(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if userID == m.ownerID {
		return storage.ErrIsOwner
	}
	if !m.admins[userID] {
		return storage.ErrNotAdmin
	}
	delete(m.admins, userID)
	return nil
}

func (m *MockStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admins[userID], nil
}

func (m *MockStore) ListAdmins(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.admins))
	for id := range m.admins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
