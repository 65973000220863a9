package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"coinbot/internal/models"
	"coinbot/internal/storage"
)

const (
	accountsFile = "accounts.json"
	codesFile    = "codes.json"
	adminsFile   = "admins.json"
)

// Store persists the economic state as three JSON documents under a data
// directory. Every mutation rewrites the affected document whole: the new
// content is written to a temp file, fsynced and atomically renamed over the
// old one, so a crash mid-write never leaves a half-updated record. The
// in-memory maps are only updated after the durable write succeeds, which
// keeps memory and disk from diverging on a write failure.
type Store struct {
	dir          string
	ownerID      int64
	startBalance int64

	mu       sync.Mutex
	accounts map[int64]models.Account
	codes    map[string]models.PromoCode
	admins   map[int64]bool
}

type accountRecord struct {
	Balance       int64      `json:"balance"`
	LastLuckClaim *time.Time `json:"last_luck_claim"`
}

type codeRecord struct {
	Value     int64     `json:"value"`
	Uses      int       `json:"uses"`
	MaxUses   int       `json:"max_uses"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a file-backed store rooted at dir. The owner id is
// configuration, not mutable state; it is injected into the roster on load.
func New(dir string, ownerID, startBalance int64) *Store {
	return &Store{
		dir:          dir,
		ownerID:      ownerID,
		startBalance: startBalance,
		accounts:     make(map[int64]models.Account),
		codes:        make(map[string]models.PromoCode),
		admins:       make(map[int64]bool),
	}
}

// Initialize loads the persisted state. Missing files mean empty state. The
// owner is added to the roster even if the persisted file predates it.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var accounts map[int64]accountRecord
	if err := s.loadJSON(accountsFile, &accounts); err != nil {
		return err
	}
	for id, rec := range accounts {
		s.accounts[id] = models.Account{UserID: id, Balance: rec.Balance, LastLuckClaim: rec.LastLuckClaim}
	}

	var codes map[string]codeRecord
	if err := s.loadJSON(codesFile, &codes); err != nil {
		return err
	}
	for code, rec := range codes {
		s.codes[code] = models.PromoCode{
			Code:      code,
			Value:     rec.Value,
			Uses:      rec.Uses,
			MaxUses:   rec.MaxUses,
			CreatedBy: rec.CreatedBy,
			CreatedAt: rec.CreatedAt,
		}
	}

	var admins []int64
	if err := s.loadJSON(adminsFile, &admins); err != nil {
		return err
	}
	for _, id := range admins {
		s.admins[id] = true
	}
	if !s.admins[s.ownerID] {
		s.admins[s.ownerID] = true
		if err := s.saveAdmins(); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op: every mutation is already flushed when it returns.
func (s *Store) Close() error { return nil }

func (s *Store) OwnerID() int64 { return s.ownerID }

func (s *Store) GetOrCreateAccount(ctx context.Context, userID int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, ok := s.accounts[userID]; ok {
		return acct, nil
	}
	acct := models.Account{UserID: userID, Balance: s.startBalance}
	if err := s.saveAccountsWith(acct); err != nil {
		return models.Account{}, err
	}
	s.accounts[userID] = acct
	return acct, nil
}

func (s *Store) AdjustBalance(ctx context.Context, userID int64, delta int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		acct = models.Account{UserID: userID, Balance: s.startBalance}
	}
	acct.Balance += delta
	if err := s.saveAccountsWith(acct); err != nil {
		return models.Account{}, err
	}
	s.accounts[userID] = acct
	return acct, nil
}

func (s *Store) ClaimLuck(ctx context.Context, userID int64, now time.Time, cooldown time.Duration, payout int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		acct = models.Account{UserID: userID, Balance: s.startBalance}
	}
	if acct.LastLuckClaim != nil && now.Sub(*acct.LastLuckClaim) < cooldown {
		return acct, storage.ErrOnCooldown
	}
	claimed := now
	acct.Balance += payout
	acct.LastLuckClaim = &claimed
	if err := s.saveAccountsWith(acct); err != nil {
		return models.Account{}, err
	}
	s.accounts[userID] = acct
	return acct, nil
}

func (s *Store) GetCode(ctx context.Context, code string) (models.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, ok := s.codes[code]
	if !ok {
		return models.PromoCode{}, storage.ErrCodeNotFound
	}
	return promo, nil
}

func (s *Store) CreateCode(ctx context.Context, code models.PromoCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.codes[code.Code]; ok {
		return storage.ErrCodeExists
	}
	if err := s.saveCodesWith(code); err != nil {
		return err
	}
	s.codes[code.Code] = code
	return nil
}

func (s *Store) RedeemCode(ctx context.Context, code string, userID int64) (int64, models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, ok := s.codes[code]
	if !ok {
		return 0, models.Account{}, storage.ErrCodeNotFound
	}
	if promo.Exhausted() {
		return 0, models.Account{}, storage.ErrCodeExhausted
	}

	promo.Uses++
	acct, ok := s.accounts[userID]
	if !ok {
		acct = models.Account{UserID: userID, Balance: s.startBalance}
	}
	acct.Balance += promo.Value

	if err := s.saveCodesWith(promo); err != nil {
		return 0, models.Account{}, err
	}
	if err := s.saveAccountsWith(acct); err != nil {
		// Roll the codes document back to the uncommitted in-memory state.
		if rbErr := s.saveCodesWith(s.codes[code]); rbErr != nil {
			return 0, models.Account{}, fmt.Errorf("failed to persist redemption (rollback also failed: %v): %w", rbErr, err)
		}
		return 0, models.Account{}, err
	}

	s.codes[code] = promo
	s.accounts[userID] = acct
	return promo.Value, acct, nil
}

func (s *Store) ListCodes(ctx context.Context) ([]models.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes := make([]models.PromoCode, 0, len(s.codes))
	for _, promo := range s.codes {
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

func (s *Store) AddAdmin(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.admins[userID] {
		return nil
	}
	s.admins[userID] = true
	if err := s.saveAdmins(); err != nil {
		delete(s.admins, userID)
		return err
	}
	return nil
}

func (s *Store) RemoveAdmin(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == s.ownerID {
		return storage.ErrIsOwner
	}
	if !s.admins[userID] {
		return storage.ErrNotAdmin
	}
	delete(s.admins, userID)
	if err := s.saveAdmins(); err != nil {
		s.admins[userID] = true
		return err
	}
	return nil
}

func (s *Store) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admins[userID], nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.admins))
	for id := range s.admins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// saveAccountsWith persists the accounts document with the given account
// replacing its current record. Callers hold s.mu and commit to s.accounts
// only after this returns nil.
func (s *Store) saveAccountsWith(acct models.Account) error {
	out := make(map[int64]accountRecord, len(s.accounts)+1)
	for id, a := range s.accounts {
		out[id] = accountRecord{Balance: a.Balance, LastLuckClaim: a.LastLuckClaim}
	}
	out[acct.UserID] = accountRecord{Balance: acct.Balance, LastLuckClaim: acct.LastLuckClaim}
	return s.writeAtomic(accountsFile, out)
}

func (s *Store) saveCodesWith(promo models.PromoCode) error {
	out := make(map[string]codeRecord, len(s.codes)+1)
	for code, c := range s.codes {
		out[code] = codeRecord{Value: c.Value, Uses: c.Uses, MaxUses: c.MaxUses, CreatedBy: c.CreatedBy, CreatedAt: c.CreatedAt}
	}
	out[promo.Code] = codeRecord{Value: promo.Value, Uses: promo.Uses, MaxUses: promo.MaxUses, CreatedBy: promo.CreatedBy, CreatedAt: promo.CreatedAt}
	return s.writeAtomic(codesFile, out)
}

func (s *Store) saveAdmins() error {
	ids := make([]int64, 0, len(s.admins))
	for id := range s.admins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return s.writeAtomic(adminsFile, ids)
}

func (s *Store) loadJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// writeAtomic writes v as JSON to a temp file in the data directory, flushes
// it to disk and renames it over the target document.
func (s *Store) writeAtomic(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
