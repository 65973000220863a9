package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coinbot/internal/models"
	"coinbot/internal/storage"
)

// Store is the Postgres-backed implementation of storage.Store. Read-modify-
// write operations run inside a transaction with row locks so concurrent
// redemptions and claims on the same key serialize on the database.
type Store struct {
	pool         *pgxpool.Pool
	ownerID      int64
	startBalance int64
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, dsn string, ownerID, startBalance int64) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &Store{pool: pool, ownerID: ownerID, startBalance: startBalance}, nil
}

// Initialize seeds the owner into the roster. Tables are managed via
// migrations (see migrations/ directory).
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, s.ownerID)
	if err != nil {
		return fmt.Errorf("failed to seed owner into roster: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) OwnerID() int64 { return s.ownerID }

func (s *Store) GetOrCreateAccount(ctx context.Context, userID int64) (models.Account, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (user_id, balance) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, s.startBalance)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to ensure account %d: %w", userID, err)
	}
	return s.getAccount(ctx, userID)
}

func (s *Store) getAccount(ctx context.Context, userID int64) (models.Account, error) {
	var acct models.Account
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, balance, last_luck_claim FROM accounts WHERE user_id = $1
	`, userID).Scan(&acct.UserID, &acct.Balance, &acct.LastLuckClaim)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to get account %d: %w", userID, err)
	}
	return acct, nil
}

func (s *Store) AdjustBalance(ctx context.Context, userID int64, delta int64) (models.Account, error) {
	var acct models.Account
	err := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (user_id, balance) VALUES ($1, $2 + $3)
		ON CONFLICT (user_id) DO UPDATE SET balance = accounts.balance + $3
		RETURNING user_id, balance, last_luck_claim
	`, userID, s.startBalance, delta).Scan(&acct.UserID, &acct.Balance, &acct.LastLuckClaim)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to adjust balance for %d: %w", userID, err)
	}
	return acct, nil
}

func (s *Store) ClaimLuck(ctx context.Context, userID int64, now time.Time, cooldown time.Duration, payout int64) (models.Account, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (user_id, balance) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, s.startBalance)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to ensure account %d: %w", userID, err)
	}

	var acct models.Account
	err = tx.QueryRow(ctx, `
		SELECT user_id, balance, last_luck_claim FROM accounts WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&acct.UserID, &acct.Balance, &acct.LastLuckClaim)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to lock account %d: %w", userID, err)
	}

	if acct.LastLuckClaim != nil && now.Sub(*acct.LastLuckClaim) < cooldown {
		// No mutation on rejection; the open transaction only held a read lock.
		return acct, storage.ErrOnCooldown
	}

	err = tx.QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $2, last_luck_claim = $3
		WHERE user_id = $1
		RETURNING user_id, balance, last_luck_claim
	`, userID, payout, now).Scan(&acct.UserID, &acct.Balance, &acct.LastLuckClaim)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to record claim for %d: %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Account{}, fmt.Errorf("failed to commit claim for %d: %w", userID, err)
	}
	return acct, nil
}

func (s *Store) GetCode(ctx context.Context, code string) (models.PromoCode, error) {
	var promo models.PromoCode
	err := s.pool.QueryRow(ctx, `
		SELECT code, value, uses, max_uses, created_by, created_at FROM promo_codes WHERE code = $1
	`, code).Scan(&promo.Code, &promo.Value, &promo.Uses, &promo.MaxUses, &promo.CreatedBy, &promo.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PromoCode{}, storage.ErrCodeNotFound
	}
	if err != nil {
		return models.PromoCode{}, fmt.Errorf("failed to get code %s: %w", code, err)
	}
	return promo, nil
}

func (s *Store) CreateCode(ctx context.Context, code models.PromoCode) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO promo_codes (code, value, uses, max_uses, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO NOTHING
	`, code.Code, code.Value, code.Uses, code.MaxUses, code.CreatedBy, code.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create code %s: %w", code.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrCodeExists
	}
	return nil
}

func (s *Store) RedeemCode(ctx context.Context, code string, userID int64) (int64, models.Account, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, models.Account{}, fmt.Errorf("failed to begin redeem transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var value int64
	var uses, maxUses int
	err = tx.QueryRow(ctx, `
		SELECT value, uses, max_uses FROM promo_codes WHERE code = $1 FOR UPDATE
	`, code).Scan(&value, &uses, &maxUses)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, models.Account{}, storage.ErrCodeNotFound
	}
	if err != nil {
		return 0, models.Account{}, fmt.Errorf("failed to lock code %s: %w", code, err)
	}
	if uses >= maxUses {
		return 0, models.Account{}, storage.ErrCodeExhausted
	}

	if _, err := tx.Exec(ctx, `UPDATE promo_codes SET uses = uses + 1 WHERE code = $1`, code); err != nil {
		return 0, models.Account{}, fmt.Errorf("failed to increment uses for %s: %w", code, err)
	}

	var acct models.Account
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (user_id, balance) VALUES ($1, $2 + $3)
		ON CONFLICT (user_id) DO UPDATE SET balance = accounts.balance + $3
		RETURNING user_id, balance, last_luck_claim
	`, userID, s.startBalance, value).Scan(&acct.UserID, &acct.Balance, &acct.LastLuckClaim)
	if err != nil {
		return 0, models.Account{}, fmt.Errorf("failed to credit redemption to %d: %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, models.Account{}, fmt.Errorf("failed to commit redemption of %s: %w", code, err)
	}
	return value, acct, nil
}

func (s *Store) ListCodes(ctx context.Context) ([]models.PromoCode, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, value, uses, max_uses, created_by, created_at
		FROM promo_codes ORDER BY created_at, code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	defer rows.Close()

	var codes []models.PromoCode
	for rows.Next() {
		var promo models.PromoCode
		if err := rows.Scan(&promo.Code, &promo.Value, &promo.Uses, &promo.MaxUses, &promo.CreatedBy, &promo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan code: %w", err)
		}
		codes = append(codes, promo)
	}
	return codes, rows.Err()
}

func (s *Store) AddAdmin(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("failed to add admin %d: %w", userID, err)
	}
	return nil
}

func (s *Store) RemoveAdmin(ctx context.Context, userID int64) error {
	if userID == s.ownerID {
		return storage.ErrIsOwner
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM admins WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to remove admin %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotAdmin
	}
	return nil
}

func (s *Store) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin %d: %w", userID, err)
	}
	return exists, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id FROM admins ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
