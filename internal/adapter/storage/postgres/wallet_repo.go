package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, user_id, default_currency, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetOrCreate returns the user's wallet, inserting one if none exists.
// Concurrent callers converge on the same row through the user_id unique key.
func (r *WalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	now := time.Now().UTC()
	insert := `INSERT INTO wallets (id, user_id, default_currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, insert, uuid.New(), userID, currency, now, now); err != nil {
		return nil, fmt.Errorf("insert wallet: %w", err)
	}

	w, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("wallet for user %s vanished after insert", userID)
	}
	return w, nil
}

// GetByID fetches a wallet by its UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByUserID fetches the wallet owned by userID.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("get wallet by user id: %w", err)
	}
	return w, nil
}

// GetByIDTx reads a wallet inside tx. The row is key-share locked so it
// cannot change owner while balances are adjusted.
func (r *WalletRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR KEY SHARE`

	w, err := scanWallet(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get wallet in tx: %w", err)
	}
	return w, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.UserID, &w.DefaultCurrency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}
