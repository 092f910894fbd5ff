package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const balanceColumns = `id, wallet_id, currency, balance::text, locked_balance::text, created_at, updated_at`

// WalletBalanceRepo implements ports.WalletBalanceRepository.
type WalletBalanceRepo struct {
	pool Pool
}

func NewWalletBalanceRepo(pool Pool) *WalletBalanceRepo {
	return &WalletBalanceRepo{pool: pool}
}

// LockOrCreate inserts a zero row for (walletID, currency) if missing and
// returns the row locked FOR UPDATE. Must be called within a transaction.
func (r *WalletBalanceRepo) LockOrCreate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, currency domain.Currency) (*domain.WalletBalance, error) {
	now := time.Now().UTC()
	insert := `INSERT INTO wallet_balances (id, wallet_id, currency, balance, locked_balance, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4, $5)
		ON CONFLICT (wallet_id, currency) DO NOTHING`

	if _, err := tx.Exec(ctx, insert, uuid.New(), walletID, currency, now, now); err != nil {
		return nil, fmt.Errorf("ensure wallet balance: %w", err)
	}

	query := `SELECT ` + balanceColumns + `
		FROM wallet_balances WHERE wallet_id = $1 AND currency = $2 FOR UPDATE`

	b, err := scanBalance(tx.QueryRow(ctx, query, walletID, currency))
	if err != nil {
		return nil, fmt.Errorf("lock wallet balance: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("wallet balance %s/%s missing after insert", walletID, currency)
	}
	return b, nil
}

// UpdateBalance writes a locked row back.
func (r *WalletBalanceRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, b *domain.WalletBalance) error {
	query := `UPDATE wallet_balances
		SET balance = $1::numeric, locked_balance = $2::numeric, updated_at = $3
		WHERE id = $4`

	tag, err := tx.Exec(ctx, query, b.Balance.String(), b.LockedBalance.String(), b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet balance not found: %s", b.ID)
	}
	return nil
}

// Get reads one balance row without locking. Returns nil, nil when the
// currency has never been touched.
func (r *WalletBalanceRepo) Get(ctx context.Context, walletID uuid.UUID, currency domain.Currency) (*domain.WalletBalance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM wallet_balances WHERE wallet_id = $1 AND currency = $2`

	b, err := scanBalance(r.pool.QueryRow(ctx, query, walletID, currency))
	if err != nil {
		return nil, fmt.Errorf("get wallet balance: %w", err)
	}
	return b, nil
}

// ListByWallet returns every currency row of a wallet ordered by currency.
func (r *WalletBalanceRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletBalance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM wallet_balances WHERE wallet_id = $1 ORDER BY currency`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list wallet balances: %w", err)
	}
	defer rows.Close()

	var balances []domain.WalletBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet balance row: %w", err)
		}
		balances = append(balances, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet balance rows: %w", err)
	}
	return balances, nil
}

func scanBalance(row pgx.Row) (*domain.WalletBalance, error) {
	var (
		b                    domain.WalletBalance
		balStr, lockedBalStr string
	)
	err := row.Scan(&b.ID, &b.WalletID, &b.Currency, &balStr, &lockedBalStr, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if b.Balance, err = decimal.NewFromString(balStr); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	if b.LockedBalance, err = decimal.NewFromString(lockedBalStr); err != nil {
		return nil, fmt.Errorf("parse locked balance: %w", err)
	}
	return &b, nil
}
