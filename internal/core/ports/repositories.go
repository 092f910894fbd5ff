package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// LedgerEntryRepository persists ledger entries. Methods taking pgx.Tx run
// inside the engine's transaction and take row locks.
type LedgerEntryRepository interface {
	// GetByReferenceForUpdate locks the entry row. Returns nil, nil when absent.
	GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (*domain.LedgerEntry, error)
	// InsertPending inserts the entry unless the reference already exists.
	InsertPending(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	Update(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error)
	List(ctx context.Context, walletID uuid.UUID, filter domain.HistoryFilter) ([]domain.LedgerEntry, int64, error)
}

// WalletRepository persists wallets.
type WalletRepository interface {
	// GetOrCreate returns the user's wallet, creating it with currency as the
	// default when missing.
	GetOrCreate(ctx context.Context, userID uuid.UUID, currency domain.Currency) (*domain.Wallet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
}

// WalletBalanceRepository persists per-currency balance rows. Only the
// balance engine calls the pgx.Tx methods.
type WalletBalanceRepository interface {
	// LockOrCreate returns the locked row, inserting a zero row first if needed.
	LockOrCreate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, currency domain.Currency) (*domain.WalletBalance, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, balance *domain.WalletBalance) error
	Get(ctx context.Context, walletID uuid.UUID, currency domain.Currency) (*domain.WalletBalance, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletBalance, error)
}

// ProcessorEventRepository records every inbound processor delivery.
type ProcessorEventRepository interface {
	Create(ctx context.Context, event *domain.ProcessorEvent) error
	ListByReference(ctx context.Context, reference string) ([]domain.ProcessorEvent, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
