package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// walletQueryService implements ports.WalletQueryService.
type walletQueryService struct {
	entries  ports.LedgerEntryRepository
	wallets  ports.WalletRepository
	balances ports.WalletBalanceRepository
	log      zerolog.Logger
}

// NewWalletQueryService creates a new wallet query service.
func NewWalletQueryService(
	entries ports.LedgerEntryRepository,
	wallets ports.WalletRepository,
	balances ports.WalletBalanceRepository,
	log zerolog.Logger,
) ports.WalletQueryService {
	return &walletQueryService{
		entries:  entries,
		wallets:  wallets,
		balances: balances,
		log:      log,
	}
}

func (s *walletQueryService) wallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

// GetBalance returns the balance for one currency. A currency the wallet has
// never touched reads as zero.
func (s *walletQueryService) GetBalance(ctx context.Context, userID uuid.UUID, currency domain.Currency) (*ports.BalanceView, error) {
	cur, ok := domain.ParseCurrency(string(currency))
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unsupported currency %q", currency))
	}

	w, err := s.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := s.balances.Get(ctx, w.ID, cur)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if b == nil {
		return &ports.BalanceView{Currency: cur, Balance: decimal.Zero}, nil
	}
	return &ports.BalanceView{Currency: cur, Balance: b.Balance}, nil
}

// GetBalances lists every currency the wallet holds, always including its
// default currency.
func (s *walletQueryService) GetBalances(ctx context.Context, userID uuid.UUID) ([]ports.BalanceView, error) {
	w, err := s.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.balances.ListByWallet(ctx, w.ID)
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	views := make([]ports.BalanceView, 0, len(rows)+1)
	hasDefault := false
	for _, b := range rows {
		if b.Currency == w.DefaultCurrency {
			hasDefault = true
		}
		views = append(views, ports.BalanceView{Currency: b.Currency, Balance: b.Balance})
	}
	if !hasDefault {
		views = append([]ports.BalanceView{{Currency: w.DefaultCurrency, Balance: decimal.Zero}}, views...)
	}
	return views, nil
}

// GetHistory returns one page of the user's ledger, newest first.
func (s *walletQueryService) GetHistory(ctx context.Context, userID uuid.UUID, f domain.HistoryFilter) ([]domain.LedgerEntry, domain.PageMeta, error) {
	if f.Type != "" && !f.Type.IsValid() {
		return nil, domain.PageMeta{}, apperror.Validation(fmt.Sprintf("unknown type %q", f.Type))
	}
	if f.Status != "" && !f.Status.IsValid() {
		return nil, domain.PageMeta{}, apperror.Validation(fmt.Sprintf("unknown status %q", f.Status))
	}
	if f.Currency != "" && !f.Currency.IsSupported() {
		return nil, domain.PageMeta{}, apperror.Validation(fmt.Sprintf("unsupported currency %q", f.Currency))
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.PageMeta{}, apperror.Validation("from must not be after to")
	}
	f.Normalize()

	w, err := s.wallet(ctx, userID)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}

	entries, total, err := s.entries.List(ctx, w.ID, f)
	if err != nil {
		return nil, domain.PageMeta{}, apperror.FromDB(err)
	}
	return entries, domain.NewPageMeta(total, f.Page, f.Limit), nil
}

// CreateWallet is idempotent: a second call returns the existing wallet.
func (s *walletQueryService) CreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	if userID == uuid.Nil {
		return nil, apperror.Validation("user id is required")
	}
	w, err := s.wallets.GetOrCreate(ctx, userID, domain.DefaultCurrency)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	s.log.Info().Str("user_id", userID.String()).Str("wallet_id", w.ID.String()).Msg("wallet ready")
	return w, nil
}
