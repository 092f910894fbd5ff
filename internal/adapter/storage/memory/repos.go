package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- Ledger entries ---

type LedgerEntryRepo struct {
	store *Store
}

func NewLedgerEntryRepo(s *Store) *LedgerEntryRepo {
	return &LedgerEntryRepo{store: s}
}

func (r *LedgerEntryRepo) GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (*domain.LedgerEntry, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, entryLockKey(reference)); err != nil {
		return nil, err
	}
	return cloneEntry(r.visible(t, reference)), nil
}

func (r *LedgerEntryRepo) InsertPending(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, entryLockKey(e.Reference)); err != nil {
		return err
	}
	if r.visible(t, e.Reference) != nil {
		return nil
	}
	t.mu.Lock()
	t.entries[e.Reference] = cloneEntry(e)
	t.mu.Unlock()
	return nil
}

func (r *LedgerEntryRepo) Update(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, entryLockKey(e.Reference)); err != nil {
		return err
	}
	if r.visible(t, e.Reference) == nil {
		return errNotFound("ledger entry", e.Reference)
	}
	t.mu.Lock()
	t.entries[e.Reference] = cloneEntry(e)
	t.mu.Unlock()
	return nil
}

// visible returns the entry as tx sees it: its own staged write first.
func (r *LedgerEntryRepo) visible(t *Tx, reference string) *domain.LedgerEntry {
	t.mu.Lock()
	staged, ok := t.entries[reference]
	t.mu.Unlock()
	if ok {
		return staged
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.entries[reference]
}

func (r *LedgerEntryRepo) GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return cloneEntry(r.store.entries[reference]), nil
}

func (r *LedgerEntryRepo) List(ctx context.Context, walletID uuid.UUID, f domain.HistoryFilter) ([]domain.LedgerEntry, int64, error) {
	f.Normalize()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	r.store.mu.RLock()
	type ranked struct {
		entry *domain.LedgerEntry
		seq   int64
	}
	var matched []ranked
	for ref, e := range r.store.entries {
		if e.WalletID != walletID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Currency != "" && e.Currency != f.Currency {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.CreatedAt.After(*f.To) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		matched = append(matched, ranked{entry: cloneEntry(e), seq: r.store.entrySeq[ref]})
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.entry.CreatedAt.After(b.entry.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := int64(len(matched))
	start := f.Offset()
	if start >= len(matched) {
		return []domain.LedgerEntry{}, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]domain.LedgerEntry, 0, end-start)
	for _, m := range matched[start:end] {
		page = append(page, *m.entry)
	}
	return page, total, nil
}

// --- Wallets ---

type WalletRepo struct {
	store *Store
}

func NewWalletRepo(s *Store) *WalletRepo {
	return &WalletRepo{store: s}
}

func (r *WalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if id, ok := r.store.walletsByUser[userID]; ok {
		return cloneWallet(r.store.wallets[id]), nil
	}
	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:              uuid.New(),
		UserID:          userID,
		DefaultCurrency: currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.store.wallets[w.ID] = w
	r.store.walletsByUser[userID] = w.ID
	return cloneWallet(w), nil
}

func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return cloneWallet(r.store.wallets[id]), nil
}

func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.walletsByUser[userID]
	if !ok {
		return nil, nil
	}
	return cloneWallet(r.store.wallets[id]), nil
}

func (r *WalletRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	if _, err := asTx(tx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// --- Wallet balances ---

type WalletBalanceRepo struct {
	store *Store
}

func NewWalletBalanceRepo(s *Store) *WalletBalanceRepo {
	return &WalletBalanceRepo{store: s}
}

func (r *WalletBalanceRepo) LockOrCreate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, currency domain.Currency) (*domain.WalletBalance, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	k := balanceKey{walletID: walletID, currency: currency}
	if err := t.lock(ctx, balanceLockKey(k)); err != nil {
		return nil, err
	}

	if b := r.visible(t, k); b != nil {
		return cloneBalance(b), nil
	}

	now := time.Now().UTC()
	b := &domain.WalletBalance{
		ID:            uuid.New(),
		WalletID:      walletID,
		Currency:      currency,
		Balance:       decimal.Zero,
		LockedBalance: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	t.mu.Lock()
	t.balances[k] = b
	t.mu.Unlock()
	return cloneBalance(b), nil
}

func (r *WalletBalanceRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, b *domain.WalletBalance) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	k := balanceKey{walletID: b.WalletID, currency: b.Currency}
	if err := t.lock(ctx, balanceLockKey(k)); err != nil {
		return err
	}
	if r.visible(t, k) == nil {
		return errNotFound("wallet balance", b.ID.String())
	}
	t.mu.Lock()
	t.balances[k] = cloneBalance(b)
	t.mu.Unlock()
	return nil
}

func (r *WalletBalanceRepo) visible(t *Tx, k balanceKey) *domain.WalletBalance {
	t.mu.Lock()
	staged, ok := t.balances[k]
	t.mu.Unlock()
	if ok {
		return staged
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.balances[k]
}

func (r *WalletBalanceRepo) Get(ctx context.Context, walletID uuid.UUID, currency domain.Currency) (*domain.WalletBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return cloneBalance(r.store.balances[balanceKey{walletID: walletID, currency: currency}]), nil
}

func (r *WalletBalanceRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletBalance, error) {
	r.store.mu.RLock()
	var out []domain.WalletBalance
	for k, b := range r.store.balances {
		if k.walletID == walletID {
			out = append(out, *b)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

// --- Processor events ---

type ProcessorEventRepo struct {
	store *Store
}

func NewProcessorEventRepo(s *Store) *ProcessorEventRepo {
	return &ProcessorEventRepo{store: s}
}

func (r *ProcessorEventRepo) Create(ctx context.Context, ev *domain.ProcessorEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events = append(r.store.events, *ev)
	return nil
}

func (r *ProcessorEventRepo) ListByReference(ctx context.Context, reference string) ([]domain.ProcessorEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.ProcessorEvent
	for i := len(r.store.events) - 1; i >= 0; i-- {
		if r.store.events[i].Reference == reference {
			out = append(out, r.store.events[i])
		}
	}
	return out, nil
}

// HealthCheck implements ports.HealthChecker for the memory driver.
type HealthCheck struct{}

func (HealthCheck) Ping(ctx context.Context) error { return nil }
func (HealthCheck) Name() string                   { return "memory" }
