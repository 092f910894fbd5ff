// Package memory is a process-local ledger store. It honours the same
// locking contract as the Postgres adapter (row locks held until commit,
// writes invisible until commit) and backs the "memory" storage driver and
// the engine's concurrency tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type balanceKey struct {
	walletID uuid.UUID
	currency domain.Currency
}

// Store holds committed state shared by every repository in this package.
type Store struct {
	mu            sync.RWMutex
	entries       map[string]*domain.LedgerEntry
	entrySeq      map[string]int64
	seq           int64
	wallets       map[uuid.UUID]*domain.Wallet
	walletsByUser map[uuid.UUID]uuid.UUID
	balances      map[balanceKey]*domain.WalletBalance
	events        []domain.ProcessorEvent

	locks       *lockTable
	lockTimeout time.Duration
}

// NewStore creates an empty store. lockTimeout bounds every row-lock wait;
// zero waits until the context ends.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		entries:       make(map[string]*domain.LedgerEntry),
		entrySeq:      make(map[string]int64),
		wallets:       make(map[uuid.UUID]*domain.Wallet),
		walletsByUser: make(map[uuid.UUID]uuid.UUID),
		balances:      make(map[balanceKey]*domain.WalletBalance),
		locks:         newLockTable(),
		lockTimeout:   lockTimeout,
	}
}

// lockTable hands out one-slot channels per row key. A slot lives only while
// a transaction holds or waits for it.
type lockTable struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{slots: make(map[string]*lockSlot)}
}

func (l *lockTable) ref(key string) *lockSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *lockTable) unref(key string, s *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *lockTable) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// errLockTimeout mirrors Postgres' lock_not_available so callers classify
// it the same way.
var errLockTimeout = &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}

func (l *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	s := l.ref(key)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	var err error
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		err = ctx.Err()
	case <-expired:
		err = errLockTimeout
	}
	l.unref(key, s)
	return err
}

// release must only be called by the holder of key.
func (l *lockTable) release(key string) {
	l.mu.Lock()
	s := l.slots[key]
	l.mu.Unlock()
	<-s.ch
	l.unref(key, s)
}

func entryLockKey(reference string) string {
	return "entry:" + reference
}

func balanceLockKey(k balanceKey) string {
	return "balance:" + k.walletID.String() + ":" + string(k.currency)
}

func cloneEntry(e *domain.LedgerEntry) *domain.LedgerEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Metadata = maps.Clone(e.Metadata)
	if e.TargetCurrency != nil {
		tc := *e.TargetCurrency
		c.TargetCurrency = &tc
	}
	return &c
}

func cloneBalance(b *domain.WalletBalance) *domain.WalletBalance {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func cloneWallet(w *domain.Wallet) *domain.Wallet {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}
