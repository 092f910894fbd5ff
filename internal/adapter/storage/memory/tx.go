package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wallet-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errNoSQL = errors.New("memory: SQL is not supported on an in-memory transaction")

// Tx is a pgx.Tx whose writes are staged until Commit. Row locks taken
// through it are held until Commit or Rollback.
type Tx struct {
	store *Store

	mu       sync.Mutex
	held     []string
	heldSet  map[string]struct{}
	entries  map[string]*domain.LedgerEntry
	balances map[balanceKey]*domain.WalletBalance
	closed   bool
}

func newTx(s *Store) *Tx {
	return &Tx{
		store:    s,
		heldSet:  make(map[string]struct{}),
		entries:  make(map[string]*domain.LedgerEntry),
		balances: make(map[balanceKey]*domain.WalletBalance),
	}
}

func asTx(tx pgx.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: foreign transaction type %T", tx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, pgx.ErrTxClosed
	}
	return t, nil
}

// lock takes the row lock for key unless this transaction already holds it.
func (t *Tx) lock(ctx context.Context, key string) error {
	t.mu.Lock()
	_, ok := t.heldSet[key]
	t.mu.Unlock()
	if ok {
		return nil
	}

	if err := t.store.locks.acquire(ctx, key, t.store.lockTimeout); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		t.store.locks.release(key)
		return pgx.ErrTxClosed
	}
	t.heldSet[key] = struct{}{}
	t.held = append(t.held, key)
	return nil
}

// Commit publishes staged writes and releases every lock.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return pgx.ErrTxClosed
	}

	s := t.store
	s.mu.Lock()
	for ref, e := range t.entries {
		if _, exists := s.entries[ref]; !exists {
			s.seq++
			s.entrySeq[ref] = s.seq
		}
		s.entries[ref] = e
	}
	for k, b := range t.balances {
		s.balances[k] = b
	}
	s.mu.Unlock()

	t.finish()
	return nil
}

// Rollback discards staged writes and releases every lock.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.closed = true
	t.entries = nil
	t.balances = nil
	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.locks.release(t.held[i])
	}
	t.held = nil
	t.heldSet = nil
}

func (t *Tx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("memory: nested transactions are not supported")
}

func (t *Tx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errNoSQL
}

func (t *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return errBatch{}
}

func (t *Tx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *Tx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errNoSQL
}

func (t *Tx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoSQL
}

func (t *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errNoSQL
}

func (t *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{}
}

func (t *Tx) Conn() *pgx.Conn { return nil }

type errRow struct{}

func (errRow) Scan(dest ...any) error { return errNoSQL }

type errBatch struct{}

func (errBatch) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, errNoSQL }
func (errBatch) Query() (pgx.Rows, error)         { return nil, errNoSQL }
func (errBatch) QueryRow() pgx.Row                { return errRow{} }
func (errBatch) Close() error                     { return nil }

// Transactor implements ports.DBTransactor over a Store.
type Transactor struct {
	store *Store
}

func NewTransactor(s *Store) *Transactor {
	return &Transactor{store: s}
}

func (tr *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newTx(tr.store), nil
}
