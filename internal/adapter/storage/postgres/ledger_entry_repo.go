package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ledgerEntryColumns = `id, reference, description, amount::text, status, type, operation, rate_used::text,
		currency, target_currency, metadata, wallet_id, user_id, created_at, updated_at`

// LedgerEntryRepo implements ports.LedgerEntryRepository.
type LedgerEntryRepo struct {
	pool Pool
}

// NewLedgerEntryRepo creates a new LedgerEntryRepo.
func NewLedgerEntryRepo(pool Pool) *LedgerEntryRepo {
	return &LedgerEntryRepo{pool: pool}
}

// GetByReferenceForUpdate locks the entry row for the rest of tx.
// Returns nil, nil when no entry has the reference.
func (r *LedgerEntryRepo) GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries WHERE reference = $1 FOR UPDATE`

	e, err := scanLedgerEntry(tx.QueryRow(ctx, query, reference))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry for update: %w", err)
	}
	return e, nil
}

// InsertPending inserts e unless its reference already exists. The caller
// re-locks by reference afterwards so concurrent inserts converge on one row.
func (r *LedgerEntryRepo) InsertPending(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, reference, description, amount, status, type, operation, rate_used,
		currency, target_currency, metadata, wallet_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8::numeric, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (reference) DO NOTHING`

	meta, err := marshalMetadata(e.Metadata)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query,
		e.ID, e.Reference, e.Description, e.Amount.String(), e.Status, e.Type, e.Operation, nullDecimalArg(e.RateUsed),
		e.Currency, e.TargetCurrency, meta, e.WalletID, e.UserID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// Update writes the mutable columns of a locked entry.
func (r *LedgerEntryRepo) Update(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `UPDATE ledger_entries
		SET description = $1, amount = $2::numeric, status = $3, rate_used = $4::numeric,
			target_currency = $5, metadata = $6, updated_at = $7
		WHERE id = $8`

	meta, err := marshalMetadata(e.Metadata)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, query,
		e.Description, e.Amount.String(), e.Status, nullDecimalArg(e.RateUsed),
		e.TargetCurrency, meta, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger entry not found: %s", e.Reference)
	}
	return nil
}

// GetByReference fetches an entry without locking.
func (r *LedgerEntryRepo) GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries WHERE reference = $1`

	e, err := scanLedgerEntry(r.pool.QueryRow(ctx, query, reference))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// List returns one page of a wallet's entries, newest first, and the total
// number of entries matching the filter.
func (r *LedgerEntryRepo) List(ctx context.Context, walletID uuid.UUID, f domain.HistoryFilter) ([]domain.LedgerEntry, int64, error) {
	f.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("wallet_id = $%d", argIdx))
	args = append(args, walletID)
	argIdx++

	if f.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, f.Type)
		argIdx++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, f.Status)
		argIdx++
	}
	if f.Currency != "" {
		conditions = append(conditions, fmt.Sprintf("currency = $%d", argIdx))
		args = append(args, f.Currency)
		argIdx++
	}
	if f.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *f.To)
		argIdx++
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf("description ILIKE '%%' || $%d || '%%'", argIdx))
		args = append(args, s)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM ledger_entries %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT %s
		FROM ledger_entries %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		ledgerEntryColumns, where, argIdx, argIdx+1)
	args = append(args, f.Limit, f.Offset())

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, f.Limit)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ledger entry rows: %w", err)
	}
	return entries, total, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		e         domain.LedgerEntry
		amountStr string
		rateStr   *string
		meta      []byte
	)
	err := row.Scan(
		&e.ID, &e.Reference, &e.Description, &amountStr, &e.Status, &e.Type, &e.Operation, &rateStr,
		&e.Currency, &e.TargetCurrency, &meta, &e.WalletID, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	if rateStr != nil {
		rate, err := decimal.NewFromString(*rateStr)
		if err != nil {
			return nil, fmt.Errorf("parse rate_used: %w", err)
		}
		e.RateUsed = decimal.NewNullDecimal(rate)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &e.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &e, nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return b, nil
}

func nullDecimalArg(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
