package service

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"
	"wallet-ledger/pkg/reference"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BalanceEngineImpl implements ports.BalanceEngine. Every call runs in one
// database transaction holding row locks on the entry and on each balance
// it touches.
type BalanceEngineImpl struct {
	entries    ports.LedgerEntryRepository
	wallets    ports.WalletRepository
	balances   ports.WalletBalanceRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
	now        func() time.Time
}

// NewBalanceEngine creates a new BalanceEngineImpl.
func NewBalanceEngine(
	entries ports.LedgerEntryRepository,
	wallets ports.WalletRepository,
	balances ports.WalletBalanceRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *BalanceEngineImpl {
	return &BalanceEngineImpl{
		entries:    entries,
		wallets:    wallets,
		balances:   balances,
		transactor: transactor,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// leg is one signed balance movement.
type leg struct {
	currency domain.Currency
	delta    decimal.Decimal
}

// Adjust applies req atomically. Replaying a reference in its current
// status changes nothing and reports Applied=false.
func (s *BalanceEngineImpl) Adjust(ctx context.Context, req domain.AdjustRequest) (*domain.AdjustResult, error) {
	if err := s.prepare(&req); err != nil {
		return nil, err
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	res, err := s.adjust(ctx, tx, req)
	if err != nil {
		s.log.Debug().Err(err).Str("reference", req.Reference).Msg("adjust rolled back")
		return nil, apperror.FromDB(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.FromDB(fmt.Errorf("commit: %w", err))
	}

	if res.Applied {
		s.log.Info().
			Str("reference", req.Reference).
			Str("wallet_id", req.WalletID.String()).
			Str("operation", string(req.Operation)).
			Str("status", string(res.Entry.Status)).
			Str("amount", res.Entry.Amount.String()).
			Str("currency", string(res.Entry.Currency)).
			Msg("ledger adjusted")
	} else {
		s.log.Debug().Str("reference", req.Reference).Msg("adjust replay, nothing to apply")
	}
	return res, nil
}

// prepare validates req and fills defaults.
func (s *BalanceEngineImpl) prepare(req *domain.AdjustRequest) error {
	op, ok := domain.ParseOperation(string(req.Operation))
	if !ok {
		return apperror.ErrInvalidOperation(fmt.Sprintf("unknown operation %q", req.Operation))
	}
	req.Operation = op

	if req.WalletID == uuid.Nil {
		return apperror.Validation("wallet_id is required")
	}
	if !money.IsValidAmount(req.Amount) {
		return apperror.ErrInvalidAmount()
	}

	cur, ok := domain.ParseCurrency(string(req.Currency))
	if !ok {
		return apperror.Validation(fmt.Sprintf("unsupported currency %q", req.Currency))
	}
	req.Currency = cur

	if req.TargetStatus == "" {
		req.TargetStatus = domain.EntryStatusSuccess
	} else if !req.TargetStatus.IsValid() {
		return apperror.Validation(fmt.Sprintf("unknown status %q", req.TargetStatus))
	}

	if op == domain.OperationConvert {
		if err := prepareConvert(req); err != nil {
			return err
		}
	} else {
		req.TargetCurrency = ""
		req.ConversionRate = decimal.Zero
	}

	req.Reference = strings.TrimSpace(req.Reference)
	if req.Reference == "" {
		req.Reference = reference.New()
	}
	if len(req.Reference) > domain.MaxReferenceLength {
		return apperror.Validation(fmt.Sprintf("reference longer than %d characters", domain.MaxReferenceLength))
	}

	if req.EntryType == "" {
		req.EntryType = op.DefaultEntryType()
	} else if !req.EntryType.IsValid() {
		return apperror.Validation(fmt.Sprintf("unknown entry type %q", req.EntryType))
	}
	return nil
}

// prepareConvert checks the convert fields. Settling a recorded convert
// (failed, reversed) uses the stored rate, so only recording and applying
// need one.
func prepareConvert(req *domain.AdjustRequest) error {
	settling := req.TargetStatus == domain.EntryStatusFailed || req.TargetStatus == domain.EntryStatusReversed

	if req.TargetCurrency != "" || !settling {
		target, ok := domain.ParseCurrency(string(req.TargetCurrency))
		if !ok {
			return apperror.ErrInvalidOperation("convert requires a supported target currency")
		}
		if target == req.Currency {
			return apperror.ErrInvalidOperation("convert target currency must differ from source")
		}
		req.TargetCurrency = target
	}

	if settling && req.ConversionRate.IsZero() {
		return nil
	}
	if !money.IsValidRate(req.ConversionRate) {
		return apperror.ErrInvalidOperation("convert requires a positive conversion rate")
	}
	if !money.InRange(money.Convert(req.Amount, req.ConversionRate)) {
		return apperror.ErrInvalidOperation("converted amount exceeds the storable maximum")
	}
	return nil
}

func (s *BalanceEngineImpl) adjust(ctx context.Context, tx pgx.Tx, req domain.AdjustRequest) (*domain.AdjustResult, error) {
	wallet, err := s.wallets.GetByIDTx(ctx, tx, req.WalletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil || (req.UserID != uuid.Nil && wallet.UserID != req.UserID) {
		return nil, apperror.ErrWalletNotFound()
	}

	entry, created, err := s.lockEntry(ctx, tx, req, wallet)
	if err != nil {
		return nil, err
	}
	if !created {
		if entry.WalletID != req.WalletID {
			return nil, apperror.ErrInvalidOperation("reference belongs to another wallet")
		}
		if entry.Currency != req.Currency {
			return nil, apperror.ErrInvalidOperation("reference was recorded in another currency")
		}
		if recorded := entry.AppliedOperation(); recorded != req.Operation {
			return nil, apperror.ErrInvalidOperation(
				fmt.Sprintf("reference was recorded as %s, not %s", recorded, req.Operation))
		}
		if entry.TargetCurrency != nil && req.TargetCurrency != "" && *entry.TargetCurrency != req.TargetCurrency {
			return nil, apperror.ErrInvalidOperation("reference was recorded with another target currency")
		}
	}

	now := s.now()
	target := req.TargetStatus

	if entry.Status == target && !created {
		res := &domain.AdjustResult{Success: true, Entry: entry}
		if entry.Status == domain.EntryStatusPending && refreshPending(entry, req) {
			entry.UpdatedAt = now
			if err := s.entries.Update(ctx, tx, entry); err != nil {
				return nil, err
			}
			res.Applied = true
		}
		return res, nil
	}

	if created && target == domain.EntryStatusPending {
		// Fresh initiation: the entry is recorded, balances are untouched.
		return &domain.AdjustResult{Success: true, Entry: entry, Applied: true}, nil
	}

	if !entry.Status.CanTransitionTo(target) {
		return nil, apperror.ErrInvalidOperation(
			fmt.Sprintf("entry %s cannot move from %s to %s", entry.Reference, entry.Status, target))
	}

	if entry.Status == domain.EntryStatusPending {
		refreshPending(entry, req)
	}

	var legs []leg
	switch target {
	case domain.EntryStatusSuccess:
		legs = s.applyLegs(entry, req)
	case domain.EntryStatusReversed:
		legs = reverseLegs(entry)
	}

	touched, err := s.moveBalances(ctx, tx, req.WalletID, legs, now)
	if err != nil {
		return nil, err
	}

	entry.Status = target
	entry.UpdatedAt = now
	if err := s.entries.Update(ctx, tx, entry); err != nil {
		return nil, err
	}

	return &domain.AdjustResult{
		Success:  true,
		Entry:    entry,
		Applied:  true,
		Balances: touched,
		Effects:  buildEffects(entry, legs, touched, now),
	}, nil
}

// lockEntry returns the entry for req.Reference locked for this transaction,
// inserting a pending one first when none exists. created is true when this
// call's insert won.
func (s *BalanceEngineImpl) lockEntry(ctx context.Context, tx pgx.Tx, req domain.AdjustRequest, wallet *domain.Wallet) (*domain.LedgerEntry, bool, error) {
	entry, err := s.entries.GetByReferenceForUpdate(ctx, tx, req.Reference)
	if err != nil {
		return nil, false, err
	}
	if entry != nil {
		return entry, false, nil
	}

	now := s.now()
	fresh := &domain.LedgerEntry{
		ID:          uuid.New(),
		Reference:   req.Reference,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      domain.EntryStatusPending,
		Type:        req.EntryType,
		Operation:   req.Operation,
		Currency:    req.Currency,
		Metadata:    maps.Clone(req.Metadata),
		WalletID:    wallet.ID,
		UserID:      wallet.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Operation == domain.OperationConvert {
		tc := req.TargetCurrency
		fresh.TargetCurrency = &tc
	}
	if err := s.entries.InsertPending(ctx, tx, fresh); err != nil {
		return nil, false, err
	}

	entry, err = s.entries.GetByReferenceForUpdate(ctx, tx, req.Reference)
	if err != nil {
		return nil, false, err
	}
	if entry == nil {
		return nil, false, fmt.Errorf("ledger entry %s missing after insert", req.Reference)
	}
	return entry, entry.ID == fresh.ID, nil
}

// refreshPending copies the mutable request fields onto a pending entry and
// reports whether anything changed.
func refreshPending(entry *domain.LedgerEntry, req domain.AdjustRequest) bool {
	changed := false
	if !entry.Amount.Equal(req.Amount) {
		entry.Amount = req.Amount
		changed = true
	}
	if req.Description != "" && entry.Description != req.Description {
		entry.Description = req.Description
		changed = true
	}
	for k, v := range req.Metadata {
		if entry.Metadata == nil {
			entry.Metadata = make(map[string]any, len(req.Metadata))
		}
		if cur, ok := entry.Metadata[k]; !ok || !reflect.DeepEqual(cur, v) {
			entry.Metadata[k] = v
			changed = true
		}
	}
	return changed
}

// applyLegs returns the movements for a pending->success transition and
// records convert details on the entry. The operation is the one the entry
// was recorded with.
func (s *BalanceEngineImpl) applyLegs(entry *domain.LedgerEntry, req domain.AdjustRequest) []leg {
	switch entry.AppliedOperation() {
	case domain.OperationDebit:
		return []leg{{currency: entry.Currency, delta: entry.Amount.Neg()}}
	case domain.OperationConvert:
		target := req.TargetCurrency
		if entry.TargetCurrency != nil {
			target = *entry.TargetCurrency
		}
		converted := money.Convert(entry.Amount, req.ConversionRate)
		entry.TargetCurrency = &target
		entry.RateUsed = decimal.NewNullDecimal(req.ConversionRate)
		if entry.Metadata == nil {
			entry.Metadata = make(map[string]any, 1)
		}
		entry.Metadata[domain.MetaConvertedAmount] = money.Format(converted)
		return []leg{
			{currency: entry.Currency, delta: entry.Amount.Neg()},
			{currency: target, delta: converted},
		}
	default:
		return []leg{{currency: entry.Currency, delta: entry.Amount}}
	}
}

// reverseLegs undoes what a successful entry applied.
func reverseLegs(entry *domain.LedgerEntry) []leg {
	switch entry.AppliedOperation() {
	case domain.OperationDebit:
		return []leg{{currency: entry.Currency, delta: entry.Amount}}
	case domain.OperationConvert:
		converted, ok := entry.ConvertedAmount()
		if !ok && entry.RateUsed.Valid {
			converted = money.Convert(entry.Amount, entry.RateUsed.Decimal)
		}
		legs := []leg{{currency: entry.Currency, delta: entry.Amount}}
		if entry.TargetCurrency != nil {
			legs = append(legs, leg{currency: *entry.TargetCurrency, delta: converted.Neg()})
		}
		return legs
	default:
		return []leg{{currency: entry.Currency, delta: entry.Amount.Neg()}}
	}
}

// moveBalances locks every row legs touch in currency order, checks funds
// and writes the new balances. It returns the post-state rows.
func (s *BalanceEngineImpl) moveBalances(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, legs []leg, now time.Time) ([]domain.WalletBalance, error) {
	if len(legs) == 0 {
		return nil, nil
	}

	currencies := make([]domain.Currency, 0, len(legs))
	for _, l := range legs {
		currencies = append(currencies, l.currency)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })

	rows := make(map[domain.Currency]*domain.WalletBalance, len(currencies))
	for _, c := range currencies {
		if _, ok := rows[c]; ok {
			continue
		}
		b, err := s.balances.LockOrCreate(ctx, tx, walletID, c)
		if err != nil {
			return nil, err
		}
		rows[c] = b
	}

	for _, l := range legs {
		b := rows[l.currency]
		if l.delta.IsNegative() && !b.CanDebit(l.delta.Neg()) {
			return nil, apperror.ErrInsufficientFunds()
		}
		next := b.Balance.Add(l.delta)
		if !money.InRange(next) {
			return nil, apperror.ErrInvalidOperation(
				fmt.Sprintf("%s balance would exceed the storable maximum", l.currency))
		}
		b.Balance = next
	}

	touched := make([]domain.WalletBalance, 0, len(rows))
	for _, c := range currencies {
		b, ok := rows[c]
		if !ok {
			continue
		}
		delete(rows, c)
		b.UpdatedAt = now
		if err := s.balances.UpdateBalance(ctx, tx, b); err != nil {
			return nil, err
		}
		touched = append(touched, *b)
	}
	return touched, nil
}

func buildEffects(entry *domain.LedgerEntry, legs []leg, touched []domain.WalletBalance, now time.Time) []domain.Effect {
	var kind domain.EffectType
	switch entry.Status {
	case domain.EntryStatusSuccess:
		kind = domain.EffectEntrySucceeded
	case domain.EntryStatusFailed:
		kind = domain.EffectEntryFailed
	case domain.EntryStatusReversed:
		kind = domain.EffectEntryReversed
	default:
		return nil
	}

	effects := []domain.Effect{{
		Type:       kind,
		Reference:  entry.Reference,
		WalletID:   entry.WalletID,
		UserID:     entry.UserID,
		EntryType:  entry.Type,
		Currency:   entry.Currency,
		Amount:     entry.Amount,
		OccurredAt: now,
	}}

	post := make(map[domain.Currency]decimal.Decimal, len(touched))
	for _, b := range touched {
		post[b.Currency] = b.Balance
	}
	for _, l := range legs {
		effects = append(effects, domain.Effect{
			Type:       domain.EffectBalanceChanged,
			Reference:  entry.Reference,
			WalletID:   entry.WalletID,
			UserID:     entry.UserID,
			Currency:   l.currency,
			Amount:     l.delta,
			Balance:    post[l.currency],
			OccurredAt: now,
		})
	}
	return effects
}
