package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/storage/memory"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// ledgerHarness runs the real engine over the in-memory store.
type ledgerHarness struct {
	engine   *BalanceEngineImpl
	entries  *memory.LedgerEntryRepo
	wallets  *memory.WalletRepo
	balances *memory.WalletBalanceRepo
	events   *memory.ProcessorEventRepo
}

func newLedgerHarness(t *testing.T) *ledgerHarness {
	t.Helper()
	store := memory.NewStore(2 * time.Second)
	h := &ledgerHarness{
		entries:  memory.NewLedgerEntryRepo(store),
		wallets:  memory.NewWalletRepo(store),
		balances: memory.NewWalletBalanceRepo(store),
		events:   memory.NewProcessorEventRepo(store),
	}
	h.engine = NewBalanceEngine(h.entries, h.wallets, h.balances, memory.NewTransactor(store), zerolog.Nop())
	return h
}

func (h *ledgerHarness) newWallet(t *testing.T) *domain.Wallet {
	t.Helper()
	w, err := h.wallets.GetOrCreate(context.Background(), uuid.New(), domain.CurrencyNGN)
	require.NoError(t, err)
	return w
}

func (h *ledgerHarness) fund(t *testing.T, w *domain.Wallet, currency domain.Currency, amount string) {
	t.Helper()
	_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
		WalletID:  w.ID,
		Operation: domain.OperationFunding,
		Amount:    dec(amount),
		Currency:  currency,
	})
	require.NoError(t, err)
}

func (h *ledgerHarness) balance(t *testing.T, w *domain.Wallet, currency domain.Currency) decimal.Decimal {
	t.Helper()
	b, err := h.balances.Get(context.Background(), w.ID, currency)
	require.NoError(t, err)
	if b == nil {
		return decimal.Zero
	}
	return b.Balance
}

func TestLedger_CreditSumsAreExact(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	rng := rand.New(rand.NewSource(42))

	expected := decimal.Zero
	for i := 0; i < 200; i++ {
		amount := money.FromMinor(rng.Int63n(10_000_000) + 1)
		before := h.balance(t, w, domain.CurrencyNGN)

		op := domain.OperationCredit
		if i%2 == 0 {
			op = domain.OperationFunding
		}
		_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
			WalletID:  w.ID,
			Operation: op,
			Amount:    amount,
			Currency:  domain.CurrencyNGN,
		})
		require.NoError(t, err)

		after := h.balance(t, w, domain.CurrencyNGN)
		require.True(t, before.Add(amount).Equal(after), "step %d: %s + %s != %s", i, before, amount, after)
		expected = expected.Add(amount)
	}
	assert.True(t, expected.Equal(h.balance(t, w, domain.CurrencyNGN)))
}

func TestLedger_TenthsDoNotDrift(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)

	for i := 0; i < 10; i++ {
		h.fund(t, w, domain.CurrencyUSD, "0.10")
	}
	assert.Equal(t, "1.00", money.Format(h.balance(t, w, domain.CurrencyUSD)))
	assert.True(t, dec("1").Equal(h.balance(t, w, domain.CurrencyUSD)))
}

func TestLedger_OverdraftLeavesBalanceUnchanged(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	h.fund(t, w, domain.CurrencyNGN, "99.99")
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		before := h.balance(t, w, domain.CurrencyNGN)
		over := before.Add(money.FromMinor(rng.Int63n(100_000) + 1))
		ref := fmt.Sprintf("OVER-%d", i)

		_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
			Reference: ref,
			WalletID:  w.ID,
			Operation: domain.OperationDebit,
			Amount:    over,
			Currency:  domain.CurrencyNGN,
		})
		require.True(t, apperror.HasCode(err, apperror.CodeInsufficientFunds))
		require.True(t, before.Equal(h.balance(t, w, domain.CurrencyNGN)))

		entry, err := h.entries.GetByReference(context.Background(), ref)
		require.NoError(t, err)
		assert.Nil(t, entry, "rolled back entry must not persist")
	}
}

func TestLedger_ScenarioA_DebitThenOverdraft(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	h.fund(t, w, domain.CurrencyNGN, "1000.00")

	res, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
		WalletID:  w.ID,
		UserID:    w.UserID,
		Operation: domain.OperationDebit,
		Amount:    dec("300.00"),
		Currency:  domain.CurrencyNGN,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusSuccess, res.Entry.Status)
	assert.True(t, dec("700.00").Equal(h.balance(t, w, domain.CurrencyNGN)))

	_, err = h.engine.Adjust(context.Background(), domain.AdjustRequest{
		WalletID:  w.ID,
		UserID:    w.UserID,
		Operation: domain.OperationDebit,
		Amount:    dec("800.00"),
		Currency:  domain.CurrencyNGN,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientFunds))
	assert.True(t, dec("700.00").Equal(h.balance(t, w, domain.CurrencyNGN)))
}

func TestLedger_ScenarioB_Convert(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	h.fund(t, w, domain.CurrencyUSD, "250.00")
	ngnBefore := h.balance(t, w, domain.CurrencyNGN)

	res, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
		WalletID:       w.ID,
		Operation:      domain.OperationConvert,
		Amount:         dec("100"),
		Currency:       domain.CurrencyUSD,
		TargetCurrency: domain.CurrencyNGN,
		ConversionRate: dec("1500"),
	})
	require.NoError(t, err)

	assert.True(t, dec("150.00").Equal(h.balance(t, w, domain.CurrencyUSD)))
	assert.True(t, ngnBefore.Add(dec("150000.00")).Equal(h.balance(t, w, domain.CurrencyNGN)))
	assert.Equal(t, domain.EntryTypeConvert, res.Entry.Type)
}

func TestLedger_ConvertRoundsHalfUp(t *testing.T) {
	tests := []struct {
		amount, rate, want string
	}{
		{"1.00", "0.005", "0.01"},
		{"1.00", "0.004999", "0.00"},
		{"10.01", "1.234567", "12.36"},
		{"3.33", "0.333333", "1.11"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+"x"+tt.rate, func(t *testing.T) {
			h := newLedgerHarness(t)
			w := h.newWallet(t)
			h.fund(t, w, domain.CurrencyNGN, "100.00")

			_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
				WalletID:       w.ID,
				Operation:      domain.OperationConvert,
				Amount:         dec(tt.amount),
				Currency:       domain.CurrencyNGN,
				TargetCurrency: domain.CurrencyEUR,
				ConversionRate: dec(tt.rate),
			})
			require.NoError(t, err)
			assert.True(t, dec("100").Sub(dec(tt.amount)).Equal(h.balance(t, w, domain.CurrencyNGN)))
			assert.True(t, dec(tt.want).Equal(h.balance(t, w, domain.CurrencyEUR)),
				"got %s", h.balance(t, w, domain.CurrencyEUR))
		})
	}
}

func TestLedger_ConvertInsufficientSourceRollsBackBothLegs(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	h.fund(t, w, domain.CurrencyUSD, "10.00")

	_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
		WalletID:       w.ID,
		Operation:      domain.OperationConvert,
		Amount:         dec("10.01"),
		Currency:       domain.CurrencyUSD,
		TargetCurrency: domain.CurrencyGBP,
		ConversionRate: dec("0.8"),
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientFunds))
	assert.True(t, dec("10").Equal(h.balance(t, w, domain.CurrencyUSD)))

	gbp, err := h.balances.Get(context.Background(), w.ID, domain.CurrencyGBP)
	require.NoError(t, err)
	assert.Nil(t, gbp, "lazily created row must roll back too")
}

func TestLedger_ReplayIsIdempotent(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	req := domain.AdjustRequest{
		Reference: "IDEMP-1",
		WalletID:  w.ID,
		Operation: domain.OperationCredit,
		Amount:    dec("42.42"),
		Currency:  domain.CurrencyNGN,
	}

	first, err := h.engine.Adjust(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, first.Applied)
	once := h.balance(t, w, domain.CurrencyNGN)

	second, err := h.engine.Adjust(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)
	assert.True(t, once.Equal(h.balance(t, w, domain.CurrencyNGN)))
}

func TestLedger_ConcurrentCreditsSum(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	h.fund(t, w, domain.CurrencyNGN, "5.55")
	before := h.balance(t, w, domain.CurrencyNGN)

	const n = 64
	amount := dec("10.01")

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
				WalletID:  w.ID,
				Operation: domain.OperationCredit,
				Amount:    amount,
				Currency:  domain.CurrencyNGN,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	want := before.Add(amount.Mul(decimal.NewFromInt(n)))
	assert.True(t, want.Equal(h.balance(t, w, domain.CurrencyNGN)), "want %s got %s", want, h.balance(t, w, domain.CurrencyNGN))
}

func TestLedger_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	h.fund(t, w, domain.CurrencyNGN, "100.00")

	var ok, short atomic.Int64
	var g errgroup.Group
	for i := 0; i < 30; i++ {
		g.Go(func() error {
			_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
				WalletID:  w.ID,
				Operation: domain.OperationDebit,
				Amount:    dec("7.00"),
				Currency:  domain.CurrencyNGN,
			})
			switch {
			case err == nil:
				ok.Add(1)
			case apperror.HasCode(err, apperror.CodeInsufficientFunds):
				short.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(14), ok.Load())
	assert.Equal(t, int64(16), short.Load())
	assert.True(t, dec("2.00").Equal(h.balance(t, w, domain.CurrencyNGN)))
}

func TestLedger_ConcurrentSameReferenceAppliesOnce(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)

	var applied atomic.Int64
	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			res, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
				Reference: "SAME-REF",
				WalletID:  w.ID,
				Operation: domain.OperationFunding,
				Amount:    dec("100.00"),
				Currency:  domain.CurrencyNGN,
			})
			if err != nil {
				return err
			}
			if res.Applied {
				applied.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), applied.Load())
	assert.True(t, dec("100").Equal(h.balance(t, w, domain.CurrencyNGN)))
}

func TestLedger_CurrenciesRunIndependently(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)

	var g errgroup.Group
	for _, c := range []domain.Currency{domain.CurrencyNGN, domain.CurrencyUSD, domain.CurrencyGBP, domain.CurrencyEUR} {
		for i := 0; i < 10; i++ {
			g.Go(func() error {
				_, err := h.engine.Adjust(context.Background(), domain.AdjustRequest{
					WalletID:  w.ID,
					Operation: domain.OperationCredit,
					Amount:    dec("1.25"),
					Currency:  c,
				})
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	rows, err := h.balances.ListByWallet(context.Background(), w.ID)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, b := range rows {
		assert.True(t, dec("12.50").Equal(b.Balance), "%s: %s", b.Currency, b.Balance)
	}
}

func TestLedger_PendingThenSuccess(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()

	res, err := h.engine.Adjust(ctx, domain.AdjustRequest{
		Reference:    "CHK-1",
		WalletID:     w.ID,
		Operation:    domain.OperationFunding,
		Amount:       dec("500.00"),
		Currency:     domain.CurrencyNGN,
		Description:  "Checkout",
		TargetStatus: domain.EntryStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusPending, res.Entry.Status)
	assert.Empty(t, res.Effects)
	assert.True(t, h.balance(t, w, domain.CurrencyNGN).IsZero())

	// Processor settles a different amount; the pending entry follows it.
	res, err = h.engine.Adjust(ctx, domain.AdjustRequest{
		Reference: "CHK-1",
		WalletID:  w.ID,
		Operation: domain.OperationFunding,
		Amount:    dec("499.50"),
		Currency:  domain.CurrencyNGN,
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "Checkout", res.Entry.Description)
	assert.True(t, dec("499.50").Equal(res.Entry.Amount))
	assert.True(t, dec("499.50").Equal(h.balance(t, w, domain.CurrencyNGN)))

	stored, err := h.entries.GetByReference(ctx, "CHK-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusSuccess, stored.Status)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt) || stored.UpdatedAt.Equal(stored.CreatedAt))
}

func TestLedger_FailedIsTerminal(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()
	req := domain.AdjustRequest{
		Reference:    "TF-1",
		WalletID:     w.ID,
		Operation:    domain.OperationCredit,
		Amount:       dec("20"),
		Currency:     domain.CurrencyNGN,
		TargetStatus: domain.EntryStatusFailed,
	}

	res, err := h.engine.Adjust(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusFailed, res.Entry.Status)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, domain.EffectEntryFailed, res.Effects[0].Type)
	assert.True(t, h.balance(t, w, domain.CurrencyNGN).IsZero())

	req.TargetStatus = domain.EntryStatusSuccess
	_, err = h.engine.Adjust(ctx, req)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOperation))
	assert.True(t, h.balance(t, w, domain.CurrencyNGN).IsZero())
}

func TestLedger_Reversal(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()
	req := domain.AdjustRequest{
		Reference: "TR-1",
		WalletID:  w.ID,
		Operation: domain.OperationCredit,
		Amount:    dec("75.25"),
		Currency:  domain.CurrencyNGN,
	}

	_, err := h.engine.Adjust(ctx, req)
	require.NoError(t, err)
	assert.True(t, dec("75.25").Equal(h.balance(t, w, domain.CurrencyNGN)))

	req.TargetStatus = domain.EntryStatusReversed
	res, err := h.engine.Adjust(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusReversed, res.Entry.Status)
	assert.Equal(t, domain.EffectEntryReversed, res.Effects[0].Type)
	assert.True(t, h.balance(t, w, domain.CurrencyNGN).IsZero())

	res, err = h.engine.Adjust(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.Applied, "second reversal is a replay")
	assert.True(t, h.balance(t, w, domain.CurrencyNGN).IsZero())
}

func TestLedger_ReversalNeedsFunds(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()
	credit := domain.AdjustRequest{
		Reference: "TR-2",
		WalletID:  w.ID,
		Operation: domain.OperationCredit,
		Amount:    dec("50"),
		Currency:  domain.CurrencyNGN,
	}
	_, err := h.engine.Adjust(ctx, credit)
	require.NoError(t, err)

	_, err = h.engine.Adjust(ctx, domain.AdjustRequest{
		WalletID:  w.ID,
		Operation: domain.OperationDebit,
		Amount:    dec("30"),
		Currency:  domain.CurrencyNGN,
	})
	require.NoError(t, err)

	credit.TargetStatus = domain.EntryStatusReversed
	_, err = h.engine.Adjust(ctx, credit)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientFunds))
	assert.True(t, dec("20").Equal(h.balance(t, w, domain.CurrencyNGN)))

	stored, _ := h.entries.GetByReference(ctx, "TR-2")
	assert.Equal(t, domain.EntryStatusSuccess, stored.Status)
}

func TestLedger_DebitAndConvertReversal(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()
	h.fund(t, w, domain.CurrencyUSD, "200.00")

	debit := domain.AdjustRequest{
		Reference: "DR-1",
		WalletID:  w.ID,
		Operation: domain.OperationDebit,
		Amount:    dec("50"),
		Currency:  domain.CurrencyUSD,
	}
	_, err := h.engine.Adjust(ctx, debit)
	require.NoError(t, err)
	debit.TargetStatus = domain.EntryStatusReversed
	_, err = h.engine.Adjust(ctx, debit)
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(h.balance(t, w, domain.CurrencyUSD)))

	convert := domain.AdjustRequest{
		Reference:      "CV-1",
		WalletID:       w.ID,
		Operation:      domain.OperationConvert,
		Amount:         dec("10.00"),
		Currency:       domain.CurrencyUSD,
		TargetCurrency: domain.CurrencyNGN,
		ConversionRate: dec("1523.456789"),
	}
	_, err = h.engine.Adjust(ctx, convert)
	require.NoError(t, err)
	assert.True(t, dec("15234.57").Equal(h.balance(t, w, domain.CurrencyNGN)))

	convert.TargetStatus = domain.EntryStatusReversed
	res, err := h.engine.Adjust(ctx, convert)
	require.NoError(t, err)
	assert.Len(t, res.Balances, 2)
	assert.True(t, dec("200").Equal(h.balance(t, w, domain.CurrencyUSD)))
	assert.True(t, h.balance(t, w, domain.CurrencyNGN).IsZero())
}

func TestLedger_ReversalUndoesRecordedConvert(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()
	h.fund(t, w, domain.CurrencyUSD, "250")

	_, err := h.engine.Adjust(ctx, domain.AdjustRequest{
		Reference:      "CNV-1",
		WalletID:       w.ID,
		Operation:      domain.OperationConvert,
		Amount:         dec("100"),
		Currency:       domain.CurrencyUSD,
		TargetCurrency: domain.CurrencyNGN,
		ConversionRate: dec("1500"),
	})
	require.NoError(t, err)
	assert.Equal(t, "150000.00", money.Format(h.balance(t, w, domain.CurrencyNGN)))

	_, err = h.engine.Adjust(ctx, domain.AdjustRequest{
		Reference:    "CNV-1",
		WalletID:     w.ID,
		Operation:    domain.OperationDebit,
		Amount:       dec("100"),
		Currency:     domain.CurrencyUSD,
		TargetStatus: domain.EntryStatusReversed,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOperation), "got %v", err)
	assert.Equal(t, "150.00", money.Format(h.balance(t, w, domain.CurrencyUSD)))
	assert.Equal(t, "150000.00", money.Format(h.balance(t, w, domain.CurrencyNGN)))

	// The stored rate settles the reversal; none is passed.
	res, err := h.engine.Adjust(ctx, domain.AdjustRequest{
		Reference:    "CNV-1",
		WalletID:     w.ID,
		Operation:    domain.OperationConvert,
		Amount:       dec("100"),
		Currency:     domain.CurrencyUSD,
		TargetStatus: domain.EntryStatusReversed,
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "250.00", money.Format(h.balance(t, w, domain.CurrencyUSD)))
	assert.Equal(t, "0.00", money.Format(h.balance(t, w, domain.CurrencyNGN)))
}

func TestLedger_ReversalUndoesRecordedDebit(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()
	h.fund(t, w, domain.CurrencyGBP, "100")

	debit := domain.AdjustRequest{
		Reference: "DB-1",
		WalletID:  w.ID,
		Operation: domain.OperationDebit,
		Amount:    dec("40"),
		Currency:  domain.CurrencyGBP,
	}
	_, err := h.engine.Adjust(ctx, debit)
	require.NoError(t, err)

	asCredit := debit
	asCredit.Operation = domain.OperationCredit
	asCredit.TargetStatus = domain.EntryStatusReversed
	_, err = h.engine.Adjust(ctx, asCredit)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOperation), "got %v", err)
	assert.Equal(t, "60.00", money.Format(h.balance(t, w, domain.CurrencyGBP)))

	debit.TargetStatus = domain.EntryStatusReversed
	_, err = h.engine.Adjust(ctx, debit)
	require.NoError(t, err)
	assert.Equal(t, "100.00", money.Format(h.balance(t, w, domain.CurrencyGBP)))

	entry, err := h.entries.GetByReference(ctx, "DB-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OperationDebit, entry.Operation)
	assert.Equal(t, domain.EntryStatusReversed, entry.Status)
}

func TestLedger_PendingSettlesWithRecordedOperation(t *testing.T) {
	h := newLedgerHarness(t)
	w := h.newWallet(t)
	ctx := context.Background()
	h.fund(t, w, domain.CurrencyNGN, "500")

	_, err := h.engine.Adjust(ctx, domain.AdjustRequest{
		Reference:    "P-OP",
		WalletID:     w.ID,
		Operation:    domain.OperationFunding,
		Amount:       dec("200"),
		Currency:     domain.CurrencyNGN,
		TargetStatus: domain.EntryStatusPending,
	})
	require.NoError(t, err)

	_, err = h.engine.Adjust(ctx, domain.AdjustRequest{
		Reference: "P-OP",
		WalletID:  w.ID,
		Operation: domain.OperationDebit,
		Amount:    dec("200"),
		Currency:  domain.CurrencyNGN,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOperation), "got %v", err)
	assert.Equal(t, "500.00", money.Format(h.balance(t, w, domain.CurrencyNGN)))

	entry, err := h.entries.GetByReference(ctx, "P-OP")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusPending, entry.Status)
}

func TestLedger_RejectsUnstorableValues(t *testing.T) {
	ctx := context.Background()

	t.Run("amount above column maximum", func(t *testing.T) {
		h := newLedgerHarness(t)
		w := h.newWallet(t)
		_, err := h.engine.Adjust(ctx, domain.AdjustRequest{
			WalletID:  w.ID,
			Operation: domain.OperationCredit,
			Amount:    dec("100000000000000000"),
			Currency:  domain.CurrencyNGN,
		})
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
		assert.False(t, apperror.IsRetryable(err))
		assert.True(t, h.balance(t, w, domain.CurrencyNGN).IsZero())
	})

	t.Run("balance would overflow", func(t *testing.T) {
		h := newLedgerHarness(t)
		w := h.newWallet(t)
		h.fund(t, w, domain.CurrencyNGN, money.MaxAmount.String())

		_, err := h.engine.Adjust(ctx, domain.AdjustRequest{
			Reference: "OVF-1",
			WalletID:  w.ID,
			Operation: domain.OperationCredit,
			Amount:    dec("0.01"),
			Currency:  domain.CurrencyNGN,
		})
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOperation), "got %v", err)
		assert.True(t, money.MaxAmount.Equal(h.balance(t, w, domain.CurrencyNGN)))

		entry, err := h.entries.GetByReference(ctx, "OVF-1")
		require.NoError(t, err)
		assert.Nil(t, entry, "rolled back with the balance")
	})

	t.Run("converted amount too large", func(t *testing.T) {
		h := newLedgerHarness(t)
		w := h.newWallet(t)
		h.fund(t, w, domain.CurrencyUSD, "1000000")

		_, err := h.engine.Adjust(ctx, domain.AdjustRequest{
			WalletID:       w.ID,
			Operation:      domain.OperationConvert,
			Amount:         dec("1000000"),
			Currency:       domain.CurrencyUSD,
			TargetCurrency: domain.CurrencyNGN,
			ConversionRate: dec("999999999999"),
		})
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOperation), "got %v", err)
		assert.Equal(t, "1000000.00", money.Format(h.balance(t, w, domain.CurrencyUSD)))
	})

	t.Run("reference longer than column", func(t *testing.T) {
		h := newLedgerHarness(t)
		w := h.newWallet(t)
		_, err := h.engine.Adjust(ctx, domain.AdjustRequest{
			Reference: strings.Repeat("R", domain.MaxReferenceLength+1),
			WalletID:  w.ID,
			Operation: domain.OperationCredit,
			Amount:    dec("1"),
			Currency:  domain.CurrencyNGN,
		})
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
	})
}
