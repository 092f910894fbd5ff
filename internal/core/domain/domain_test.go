package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to EntryStatus
		want     bool
	}{
		{EntryStatusPending, EntryStatusSuccess, true},
		{EntryStatusPending, EntryStatusFailed, true},
		{EntryStatusSuccess, EntryStatusReversed, true},
		{EntryStatusPending, EntryStatusReversed, false},
		{EntryStatusSuccess, EntryStatusFailed, false},
		{EntryStatusSuccess, EntryStatusPending, false},
		{EntryStatusFailed, EntryStatusSuccess, false},
		{EntryStatusReversed, EntryStatusSuccess, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestLedgerEntry_IsTerminal(t *testing.T) {
	tests := []struct {
		status EntryStatus
		want   bool
	}{
		{EntryStatusPending, false},
		{EntryStatusSuccess, false},
		{EntryStatusFailed, true},
		{EntryStatusReversed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			e := &LedgerEntry{Status: tt.status}
			assert.Equal(t, tt.want, e.IsTerminal())
		})
	}
}

func TestLedgerEntry_ConvertedAmount(t *testing.T) {
	e := &LedgerEntry{Metadata: map[string]any{MetaConvertedAmount: "0.07"}}
	got, ok := e.ConvertedAmount()
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("0.07").Equal(got))

	_, ok = (&LedgerEntry{}).ConvertedAmount()
	assert.False(t, ok)
}

func TestLedgerEntry_AppliedOperation(t *testing.T) {
	tests := []struct {
		entry LedgerEntry
		want  Operation
	}{
		{LedgerEntry{Operation: OperationDebit, Type: EntryTypeTransfer}, OperationDebit},
		{LedgerEntry{Operation: OperationCredit, Type: EntryTypeTransfer}, OperationCredit},
		{LedgerEntry{Type: EntryTypeConvert}, OperationConvert},
		{LedgerEntry{Type: EntryTypeWithdrawal}, OperationDebit},
		{LedgerEntry{Type: EntryTypeFunding}, OperationFunding},
		{LedgerEntry{Type: EntryTypeTransfer}, OperationCredit},
	}
	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+string(tt.entry.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.AppliedOperation())
		})
	}
}

func TestParseCurrency(t *testing.T) {
	c, ok := ParseCurrency(" usd ")
	assert.True(t, ok)
	assert.Equal(t, CurrencyUSD, c)

	_, ok = ParseCurrency("JPY")
	assert.False(t, ok)
	assert.False(t, Currency("").IsSupported())
}

func TestOperation_DefaultEntryType(t *testing.T) {
	assert.Equal(t, EntryTypeDebit, OperationDebit.DefaultEntryType())
	assert.Equal(t, EntryTypeCredit, OperationCredit.DefaultEntryType())
	assert.Equal(t, EntryTypeFunding, OperationFunding.DefaultEntryType())
	assert.Equal(t, EntryTypeConvert, OperationConvert.DefaultEntryType())

	op, ok := ParseOperation("convert")
	assert.True(t, ok)
	assert.Equal(t, OperationConvert, op)
	_, ok = ParseOperation("MINT")
	assert.False(t, ok)
}

func TestWalletBalance_CanDebit(t *testing.T) {
	b := &WalletBalance{Balance: decimal.RequireFromString("50.00")}
	assert.True(t, b.CanDebit(decimal.RequireFromString("50")))
	assert.False(t, b.CanDebit(decimal.RequireFromString("50.01")))
}

func TestHistoryFilter_Normalize(t *testing.T) {
	f := HistoryFilter{}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = HistoryFilter{Page: 3, Limit: 500}
	f.Normalize()
	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, 200, f.Offset())
}

func TestNewPageMeta(t *testing.T) {
	assert.Equal(t, PageMeta{Total: 25, Page: 1, Limit: 10, PageCount: 3}, NewPageMeta(25, 1, 10))
	assert.Equal(t, PageMeta{Total: 0, Page: 1, Limit: 10, PageCount: 0}, NewPageMeta(0, 1, 10))
	assert.Equal(t, int64(1), NewPageMeta(10, 1, 10).PageCount)
}

func TestProcessorPayload_MetadataShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ProcessorMetadata
	}{
		{"object", `{"event":"charge.success","data":{"reference":"R1","amount":5000,"metadata":{"wallet_id":"w-1","user_id":"u-1"}}}`, ProcessorMetadata{WalletID: "w-1", UserID: "u-1"}},
		{"empty string", `{"event":"charge.success","data":{"reference":"R1","metadata":""}}`, ProcessorMetadata{}},
		{"null", `{"event":"charge.success","data":{"reference":"R1","metadata":null}}`, ProcessorMetadata{}},
		{"absent", `{"event":"charge.success","data":{"reference":"R1"}}`, ProcessorMetadata{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ProcessorPayload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, "R1", p.Data.Reference)
			assert.Equal(t, tt.want, p.Data.Metadata)
		})
	}
}

func TestProcessorPayload_BadMetadataObject(t *testing.T) {
	var p ProcessorPayload
	err := json.Unmarshal([]byte(`{"data":{"metadata":{"wallet_id":42}}}`), &p)
	assert.Error(t, err)
}
