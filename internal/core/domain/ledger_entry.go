package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a ledger entry.
type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusSuccess  EntryStatus = "success"
	EntryStatusFailed   EntryStatus = "failed"
	EntryStatusReversed EntryStatus = "reversed"
)

// CanTransitionTo reports whether s may move to next.
// Allowed: pending->success, pending->failed, success->reversed.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case EntryStatusPending:
		return next == EntryStatusSuccess || next == EntryStatusFailed
	case EntryStatusSuccess:
		return next == EntryStatusReversed
	default:
		return false
	}
}

func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusSuccess, EntryStatusFailed, EntryStatusReversed:
		return true
	}
	return false
}

// EntryType classifies a money movement for reporting.
type EntryType string

const (
	EntryTypeFunding    EntryType = "funding"
	EntryTypeWithdrawal EntryType = "withdrawal"
	EntryTypePurchase   EntryType = "purchase"
	EntryTypeTransfer   EntryType = "transfer"
	EntryTypeReversal   EntryType = "reversal"
	EntryTypeConvert    EntryType = "convert"
	EntryTypeTrade      EntryType = "trade"
	EntryTypeCredit     EntryType = "credit"
	EntryTypeDebit      EntryType = "debit"
)

func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeFunding, EntryTypeWithdrawal, EntryTypePurchase, EntryTypeTransfer,
		EntryTypeReversal, EntryTypeConvert, EntryTypeTrade, EntryTypeCredit, EntryTypeDebit:
		return true
	}
	return false
}

// MaxReferenceLength matches the reference column width.
const MaxReferenceLength = 100

// LedgerEntry is the durable record of one money-moving event. Reference is
// the idempotency key and never changes; entries are never deleted.
type LedgerEntry struct {
	ID             uuid.UUID           `json:"id"`
	Reference      string              `json:"reference"`
	Description    string              `json:"description"`
	Amount         decimal.Decimal     `json:"amount"`
	Status         EntryStatus         `json:"status"`
	Type           EntryType           `json:"type"`
	Operation      Operation           `json:"operation"`
	RateUsed       decimal.NullDecimal `json:"rate_used"`
	Currency       Currency            `json:"currency"`
	TargetCurrency *Currency           `json:"target_currency,omitempty"`
	Metadata       map[string]any      `json:"metadata,omitempty"`
	WalletID       uuid.UUID           `json:"wallet_id"`
	UserID         uuid.UUID           `json:"user_id"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// IsTerminal reports whether no further transition is possible.
func (e *LedgerEntry) IsTerminal() bool {
	return e.Status == EntryStatusFailed || e.Status == EntryStatusReversed
}

// AppliedOperation is the balance effect the entry was recorded with.
// Rows written before the operation column existed fall back to Type.
func (e *LedgerEntry) AppliedOperation() Operation {
	if e.Operation != "" {
		return e.Operation
	}
	switch e.Type {
	case EntryTypeConvert:
		return OperationConvert
	case EntryTypeDebit, EntryTypeWithdrawal, EntryTypePurchase:
		return OperationDebit
	case EntryTypeFunding:
		return OperationFunding
	default:
		return OperationCredit
	}
}

// ConvertedAmount is the target-leg amount recorded on a successful convert.
func (e *LedgerEntry) ConvertedAmount() (decimal.Decimal, bool) {
	if e.Metadata == nil {
		return decimal.Zero, false
	}
	s, ok := e.Metadata[MetaConvertedAmount].(string)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Metadata keys written by the engine and gateway.
const (
	MetaConvertedAmount = "converted_amount"
	MetaProcessorEvent  = "processor_event"
	MetaWalletID        = "wallet_id"
	MetaUserID          = "user_id"
)

// HistoryFilter narrows a wallet's ledger history. Zero values mean no filter.
type HistoryFilter struct {
	Type     EntryType
	Status   EntryStatus
	Currency Currency
	From     *time.Time
	To       *time.Time
	Search   string
	Page     int
	Limit    int
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize applies paging defaults and caps.
func (f *HistoryFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

func (f HistoryFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// PageMeta describes one page of a history listing.
type PageMeta struct {
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	PageCount int64 `json:"pageCount"`
}

func NewPageMeta(total int64, page, limit int) PageMeta {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return PageMeta{Total: total, Page: page, Limit: limit, PageCount: pages}
}
