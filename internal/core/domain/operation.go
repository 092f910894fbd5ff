package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Operation is the balance effect requested from the engine.
type Operation string

const (
	OperationDebit   Operation = "DEBIT"
	OperationCredit  Operation = "CREDIT"
	OperationFunding Operation = "FUNDING"
	OperationConvert Operation = "CONVERT"
)

func ParseOperation(s string) (Operation, bool) {
	op := Operation(strings.ToUpper(strings.TrimSpace(s)))
	switch op {
	case OperationDebit, OperationCredit, OperationFunding, OperationConvert:
		return op, true
	}
	return op, false
}

// DefaultEntryType is the entry type recorded when the caller gives none.
func (o Operation) DefaultEntryType() EntryType {
	switch o {
	case OperationDebit:
		return EntryTypeDebit
	case OperationFunding:
		return EntryTypeFunding
	case OperationConvert:
		return EntryTypeConvert
	default:
		return EntryTypeCredit
	}
}

// AdjustRequest is one engine call. Reference is generated when empty;
// TargetStatus defaults to success.
type AdjustRequest struct {
	Reference      string
	WalletID       uuid.UUID
	UserID         uuid.UUID // uuid.Nil skips the ownership check
	Operation      Operation
	Amount         decimal.Decimal
	Currency       Currency
	TargetCurrency Currency
	ConversionRate decimal.Decimal
	Description    string
	Metadata       map[string]any
	EntryType      EntryType
	TargetStatus   EntryStatus
}

// AdjustResult reports the entry after the call, whether this call changed
// anything, the balance rows it touched and the follow-up effects to dispatch.
type AdjustResult struct {
	Success  bool
	Entry    *LedgerEntry
	Applied  bool
	Balances []WalletBalance
	Effects  []Effect
}
