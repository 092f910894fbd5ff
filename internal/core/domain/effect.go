package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EffectType names a follow-up event produced by a committed adjustment.
type EffectType string

const (
	EffectEntrySucceeded EffectType = "ledger.entry.success"
	EffectEntryFailed    EffectType = "ledger.entry.failed"
	EffectEntryReversed  EffectType = "ledger.entry.reversed"
	EffectBalanceChanged EffectType = "wallet.balance.changed"
)

// Effect is a side effect the engine asks a dispatcher to perform after
// commit. The engine never performs it itself.
type Effect struct {
	Type       EffectType      `json:"type"`
	Reference  string          `json:"reference"`
	WalletID   uuid.UUID       `json:"wallet_id"`
	UserID     uuid.UUID       `json:"user_id"`
	EntryType  EntryType       `json:"entry_type,omitempty"`
	Currency   Currency        `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
