package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet belongs to exactly one user.
type Wallet struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	DefaultCurrency Currency  `json:"default_currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WalletBalance is the per-(wallet, currency) balance row. Only the balance
// engine writes it.
type WalletBalance struct {
	ID            uuid.UUID       `json:"id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Currency      Currency        `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	LockedBalance decimal.Decimal `json:"locked_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CanDebit reports whether amount can leave the balance without going negative.
func (b *WalletBalance) CanDebit(amount decimal.Decimal) bool {
	return b.Balance.GreaterThanOrEqual(amount)
}
