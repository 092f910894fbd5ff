package dto

import (
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/money"

	"github.com/shopspring/decimal"
)

// HistoryQuery is the query string for GET /api/v1/transactions.
// Dates accept RFC3339 or YYYY-MM-DD.
type HistoryQuery struct {
	Type     string `form:"type" binding:"omitempty,max=20"`
	Status   string `form:"status" binding:"omitempty,max=20"`
	Currency string `form:"currency" binding:"omitempty,len=3"`
	From     string `form:"fromDate" binding:"omitempty,iso_date"`
	To       string `form:"toDate" binding:"omitempty,iso_date"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
}

// ReferenceURI binds the :reference path segment.
type ReferenceURI struct {
	Reference string `uri:"reference" binding:"required,max=100,safe_id"`
}

// BalanceQuery is the query string for GET /api/v1/wallets/balance.
type BalanceQuery struct {
	Currency string `form:"currency" binding:"omitempty,len=3"`
}

// FundWalletRequest is the body of POST /api/v1/wallets/fund. Amount is a
// major-unit decimal, as a JSON number or string.
type FundWalletRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" binding:"omitempty,len=3"`
}

// FundingResponse tells the client where to complete payment.
type FundingResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
}

// BalanceResponse is one currency balance. Amounts are fixed two-place strings.
type BalanceResponse struct {
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

// WalletResponse is the body returned by POST /api/v1/wallets.
type WalletResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	DefaultCurrency string `json:"default_currency"`
	CreatedAt       string `json:"created_at"`
}

// LedgerEntryResponse is one row of transaction history.
type LedgerEntryResponse struct {
	ID             string         `json:"id"`
	Reference      string         `json:"reference"`
	Description    string         `json:"description"`
	Amount         string         `json:"amount"`
	Currency       string         `json:"currency"`
	Type           string         `json:"type"`
	Status         string         `json:"status"`
	TargetCurrency *string        `json:"target_currency,omitempty"`
	RateUsed       *string        `json:"rate_used,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

// AckResponse is returned to the processor and to verify callers.
type AckResponse struct {
	Event     string `json:"event"`
	Reference string `json:"reference"`
	Outcome   string `json:"outcome"`
	Applied   bool   `json:"applied"`
}

func NewWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:              w.ID.String(),
		UserID:          w.UserID.String(),
		DefaultCurrency: string(w.DefaultCurrency),
		CreatedAt:       w.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func NewLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:          e.ID.String(),
		Reference:   e.Reference,
		Description: e.Description,
		Amount:      money.Format(e.Amount),
		Currency:    string(e.Currency),
		Type:        string(e.Type),
		Status:      string(e.Status),
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.TargetCurrency != nil {
		tc := string(*e.TargetCurrency)
		resp.TargetCurrency = &tc
	}
	if e.RateUsed.Valid {
		r := e.RateUsed.Decimal.StringFixed(money.RateScale)
		resp.RateUsed = &r
	}
	return resp
}

func NewFundingResponse(c *domain.Checkout) FundingResponse {
	return FundingResponse{
		Reference:        c.Reference,
		AuthorizationURL: c.AuthorizationURL,
		AccessCode:       c.AccessCode,
		Amount:           money.Format(c.Amount),
		Currency:         string(c.Currency),
	}
}

func NewAckResponse(a *domain.Ack) AckResponse {
	return AckResponse{
		Event:     a.Event,
		Reference: a.Reference,
		Outcome:   string(a.Outcome),
		Applied:   a.Applied,
	}
}
