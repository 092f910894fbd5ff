package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// SignatureService signs and verifies webhook bodies.
type SignatureService interface {
	Sign(secret string, payload []byte) string
	Verify(secret string, payload []byte, signature string) bool
}

// TokenService validates bearer tokens issued by the identity service.
type TokenService interface {
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// DeliveryDedupe is the Redis fast path in front of the engine's own
// idempotency. Losing a marker only costs a no-op replay.
type DeliveryDedupe interface {
	// Lookup returns the remembered ack or nil when unseen.
	Lookup(ctx context.Context, event, reference string) (*domain.Ack, error)
	Remember(ctx context.Context, ack domain.Ack, ttl time.Duration) error
}

// EffectDispatcher delivers follow-up effects after the engine commits.
type EffectDispatcher interface {
	Dispatch(ctx context.Context, effects []domain.Effect) error
}

// ProcessorClient talks to the payment processor.
type ProcessorClient interface {
	InitializeTransaction(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error)
	VerifyTransaction(ctx context.Context, reference string) (*domain.ProcessorEventData, error)
}

// --- Service Ports (Business Logic) ---

// BalanceEngine applies one operation to the ledger and balances atomically.
type BalanceEngine interface {
	Adjust(ctx context.Context, req domain.AdjustRequest) (*domain.AdjustResult, error)
}

// ReconciliationGateway turns processor deliveries into engine calls.
type ReconciliationGateway interface {
	VerifySignature(raw []byte, signature, secret string) bool
	HandleDelivery(ctx context.Context, raw []byte, signature string) (*domain.Ack, error)
	Dispatch(ctx context.Context, event string, data domain.ProcessorEventData) (*domain.Ack, error)
	VerifyReference(ctx context.Context, reference string) (*domain.Ack, error)
	InitiateFunding(ctx context.Context, req domain.FundingRequest) (*domain.Checkout, error)
}

// BalanceView is what callers see for one currency.
type BalanceView struct {
	Currency domain.Currency `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// WalletQueryService is the read side plus wallet creation.
type WalletQueryService interface {
	GetBalance(ctx context.Context, userID uuid.UUID, currency domain.Currency) (*BalanceView, error)
	GetBalances(ctx context.Context, userID uuid.UUID) ([]BalanceView, error)
	GetHistory(ctx context.Context, userID uuid.UUID, filter domain.HistoryFilter) ([]domain.LedgerEntry, domain.PageMeta, error)
	CreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
}
