package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcessorEventOutcome records what the gateway did with a delivery.
type ProcessorEventOutcome string

const (
	OutcomeProcessed ProcessorEventOutcome = "processed"
	OutcomeDuplicate ProcessorEventOutcome = "duplicate"
	OutcomeIgnored   ProcessorEventOutcome = "ignored"
	OutcomeRejected  ProcessorEventOutcome = "rejected"
	OutcomeFailed    ProcessorEventOutcome = "failed"
)

// Processor event names handled by the gateway.
const (
	EventChargeSuccess    = "charge.success"
	EventTransferSuccess  = "transfer.success"
	EventTransferFailed   = "transfer.failed"
	EventTransferReversed = "transfer.reversed"
)

// ProcessorEvent is the audit row for one inbound processor delivery.
type ProcessorEvent struct {
	ID        uuid.UUID             `json:"id"`
	Provider  string                `json:"provider"`
	Event     string                `json:"event"`
	Reference string                `json:"reference"`
	Outcome   ProcessorEventOutcome `json:"outcome"`
	Payload   []byte                `json:"-"`
	Error     *string               `json:"error,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// Ack is the gateway's answer to a delivery.
type Ack struct {
	Event     string                `json:"event"`
	Reference string                `json:"reference"`
	Outcome   ProcessorEventOutcome `json:"outcome"`
	Applied   bool                  `json:"applied"`
}

// ProcessorPayload is the webhook body sent by the processor.
type ProcessorPayload struct {
	Event string             `json:"event"`
	Data  ProcessorEventData `json:"data"`
}

// ProcessorEventData carries the fields the gateway reads. Amount is in
// minor units.
type ProcessorEventData struct {
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Metadata  ProcessorMetadata `json:"metadata"`
}

// ProcessorMetadata is the metadata we attach when initiating a charge.
// The processor may send it as an object, an empty string or null.
type ProcessorMetadata struct {
	WalletID    string `json:"wallet_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Description string `json:"description,omitempty"`
}

func (m *ProcessorMetadata) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*m = ProcessorMetadata{}
		return nil
	}
	type plain ProcessorMetadata
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*m = ProcessorMetadata(p)
	return nil
}

// FundingRequest starts a card checkout that funds the user's wallet.
type FundingRequest struct {
	UserID   uuid.UUID
	Email    string
	Amount   decimal.Decimal
	Currency Currency // empty = DefaultCurrency
}

// CheckoutRequest is sent to the processor to open a checkout session.
// Amount is in minor units.
type CheckoutRequest struct {
	Reference   string            `json:"reference"`
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    ProcessorMetadata `json:"metadata"`
}

// Checkout is the processor's answer: where to send the customer.
type Checkout struct {
	Reference        string          `json:"reference"`
	AuthorizationURL string          `json:"authorization_url"`
	AccessCode       string          `json:"access_code"`
	Amount           decimal.Decimal `json:"-"`
	Currency         Currency        `json:"-"`
}
