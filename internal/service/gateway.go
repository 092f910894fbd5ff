package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"
	"wallet-ledger/pkg/reference"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GatewayConfig is supplied by the caller; nothing is read from the
// environment.
type GatewayConfig struct {
	Provider    string
	Secret      string
	DedupeTTL   time.Duration
	CallbackURL string
}

// eventRoute is how one processor event maps onto an engine call.
type eventRoute struct {
	op        domain.Operation
	entryType domain.EntryType
	status    domain.EntryStatus
}

var eventRoutes = map[string]eventRoute{
	domain.EventChargeSuccess:    {domain.OperationFunding, domain.EntryTypeFunding, domain.EntryStatusSuccess},
	domain.EventTransferSuccess:  {domain.OperationCredit, domain.EntryTypeTransfer, domain.EntryStatusSuccess},
	domain.EventTransferFailed:   {domain.OperationCredit, domain.EntryTypeTransfer, domain.EntryStatusFailed},
	domain.EventTransferReversed: {domain.OperationCredit, domain.EntryTypeTransfer, domain.EntryStatusReversed},
}

// ReconciliationGatewayImpl implements ports.ReconciliationGateway.
type ReconciliationGatewayImpl struct {
	engine     ports.BalanceEngine
	entries    ports.LedgerEntryRepository
	wallets    ports.WalletRepository
	events     ports.ProcessorEventRepository
	dedupe     ports.DeliveryDedupe
	dispatcher ports.EffectDispatcher
	processor  ports.ProcessorClient
	sigSvc     ports.SignatureService
	cfg        GatewayConfig
	log        zerolog.Logger
}

// NewReconciliationGateway creates a new ReconciliationGatewayImpl.
func NewReconciliationGateway(
	engine ports.BalanceEngine,
	entries ports.LedgerEntryRepository,
	wallets ports.WalletRepository,
	events ports.ProcessorEventRepository,
	dedupe ports.DeliveryDedupe,
	dispatcher ports.EffectDispatcher,
	processor ports.ProcessorClient,
	sigSvc ports.SignatureService,
	cfg GatewayConfig,
	log zerolog.Logger,
) *ReconciliationGatewayImpl {
	if cfg.Provider == "" {
		cfg.Provider = "paystack"
	}
	return &ReconciliationGatewayImpl{
		engine:     engine,
		entries:    entries,
		wallets:    wallets,
		events:     events,
		dedupe:     dedupe,
		dispatcher: dispatcher,
		processor:  processor,
		sigSvc:     sigSvc,
		cfg:        cfg,
		log:        log,
	}
}

func (g *ReconciliationGatewayImpl) VerifySignature(raw []byte, signature, secret string) bool {
	return g.sigSvc.Verify(secret, raw, signature)
}

// HandleDelivery authenticates a raw webhook body and dispatches it. A bad
// signature is terminal and never reaches the engine.
func (g *ReconciliationGatewayImpl) HandleDelivery(ctx context.Context, raw []byte, signature string) (*domain.Ack, error) {
	var payload domain.ProcessorPayload
	decodeErr := json.Unmarshal(raw, &payload)

	if !g.VerifySignature(raw, signature, g.cfg.Secret) {
		g.log.Warn().Str("event", payload.Event).Str("reference", payload.Data.Reference).Msg("webhook signature mismatch")
		appErr := apperror.ErrSignatureMismatch()
		g.record(ctx, payload.Event, payload.Data.Reference, domain.OutcomeRejected, raw, appErr)
		return nil, appErr
	}

	if decodeErr != nil {
		appErr := apperror.Validation("malformed event body")
		g.record(ctx, "", "", domain.OutcomeRejected, raw, decodeErr)
		return nil, appErr
	}

	return g.dispatch(ctx, payload.Event, payload.Data, raw)
}

// Dispatch maps a processor event onto one engine call keyed by the
// processor's reference. Unknown events are acknowledged and ignored.
func (g *ReconciliationGatewayImpl) Dispatch(ctx context.Context, event string, data domain.ProcessorEventData) (*domain.Ack, error) {
	raw, _ := json.Marshal(domain.ProcessorPayload{Event: event, Data: data})
	return g.dispatch(ctx, event, data, raw)
}

func (g *ReconciliationGatewayImpl) dispatch(ctx context.Context, event string, data domain.ProcessorEventData, raw []byte) (*domain.Ack, error) {
	ref := strings.TrimSpace(data.Reference)
	ack := &domain.Ack{Event: event, Reference: ref}

	route, known := eventRoutes[event]
	if !known {
		g.log.Info().Str("event", event).Str("reference", ref).Msg("ignoring unhandled processor event")
		ack.Outcome = domain.OutcomeIgnored
		g.record(ctx, event, ref, ack.Outcome, raw, nil)
		return ack, nil
	}

	if ref == "" {
		appErr := apperror.Validation("event has no reference")
		g.record(ctx, event, ref, domain.OutcomeRejected, raw, appErr)
		return nil, appErr
	}

	seen, err := g.dedupe.Lookup(ctx, event, ref)
	if err != nil {
		g.log.Warn().Err(err).Str("event", event).Str("reference", ref).Msg("dedupe lookup failed, falling through to ledger")
	}
	if seen != nil {
		ack.Outcome = domain.OutcomeDuplicate
		g.record(ctx, event, ref, ack.Outcome, raw, nil)
		return ack, nil
	}

	req, err := g.buildRequest(ctx, event, route, data, ref)
	if err == nil {
		var res *domain.AdjustResult
		res, err = g.engine.Adjust(ctx, req)
		if err == nil {
			return g.completed(ctx, ack, res, raw), nil
		}
	}

	if apperror.IsRetryable(err) {
		g.log.Warn().Err(err).Str("event", event).Str("reference", ref).Msg("processor event failed, retryable")
		g.record(ctx, event, ref, domain.OutcomeFailed, raw, err)
		return nil, err
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		g.record(ctx, event, ref, domain.OutcomeFailed, raw, err)
		return nil, apperror.InternalError(err)
	}

	// Business rejections never succeed on redelivery, so they are
	// acknowledged to stop the processor retrying.
	g.log.Warn().Err(err).Str("event", event).Str("reference", ref).Msg("processor event rejected")
	ack.Outcome = domain.OutcomeRejected
	g.record(ctx, event, ref, ack.Outcome, raw, err)
	return ack, nil
}

// buildRequest resolves the wallet from event metadata, falling back to the
// entry recorded at initiation. Failure and reversal events settle whatever
// the reference was recorded as, so they take the operation, currency and
// amount from the stored entry.
func (g *ReconciliationGatewayImpl) buildRequest(ctx context.Context, event string, route eventRoute, data domain.ProcessorEventData, ref string) (domain.AdjustRequest, error) {
	var recorded *domain.LedgerEntry
	settling := route.status != domain.EntryStatusSuccess
	if settling {
		e, err := g.entries.GetByReference(ctx, ref)
		if err != nil {
			return domain.AdjustRequest{}, apperror.FromDB(err)
		}
		recorded = e
	}

	walletID, userID, err := g.resolveWallet(ctx, data.Metadata, ref, recorded, settling)
	if err != nil {
		return domain.AdjustRequest{}, err
	}

	currency := domain.DefaultCurrency
	if data.Currency != "" {
		currency = domain.Currency(strings.ToUpper(data.Currency))
	}

	description := data.Metadata.Description
	if description == "" {
		description = g.cfg.Provider + " " + event
	}

	req := domain.AdjustRequest{
		Reference:    ref,
		WalletID:     walletID,
		UserID:       userID,
		Operation:    route.op,
		Amount:       money.FromMinor(data.Amount),
		Currency:     currency,
		Description:  description,
		Metadata:     map[string]any{domain.MetaProcessorEvent: event},
		EntryType:    route.entryType,
		TargetStatus: route.status,
	}
	if recorded != nil {
		req.Operation = recorded.AppliedOperation()
		req.EntryType = recorded.Type
		req.Currency = recorded.Currency
		req.Amount = recorded.Amount
		if recorded.TargetCurrency != nil {
			req.TargetCurrency = *recorded.TargetCurrency
		}
		if recorded.RateUsed.Valid {
			req.ConversionRate = recorded.RateUsed.Decimal
		}
	}
	return req, nil
}

func (g *ReconciliationGatewayImpl) resolveWallet(ctx context.Context, meta domain.ProcessorMetadata, ref string, recorded *domain.LedgerEntry, lookedUp bool) (uuid.UUID, uuid.UUID, error) {
	var userID uuid.UUID
	if meta.UserID != "" {
		id, err := uuid.Parse(meta.UserID)
		if err != nil {
			return uuid.Nil, uuid.Nil, apperror.Validation("metadata user_id is not a uuid")
		}
		userID = id
	}

	if meta.WalletID != "" {
		id, err := uuid.Parse(meta.WalletID)
		if err != nil {
			return uuid.Nil, uuid.Nil, apperror.Validation("metadata wallet_id is not a uuid")
		}
		return id, userID, nil
	}

	if userID != uuid.Nil {
		w, err := g.wallets.GetByUserID(ctx, userID)
		if err != nil {
			return uuid.Nil, uuid.Nil, apperror.FromDB(err)
		}
		if w == nil {
			return uuid.Nil, uuid.Nil, apperror.ErrWalletNotFound()
		}
		return w.ID, userID, nil
	}

	if !lookedUp {
		e, err := g.entries.GetByReference(ctx, ref)
		if err != nil {
			return uuid.Nil, uuid.Nil, apperror.FromDB(err)
		}
		recorded = e
	}
	if recorded == nil {
		return uuid.Nil, uuid.Nil, apperror.ErrInvalidOperation("no wallet could be resolved for reference " + ref)
	}
	return recorded.WalletID, recorded.UserID, nil
}

func (g *ReconciliationGatewayImpl) completed(ctx context.Context, ack *domain.Ack, res *domain.AdjustResult, raw []byte) *domain.Ack {
	ack.Applied = res.Applied
	ack.Outcome = domain.OutcomeProcessed
	if !res.Applied {
		ack.Outcome = domain.OutcomeDuplicate
	}

	if len(res.Effects) > 0 {
		if err := g.dispatcher.Dispatch(ctx, res.Effects); err != nil {
			g.log.Error().Err(err).Str("reference", ack.Reference).Int("effects", len(res.Effects)).Msg("effect dispatch failed")
		}
	}

	if err := g.dedupe.Remember(ctx, *ack, g.cfg.DedupeTTL); err != nil {
		g.log.Warn().Err(err).Str("reference", ack.Reference).Msg("failed to store dedupe marker")
	}

	g.record(ctx, ack.Event, ack.Reference, ack.Outcome, raw, nil)
	g.log.Info().
		Str("event", ack.Event).
		Str("reference", ack.Reference).
		Str("outcome", string(ack.Outcome)).
		Bool("applied", ack.Applied).
		Msg("processor event handled")
	return ack
}

// record writes the delivery log row. Failures are logged and swallowed.
func (g *ReconciliationGatewayImpl) record(ctx context.Context, event, ref string, outcome domain.ProcessorEventOutcome, raw []byte, cause error) {
	ev := &domain.ProcessorEvent{
		ID:        uuid.New(),
		Provider:  g.cfg.Provider,
		Event:     event,
		Reference: ref,
		Outcome:   outcome,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	if cause != nil {
		msg := cause.Error()
		ev.Error = &msg
	}
	if err := g.events.Create(ctx, ev); err != nil {
		g.log.Warn().Err(err).Str("event", event).Str("reference", ref).Msg("failed to record processor event")
	}
}

// VerifyReference asks the processor for the state of reference and, when
// the charge succeeded, funds it as a charge.success delivery would.
func (g *ReconciliationGatewayImpl) VerifyReference(ctx context.Context, reference string) (*domain.Ack, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperror.Validation("reference is required")
	}

	data, err := g.processor.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, apperror.ErrProcessorFailure(err)
	}
	data.Reference = reference

	if data.Status != "success" {
		g.log.Warn().Str("reference", reference).Str("status", data.Status).Msg("transaction verification not successful")
		return &domain.Ack{
			Event:     domain.EventChargeSuccess,
			Reference: reference,
			Outcome:   domain.OutcomeIgnored,
		}, nil
	}
	return g.Dispatch(ctx, domain.EventChargeSuccess, *data)
}

// InitiateFunding records a pending funding entry, then opens a processor
// checkout for it. A checkout the processor refuses marks the entry failed.
func (g *ReconciliationGatewayImpl) InitiateFunding(ctx context.Context, req domain.FundingRequest) (*domain.Checkout, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, apperror.Validation("an email address is required to fund a wallet")
	}
	if !money.IsValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	currency := domain.DefaultCurrency
	if req.Currency != "" {
		c, ok := domain.ParseCurrency(string(req.Currency))
		if !ok {
			return nil, apperror.Validation(fmt.Sprintf("unsupported currency %q", req.Currency))
		}
		currency = c
	}

	wallet, err := g.wallets.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	pending := domain.AdjustRequest{
		Reference:    reference.New(),
		WalletID:     wallet.ID,
		UserID:       req.UserID,
		Operation:    domain.OperationFunding,
		Amount:       req.Amount,
		Currency:     currency,
		Description:  "Wallet funding",
		EntryType:    domain.EntryTypeFunding,
		TargetStatus: domain.EntryStatusPending,
	}
	if _, err := g.engine.Adjust(ctx, pending); err != nil {
		return nil, err
	}

	checkout, err := g.processor.InitializeTransaction(ctx, domain.CheckoutRequest{
		Reference:   pending.Reference,
		Email:       email,
		Amount:      money.ToMinor(req.Amount),
		Currency:    string(currency),
		CallbackURL: g.cfg.CallbackURL,
		Metadata: domain.ProcessorMetadata{
			WalletID: wallet.ID.String(),
			UserID:   req.UserID.String(),
		},
	})
	if err != nil {
		g.log.Warn().Err(err).Str("reference", pending.Reference).Msg("checkout initialization failed")
		failed := pending
		failed.TargetStatus = domain.EntryStatusFailed
		if _, ferr := g.engine.Adjust(ctx, failed); ferr != nil {
			g.log.Error().Err(ferr).Str("reference", pending.Reference).Msg("failed to close pending funding entry")
		}
		return nil, apperror.ErrProcessorFailure(err)
	}

	checkout.Reference = pending.Reference
	checkout.Amount = req.Amount
	checkout.Currency = currency
	g.log.Info().
		Str("reference", pending.Reference).
		Str("wallet_id", wallet.ID.String()).
		Str("amount", money.Format(req.Amount)).
		Str("currency", string(currency)).
		Msg("funding checkout initialized")
	return checkout, nil
}
