package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderPaystackSignature carries the hex HMAC-SHA512 of the raw body.
const HeaderPaystackSignature = "x-paystack-signature"

// WebhookRetryConfig bounds in-process retries of transient failures.
type WebhookRetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

// WebhookHandler receives processor deliveries.
type WebhookHandler struct {
	gateway ports.ReconciliationGateway
	retry   WebhookRetryConfig
	log     zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(gateway ports.ReconciliationGateway, retry WebhookRetryConfig, log zerolog.Logger) *WebhookHandler {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &WebhookHandler{gateway: gateway, retry: retry, log: log}
}

// Paystack handles POST /api/v1/webhooks/paystack. Transient failures are
// retried with exponential backoff and then answered with 503 so the
// processor redelivers.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.New(apperror.CodeValidation, "request body too large", http.StatusRequestEntityTooLarge))
			return
		}
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	ack, err := h.deliver(c.Request.Context(), raw, c.GetHeader(HeaderPaystackSignature))
	if err != nil {
		if apperror.IsRetryable(err) {
			response.Unavailable(c, err)
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAckResponse(ack))
}

func (h *WebhookHandler) deliver(ctx context.Context, raw []byte, signature string) (*domain.Ack, error) {
	for attempt := 1; ; attempt++ {
		ack, err := h.gateway.HandleDelivery(ctx, raw, signature)
		if err == nil || !apperror.IsRetryable(err) || attempt >= h.retry.MaxAttempts {
			return ack, err
		}

		wait := h.retry.Backoff << (attempt - 1)
		h.log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("webhook: transient failure, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, err
		case <-timer.C:
		}
	}
}
