package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves ledger history and processor verify callbacks.
type TransactionHandler struct {
	querySvc ports.WalletQueryService
	gateway  ports.ReconciliationGateway
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(querySvc ports.WalletQueryService, gateway ports.ReconciliationGateway) *TransactionHandler {
	return &TransactionHandler{querySvc: querySvc, gateway: gateway}
}

// ListTransactions handles GET /api/v1/transactions.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	filter, err := q.Filter()
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	entries, meta, err := h.querySvc.GetHistory(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewLedgerEntryResponse(&entries[i]))
	}
	response.Page(c, items, meta)
}

// Verify handles GET /api/v1/transactions/verify/:reference, the
// processor's redirect after checkout.
func (h *TransactionHandler) Verify(c *gin.Context) {
	var uri dto.ReferenceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid reference"))
		return
	}

	ack, err := h.gateway.VerifyReference(c.Request.Context(), uri.Reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAckResponse(ack))
}
