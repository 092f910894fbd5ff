package handler

import (
	"strings"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/money"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet endpoints for the authenticated user.
type WalletHandler struct {
	querySvc ports.WalletQueryService
	gateway  ports.ReconciliationGateway
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(querySvc ports.WalletQueryService, gateway ports.ReconciliationGateway) *WalletHandler {
	return &WalletHandler{querySvc: querySvc, gateway: gateway}
}

// GetBalance handles GET /api/v1/wallets/balance?currency=NGN.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.BalanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	currency := domain.DefaultCurrency
	if q.Currency != "" {
		currency = domain.Currency(q.Currency)
	}

	view, err := h.querySvc.GetBalance(c.Request.Context(), userID, currency)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Currency: string(view.Currency),
		Balance:  money.Format(view.Balance),
	})
}

// GetBalances handles GET /api/v1/wallets/balances.
func (h *WalletHandler) GetBalances(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	views, err := h.querySvc.GetBalances(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BalanceResponse, 0, len(views))
	for _, v := range views {
		items = append(items, dto.BalanceResponse{Currency: string(v.Currency), Balance: money.Format(v.Balance)})
	}
	response.OK(c, items)
}

// CreateWallet handles POST /api/v1/wallets. Repeating it returns the
// existing wallet.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	w, err := h.querySvc.CreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewWalletResponse(w))
}

// FundWallet handles POST /api/v1/wallets/fund. It records a pending funding
// entry and returns the processor checkout URL; the balance moves when the
// processor confirms the charge.
func (h *WalletHandler) FundWallet(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.FundWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	checkout, err := h.gateway.InitiateFunding(c.Request.Context(), domain.FundingRequest{
		UserID:   userID,
		Email:    c.GetString(middleware.CtxEmail),
		Amount:   req.Amount,
		Currency: domain.Currency(strings.ToUpper(req.Currency)),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewFundingResponse(checkout))
}
