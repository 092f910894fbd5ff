package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routerTestDeps struct {
	router  *gin.Engine
	gateway *mocks.MockReconciliationGateway
	query   *mocks.MockWalletQueryService
	tokens  *mocks.MockTokenService
	health  *mocks.MockHealthChecker
	userID  uuid.UUID
}

func setupRouter(t *testing.T) *routerTestDeps {
	ctrl := gomock.NewController(t)
	d := &routerTestDeps{
		gateway: mocks.NewMockReconciliationGateway(ctrl),
		query:   mocks.NewMockWalletQueryService(ctrl),
		tokens:  mocks.NewMockTokenService(ctrl),
		health:  mocks.NewMockHealthChecker(ctrl),
		userID:  uuid.New(),
	}
	d.tokens.EXPECT().Validate("good").Return(&ports.TokenClaims{UserID: d.userID, Email: "ada@example.com"}, nil).AnyTimes()
	d.tokens.EXPECT().Validate(gomock.Not("good")).Return(nil, errors.New("bad token")).AnyTimes()

	d.router = SetupRouter(RouterDeps{
		Gateway:        d.gateway,
		QuerySvc:       d.query,
		TokenSvc:       d.tokens,
		WebhookRetry:   WebhookRetryConfig{MaxAttempts: 3, Backoff: time.Millisecond},
		HealthCheckers: []ports.HealthChecker{d.health},
		Mode:           gin.TestMode,
		Logger:         zerolog.Nop(),
	})
	return d
}

func (d *routerTestDeps) do(method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func (d *routerTestDeps) authed(method, path string) *httptest.ResponseRecorder {
	return d.do(method, path, nil, map[string]string{"Authorization": "Bearer good"})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Webhook ---

func TestWebhook_Processed(t *testing.T) {
	d := setupRouter(t)
	body := []byte(`{"event":"charge.success","data":{"reference":"REF-1","amount":1000}}`)
	d.gateway.EXPECT().HandleDelivery(gomock.Any(), body, "abc123").Return(&domain.Ack{
		Event: domain.EventChargeSuccess, Reference: "REF-1", Outcome: domain.OutcomeProcessed, Applied: true,
	}, nil)

	w := d.do(http.MethodPost, "/api/v1/webhooks/paystack", body, map[string]string{HeaderPaystackSignature: "abc123"})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "processed", data["outcome"])
	assert.Equal(t, true, data["applied"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestWebhook_SignatureMismatch(t *testing.T) {
	d := setupRouter(t)
	d.gateway.EXPECT().HandleDelivery(gomock.Any(), gomock.Any(), "").Return(nil, apperror.ErrSignatureMismatch()).Times(1)

	w := d.do(http.MethodPost, "/api/v1/webhooks/paystack", []byte(`{}`), nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperror.CodeSignatureMismatch, decode(t, w)["error_code"])
}

func TestWebhook_RetriesTransientFailure(t *testing.T) {
	d := setupRouter(t)
	gomock.InOrder(
		d.gateway.EXPECT().HandleDelivery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, apperror.ErrConcurrencyConflict(errors.New("40001"))),
		d.gateway.EXPECT().HandleDelivery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.Ack{Reference: "REF-2", Outcome: domain.OutcomeProcessed}, nil),
	)

	w := d.do(http.MethodPost, "/api/v1/webhooks/paystack", []byte(`{}`), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhook_RetriesExhausted(t *testing.T) {
	d := setupRouter(t)
	d.gateway.EXPECT().HandleDelivery(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrPersistenceFailure(errors.New("conn refused"))).Times(3)

	w := d.do(http.MethodPost, "/api/v1/webhooks/paystack", []byte(`{}`), nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, apperror.CodePersistenceFailure, resp["error_code"])
	assert.Equal(t, true, resp["retryable"])
}

func TestWebhook_InternalErrorIsNotRetried(t *testing.T) {
	d := setupRouter(t)
	d.gateway.EXPECT().HandleDelivery(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.InternalError(errors.New("boom"))).Times(1)

	w := d.do(http.MethodPost, "/api/v1/webhooks/paystack", []byte(`{}`), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	d := setupRouter(t)
	big := []byte(`{"pad":"` + strings.Repeat("x", 1<<20) + `"}`)

	w := d.do(http.MethodPost, "/api/v1/webhooks/paystack", big, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// --- Verify ---

func TestVerify(t *testing.T) {
	t.Run("funds on success", func(t *testing.T) {
		d := setupRouter(t)
		d.gateway.EXPECT().VerifyReference(gomock.Any(), "TXN_01HV3Z8Q9K").Return(&domain.Ack{
			Event: domain.EventChargeSuccess, Reference: "TXN_01HV3Z8Q9K", Outcome: domain.OutcomeProcessed, Applied: true,
		}, nil)

		w := d.do(http.MethodGet, "/api/v1/transactions/verify/TXN_01HV3Z8Q9K", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "processed", decode(t, w)["data"].(map[string]any)["outcome"])
	})

	t.Run("unsafe reference", func(t *testing.T) {
		d := setupRouter(t)
		w := d.do(http.MethodGet, "/api/v1/transactions/verify/bad$ref", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("processor down", func(t *testing.T) {
		d := setupRouter(t)
		d.gateway.EXPECT().VerifyReference(gomock.Any(), "REF-9").Return(nil, apperror.ErrProcessorFailure(errors.New("timeout")))

		w := d.do(http.MethodGet, "/api/v1/transactions/verify/REF-9", nil, nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, apperror.CodeProcessorFailure, decode(t, w)["error_code"])
	})
}

// --- Wallets ---

func TestWallets_RequireAuth(t *testing.T) {
	d := setupRouter(t)
	for _, path := range []string{"/api/v1/wallets/balance", "/api/v1/wallets/balances", "/api/v1/transactions"} {
		w := d.do(http.MethodGet, path, nil, map[string]string{"Authorization": "Bearer nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := d.do(http.MethodPost, "/api/v1/wallets", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetBalance(t *testing.T) {
	t.Run("defaults to NGN", func(t *testing.T) {
		d := setupRouter(t)
		d.query.EXPECT().GetBalance(gomock.Any(), d.userID, domain.CurrencyNGN).
			Return(&ports.BalanceView{Currency: domain.CurrencyNGN, Balance: decimal.RequireFromString("700")}, nil)

		w := d.authed(http.MethodGet, "/api/v1/wallets/balance")
		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "NGN", data["currency"])
		assert.Equal(t, "700.00", data["balance"])
	})

	t.Run("explicit currency", func(t *testing.T) {
		d := setupRouter(t)
		d.query.EXPECT().GetBalance(gomock.Any(), d.userID, domain.Currency("usd")).
			Return(&ports.BalanceView{Currency: domain.CurrencyUSD, Balance: decimal.RequireFromString("150.5")}, nil)

		w := d.authed(http.MethodGet, "/api/v1/wallets/balance?currency=usd")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "150.50", decode(t, w)["data"].(map[string]any)["balance"])
	})

	t.Run("bad currency", func(t *testing.T) {
		d := setupRouter(t)
		w := d.authed(http.MethodGet, "/api/v1/wallets/balance?currency=NAIRA")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no wallet", func(t *testing.T) {
		d := setupRouter(t)
		d.query.EXPECT().GetBalance(gomock.Any(), d.userID, domain.CurrencyNGN).Return(nil, apperror.ErrWalletNotFound())

		w := d.authed(http.MethodGet, "/api/v1/wallets/balance")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeWalletNotFound, decode(t, w)["error_code"])
	})
}

func TestGetBalances(t *testing.T) {
	d := setupRouter(t)
	d.query.EXPECT().GetBalances(gomock.Any(), d.userID).Return([]ports.BalanceView{
		{Currency: domain.CurrencyNGN, Balance: decimal.Zero},
		{Currency: domain.CurrencyUSD, Balance: decimal.RequireFromString("12.3")},
	}, nil)

	w := d.authed(http.MethodGet, "/api/v1/wallets/balances")
	assert.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["data"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "0.00", items[0].(map[string]any)["balance"])
	assert.Equal(t, "12.30", items[1].(map[string]any)["balance"])
}

func TestCreateWallet(t *testing.T) {
	d := setupRouter(t)
	walletID := uuid.New()
	d.query.EXPECT().CreateWallet(gomock.Any(), d.userID).Return(&domain.Wallet{
		ID: walletID, UserID: d.userID, DefaultCurrency: domain.CurrencyNGN, CreatedAt: time.Now(),
	}, nil)

	w := d.authed(http.MethodPost, "/api/v1/wallets")
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, walletID.String(), data["id"])
	assert.Equal(t, "NGN", data["default_currency"])
}

// --- Funding ---

func TestFundWallet(t *testing.T) {
	fund := func(d *routerTestDeps, body string) *httptest.ResponseRecorder {
		return d.do(http.MethodPost, "/api/v1/wallets/fund", []byte(body), map[string]string{
			"Authorization": "Bearer good",
			"Content-Type":  "application/json",
		})
	}

	t.Run("returns checkout", func(t *testing.T) {
		d := setupRouter(t)
		d.gateway.EXPECT().InitiateFunding(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req domain.FundingRequest) (*domain.Checkout, error) {
				assert.Equal(t, d.userID, req.UserID)
				assert.Equal(t, "ada@example.com", req.Email)
				assert.True(t, decimal.RequireFromString("2500.50").Equal(req.Amount))
				assert.Equal(t, domain.CurrencyUSD, req.Currency)
				return &domain.Checkout{
					Reference:        "TXN_01",
					AuthorizationURL: "https://checkout.paystack.com/abc",
					AccessCode:       "abc",
					Amount:           req.Amount,
					Currency:         req.Currency,
				}, nil
			})

		w := fund(d, `{"amount": 2500.50, "currency": "usd"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "TXN_01", data["reference"])
		assert.Equal(t, "https://checkout.paystack.com/abc", data["authorization_url"])
		assert.Equal(t, "2500.50", data["amount"])
		assert.Equal(t, "USD", data["currency"])
	})

	t.Run("malformed body", func(t *testing.T) {
		d := setupRouter(t)
		w := fund(d, `{"amount": "lots"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("processor failure", func(t *testing.T) {
		d := setupRouter(t)
		d.gateway.EXPECT().InitiateFunding(gomock.Any(), gomock.Any()).
			Return(nil, apperror.ErrProcessorFailure(errors.New("timeout")))

		w := fund(d, `{"amount": "100"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, apperror.CodeProcessorFailure, decode(t, w)["error_code"])
	})

	t.Run("requires auth", func(t *testing.T) {
		d := setupRouter(t)
		w := d.do(http.MethodPost, "/api/v1/wallets/fund", []byte(`{"amount":1}`), nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// --- History ---

func TestListTransactions(t *testing.T) {
	t.Run("page with filters", func(t *testing.T) {
		d := setupRouter(t)
		rate := decimal.NewNullDecimal(decimal.RequireFromString("1500"))
		ngn := domain.CurrencyNGN
		d.query.EXPECT().GetHistory(gomock.Any(), d.userID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ uuid.UUID, f domain.HistoryFilter) ([]domain.LedgerEntry, domain.PageMeta, error) {
				assert.Equal(t, domain.EntryTypeConvert, f.Type)
				assert.Equal(t, "fx", f.Search)
				assert.Equal(t, 2, f.Page)
				assert.Equal(t, 5, f.Limit)
				require.NotNil(t, f.From)
				require.NotNil(t, f.To)
				return []domain.LedgerEntry{{
					ID: uuid.New(), Reference: "CV-1", Amount: decimal.RequireFromString("100"),
					Currency: domain.CurrencyUSD, TargetCurrency: &ngn, RateUsed: rate,
					Type: domain.EntryTypeConvert, Status: domain.EntryStatusSuccess,
				}}, domain.NewPageMeta(6, 2, 5), nil
			})

		w := d.authed(http.MethodGet, "/api/v1/transactions?type=convert&search=fx&page=2&limit=5&fromDate=2024-01-01&toDate=2024-01-31")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode(t, w)
		items := resp["data"].([]any)
		require.Len(t, items, 1)
		item := items[0].(map[string]any)
		assert.Equal(t, "100.00", item["amount"])
		assert.Equal(t, "1500.000000", item["rate_used"])
		assert.Equal(t, "NGN", item["target_currency"])

		meta := resp["meta"].(map[string]any)
		assert.Equal(t, float64(6), meta["total"])
		assert.Equal(t, float64(2), meta["pageCount"])
	})

	t.Run("bad date", func(t *testing.T) {
		d := setupRouter(t)
		w := d.authed(http.MethodGet, "/api/v1/transactions?fromDate=yesterday")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service validation", func(t *testing.T) {
		d := setupRouter(t)
		d.query.EXPECT().GetHistory(gomock.Any(), d.userID, gomock.Any()).Return(nil, domain.PageMeta{}, apperror.Validation("unknown type"))

		w := d.authed(http.MethodGet, "/api/v1/transactions?type=bonus")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		d := setupRouter(t)
		d.health.EXPECT().Ping(gomock.Any()).Return(nil)
		d.health.EXPECT().Name().Return("postgresql")

		w := d.do(http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", decode(t, w)["status"])
	})

	t.Run("degraded", func(t *testing.T) {
		d := setupRouter(t)
		d.health.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
		d.health.EXPECT().Name().Return("redis")

		w := d.do(http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "degraded", resp["status"])
		deps := resp["dependencies"].(map[string]any)
		assert.Equal(t, "unhealthy", deps["redis"].(map[string]any)["status"])
	})
}
