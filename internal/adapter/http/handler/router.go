package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	redisStore "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Gateway        ports.ReconciliationGateway
	QuerySvc       ports.WalletQueryService
	TokenSvc       ports.TokenService
	WebhookRetry   WebhookRetryConfig
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Mode           string // gin mode; empty = release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Processor-facing routes (signature or processor-verified) ---
	webhookHandler := NewWebhookHandler(deps.Gateway, deps.WebhookRetry, deps.Logger)
	v1.POST("/webhooks/paystack", rl("webhooks"), webhookHandler.Paystack)

	txHandler := NewTransactionHandler(deps.QuerySvc, deps.Gateway)
	v1.GET("/transactions/verify/:reference", rl("verify"), txHandler.Verify)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.QuerySvc, deps.Gateway)

	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.POST("", rl("wallets_create"), walletHandler.CreateWallet)
		wallets.POST("/fund", rl("wallets_fund"), walletHandler.FundWallet)
		wallets.GET("/balance", rl("wallets"), walletHandler.GetBalance)
		wallets.GET("/balances", rl("wallets"), walletHandler.GetBalances)
	}

	v1.GET("/transactions", jwtAuth, rl("history"), txHandler.ListTransactions)

	return r
}
