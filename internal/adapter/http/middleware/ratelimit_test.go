package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/http/middleware"
	redisStore "wallet-ledger/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newRateLimitStore(t *testing.T) (*redisStore.RateLimitStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisStore.NewRateLimitStore(client), mr
}

// setupRateLimitRouter authenticates callers from the X-Test-User header.
func setupRateLimitRouter(store *redisStore.RateLimitStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	fakeAuth := func(c *gin.Context) {
		if u := c.GetHeader("X-Test-User"); u != "" {
			c.Set(middleware.CtxUserID, uuid.MustParse(u))
		}
		c.Next()
	}
	rule := middleware.RateLimitRule{Limit: 3, Window: time.Minute}

	r.GET("/test", fakeAuth, middleware.RateLimiter(store, "test", rule, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func get(router *gin.Engine, user string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	store, _ := newRateLimitStore(t)
	router := setupRateLimitRouter(store)

	for i := 0; i < 3; i++ {
		w := get(router, "")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	store, _ := newRateLimitStore(t)
	router := setupRateLimitRouter(store)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router, "").Code)
	}

	w := get(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_CountsPerUser(t *testing.T) {
	store, _ := newRateLimitStore(t)
	router := setupRateLimitRouter(store)
	alice, bob := uuid.NewString(), uuid.NewString()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router, alice).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, get(router, alice).Code)
	assert.Equal(t, http.StatusOK, get(router, bob).Code)
}

func TestRateLimiter_DegradesWhenRedisDown(t *testing.T) {
	store, mr := newRateLimitStore(t)
	router := setupRateLimitRouter(store)
	mr.Close()

	w := get(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestDefaultRateLimitRules(t *testing.T) {
	rules := middleware.DefaultRateLimitRules()
	assert.Equal(t, int64(600), rules["webhooks"].Limit)
	assert.Equal(t, int64(30), rules["verify"].Limit)
	assert.Equal(t, int64(60), rules["wallets"].Limit)
	assert.Equal(t, int64(5), rules["wallets_create"].Limit)
	assert.Equal(t, int64(10), rules["wallets_fund"].Limit)
	assert.Equal(t, int64(60), rules["history"].Limit)
}
