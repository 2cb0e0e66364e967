package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-billing/internal/config"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRedisCache(t *testing.T) {
	t.Parallel()

	rdb := newTestRedis(t)
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "catalog-cache",
	}

	calls := 0
	e := echo.New()
	e.Use(echomw.RequestID())
	e.GET("/v1/plays/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "calls": calls})
	}, NewRedisCache(cfg, rdb, discardLogger()))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	first := get("/v1/plays/hamlet")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("expected MISS, got %q", first.Header().Get("X-Cache"))
	}

	second := get("/v1/plays/hamlet")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("expected HIT, got %q", second.Header().Get("X-Cache"))
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected cached body %q, got %q", first.Body.String(), second.Body.String())
	}
	if ct := second.Header().Get(echo.HeaderContentType); ct != first.Header().Get(echo.HeaderContentType) {
		t.Fatalf("expected replayed content type, got %q", ct)
	}

	ids := second.Header().Values(echo.HeaderXRequestID)
	if len(ids) != 1 {
		t.Fatalf("expected exactly one request id on a hit, got %v", ids)
	}
	if ids[0] == first.Header().Get(echo.HeaderXRequestID) {
		t.Fatalf("expected a fresh request id on a hit, got the cached one %q", ids[0])
	}

	if other := get("/v1/plays/othello"); other.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("expected MISS for a different play, got %q", other.Header().Get("X-Cache"))
	}

	if err := PurgeCache(context.Background(), rdb, cfg.Prefix); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if after := get("/v1/plays/hamlet"); after.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("expected MISS after purge, got %q", after.Header().Get("X-Cache"))
	}
	if calls != 3 {
		t.Fatalf("expected 3 handler runs, got %d", calls)
	}
}

func TestRedisCache_DoesNotStoreErrors(t *testing.T) {
	t.Parallel()

	rdb := newTestRedis(t)
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "catalog-cache",
	}
	e := echo.New()
	e.GET("/v1/plays/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
	}, NewRedisCache(cfg, rdb, discardLogger()))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plays/macbeth", nil))
		if rec.Header().Get("X-Cache") != "MISS" {
			t.Fatalf("request %d: expected 404 never cached, got %q", i, rec.Header().Get("X-Cache"))
		}
	}
	keys, err := rdb.Keys(context.Background(), "catalog-cache:*").Result()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no cache entries, got %v", keys)
	}
}

func TestPurgeCache_KeepsOtherPrefixes(t *testing.T) {
	t.Parallel()

	rdb := newTestRedis(t)
	ctx := context.Background()
	for _, k := range []string{"catalog-cache:a", "catalog-cache:b", "rl:user:1"} {
		if err := rdb.Set(ctx, k, "v", 0).Err(); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := PurgeCache(ctx, rdb, "catalog-cache"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n := rdb.Exists(ctx, "catalog-cache:a", "catalog-cache:b").Val(); n != 0 {
		t.Fatalf("expected catalog entries removed, %d remain", n)
	}
	if n := rdb.Exists(ctx, "rl:user:1").Val(); n != 1 {
		t.Fatalf("expected rate limit key kept")
	}
	if err := PurgeCache(ctx, nil, "catalog-cache"); err != nil {
		t.Fatalf("expected nil client to be a no-op, got %v", err)
	}
}

func TestTokenBucket(t *testing.T) {
	t.Parallel()

	rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "user_route",
		Prefix:         "rl",
	}

	e := echo.New()
	e.POST("/v1/statements", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxUserID, c.Request().Header.Get("X-Test-User"))
			return next(c)
		}
	}, NewTokenBucket(cfg, rdb, discardLogger()))

	post := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/statements", nil)
		req.Header.Set("X-Test-User", user)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i, wantRemaining := range []string{"1", "0"} {
		rec := post("clerk-1")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: expected remaining %s, got %s", i, wantRemaining, got)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
			t.Fatalf("request %d: expected limit 2, got %s", i, got)
		}
	}

	blocked := post("clerk-1")
	if blocked.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", blocked.Code)
	}
	if !strings.Contains(blocked.Body.String(), "too_many_requests") {
		t.Fatalf("expected too_many_requests body, got %s", blocked.Body.String())
	}
	retry, err := strconv.Atoi(blocked.Header().Get("Retry-After"))
	if err != nil || retry <= 0 || retry > 3600 {
		t.Fatalf("expected Retry-After within the refill interval, got %q", blocked.Header().Get("Retry-After"))
	}

	if rec := post("clerk-2"); rec.Code != http.StatusOK {
		t.Fatalf("expected a separate bucket per user, got %d", rec.Code)
	}
}
