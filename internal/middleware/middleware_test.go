package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-billing/internal/config"
	"github.com/iliyamo/theater-billing/internal/utils"
)

func newAuthEcho(secret string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", JWTAuth(secret), RequireRole(RoleManager))
	g.GET("/whoami", func(c echo.Context) error { return c.String(http.StatusOK, UserID(c)) })
	return e
}

func TestJWTAuthAndRole(t *testing.T) {
	t.Parallel()

	e := newAuthEcho("secret")
	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		if rec := do(""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("bad signature", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other", "m-1", RoleManager, time.Hour)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if rec := do("Bearer " + tok.Token); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		tok, err := utils.NewAccessToken("secret", "m-1", RoleManager, -time.Minute)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if rec := do("Bearer " + tok.Token); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		tok, err := utils.NewAccessToken("secret", "c-1", RoleClerk, time.Hour)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if rec := do("Bearer " + tok.Token); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("manager passes", func(t *testing.T) {
		tok, err := utils.NewAccessToken("secret", "m-1", RoleManager, time.Hour)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		rec := do("Bearer " + tok.Token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "m-1" {
			t.Fatalf("expected subject m-1, got %q", rec.Body.String())
		}
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK {
		t.Fatalf("expected ok with 200, got ok=%v status=%d", ok, status)
	}
	if gotHdr.Get("Content-Type") != "application/json" || string(body) != `{"items":[]}` {
		t.Fatalf("unexpected payload: %v %q", gotHdr, body)
	}
	if _, _, _, ok := decodePayload([]byte{0, 0}); ok {
		t.Fatalf("expected short payload to be rejected")
	}
}

func TestCacheKeyIncludesPathParams(t *testing.T) {
	t.Parallel()

	e := echo.New()
	cfg := config.CacheConfig{Prefix: "catalog-cache", KeyStrategy: "route_query"}
	key := func(id string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/plays/"+id, nil), httptest.NewRecorder())
		c.SetPath("/v1/plays/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
		return cacheKeyFrom(cfg, c)
	}
	if key("hamlet") == key("othello") {
		t.Fatalf("expected distinct keys per play id")
	}
	if key("hamlet") != key("hamlet") {
		t.Fatalf("expected stable keys")
	}
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") },
		NewRedisCache(config.CacheConfig{Enabled: true}, nil, log),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log),
	)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
		t.Fatalf("expected untouched 200, got %d cache=%q", rec.Code, rec.Header().Get("X-Cache"))
	}
}

func TestBuildRateKey(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/statements", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/statements")
	c.Set(CtxUserID, "clerk-7")

	got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}, c)
	if got != "rl:user:clerk-7:route:POST /v1/statements" {
		t.Fatalf("unexpected key %q", got)
	}
	got = buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c)
	if got != "rl:ip:10.0.0.1" {
		t.Fatalf("unexpected key %q", got)
	}
}
