package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() { gin.SetMode(gin.TestMode) }

func sign(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "recipe-social",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func newAuthRouter(a *Authenticator) *gin.Engine {
	r := gin.New()
	echo := func(c *gin.Context) { c.String(http.StatusOK, ActorID(c)) }
	r.GET("/required", a.RequireAuth(), echo)
	r.GET("/optional", a.OptionalAuth(), echo)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter(NewAuthenticator(testSecret, "recipe-social"))

	w := do(r, "/required", sign(t, testSecret, validClaims("user-1")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", sign(t, "another-secret-another-secret-xx", validClaims("user-1"))},
		{"expired", sign(t, testSecret, jwt.RegisteredClaims{Subject: "user-1", Issuer: "recipe-social",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))})},
		{"wrong issuer", sign(t, testSecret, jwt.RegisteredClaims{Subject: "user-1", Issuer: "other"})},
		{"no subject", sign(t, testSecret, jwt.RegisteredClaims{Issuer: "recipe-social"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(r, "/required", tt.token).Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newAuthRouter(NewAuthenticator(testSecret, ""))

	w := do(r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, "/optional", "bad")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, "/optional", sign(t, testSecret, validClaims("user-2")))
	assert.Equal(t, "user-2", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/", "").Code)

	rl.idle = 0
	rl.Cleanup()
	assert.Empty(t, rl.limiters)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "/users/:id", "200"))
	do(r, "/users/abc", "")
	do(r, "/users/def", "")
	after := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "/users/:id", "200"))
	assert.Equal(t, before+2, after)
}
