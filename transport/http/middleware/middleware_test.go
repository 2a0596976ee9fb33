package middleware_test

import (
	"context"
	"fieldbook/config"
	"fieldbook/infras/jwt"
	otelMocks "fieldbook/infras/otel/mocks"
	"fieldbook/permissions"
	"fieldbook/shared/cache"
	"fieldbook/shared/constant"
	"fieldbook/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type memoryCache struct {
	mu     sync.Mutex
	values map[string]int
}

func (c *memoryCache) Increment(_ context.Context, key string, _ int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key]++

	return c.values[key], nil
}

func (c *memoryCache) Save(context.Context, string, any, int) error { return nil }
func (c *memoryCache) Get(context.Context, string, any) error       { return cache.Nil }
func (c *memoryCache) Delete(context.Context, ...string) error      { return nil }
func (c *memoryCache) Clear(context.Context, string) error          { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Auth.Enable = true
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = secret

	return cfg
}

func token(t *testing.T, role string) string {
	t.Helper()

	claims := jwt.Claims{
		UserID:  "user-1",
		Role:    role,
		TokenID: "t-1",
		Type:    jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return "Bearer " + signed
}

func newRouter(cfg *config.Config) http.Handler {
	auth := middleware.NewAuthRoleMiddleware(jwt.New(cfg), otelMocks.NewOtel(), permissions.Get(), cfg)

	echoUser := func(writer http.ResponseWriter, request *http.Request) {
		user, _ := request.Context().Value(constant.ContextKeyUserID).(string)
		_, _ = writer.Write([]byte(user))
	}

	router := chi.NewRouter()
	router.Use(auth.APIKey, auth.Auth, auth.RBAC)
	router.Get("/health", echoUser)
	router.Route("/v1", func(v1 chi.Router) {
		v1.Route("/bookings", func(bookings chi.Router) {
			bookings.Post("/", echoUser)
			bookings.Get("/", echoUser)
			bookings.Delete("/{id}", echoUser)
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		headers  map[string]string
		authOff  bool
		wantCode int
		wantUser string
	}{
		{name: "missing token", method: http.MethodGet, path: "/v1/bookings/", wantCode: http.StatusUnauthorized},
		{name: "malformed header", method: http.MethodGet, path: "/v1/bookings/", headers: map[string]string{"Authorization": "Token abc"}, wantCode: http.StatusUnauthorized},
		{name: "bad signature", method: http.MethodGet, path: "/v1/bookings/", headers: map[string]string{"Authorization": "Bearer a.b.c"}, wantCode: http.StatusUnauthorized},
		{name: "viewer reads", method: http.MethodGet, path: "/v1/bookings/", headers: map[string]string{"Authorization": "viewer"}, wantCode: http.StatusOK, wantUser: "user-1"},
		{name: "viewer cannot create", method: http.MethodPost, path: "/v1/bookings/", headers: map[string]string{"Authorization": "viewer"}, wantCode: http.StatusForbidden},
		{name: "coach creates", method: http.MethodPost, path: "/v1/bookings/", headers: map[string]string{"Authorization": "coach"}, wantCode: http.StatusOK, wantUser: "user-1"},
		{name: "coach deletes", method: http.MethodDelete, path: "/v1/bookings/b1", headers: map[string]string{"Authorization": "coach"}, wantCode: http.StatusOK, wantUser: "user-1"},
		{name: "health skips auth", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "api key", method: http.MethodPost, path: "/v1/bookings/", headers: map[string]string{"X-API-Key": "internal-key"}, wantCode: http.StatusOK, wantUser: constant.SystemUser},
		{name: "wrong api key", method: http.MethodPost, path: "/v1/bookings/", headers: map[string]string{"X-API-Key": "nope"}, wantCode: http.StatusForbidden},
		{name: "auth disabled", method: http.MethodPost, path: "/v1/bookings/", authOff: true, wantCode: http.StatusOK, wantUser: constant.SystemUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.App.Auth.Enable = !tt.authOff

			request := httptest.NewRequest(tt.method, tt.path, nil)

			for key, value := range tt.headers {
				if key == "Authorization" && (value == "viewer" || value == "coach") {
					value = token(t, value)
				}

				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			newRouter(cfg).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())

			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, recorder.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, &memoryCache{values: map[string]int{}})

	router := chi.NewRouter()
	router.Use(app.Tracing, app.RateLimit())
	router.Get("/v1/bookings", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})

	send := func(forwardedFor, userAgent string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		request.Header.Set("X-Forwarded-For", forwardedFor)
		request.Header.Set("User-Agent", userAgent)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		return recorder
	}

	first := send("10.0.0.1, 10.0.0.2", "agent-a")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1", "agent-b").Code)

	limited := send("10.0.0.1", "agent-c")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, send("10.0.0.9", "agent-a").Code)
}

func TestTracing(t *testing.T) {
	recorder := &otelMocks.Recorder{}
	app := middleware.NewAppMiddleware(recorder, testConfig(), &memoryCache{values: map[string]int{}})

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID, app.Tracing)
	router.Get("/v1/bookings/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	router.Get("/v1/broken", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	})

	ok := httptest.NewRecorder()
	router.ServeHTTP(ok, httptest.NewRequest(http.MethodGet, "/v1/bookings/b1", nil))
	assert.NotEmpty(t, ok.Header().Get("X-Request-ID"))

	broken := httptest.NewRecorder()
	router.ServeHTTP(broken, httptest.NewRequest(http.MethodGet, "/v1/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, broken.Code)

	scopes := recorder.Scopes()
	require.Len(t, scopes, 2)

	assert.Equal(t, "GET /v1/bookings/b1", scopes[0].SpanName)
	assert.Equal(t, http.StatusOK, scopes[0].Attributes["http.status_code"])
	assert.Equal(t, "/v1/bookings/{id}", scopes[0].Attributes["http.route"])
	assert.True(t, scopes[0].Ended)
	assert.Empty(t, scopes[0].Errors)

	assert.Len(t, scopes[1].Errors, 1)
	assert.True(t, scopes[1].Ended)
}
