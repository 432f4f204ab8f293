package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"CARD_SERVICE_PORT", "WEB_SERVICE_PORT", "POSTGRES_URL", "STORE_DRIVER", "NATS_URL", "RATE_LIMIT", "CARD_API_URL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.CardServicePort)
	assert.Equal(t, "8081", cfg.WebServicePort)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, "http://localhost:8080", cfg.CardAPIURL)
	assert.Equal(t, []string{"http://localhost:8081", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.PostgresURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RATE_LIMIT", "20")
	t.Setenv("CARD_API_URL", "http://cards:9000/")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 20, cfg.RateLimit)
	assert.Equal(t, "http://cards:9000", cfg.CardAPIURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_BadRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")
	assert.Equal(t, 100, Load().RateLimit)

	t.Setenv("RATE_LIMIT", "-5")
	assert.Equal(t, 100, Load().RateLimit)
}

func TestCreateUniqueInstance(t *testing.T) {
	a := CreateUniqueInstance("test")
	b := CreateUniqueInstance("test")

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestCustomLoggerMiddleware_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(CustomLoggerMiddleware())
	r.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	h := CORS([]string{"http://localhost:8081"}).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/pokemon-cards", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:8081", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
