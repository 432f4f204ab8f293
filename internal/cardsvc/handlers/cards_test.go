package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/avvvet/poketracker/internal/cardsvc/service"
	"github.com/avvvet/poketracker/internal/cardsvc/store"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const charizardJSON = `{"name":"Charizard","set":"base-set","rarity":"rare-holo","condition":"near-mint","value":"150.00","number":"4/102"}`

func newRouter(cs store.CardStore) http.Handler {
	r := chi.NewRouter()
	NewHandler(service.NewCardService(cs, nil)).SetRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateThenGet(t *testing.T) {
	h := newRouter(store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/pokemon-cards", charizardJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	created := decode[models.Card](t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Charizard", created.Name)
	assert.Equal(t, "150.00", created.Value)
	assert.False(t, created.CreatedAt.IsZero())

	rec = do(t, h, http.MethodGet, "/api/pokemon-cards/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Card](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "4/102", *got.Number)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateDefaultsValueAndIgnoresId(t *testing.T) {
	h := newRouter(store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/pokemon-cards",
		`{"id":77,"name":"Bulbasaur","set":"base-set","rarity":"common","condition":"mint"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	card := decode[models.Card](t, rec)
	assert.Equal(t, int64(1), card.ID)
	assert.Equal(t, "0.00", card.Value)
	assert.Nil(t, card.Notes)
}

func TestListNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	ms := store.NewMemoryStore().WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	h := newRouter(ms)

	rec := do(t, h, http.MethodGet, "/api/pokemon-cards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, name := range []string{"A", "B", "C"} {
		body := `{"name":"` + name + `","set":"jungle","rarity":"common","condition":"lightly-played"}`
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/pokemon-cards", body).Code)
	}

	cards := decode[[]models.Card](t, do(t, h, http.MethodGet, "/api/pokemon-cards", ""))
	require.Len(t, cards, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{cards[0].Name, cards[1].Name, cards[2].Name})
}

func TestCreateValidation(t *testing.T) {
	h := newRouter(store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/pokemon-cards", `{"notes":"no name"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Invalid card data", resp.Message)
	fields := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "set", "rarity", "condition"}, fields)

	rec = do(t, h, http.MethodPost, "/api/pokemon-cards", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing was stored
	assert.JSONEq(t, `[]`, do(t, h, http.MethodGet, "/api/pokemon-cards", "").Body.String())
}

func TestCreateBodyTooLarge(t *testing.T) {
	h := newRouter(store.NewMemoryStore())

	big := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rec := do(t, h, http.MethodPost, "/api/pokemon-cards", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdate(t *testing.T) {
	h := newRouter(store.NewMemoryStore())
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/pokemon-cards", charizardJSON).Code)

	rec := do(t, h, http.MethodPut, "/api/pokemon-cards/1", `{"condition":"heavily-played","notes":"creased corner"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	card := decode[models.Card](t, rec)
	assert.Equal(t, "heavily-played", card.Condition)
	assert.Equal(t, "creased corner", *card.Notes)
	assert.Equal(t, "Charizard", card.Name)
	assert.Equal(t, "150.00", card.Value)

	rec = do(t, h, http.MethodPut, "/api/pokemon-cards/1", `{"rarity":"legendary"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMissing(t *testing.T) {
	h := newRouter(store.NewMemoryStore())

	rec := do(t, h, http.MethodPut, "/api/pokemon-cards/999", `{"name":"Mew"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pokemon card not found", decode[ErrorResponse](t, rec).Message)
}

func TestInvalidID(t *testing.T) {
	h := newRouter(store.NewMemoryStore())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/pokemon-cards/abc"},
		{http.MethodGet, "/api/pokemon-cards/0"},
		{http.MethodPut, "/api/pokemon-cards/-3"},
		{http.MethodDelete, "/api/pokemon-cards/1.5"},
	} {
		rec := do(t, h, tc.method, tc.path, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path)
		assert.Equal(t, "Invalid card ID", decode[ErrorResponse](t, rec).Message)
	}
}

func TestDelete(t *testing.T) {
	h := newRouter(store.NewMemoryStore())
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/pokemon-cards", charizardJSON).Code)

	rec := do(t, h, http.MethodDelete, "/api/pokemon-cards/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pokemon card deleted successfully", decode[MessageResponse](t, rec).Message)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/pokemon-cards/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/pokemon-cards/1", "").Code)
}

func TestStatsAndOptions(t *testing.T) {
	h := newRouter(store.NewMemoryStore())
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/pokemon-cards", charizardJSON).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/pokemon-cards",
		`{"name":"Rattata","set":"base-set","rarity":"common","condition":"lightly-played","value":"0.5"}`).Code)

	rec := do(t, h, http.MethodGet, "/api/pokemon-cards/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalCards":2,"totalValue":"150.50","rareCards":1,"completeSets":0}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	opts := decode[models.Options](t, rec)
	assert.Len(t, opts.Sets, len(models.PokemonSets))
	assert.Equal(t, models.CardRarities, opts.Rarities)
	assert.Equal(t, models.CardConditions, opts.Conditions)
}

// failingStore simulates a lost database connection.
type failingStore struct{ *store.MemoryStore }

var errDown = errors.New("dial tcp 127.0.0.1:5432: connection refused")

func (failingStore) List(context.Context) ([]models.Card, error) { return nil, errDown }
func (failingStore) Get(context.Context, int64) (*models.Card, error) {
	return nil, errDown
}
func (failingStore) Update(context.Context, int64, models.CardPatch) (*models.Card, error) {
	return nil, errDown
}
func (failingStore) Create(context.Context, models.CardInput) (*models.Card, error) {
	return nil, errDown
}
func (failingStore) Delete(context.Context, int64) (bool, error) { return false, errDown }
func (failingStore) Ping(context.Context) error                  { return errDown }

func TestStoreFailureIsGeneric(t *testing.T) {
	h := newRouter(failingStore{store.NewMemoryStore()})

	rec := do(t, h, http.MethodGet, "/api/pokemon-cards", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Failed to fetch Pokemon cards", resp.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	rec = do(t, h, http.MethodPost, "/api/pokemon-cards", charizardJSON)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to create Pokemon card", decode[ErrorResponse](t, rec).Message)

	rec = do(t, h, http.MethodDelete, "/api/pokemon-cards/1", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to delete Pokemon card", decode[ErrorResponse](t, rec).Message)

	rec = do(t, h, http.MethodGet, "/api/pokemon-cards/1", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch Pokemon card", decode[ErrorResponse](t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	rec = do(t, h, http.MethodPut, "/api/pokemon-cards/1", `{"name":"Mew"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to update Pokemon card", decode[ErrorResponse](t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	// an empty patch fails the same way
	rec = do(t, h, http.MethodPut, "/api/pokemon-cards/1", `{}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to update Pokemon card", decode[ErrorResponse](t, rec).Message)
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(store.NewMemoryStore()), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HealthResponse{Status: "ok", Store: "ok"}, decode[HealthResponse](t, rec))

	rec = do(t, newRouter(failingStore{store.NewMemoryStore()}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, HealthResponse{Status: "error", Store: "error"}, decode[HealthResponse](t, rec))
}
