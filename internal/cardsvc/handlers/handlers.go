package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avvvet/poketracker/internal/cardsvc/service"
	"github.com/avvvet/poketracker/internal/cardsvc/store"
	"github.com/avvvet/poketracker/internal/cardsvc/validation"
	log "github.com/sirupsen/logrus"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var ErrInvalidID = errors.New("invalid card id")

type Handler struct {
	cards *service.CardService
}

func NewHandler(cards *service.CardService) *Handler {
	return &Handler{cards: cards}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// HealthHandler answers 503 while the store is unreachable.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.cards.Ping(r.Context()); err != nil {
		log.Errorf("health: store ping failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "error", Store: "error"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps err onto the 400/404/500 taxonomy. fallback is the
// message used for server errors, the cause itself is only logged.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: verr.Message, Errors: verr.Errors})
	case errors.Is(err, ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid card ID"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "Pokemon card not found"})
	default:
		log.WithField("path", r.URL.Path).Errorf("%s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: fallback})
	}
}

// parseID accepts positive base-10 ids only.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
