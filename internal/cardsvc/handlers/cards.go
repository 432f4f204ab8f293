package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/avvvet/poketracker/internal/cardsvc/validation"
	"github.com/go-chi/chi"
)

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.ListCards(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch Pokemon cards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	card, err := h.cards.GetCard(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to fetch Pokemon card")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to create Pokemon card")
		return
	}

	input, err := validation.ParseCreate(body)
	if err != nil {
		writeError(w, r, err, "Failed to create Pokemon card")
		return
	}

	card, err := h.cards.CreateCard(r.Context(), input)
	if err != nil {
		writeError(w, r, err, "Failed to create Pokemon card")
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to update Pokemon card")
		return
	}

	patch, err := validation.ParsePatch(body)
	if err != nil {
		writeError(w, r, err, "Failed to update Pokemon card")
		return
	}

	card, err := h.cards.UpdateCard(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, "Failed to update Pokemon card")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	if err := h.cards.DeleteCard(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to delete Pokemon card")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Pokemon card deleted successfully"})
}

func (h *Handler) CardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cards.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to compute collection stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.AllOptions())
}

// readBody reads at most maxBodyBytes; an oversized body is a client error.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &validation.Error{
				Message: "Invalid card data",
				Errors:  []validation.FieldError{{Field: "body", Rule: "max", Message: "request body is too large"}},
			}
		}
		return nil, err
	}
	return body, nil
}
