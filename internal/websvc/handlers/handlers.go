package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/avvvet/poketracker/internal/websvc/client"
	"github.com/avvvet/poketracker/internal/websvc/templates"
	"github.com/avvvet/poketracker/internal/websvc/ws"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// CardAPI is the subset of the card API client used by the pages.
type CardAPI interface {
	ListCards(ctx context.Context) ([]models.Card, error)
	CreateCard(ctx context.Context, form client.CardForm) (*models.Card, error)
	UpdateCard(ctx context.Context, id int64, form client.CardForm) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

type Handler struct {
	api      CardAPI
	ws       *ws.Ws
	upgrader websocket.Upgrader
	pages    *template.Template
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
}

func NewHandler(api CardAPI, s *ws.Ws) *Handler {
	return &Handler{
		api: api,
		ws:  s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pages: templates.Parse(),
	}
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "web service is running",
		Code:    http.StatusOK,
		Data:    map[string]int{"sockets": h.ws.Count()},
	})
}
