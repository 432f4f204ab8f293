package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/avvvet/poketracker/internal/websvc/client"
	"github.com/avvvet/poketracker/internal/websvc/view"
	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

type toast struct {
	Title       string
	Description string
	Destructive bool
}

var notices = map[string]toast{
	"added":   {Title: "Card added", Description: "Pokemon card has been added to your collection."},
	"updated": {Title: "Card updated", Description: "Pokemon card has been updated."},
	"deleted": {Title: "Card deleted", Description: "Pokemon card has been removed from your collection."},
}

var failures = map[string]toast{
	"load":   {Title: "Error", Description: "Failed to load cards. Please try again.", Destructive: true},
	"add":    {Title: "Error", Description: "Failed to add card. Please try again.", Destructive: true},
	"update": {Title: "Error", Description: "Failed to update card. Please try again.", Destructive: true},
	"delete": {Title: "Error", Description: "Failed to delete card. Please try again.", Destructive: true},
}

// formValues echoes the add/edit form back to the page.
type formValues struct {
	Name, Set, Number, Rarity, Condition, Value, Notes, ImageURL string
}

type pageData struct {
	State    view.State
	Cards    []models.Card // filtered
	Total    int           // unfiltered count
	Stats    models.Stats
	Options  models.Options
	Selected *models.Card
	Form     formValues
	Toast    *toast
}

// Home renders the grid for the filters in the query string.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	state := view.ParseState(r.URL.Query())
	data := h.load(r, state)

	if t, ok := notices[r.URL.Query().Get("notice")]; ok && data.Toast == nil {
		data.Toast = &t
	}
	if t, ok := failures[r.URL.Query().Get("error")]; ok && data.Toast == nil {
		data.Toast = &t
	}

	if data.Selected != nil && state.Modal == view.ModalEdit {
		data.Form = formFromCard(*data.Selected)
	}
	if state.Modal == view.ModalAdd {
		data.Form = formValues{Value: models.DefaultValue}
	}

	h.render(w, http.StatusOK, data)
}

// CreateCard handles the add card form.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	state := view.ParseState(r.PostForm)
	form := readForm(r)

	if _, err := h.api.CreateCard(r.Context(), createBody(form)); err != nil {
		log.Errorf("create card: %v", err)
		state.Modal = view.ModalAdd
		h.renderFailure(w, r, state, form, "add", err)
		return
	}

	http.Redirect(w, r, state.With(map[string]string{"notice": "added"}), http.StatusSeeOther)
}

// UpdateCard handles the edit form.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	state := view.ParseState(r.PostForm)
	form := readForm(r)

	if _, err := h.api.UpdateCard(r.Context(), id, updateBody(form)); err != nil {
		log.Errorf("update card %d: %v", id, err)
		state.Modal = view.ModalEdit
		state.SelectedID = id
		h.renderFailure(w, r, state, form, "update", err)
		return
	}

	http.Redirect(w, r, state.With(map[string]string{"notice": "updated"}), http.StatusSeeOther)
}

// DeleteCard handles the delete button of the grid and the details modal.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	state := view.ParseState(r.PostForm)

	if err := h.api.DeleteCard(r.Context(), id); err != nil {
		log.Errorf("delete card %d: %v", id, err)
		http.Redirect(w, r, state.With(map[string]string{"error": "delete"}), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, state.With(map[string]string{"notice": "deleted"}), http.StatusSeeOther)
}

// load fetches the full list and derives the page from it.
func (h *Handler) load(r *http.Request, state view.State) pageData {
	data := pageData{State: state, Options: models.AllOptions(), Cards: []models.Card{}}

	cards, err := h.api.ListCards(r.Context())
	if err != nil {
		log.Errorf("list cards: %v", err)
		t := failures["load"]
		data.Toast = &t
		return data
	}

	data.Cards = view.Filter(cards, state)
	data.Total = len(cards)
	data.Stats = models.ComputeStats(cards)
	if state.SelectedID > 0 {
		for i := range cards {
			if cards[i].ID == state.SelectedID {
				data.Selected = &cards[i]
				break
			}
		}
	}
	return data
}

// renderFailure re-renders the open modal with the submitted values and a
// generic error toast. Nothing is applied locally.
func (h *Handler) renderFailure(w http.ResponseWriter, r *http.Request, state view.State, form formValues, action string, err error) {
	data := h.load(r, state)
	data.Form = form
	t := failures[action]
	data.Toast = &t

	status := http.StatusBadGateway
	var se *client.StatusError
	if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
		status = se.Status
	}
	h.render(w, status, data)
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "page.html", data); err != nil {
		log.Errorf("render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func readForm(r *http.Request) formValues {
	get := func(k string) string { return strings.TrimSpace(r.PostForm.Get(k)) }
	return formValues{
		Name:      get("name"),
		Set:       get("card_set"),
		Number:    get("number"),
		Rarity:    get("card_rarity"),
		Condition: get("card_condition"),
		Value:     get("value"),
		Notes:     get("notes"),
		ImageURL:  get("imageUrl"),
	}
}

func formFromCard(c models.Card) formValues {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return formValues{
		Name:      c.Name,
		Set:       c.Set,
		Number:    deref(c.Number),
		Rarity:    c.Rarity,
		Condition: c.Condition,
		Value:     c.Value,
		Notes:     deref(c.Notes),
		ImageURL:  deref(c.ImageURL),
	}
}

// createBody leaves blank fields out so the API applies its defaults.
func createBody(f formValues) client.CardForm {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return client.CardForm{
		Name:      opt(f.Name),
		Set:       opt(f.Set),
		Number:    opt(f.Number),
		Rarity:    opt(f.Rarity),
		Condition: opt(f.Condition),
		Value:     opt(f.Value),
		Notes:     opt(f.Notes),
		ImageURL:  opt(f.ImageURL),
	}
}

// updateBody sends every field; blank optional text clears it, a blank value keeps it.
func updateBody(f formValues) client.CardForm {
	body := client.CardForm{
		Name:      &f.Name,
		Set:       &f.Set,
		Number:    &f.Number,
		Rarity:    &f.Rarity,
		Condition: &f.Condition,
		Notes:     &f.Notes,
		ImageURL:  &f.ImageURL,
	}
	if f.Value != "" {
		body.Value = &f.Value
	}
	return body
}
