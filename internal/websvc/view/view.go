// Package view holds the grid state of the web frontend and derives the
// displayed cards from it.
package view

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
)

// All disables a filter.
const All = "all"

// Modal names.
const (
	ModalNone    = ""
	ModalAdd     = "add"
	ModalDetails = "details"
	ModalEdit    = "edit"
)

// State is the UI state carried in the query string.
type State struct {
	Search     string
	Set        string
	Condition  string
	Rarity     string
	Modal      string
	SelectedID int64
}

// ParseState reads the state from query values. Unknown filter values fall back to All.
func ParseState(q url.Values) State {
	s := State{
		Search:    q.Get("q"),
		Set:       normalizeFilter(q.Get("set"), models.IsValidSet),
		Condition: normalizeFilter(q.Get("condition"), models.IsValidCondition),
		Rarity:    normalizeFilter(q.Get("rarity"), models.IsValidRarity),
	}

	switch m := q.Get("modal"); m {
	case ModalAdd:
		s.Modal = m
	case ModalDetails, ModalEdit:
		if id, err := strconv.ParseInt(q.Get("id"), 10, 64); err == nil && id > 0 {
			s.Modal = m
			s.SelectedID = id
		}
	}
	return s
}

func normalizeFilter(v string, valid func(string) bool) string {
	if valid(v) {
		return v
	}
	return All
}

// Query encodes the filter part of the state; modal fields are left out.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set("q", s.Search)
	}
	if isActive(s.Set) {
		q.Set("set", s.Set)
	}
	if isActive(s.Condition) {
		q.Set("condition", s.Condition)
	}
	if isActive(s.Rarity) {
		q.Set("rarity", s.Rarity)
	}
	return q
}

// With returns the URL of the page for the same filters plus extra params.
func (s State) With(extra map[string]string) string {
	q := s.Query()
	for k, v := range extra {
		q.Set(k, v)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func isActive(filter string) bool {
	return filter != "" && filter != All
}

// Matches reports whether card passes the search text and every active filter.
func (s State) Matches(card models.Card) bool {
	if s.Search != "" {
		needle := strings.ToLower(s.Search)
		number := ""
		if card.Number != nil {
			number = *card.Number
		}
		if !strings.Contains(strings.ToLower(card.Name), needle) &&
			!strings.Contains(strings.ToLower(card.Set), needle) &&
			!strings.Contains(strings.ToLower(number), needle) {
			return false
		}
	}
	if isActive(s.Set) && card.Set != s.Set {
		return false
	}
	if isActive(s.Condition) && card.Condition != s.Condition {
		return false
	}
	if isActive(s.Rarity) && card.Rarity != s.Rarity {
		return false
	}
	return true
}

// Filter keeps the cards matching s, preserving order.
func Filter(cards []models.Card, s State) []models.Card {
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if s.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s State) HomeURL() string { return s.With(nil) }
func (s State) AddURL() string  { return s.With(map[string]string{"modal": ModalAdd}) }

func (s State) DetailsURL(id int64) string {
	return s.With(map[string]string{"modal": ModalDetails, "id": strconv.FormatInt(id, 10)})
}

func (s State) EditURL(id int64) string {
	return s.With(map[string]string{"modal": ModalEdit, "id": strconv.FormatInt(id, 10)})
}
