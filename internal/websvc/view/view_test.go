package view

import (
	"net/url"
	"testing"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/stretchr/testify/assert"
)

func collection() []models.Card {
	return []models.Card{
		{ID: 3, Name: "Charizard", Set: "base-set", Number: models.StringPtr("4/102"), Rarity: "rare-holo", Condition: "near-mint"},
		{ID: 2, Name: "Scyther", Set: "jungle", Number: models.StringPtr("10/64"), Rarity: "rare", Condition: "lightly-played"},
		{ID: 1, Name: "Kabuto", Set: "fossil", Rarity: "common", Condition: "damaged"},
	}
}

func names(cards []models.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Name)
	}
	return out
}

func TestParseState_Defaults(t *testing.T) {
	s := ParseState(url.Values{})

	assert.Equal(t, State{Set: All, Condition: All, Rarity: All}, s)
	assert.Equal(t, "/", s.HomeURL())
}

func TestParseState_UnknownFilterFallsBackToAll(t *testing.T) {
	s := ParseState(url.Values{"set": {"neo-genesis"}, "rarity": {"rare"}, "condition": {""}})

	assert.Equal(t, All, s.Set)
	assert.Equal(t, "rare", s.Rarity)
	assert.Equal(t, All, s.Condition)
}

func TestParseState_Modal(t *testing.T) {
	s := ParseState(url.Values{"modal": {"edit"}, "id": {"7"}})
	assert.Equal(t, ModalEdit, s.Modal)
	assert.Equal(t, int64(7), s.SelectedID)

	// details and edit need a usable id
	s = ParseState(url.Values{"modal": {"details"}, "id": {"x"}})
	assert.Equal(t, ModalNone, s.Modal)

	s = ParseState(url.Values{"modal": {"bogus"}})
	assert.Equal(t, ModalNone, s.Modal)
}

func TestFilter_Rarity(t *testing.T) {
	s := ParseState(url.Values{"rarity": {"rare"}})

	// exact match, rare-holo is a different rarity
	assert.Equal(t, []string{"Scyther"}, names(Filter(collection(), s)))
}

func TestFilter_Search(t *testing.T) {
	cases := map[string][]string{
		"char":   {"Charizard"},
		"JUNGLE": {"Scyther"},
		"/102":   {"Charizard"},
		"0":      {"Charizard", "Scyther"},
		"mewtwo": {},
	}
	for q, want := range cases {
		got := Filter(collection(), ParseState(url.Values{"q": {q}}))
		assert.Equal(t, want, names(got), q)
	}
}

func TestFilter_SearchIsNotTrimmed(t *testing.T) {
	s := ParseState(url.Values{"q": {"zard "}})
	assert.Equal(t, "zard ", s.Search)
	assert.Empty(t, Filter(collection(), s))

	s = ParseState(url.Values{"q": {"Dark Char"}})
	cards := append(collection(), models.Card{ID: 4, Name: "Dark Charizard", Set: "team-rocket", Rarity: "rare-holo", Condition: "mint"})
	assert.Equal(t, []string{"Dark Charizard"}, names(Filter(cards, s)))
}

func TestFilter_Combined(t *testing.T) {
	s := ParseState(url.Values{"q": {"a"}, "set": {"base-set"}, "condition": {"near-mint"}})
	assert.Equal(t, []string{"Charizard"}, names(Filter(collection(), s)))

	s = ParseState(url.Values{"set": {"all"}, "rarity": {"all"}, "condition": {"all"}})
	assert.Equal(t, []string{"Charizard", "Scyther", "Kabuto"}, names(Filter(collection(), s)))
}

func TestURLs_KeepFilters(t *testing.T) {
	s := State{Search: "char", Set: "base-set", Condition: All, Rarity: All}

	assert.Equal(t, "/?q=char&set=base-set", s.HomeURL())
	assert.Equal(t, "/?modal=add&q=char&set=base-set", s.AddURL())
	assert.Equal(t, "/?id=3&modal=details&q=char&set=base-set", s.DetailsURL(3))
	assert.Equal(t, "/?id=3&modal=edit&q=char&set=base-set", s.EditURL(3))
}
