package models

import "time"

// Card represents a row of the pokemon_cards table.
type Card struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Set       string    `json:"set"`
	Number    *string   `json:"number"`
	Rarity    string    `json:"rarity"`
	Condition string    `json:"condition"`
	Value     string    `json:"value"` // decimal with two places, e.g. "150.00"
	Notes     *string   `json:"notes"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultValue is stored when a card is created without a value.
const DefaultValue = "0.00"

// CardInput holds the fields accepted when creating a card.
// Id and createdAt are assigned by the store.
type CardInput struct {
	Name      string
	Set       string
	Number    *string
	Rarity    string
	Condition string
	Value     string
	Notes     *string
	ImageURL  *string
}

// CardPatch is a partial update; nil fields keep their stored value.
// The Clear* flags null out the optional columns.
type CardPatch struct {
	Name      *string
	Set       *string
	Number    *string
	Rarity    *string
	Condition *string
	Value     *string
	Notes     *string
	ImageURL  *string

	ClearNumber   bool
	ClearNotes    bool
	ClearImageURL bool
}

// IsEmpty reports whether the patch changes nothing.
func (p CardPatch) IsEmpty() bool {
	return p.Name == nil && p.Set == nil && p.Number == nil && p.Rarity == nil &&
		p.Condition == nil && p.Value == nil && p.Notes == nil && p.ImageURL == nil &&
		!p.ClearNumber && !p.ClearNotes && !p.ClearImageURL
}

// Apply merges the patch onto c. ID and CreatedAt are never touched.
func (p CardPatch) Apply(c *Card) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Set != nil {
		c.Set = *p.Set
	}
	if p.Rarity != nil {
		c.Rarity = *p.Rarity
	}
	if p.Condition != nil {
		c.Condition = *p.Condition
	}
	if p.Value != nil {
		c.Value = *p.Value
	}
	c.Number = mergeOptional(c.Number, p.Number, p.ClearNumber)
	c.Notes = mergeOptional(c.Notes, p.Notes, p.ClearNotes)
	c.ImageURL = mergeOptional(c.ImageURL, p.ImageURL, p.ClearImageURL)
}

func mergeOptional(cur, next *string, clear bool) *string {
	if clear {
		return nil
	}
	if next != nil {
		v := *next
		return &v
	}
	return cur
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
