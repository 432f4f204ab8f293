package store

import (
	"context"
	"errors"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
)

var ErrNotFound = errors.New("card not found")

// CardStore is implemented by the postgres and in-memory stores.
// Inputs are trusted: enumerations are checked before a write reaches the store.
type CardStore interface {
	// List returns every card, newest first.
	List(ctx context.Context) ([]models.Card, error)
	// Get returns ErrNotFound when no card has the id.
	Get(ctx context.Context, id int64) (*models.Card, error)
	Create(ctx context.Context, in models.CardInput) (*models.Card, error)
	// Update merges patch onto the stored card, returns ErrNotFound for unknown ids.
	Update(ctx context.Context, id int64, patch models.CardPatch) (*models.Card, error)
	// Delete reports whether a card was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Ping(ctx context.Context) error
}
