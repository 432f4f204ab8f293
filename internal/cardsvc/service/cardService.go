package service

import (
	"context"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/avvvet/poketracker/internal/cardsvc/store"
	"github.com/avvvet/poketracker/internal/comm"
)

// Notifier is told about every committed mutation.
type Notifier interface {
	CardChanged(action string, cardID int64)
}

type nopNotifier struct{}

func (nopNotifier) CardChanged(string, int64) {}

// CardService struct represents the card service layer
type CardService struct {
	store    store.CardStore
	notifier Notifier
}

// NewCardService creates a new CardService. A nil notifier disables events.
func NewCardService(store store.CardStore, notifier Notifier) *CardService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CardService{store: store, notifier: notifier}
}

func (s *CardService) ListCards(ctx context.Context) ([]models.Card, error) {
	cards, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}

func (s *CardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	return s.store.Get(ctx, id)
}

func (s *CardService) CreateCard(ctx context.Context, in models.CardInput) (*models.Card, error) {
	card, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.notifier.CardChanged(comm.ActionCreated, card.ID)
	return card, nil
}

func (s *CardService) UpdateCard(ctx context.Context, id int64, patch models.CardPatch) (*models.Card, error) {
	card, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !patch.IsEmpty() {
		s.notifier.CardChanged(comm.ActionUpdated, card.ID)
	}
	return card, nil
}

// DeleteCard returns store.ErrNotFound when nothing was removed.
func (s *CardService) DeleteCard(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrNotFound
	}
	s.notifier.CardChanged(comm.ActionDeleted, id)
	return nil
}

// Stats aggregates the whole collection.
func (s *CardService) Stats(ctx context.Context) (models.Stats, error) {
	cards, err := s.store.List(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return models.ComputeStats(cards), nil
}

func (s *CardService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
