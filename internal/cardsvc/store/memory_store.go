package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
)

// MemoryStore keeps cards in a map guarded by a mutex. Ids come from a
// counter and are never reused.
type MemoryStore struct {
	mu     sync.RWMutex
	cards  map[int64]models.Card
	nextID int64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cards: make(map[int64]models.Card),
		now:   time.Now,
	}
}

// WithClock replaces the timestamp source, used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := make([]models.Card, 0, len(s.cards))
	for _, c := range s.cards {
		cards = append(cards, copyCard(c))
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].ID > cards[j].ID
		}
		return cards[i].CreatedAt.After(cards[j].CreatedAt)
	})
	return cards, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = copyCard(c)
	return &c, nil
}

func (s *MemoryStore) Create(ctx context.Context, in models.CardInput) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	value := in.Value
	if value == "" {
		value = models.DefaultValue
	}
	c := models.Card{
		ID:        s.nextID,
		Name:      in.Name,
		Set:       in.Set,
		Number:    cloneString(in.Number),
		Rarity:    in.Rarity,
		Condition: in.Condition,
		Value:     value,
		Notes:     cloneString(in.Notes),
		ImageURL:  cloneString(in.ImageURL),
		CreatedAt: s.now().UTC(),
	}
	s.cards[c.ID] = c

	out := copyCard(c)
	return &out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, patch models.CardPatch) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&c)
	s.cards[id] = c

	out := copyCard(c)
	return &out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return false, nil
	}
	delete(s.cards, id)
	return true, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func copyCard(c models.Card) models.Card {
	c.Number = cloneString(c.Number)
	c.Notes = cloneString(c.Notes)
	c.ImageURL = cloneString(c.ImageURL)
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
