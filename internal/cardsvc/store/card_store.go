package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements CardStore on a pgx pool against the pokemon_cards
// table created by db.Migrate.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const cardColumns = `id, name, "set", "number", rarity, "condition", COALESCE("value", 0.00)::text, notes, image_url, created_at`

func (s *PostgresStore) List(ctx context.Context) ([]models.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM pokemon_cards
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	return cards, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*models.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM pokemon_cards
		WHERE id = $1
	`

	card, err := scanCard(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	return card, nil
}

func (s *PostgresStore) Create(ctx context.Context, in models.CardInput) (*models.Card, error) {
	value := in.Value
	if value == "" {
		value = models.DefaultValue
	}

	query := `
		INSERT INTO pokemon_cards (name, "set", "number", rarity, "condition", "value", notes, image_url)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
		RETURNING ` + cardColumns

	card, err := scanCard(s.db.QueryRow(ctx, query,
		in.Name, in.Set, in.Number, in.Rarity, in.Condition, value, in.Notes, in.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("could not create card: %w", err)
	}

	return card, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, patch models.CardPatch) (*models.Card, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	sets, args := patchAssignments(patch)
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE pokemon_cards
		SET %s
		WHERE id = $%d
		RETURNING `+cardColumns, strings.Join(sets, ", "), len(args))

	card, err := scanCard(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not update card: %w", err)
	}

	return card, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM pokemon_cards WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete card: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// patchAssignments builds the SET list for the supplied fields in column order.
func patchAssignments(p models.CardPatch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Set != nil {
		add(`"set"`, *p.Set)
	}
	switch {
	case p.ClearNumber:
		add(`"number"`, nil)
	case p.Number != nil:
		add(`"number"`, *p.Number)
	}
	if p.Rarity != nil {
		add("rarity", *p.Rarity)
	}
	if p.Condition != nil {
		add(`"condition"`, *p.Condition)
	}
	if p.Value != nil {
		args = append(args, *p.Value)
		sets = append(sets, fmt.Sprintf(`"value" = $%d::numeric`, len(args)))
	}
	switch {
	case p.ClearNotes:
		add("notes", nil)
	case p.Notes != nil:
		add("notes", *p.Notes)
	}
	switch {
	case p.ClearImageURL:
		add("image_url", nil)
	case p.ImageURL != nil:
		add("image_url", *p.ImageURL)
	}

	return sets, args
}

func scanCard(row pgx.Row) (*models.Card, error) {
	var card models.Card
	err := row.Scan(
		&card.ID,
		&card.Name,
		&card.Set,
		&card.Number,
		&card.Rarity,
		&card.Condition,
		&card.Value,
		&card.Notes,
		&card.ImageURL,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
