package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/poketracker/configs"
	"github.com/avvvet/poketracker/internal/cardsvc/db"
	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/avvvet/poketracker/internal/cardsvc/store"
)

const SERVICE_NAME = "dbctl"

func init() {
	config.Logging(SERVICE_NAME)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	migrate := flag.Bool("migrate", true, "create the pokemon_cards table if missing")
	seed := flag.Bool("seed", false, "insert sample cards when the table is empty")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// pg connection
	dbpool, err := db.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	if *migrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			log.Errorf("Migration failed: %v", err)
			os.Exit(1)
		}
	}

	if *seed {
		cards := store.NewPostgresStore(dbpool)
		n, err := seedCards(ctx, cards)
		if err != nil {
			log.Errorf("seed failed: %v", err)
			os.Exit(1)
		}
		log.Infof("seeded %d cards", n)
	}
}

// seedCards inserts sampleCards into an empty store and returns how many were added.
func seedCards(ctx context.Context, cards store.CardStore) (int, error) {
	existing, err := cards.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Infof("store already holds %d cards, skipping seed", len(existing))
		return 0, nil
	}

	for i, in := range sampleCards() {
		if _, err := cards.Create(ctx, in); err != nil {
			return i, fmt.Errorf("seed %q: %w", in.Name, err)
		}
	}
	return len(sampleCards()), nil
}

func sampleCards() []models.CardInput {
	return []models.CardInput{
		{Name: "Charizard", Set: "base-set", Number: models.StringPtr("4/102"), Rarity: "rare-holo", Condition: "near-mint", Value: "150.00"},
		{Name: "Blastoise", Set: "base-set", Number: models.StringPtr("2/102"), Rarity: "rare-holo", Condition: "lightly-played", Value: "80.00"},
		{Name: "Pikachu", Set: "base-set", Number: models.StringPtr("58/102"), Rarity: "common", Condition: "mint", Value: "5.50"},
		{Name: "Scyther", Set: "jungle", Number: models.StringPtr("10/64"), Rarity: "rare-holo", Condition: "near-mint", Value: "35.00"},
		{Name: "Eevee", Set: "jungle", Number: models.StringPtr("51/64"), Rarity: "common", Condition: "moderately-played", Value: "1.25"},
		{Name: "Gengar", Set: "fossil", Number: models.StringPtr("5/62"), Rarity: "rare-holo", Condition: "near-mint", Value: "45.00"},
		{Name: "Dark Charizard", Set: "team-rocket", Number: models.StringPtr("4/82"), Rarity: "rare-holo", Condition: "heavily-played", Value: "60.00",
			Notes: models.StringPtr("Crease on the back, bought at a local show")},
		{Name: "Misty's Tears", Set: "gym-heroes", Number: models.StringPtr("118/132"), Rarity: "uncommon", Condition: "mint"},
		{Name: "Blaine's Charizard", Set: "gym-challenge", Number: models.StringPtr("2/132"), Rarity: "rare-holo", Condition: "damaged", Value: "20.00"},
	}
}
