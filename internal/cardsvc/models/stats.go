package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// rareRarities are counted by Stats.RareCards.
var rareRarities = map[string]bool{
	"rare":        true,
	"rare-holo":   true,
	"ultra-rare":  true,
	"secret-rare": true,
}

// Stats summarises a whole collection.
type Stats struct {
	TotalCards   int    `json:"totalCards"`
	TotalValue   string `json:"totalValue"`
	RareCards    int    `json:"rareCards"`
	CompleteSets int    `json:"completeSets"`
}

// ComputeStats aggregates cards. Values that do not parse count as zero.
func ComputeStats(cards []Card) Stats {
	total := decimal.Zero
	rare := 0
	for _, c := range cards {
		if v, err := decimal.NewFromString(strings.TrimSpace(c.Value)); err == nil {
			total = total.Add(v)
		}
		if IsRare(c.Rarity) {
			rare++
		}
	}

	// TODO: count complete sets once the reference data carries per-set card totals.
	return Stats{
		TotalCards:   len(cards),
		TotalValue:   total.StringFixed(2),
		RareCards:    rare,
		CompleteSets: 0,
	}
}

func IsRare(rarity string) bool {
	return rareRarities[rarity]
}
