package models

// Option is one entry of the static reference lists used by forms and filters.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var PokemonSets = []Option{
	{Value: "base-set", Label: "Base Set"},
	{Value: "jungle", Label: "Jungle"},
	{Value: "fossil", Label: "Fossil"},
	{Value: "team-rocket", Label: "Team Rocket"},
	{Value: "gym-heroes", Label: "Gym Heroes"},
	{Value: "gym-challenge", Label: "Gym Challenge"},
}

var CardRarities = []Option{
	{Value: "common", Label: "Common"},
	{Value: "uncommon", Label: "Uncommon"},
	{Value: "rare", Label: "Rare"},
	{Value: "rare-holo", Label: "Rare Holo"},
	{Value: "ultra-rare", Label: "Ultra Rare"},
	{Value: "secret-rare", Label: "Secret Rare"},
}

var CardConditions = []Option{
	{Value: "mint", Label: "Mint"},
	{Value: "near-mint", Label: "Near Mint"},
	{Value: "lightly-played", Label: "Lightly Played"},
	{Value: "moderately-played", Label: "Moderately Played"},
	{Value: "heavily-played", Label: "Heavily Played"},
	{Value: "damaged", Label: "Damaged"},
}

// Options groups the reference lists as served by GET /api/options.
type Options struct {
	Sets       []Option `json:"sets"`
	Rarities   []Option `json:"rarities"`
	Conditions []Option `json:"conditions"`
}

func AllOptions() Options {
	return Options{Sets: PokemonSets, Rarities: CardRarities, Conditions: CardConditions}
}

func IsValidSet(v string) bool       { return hasOption(PokemonSets, v) }
func IsValidRarity(v string) bool    { return hasOption(CardRarities, v) }
func IsValidCondition(v string) bool { return hasOption(CardConditions, v) }

// Label returns the display label for v, or v itself when unknown.
func Label(opts []Option, v string) string {
	for _, o := range opts {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
