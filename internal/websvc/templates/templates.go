package templates

import (
	"embed"
	"html/template"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"setLabel":       func(v string) string { return models.Label(models.PokemonSets, v) },
	"rarityLabel":    func(v string) string { return models.Label(models.CardRarities, v) },
	"conditionLabel": func(v string) string { return models.Label(models.CardConditions, v) },
	"deref": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
	"rarityClass":    rarityClass,
	"conditionClass": conditionClass,
}

// Parse loads the embedded pages. It panics on a broken template.
func Parse() *template.Template {
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(files, "*.html"))
}

func rarityClass(rarity string) string {
	switch rarity {
	case "uncommon":
		return "badge-green"
	case "rare":
		return "badge-blue"
	case "rare-holo":
		return "badge-purple"
	case "ultra-rare":
		return "badge-orange"
	case "secret-rare":
		return "badge-red"
	}
	return "badge-gray"
}

func conditionClass(condition string) string {
	switch condition {
	case "mint":
		return "badge-green"
	case "near-mint":
		return "badge-blue"
	case "lightly-played":
		return "badge-yellow"
	case "moderately-played":
		return "badge-orange"
	case "heavily-played":
		return "badge-red"
	}
	return "badge-gray"
}
