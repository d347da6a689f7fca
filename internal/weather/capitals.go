package weather

import "strings"

// countryCapitals substitutes a capital city when the user names a country
// instead of a city ("weather in Japan" → Tokyo). Keys are lower-cased.
var countryCapitals = map[string]string{
	"united states":        "Washington, D.C.",
	"usa":                  "Washington, D.C.",
	"us":                   "Washington, D.C.",
	"united kingdom":       "London",
	"uk":                   "London",
	"japan":                "Tokyo",
	"china":                "Beijing",
	"india":                "New Delhi",
	"germany":              "Berlin",
	"france":               "Paris",
	"italy":                "Rome",
	"spain":                "Madrid",
	"canada":               "Ottawa",
	"australia":            "Canberra",
	"brazil":               "Brasília",
	"russia":               "Moscow",
	"south korea":          "Seoul",
	"mexico":               "Mexico City",
	"netherlands":          "Amsterdam",
	"sweden":               "Stockholm",
	"norway":               "Oslo",
	"denmark":              "Copenhagen",
	"finland":              "Helsinki",
	"switzerland":          "Bern",
	"austria":              "Vienna",
	"belgium":              "Brussels",
	"portugal":             "Lisbon",
	"greece":               "Athens",
	"turkey":               "Ankara",
	"egypt":                "Cairo",
	"south africa":         "Cape Town",
	"argentina":            "Buenos Aires",
	"chile":                "Santiago",
	"colombia":             "Bogotá",
	"peru":                 "Lima",
	"venezuela":            "Caracas",
	"thailand":             "Bangkok",
	"vietnam":              "Hanoi",
	"singapore":            "Singapore",
	"malaysia":             "Kuala Lumpur",
	"indonesia":            "Jakarta",
	"philippines":          "Manila",
	"new zealand":          "Wellington",
	"israel":               "Jerusalem",
	"saudi arabia":         "Riyadh",
	"uae":                  "Abu Dhabi",
	"united arab emirates": "Abu Dhabi",
	"poland":               "Warsaw",
	"czech republic":       "Prague",
	"hungary":              "Budapest",
	"romania":              "Bucharest",
	"bulgaria":             "Sofia",
	"croatia":              "Zagreb",
	"serbia":               "Belgrade",
	"ukraine":              "Kyiv",
	"belarus":              "Minsk",
	"lithuania":            "Vilnius",
	"latvia":               "Riga",
	"estonia":              "Tallinn",
}

// ResolvePlaceName maps a country name to its capital; any other input is
// returned unchanged and geocoded as-is.
func ResolvePlaceName(name string) string {
	if capital, ok := countryCapitals[strings.ToLower(strings.TrimSpace(name))]; ok {
		return capital
	}
	return name
}
