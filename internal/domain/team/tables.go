package team

type franchise struct {
	market   string
	nickname string
	division Division
	logoKey  string
}

var franchises = []franchise{
	{market: "Boston", nickname: "Celtics", division: DivisionAtlantic},
	{market: "Brooklyn", nickname: "Nets", division: DivisionAtlantic},
	{market: "New York", nickname: "Knicks", division: DivisionAtlantic},
	{market: "Philadelphia", nickname: "76ers", division: DivisionAtlantic},
	{market: "Toronto", nickname: "Raptors", division: DivisionAtlantic},
	{market: "Chicago", nickname: "Bulls", division: DivisionCentral},
	{market: "Cleveland", nickname: "Cavaliers", division: DivisionCentral},
	{market: "Detroit", nickname: "Pistons", division: DivisionCentral},
	{market: "Indiana", nickname: "Pacers", division: DivisionCentral},
	{market: "Milwaukee", nickname: "Bucks", division: DivisionCentral},
	{market: "Atlanta", nickname: "Hawks", division: DivisionSoutheast},
	{market: "Charlotte", nickname: "Hornets", division: DivisionSoutheast},
	{market: "Miami", nickname: "Heat", division: DivisionSoutheast},
	{market: "Orlando", nickname: "Magic", division: DivisionSoutheast},
	{market: "Washington", nickname: "Wizards", division: DivisionSoutheast},
	{market: "Denver", nickname: "Nuggets", division: DivisionNorthwest},
	{market: "Minnesota", nickname: "Timberwolves", division: DivisionNorthwest},
	{market: "Oklahoma City", nickname: "Thunder", division: DivisionNorthwest},
	{market: "Portland", nickname: "Trail Blazers", division: DivisionNorthwest, logoKey: "portland-trailblazers-logo"},
	{market: "Utah", nickname: "Jazz", division: DivisionNorthwest},
	{market: "Golden State", nickname: "Warriors", division: DivisionPacific},
	{market: "Los Angeles", nickname: "Clippers", division: DivisionPacific},
	{market: "Los Angeles", nickname: "Lakers", division: DivisionPacific},
	{market: "Phoenix", nickname: "Suns", division: DivisionPacific},
	{market: "Sacramento", nickname: "Kings", division: DivisionPacific},
	{market: "Dallas", nickname: "Mavericks", division: DivisionSouthwest},
	{market: "Houston", nickname: "Rockets", division: DivisionSouthwest},
	{market: "Memphis", nickname: "Grizzlies", division: DivisionSouthwest},
	{market: "New Orleans", nickname: "Pelicans", division: DivisionSouthwest},
	{market: "San Antonio", nickname: "Spurs", division: DivisionSouthwest},
}

// overrides maps lookup keys of special names to canonical ids. Checked before the franchise index.
var overrides = map[string]string{
	"la-clippers":           "los-angeles-clippers",
	"l-a-clippers":          "los-angeles-clippers",
	"la-lakers":             "los-angeles-lakers",
	"l-a-lakers":            "los-angeles-lakers",
	"blazers":               "portland-trail-blazers",
	"trailblazers":          "portland-trail-blazers",
	"portland-trailblazers": "portland-trail-blazers",
	"portland-blazers":      "portland-trail-blazers",
	"sixers":                "philadelphia-76ers",
	"philadelphia-sixers":   "philadelphia-76ers",
	"timber":                "minnesota-timberwolves",
	"timbe":                 "minnesota-timberwolves",
	"wolves":                "minnesota-timberwolves",
	"t-wolves":              "minnesota-timberwolves",
	"cavs":                  "cleveland-cavaliers",
	"mavs":                  "dallas-mavericks",
	"okc":                   "oklahoma-city-thunder",
	"okc-thunder":           "oklahoma-city-thunder",
	"ny-knicks":             "new-york-knicks",
	"gs-warriors":           "golden-state-warriors",
}

// marketDivisions covers markets, including aliases that never appear in franchises.
var marketDivisions = map[string]Division{
	"la": DivisionPacific,
}

func init() {
	for _, f := range franchises {
		marketDivisions[lookupKey(f.market)] = f.division
	}
}

// DivisionForMarket looks up the division of a city or market name.
func DivisionForMarket(market string) Division {
	if division, ok := marketDivisions[lookupKey(market)]; ok {
		return division
	}
	return DivisionUnknown
}
