package sport

import "strings"

// Team name to abbreviation tables, keyed by family. Static data.
var teamAbbreviations = map[Family]map[string]string{
	Basketball: {
		"Atlanta Hawks":          "ATL",
		"Boston Celtics":         "BOS",
		"Brooklyn Nets":          "BKN",
		"Charlotte Hornets":      "CHA",
		"Chicago Bulls":          "CHI",
		"Cleveland Cavaliers":    "CLE",
		"Dallas Mavericks":       "DAL",
		"Denver Nuggets":         "DEN",
		"Detroit Pistons":        "DET",
		"Golden State Warriors":  "GSW",
		"Houston Rockets":        "HOU",
		"Indiana Pacers":         "IND",
		"Los Angeles Clippers":   "LAC",
		"Los Angeles Lakers":     "LAL",
		"Memphis Grizzlies":      "MEM",
		"Miami Heat":             "MIA",
		"Milwaukee Bucks":        "MIL",
		"Minnesota Timberwolves": "MIN",
		"New Orleans Pelicans":   "NOP",
		"New York Knicks":        "NYK",
		"Oklahoma City Thunder":  "OKC",
		"Orlando Magic":          "ORL",
		"Philadelphia 76ers":     "PHI",
		"Phoenix Suns":           "PHX",
		"Portland Trail Blazers": "POR",
		"Sacramento Kings":       "SAC",
		"San Antonio Spurs":      "SAS",
		"Toronto Raptors":        "TOR",
		"Utah Jazz":              "UTA",
		"Washington Wizards":     "WAS",
	},
	Hockey: {
		"Boston Bruins":         "BOS",
		"Buffalo Sabres":        "BUF",
		"Carolina Hurricanes":   "CAR",
		"Chicago Blackhawks":    "CHI",
		"Colorado Avalanche":    "COL",
		"Dallas Stars":          "DAL",
		"Detroit Red Wings":     "DET",
		"Edmonton Oilers":       "EDM",
		"Florida Panthers":      "FLA",
		"Los Angeles Kings":     "LAK",
		"Montreal Canadiens":    "MTL",
		"New Jersey Devils":     "NJD",
		"New York Rangers":      "NYR",
		"Pittsburgh Penguins":   "PIT",
		"Tampa Bay Lightning":   "TBL",
		"Toronto Maple Leafs":   "TOR",
		"Vancouver Canucks":     "VAN",
		"Vegas Golden Knights":  "VGK",
		"Washington Capitals":   "WSH",
		"Winnipeg Jets":         "WPG",
	},
}

var abbreviationToName = map[Family]map[string]string{}

func init() {
	for family, names := range teamAbbreviations {
		rev := make(map[string]string, len(names))
		for name, abbr := range names {
			rev[abbr] = name
		}
		abbreviationToName[family] = rev
	}
}

// Abbreviation returns the short code for a full team name in the
// league's family. Unknown names fall back to an upper-cased prefix of the
// last word, e.g. "Springfield Isotopes" -> "ISO".
func Abbreviation(league, fullName string) string {
	if abbr, ok := teamAbbreviations[For(league).Family][fullName]; ok {
		return abbr
	}
	return fallbackAbbreviation(fullName)
}

// TeamName returns the full name for an abbreviation, or the input when
// unknown.
func TeamName(league, abbr string) string {
	if name, ok := abbreviationToName[For(league).Family][abbr]; ok {
		return name
	}
	return abbr
}

func fallbackAbbreviation(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	last := strings.ToUpper(fields[len(fields)-1])
	if len(last) > 3 {
		last = last[:3]
	}
	return last
}
