package scrape

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leonardcser/motorsport-web/internal/logger"
)

const (
	SourceLastRace = "last-race"

	// ErrorRaceName names the sentinel returned when parsing fails.
	ErrorRaceName   = "Error"
	defaultRaceName = "Last race"

	// dagger marks a classified finish after retiring.
	dagger = "†"
)

var (
	// standingsCodes are race codes expected in the drivers' standings header.
	standingsCodes = []string{"AUS", "CHN", "ABU"}
	// raceCode matches a race column header such as "BHR" or "ABU".
	raceCode = regexp.MustCompile(`^[A-Z]{3}$`)
	// statusTokens are non-numeric results that still mean the driver took part.
	statusTokens = map[string]bool{"Ret": true, "DNS": true, "WD": true}

	errNoRows = errors.New("standings table has no rows")
)

type RaceResultEntry struct {
	Position       string `json:"position"`
	Driver         string `json:"driver"`
	LastRaceResult string `json:"last_race_result"`
	Points         string `json:"points"`
}

type LastRace struct {
	RaceName string            `json:"race_name"`
	Results  []RaceResultEntry `json:"results"`
}

func (l LastRace) Empty() bool { return len(l.Results) == 0 }

// ErrorLastRace is the value returned alongside any last-race failure.
func ErrorLastRace() LastRace { return LastRace{RaceName: ErrorRaceName} }

// ParseLastRace extracts the classification of the most recent race from a
// season's drivers' championship table.
func ParseLastRace(doc *goquery.Document) (LastRace, error) {
	tables := doc.Find("table.wikitable")
	if tables.Length() == 0 {
		logger.Warnf("last race: no tables found")
		return ErrorLastRace(), StructureError(SourceLastRace, ErrNoTables)
	}
	table := standingsTable(tables)

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return ErrorLastRace(), StructureError(SourceLastRace, errNoRows)
	}
	header := rows.First().Find("th")
	data := dataRows(table)

	// fromEnd is the race column's position counted from the end of a row,
	// so header and data rows line up even when their cell counts differ.
	fromEnd := lastRaceColumn(header, data)

	name := defaultRaceName
	if idx := header.Length() - fromEnd; header.Length() > 2 && idx >= 0 {
		name = raceName(header.Eq(idx))
	}

	var all []RaceResultEntry
	data.Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td, th")
		n := cols.Length()
		if n <= 3 || n-fromEnd < 0 {
			return
		}
		all = append(all, RaceResultEntry{
			Position:       text(cols.Eq(0), ""),
			Driver:         text(cols.Eq(1), "", tagClass("span", "flagicon")),
			LastRaceResult: text(cols.Eq(n-fromEnd), "", tag("sup")),
			Points:         text(cols.Eq(n-1), ""),
		})
	})

	results := classified(all)
	sort.SliceStable(results, func(i, j int) bool {
		return resultWeight(results[i].LastRaceResult) < resultWeight(results[j].LastRaceResult)
	})
	if len(results) == 0 {
		return LastRace{RaceName: name}, EmptyError(SourceLastRace)
	}
	return LastRace{RaceName: name, Results: results}, nil
}

// standingsTable picks the drivers' championship table: many header cells
// and known race codes among them. Otherwise the second table is assumed,
// or the first when it is the only one.
func standingsTable(tables *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	tables.EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if t.Find("th").Length() <= 15 {
			return true
		}
		if headerHasAny(t, standingsCodes) {
			found = t
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	if tables.Length() > 1 {
		return tables.Eq(1)
	}
	return tables.First()
}

// lastRaceColumn returns the distance from the row end of the latest race
// column: the rightmost race-code header with at least one result below it.
// Only classified results count, so a repeated header row at the foot of the
// table does not mark every column as raced.
// Without race-code headers the second-to-last column is used, the last one
// holding points.
func lastRaceColumn(header, data *goquery.Selection) int {
	var candidates []int
	header.Each(func(i int, th *goquery.Selection) {
		if raceCode.MatchString(text(th, "")) {
			candidates = append(candidates, header.Length()-i)
		}
	})
	if len(candidates) == 0 {
		return 2
	}
	for k := len(candidates) - 1; k >= 0; k-- {
		fromEnd := candidates[k]
		raced := false
		data.EachWithBreak(func(_ int, row *goquery.Selection) bool {
			cols := row.Find("td, th")
			if i := cols.Length() - fromEnd; i >= 0 && cols.Length() > 3 {
				raced = participated(text(cols.Eq(i), "", tag("sup")))
			}
			return !raced
		})
		if raced {
			return fromEnd
		}
	}
	return candidates[len(candidates)-1]
}

// raceName prefers the title of the header's link ("2025 Abu Dhabi Grand
// Prix" becomes "2025 Abu Dhabi") over the bare race code.
func raceName(th *goquery.Selection) string {
	if a := th.Find("a").First(); a.Length() > 0 {
		if title := strings.TrimSpace(strings.ReplaceAll(a.AttrOr("title", ""), "Grand Prix", "")); title != "" {
			return title
		}
	}
	return text(th, "")
}

// classified keeps drivers that took part in the race.
func classified(rows []RaceResultEntry) []RaceResultEntry {
	var out []RaceResultEntry
	for _, r := range rows {
		if participated(r.LastRaceResult) {
			out = append(out, r)
		}
	}
	return out
}

// participated reports whether a result cell records a start: a finishing
// position, a status token or a classified-after-retiring mark.
func participated(res string) bool {
	if res == "" || res == "–" || strings.HasPrefix(res, "DSQ") {
		return false
	}
	if _, err := strconv.Atoi(res); err == nil {
		return true
	}
	return statusTokens[res] || strings.Contains(res, dagger)
}

// resultWeight orders finishers by position, then unknown tokens, then
// retirements and non-starters.
func resultWeight(res string) int {
	if statusTokens[res] {
		return 1000
	}
	if d := strings.ReplaceAll(res, dagger, ""); isDigits(d) {
		if n, err := strconv.Atoi(d); err == nil {
			return n
		}
	}
	return 999
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
