package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leonardcser/motorsport-web/internal/logger"
)

const SourceSchedule = "schedule"

// scheduleKeywords identify the calendar table among a season page's
// wikitables. "Gran Prix" matches nothing on the English page but is kept
// for the localized editions that spell it that way.
var scheduleKeywords = []string{"Round", "Gran Prix", "Circuit"}

type ScheduleEntry struct {
	Round     string `json:"round"`
	GrandPrix string `json:"gp"`
	Circuit   string `json:"circuit"`
	Date      string `json:"date"`
}

type Schedule []ScheduleEntry

func (s Schedule) Empty() bool { return len(s) == 0 }

// ParseSchedule reads the race calendar from a championship season page.
// Rows with fewer than four cells are skipped.
func ParseSchedule(doc *goquery.Document) (Schedule, error) {
	tables := doc.Find("table.wikitable")
	if tables.Length() == 0 {
		logger.Warnf("schedule: no tables found")
		return nil, StructureError(SourceSchedule, ErrNoTables)
	}

	table := tables.First()
	tables.EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if headerHasAny(t, scheduleKeywords) {
			table = t
			return false
		}
		return true
	})

	var out Schedule
	dataRows(table).Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td, th")
		if cols.Length() < 4 {
			return
		}
		cell := func(i int) string {
			return text(cols.Eq(i), " ", tag("sup"), tagClass("span", "noprint"))
		}
		out = append(out, ScheduleEntry{
			Round:     cell(0),
			GrandPrix: cell(1),
			Circuit:   cell(2),
			Date:      cell(3),
		})
	})
	if len(out) == 0 {
		return nil, EmptyError(SourceSchedule)
	}
	return out, nil
}

// dataRows returns every tr of t except the first.
func dataRows(t *goquery.Selection) *goquery.Selection {
	rows := t.Find("tr")
	if rows.Length() < 2 {
		return rows.Slice(0, 0)
	}
	return rows.Slice(1, goquery.ToEnd)
}

// headerTexts returns the stripped text of every th in t.
func headerTexts(t *goquery.Selection) []string {
	var out []string
	t.Find("th").Each(func(_ int, th *goquery.Selection) {
		out = append(out, text(th, ""))
	})
	return out
}

func headerHasAny(t *goquery.Selection, keywords []string) bool {
	joined := strings.Join(headerTexts(t), " ")
	for _, k := range keywords {
		if strings.Contains(joined, k) {
			return true
		}
	}
	return false
}
