package scrape

import "github.com/PuerkitoBio/goquery"

const SourceNews = "news"

// Headlines are news titles in document order.
type Headlines []string

func (h Headlines) Empty() bool { return len(h) == 0 }

// ParseNews collects the headline spans of the sportrbc.ru Formula 1 page.
func ParseNews(doc *goquery.Document) (Headlines, error) {
	var out Headlines
	doc.Find("span.normal-wrap").Each(func(_ int, s *goquery.Selection) {
		if t := singleLine(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	if len(out) == 0 {
		return nil, EmptyError(SourceNews)
	}
	return out, nil
}
