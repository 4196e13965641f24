package seatsaero

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"milheiro/internal/domain"
)

const tableBodySelector = "table#DataTables_Table_0 tbody"

// Bootstrap moves title into data-bs-original-title once tooltips are initialised,
// so static HTML may still carry one of the earlier attributes.
var tooltipAttrs = []string{"data-bs-original-title", "data-bs-title", "title"}

var innerWhitespace = regexp.MustCompile(`\s+`)

type TableExtractor struct{}

func NewTableExtractor() TableExtractor { return TableExtractor{} }

// ExtractRows returns one Row per results-table row. A page without the table yields no rows.
func (TableExtractor) ExtractRows(html string) ([]domain.Row, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	body := doc.Find(tableBodySelector).First()
	if body.Length() == 0 {
		return []domain.Row{}, nil
	}

	rows := []domain.Row{}
	body.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		// DataTables placeholder ("No data available in table")
		if cells.Length() == 1 && cells.HasClass("dataTables_empty") {
			return
		}
		row := make(domain.Row, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, cellValue(td))
		})
		rows = append(rows, row)
	})
	return rows, nil
}

func cellValue(td *goquery.Selection) string {
	span := td.Find("span").First()
	if span.Length() == 0 {
		return cleanText(td.Text())
	}
	text := cleanText(span.Text())
	if tip := tooltip(span); tip != "" {
		return text + " | tooltip: " + tip
	}
	return text
}

func tooltip(s *goquery.Selection) string {
	for _, a := range tooltipAttrs {
		if v := strings.TrimSpace(s.AttrOr(a, "")); v != "" {
			return v
		}
	}
	return ""
}

func cleanText(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
