package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

// seqnoRe matches the site's client-side navigation call and captures its
// single numeric argument, quoted or not. The record identifier is never
// present as a plain cell; this handler call is the only place it appears.
var seqnoRe = regexp.MustCompile(`(?i)f_go_location\s*\(\s*['"]?(\d+)['"]?\s*\)`)

// extractSeqno scans a row for its record identifier: data cells' onclick
// attributes first, then anchors' onclick and href attributes. The first
// match wins; "" when the row carries no identifier.
func extractSeqno(tr *goquery.Selection) string {
	var seqno string

	tr.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if onclick, ok := td.Attr("onclick"); ok {
			if m := seqnoRe.FindStringSubmatch(onclick); m != nil {
				seqno = m[1]
				return false
			}
		}
		return true
	})
	if seqno != "" {
		return seqno
	}

	tr.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		for _, attr := range []string{"onclick", "href"} {
			v, ok := a.Attr(attr)
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			if m := seqnoRe.FindStringSubmatch(v); m != nil {
				seqno = m[1]
				return false
			}
		}
		return true
	})

	return seqno
}

// ParseRows converts the located notice table into structured rows. The
// table's first row supplies the header labels; every later row becomes one
// Row with cells assigned positionally to those labels. Cells beyond the
// header count are kept under col_<index> keys; cells under an empty label
// are dropped. Rows with no cells, only empty cells, or a "no results"
// phrase are skipped, and a "no results" table yields nil.
func ParseRows(table *goquery.Selection) []*notice.Row {
	if table == nil || HasNoResult(table) {
		return nil
	}

	headers := tableHeaders(table)
	var rows []*notice.Row

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}

		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, notice.Normalize(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}

		allEmpty := true
		for _, c := range cells {
			if c != "" {
				allEmpty = false
				break
			}
		}
		if allEmpty || containsNoResult(strings.Join(cells, " ")) {
			return
		}

		columns := make(map[string]string, len(cells))
		var order []string
		for idx, cell := range cells {
			if idx < len(headers) {
				label := headers[idx]
				if label == "" {
					continue
				}
				columns[label] = cell
				order = append(order, label)
				continue
			}
			key := fmt.Sprintf("col_%d", idx)
			columns[key] = cell
			order = append(order, key)
		}

		rows = append(rows, notice.NewRow(extractSeqno(tr), columns, order))
	})

	return rows
}
