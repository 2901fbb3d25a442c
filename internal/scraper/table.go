package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

// minHeaderHits is how many known column labels a table's header row must
// carry to qualify as the notice list.
const minHeaderHits = 3

// headerKeywords are the column labels that identify the notice-list table.
var headerKeywords = map[string]bool{
	"No":   true,
	"공고번호": true,
	"공고일자": true,
	"대상업체": true,
	"해당업종": true,
	"처분내용": true,
	"소재지":  true,
	"종류":   true,
	"비고":   true,
}

// noResultPhrases are the site's "no search results" messages. Any of them
// appearing in a table or row marks an empty result, not data.
var noResultPhrases = []string{
	"검색 결과가 없습니다",
	"조회 결과가 없습니다",
	"검색결과가 없습니다",
}

// tableHeaders returns the normalized texts of the <th> cells in the
// table's first row, in document order. Empty labels are kept so positions
// stay aligned with data cells.
func tableHeaders(table *goquery.Selection) []string {
	first := table.Find("tr").First()
	if first.Length() == 0 {
		return nil
	}
	var headers []string
	first.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, notice.Normalize(th.Text()))
	})
	return headers
}

// headerScore counts how many of the header labels belong to the
// notice-list keyword set. Pure so candidate tables can be scored without
// a page fetch.
func headerScore(headers []string) int {
	score := 0
	for _, h := range headers {
		if headerKeywords[h] {
			score++
		}
	}
	return score
}

// FindNoticeTable picks the notice-list table out of a document. A table
// qualifies when at least minHeaderHits of its first-row header labels are
// known notice columns; among qualifying tables the one with the most rows
// wins, first-encountered winning ties. Returns nil when nothing qualifies.
func FindNoticeTable(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestRows := -1

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if headerScore(tableHeaders(table)) < minHeaderHits {
			return
		}
		if rows := table.Find("tr").Length(); rows > bestRows {
			best = table
			bestRows = rows
		}
	})

	return best
}

// HasNoResult reports whether the table's text carries one of the site's
// "no search results" phrases.
func HasNoResult(table *goquery.Selection) bool {
	return containsNoResult(notice.Normalize(table.Text()))
}

func containsNoResult(text string) bool {
	for _, phrase := range noResultPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
