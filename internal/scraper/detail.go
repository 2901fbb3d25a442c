package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

// detailSelectors are the content regions tried on a detail page, most
// specific first. The detail page shares no layout with the list page, so
// the first selector yielding non-empty text wins.
var detailSelectors = []string{
	"ul.bl3x.mglt25.clr",
	"div.subcon ul",
	"div.subcon",
}

// FetchDetail retrieves one record's detail page and extracts its free-text
// body and 소재지 field. Failures never propagate: an empty url short
// circuits to error "missing_url" without touching the network, fetch and
// parse errors carry the underlying message, and a page with no
// recognizable content region reports "empty_detail_text". OK is true only
// when non-empty detail text was extracted.
func (s *Scraper) FetchDetail(seqno, rawURL string) *notice.DetailResult {
	result := &notice.DetailResult{Seqno: seqno}

	if rawURL == "" {
		result.Err = "missing_url"
		return result
	}

	html, err := s.fetcher.FetchText(rawURL, nil)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.DetailText = pickDetailText(doc)
	if result.DetailText == "" {
		result.Err = "empty_detail_text"
		return result
	}

	result.OK = true
	result.DetailLocation = notice.ExtractLocation(result.DetailText)
	return result
}

// pickDetailText returns the normalized text of the first detail selector
// with non-empty content, or "" when none matches.
func pickDetailText(doc *goquery.Document) string {
	for _, selector := range detailSelectors {
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if text := notice.Normalize(node.Text()); text != "" {
			return text
		}
	}
	return ""
}
