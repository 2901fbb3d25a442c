package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

var (
	// pageWidgetRe matches the pager's "N page / M" marker and captures M.
	pageWidgetRe = regexp.MustCompile(`(?i)\b\d+\s*page\s*/\s*(\d+)\b`)
	// totalCountRe matches the localized "total N records" marker.
	totalCountRe = regexp.MustCompile(`총\s*([\d,]+)\s*건`)
)

// ExtractTotalPages infers the result set's page count from a list page's
// full text. The pager widget wins when present; otherwise the record count
// is divided by pageSize, rounding up. Returns 1 when neither marker
// appears.
//
// The value is meaningful only on the first page of a query: later pages'
// widgets describe their own position, so callers cache the first page's
// result instead of recomputing.
func ExtractTotalPages(doc *goquery.Document, pageSize int) int {
	text := notice.Normalize(doc.Text())

	if m := pageWidgetRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			return n
		}
	}

	if m := totalCountRe.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if pageSize < 1 {
				pageSize = defaultPageSize
			}
			return (n + pageSize - 1) / pageSize
		}
	}

	return 1
}
