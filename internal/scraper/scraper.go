package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/daehan-lim/kiscon-notices/internal/logger"
	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

// defaultPageSize is the site's apparent rows-per-list-page count. Not
// confirmed by anything on the page itself, which is why it stays
// overridable through configuration.
const defaultPageSize = 10

// TextFetcher fetches a URL, optionally replacing its query string, and
// returns the body as decoded text.
type TextFetcher interface {
	FetchText(rawURL string, params url.Values) (string, error)
}

// Scraper drives the extraction pipeline over a TextFetcher. It holds no
// mutable state and is safe for concurrent use.
type Scraper struct {
	fetcher  TextFetcher
	pageSize int
}

// New creates a Scraper. pageSize is the site's rows-per-list-page count
// used to derive page totals from record counts; non-positive values fall
// back to the default.
func New(fetcher TextFetcher, pageSize int) *Scraper {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &Scraper{
		fetcher:  fetcher,
		pageSize: pageSize,
	}
}

// emptySearchFields are refinement inputs the legacy search form requires
// to be present even when unused.
var emptySearchFields = []string{
	"level", "item", "area", "areadetail", "decode",
	"mattercode", "accept", "kname", "ecode_A", "ecode_B",
}

// queryParams builds the legacy form's parameter set. The form does not
// accept full date strings; each side of the range is decomposed into
// separate year/month/day fields.
func queryParams(from, to time.Time, page int) url.Values {
	params := url.Values{}
	params.Set("mode", "1")
	params.Set("GotoPage", strconv.Itoa(page))
	params.Set("fromYear", strconv.Itoa(from.Year()))
	params.Set("fromMonth", strconv.Itoa(int(from.Month())))
	params.Set("fromDay", strconv.Itoa(from.Day()))
	params.Set("toYear", strconv.Itoa(to.Year()))
	params.Set("toMonth", strconv.Itoa(int(to.Month())))
	params.Set("toDay", strconv.Itoa(to.Day()))
	for _, field := range emptySearchFields {
		params.Set(field, "")
	}
	return params
}

// CrawlPage fetches and parses one notice-list page for the date range.
//
// A transport failure propagates: a failed page must not masquerade as an
// empty one. A page with no qualifying table yields empty rows and
// TotalPages 1, distinct from a located "no results" table, whose page
// count still comes from whatever pager text the page carries. TotalPages
// is computed only for page 1; later pages report 1 and callers keep the
// first page's value.
func (s *Scraper) CrawlPage(from, to time.Time, page int) (*notice.ListResult, error) {
	start := time.Now()

	html, err := s.fetcher.FetchText(notice.ListURL, queryParams(from, to, page))
	if err != nil {
		return nil, fmt.Errorf("fetching list page %d: %w", page, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing list page %d: %w", page, err)
	}

	result := &notice.ListResult{
		TotalPages:  1,
		CurrentPage: page,
	}

	table := FindNoticeTable(doc)
	if table == nil {
		logger.Warn("no notice table located", logger.Fields{"page": page})
		return result, nil
	}

	result.Rows = ParseRows(table)
	if page == 1 {
		result.TotalPages = ExtractTotalPages(doc, s.pageSize)
	}

	logger.RecordTiming("crawl.page", time.Since(start))
	logger.Debug("list page parsed", logger.Fields{
		"page": page,
		"rows": len(result.Rows),
	})

	return result, nil
}
