package cli

import (
	"strings"
	"time"

	"github.com/daehan-lim/kiscon-notices/internal/logger"
	"github.com/daehan-lim/kiscon-notices/internal/notice"
	"github.com/daehan-lim/kiscon-notices/internal/scraper"
)

// Failure handling for mid-range list pages. The first page is always fatal
// on failure; without it there is no page total to walk.
const (
	FailModeContinue = "continue"
	FailModeStop     = "stop"
)

// rangeResult accumulates the rows of every crawled list page. TotalPages is
// the first page's count; later pages never recompute it.
type rangeResult struct {
	Rows       []*notice.Row
	TotalPages int
}

// crawlRange walks all list pages for the date range sequentially, pausing
// delay between requests. The walk ends early on an empty page or when the
// site answers an out-of-range page request by serving the previous page
// again, which the legacy pager does instead of erroring. failMode decides
// whether a mid-range failure skips that page or stops the walk; either way
// the rows collected so far are kept.
func crawlRange(s *scraper.Scraper, from, to time.Time, delay time.Duration, failMode string) (*rangeResult, error) {
	first, err := s.CrawlPage(from, to, 1)
	if err != nil {
		return nil, err
	}

	result := &rangeResult{TotalPages: first.TotalPages}
	if len(first.Rows) == 0 {
		return result, nil
	}

	result.Rows = tagPage(first.Rows, 1)
	lastKey := firstRowKey(first.Rows)

	for page := 2; page <= first.TotalPages; page++ {
		if delay > 0 {
			time.Sleep(delay)
		}

		current, err := s.CrawlPage(from, to, page)
		if err != nil {
			logger.Error("list page failed", logger.Fields{"page": page}, err)
			if failMode == FailModeContinue {
				continue
			}
			break
		}
		if len(current.Rows) == 0 {
			logger.Debug("empty list page, ending walk", logger.Fields{"page": page})
			break
		}

		key := firstRowKey(current.Rows)
		if key != "" && key == lastKey {
			logger.Warn("pager served a repeated page, ending walk", logger.Fields{"page": page})
			break
		}
		lastKey = key

		result.Rows = append(result.Rows, tagPage(current.Rows, page)...)
	}

	return result, nil
}

// firstRowKey fingerprints a page by its first row. The seqno identifies the
// row when present; otherwise the column values are joined in table order.
func firstRowKey(rows []*notice.Row) string {
	if len(rows) == 0 {
		return ""
	}

	row := rows[0]
	if row.Seqno != "" {
		return row.Seqno
	}

	names := row.ColumnNames()
	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, row.Columns[name])
	}
	return strings.Join(values, "|")
}

// tagPage stamps the originating page number onto each row.
func tagPage(rows []*notice.Row, page int) []*notice.Row {
	for _, row := range rows {
		row.Page = page
	}
	return rows
}
