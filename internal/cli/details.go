package cli

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/daehan-lim/kiscon-notices/internal/logger"
	"github.com/daehan-lim/kiscon-notices/internal/notice"
	"github.com/daehan-lim/kiscon-notices/internal/scraper"
)

// detailRequestsPerSecond caps the aggregate detail-fetch rate across all
// workers. The site is a legacy government backend; hammering it gets the
// whole crawl throttled.
const detailRequestsPerSecond = 4

type detailJob struct {
	seqno string
	url   string
}

// fetchDetails resolves the detail page of every distinct seqno among rows,
// fanned out over a bounded worker pool behind a shared rate limiter. Rows
// without a seqno are skipped (there is no page to fetch); duplicates are
// fetched once. Per-record failures land in the result's Err field, never in
// an error return.
func fetchDetails(s *scraper.Scraper, rows []*notice.Row, workers int) map[string]*notice.DetailResult {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan detailJob)
	results := make(map[string]*notice.DetailResult)
	limiter := rate.NewLimiter(rate.Limit(detailRequestsPerSecond), 1)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := limiter.Wait(context.Background()); err != nil {
					return
				}
				detail := s.FetchDetail(job.seqno, job.url)
				mu.Lock()
				results[job.seqno] = detail
				mu.Unlock()
			}
		}()
	}

	start := time.Now()
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.Seqno == "" || seen[row.Seqno] {
			continue
		}
		seen[row.Seqno] = true
		jobs <- detailJob{seqno: row.Seqno, url: row.NoticeURL}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, detail := range results {
		if !detail.OK {
			failed++
		}
	}
	logger.RecordTiming("details.batch", time.Since(start))
	logger.Info("detail batch finished", logger.Fields{
		"fetched": len(results),
		"failed":  failed,
		"workers": workers,
	})

	return results
}
