// Package cli implements the command-line interface for kiscon-notices.
//
// The cli package provides the Cobra-based CLI for crawling disposition
// notices over a date range, formatting output (text/JSON/CSV), filtering
// rows by column values, and optionally resolving each notice's detail
// page. It coordinates the config, fetch, scraper and filter packages; the
// crawl loop and the bounded-concurrency detail batch live here, not in the
// extraction core.
package cli
