// Package scraper extracts disposition-notice records from KISCON's
// server-rendered HTML.
//
// The site has no API: the notice list is one table among arbitrary page
// markup, record identifiers live inside inline onclick handlers, and page
// counts must be inferred from localized pager text. The scraper locates
// the list table by a header-keyword heuristic, parses its rows into
// structured records, infers the total page count, and pulls the free-text
// disposition details from per-record detail pages.
package scraper
