// Package notice defines the value types produced by the crawler: one
// parsed list row, the per-page crawl envelope, and the detail-fetch
// outcome. It also owns text normalization and the extraction of the
// 소재지 (location) field from detail-page text.
package notice
