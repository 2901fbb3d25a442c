package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

// OutputFormat selects how crawl results are rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// OutputResult is the full outcome of one crawl, ready for rendering.
// Details is nil unless detail pages were fetched; its keys are seqnos.
type OutputResult struct {
	CrawledAt  time.Time                       `json:"crawledAt"`
	FromDate   string                          `json:"fromDate"`
	ToDate     string                          `json:"toDate"`
	RowCount   int                             `json:"rowCount"`
	TotalPages int                             `json:"totalPages"`
	Rows       []*notice.Row                   `json:"rows"`
	Details    map[string]*notice.DetailResult `json:"details,omitempty"`
}

// WriteOutput renders the result in the requested format.
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	default:
		return writeText(w, result, verbose)
	}
}

func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

// textColumns are the list columns worth a one-line summary, in display order.
var textColumns = []string{"공고일자", "대상업체", "처분내용", "소재지"}

func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	fmt.Fprintf(w, "처분공고 %s ~ %s\n\n", result.FromDate, result.ToDate)

	if result.RowCount == 0 {
		fmt.Fprintln(w, "No notices found.")
		return nil
	}

	for i, row := range result.Rows {
		parts := make([]string, 0, len(textColumns))
		for _, column := range textColumns {
			if value := row.Columns[column]; value != "" {
				parts = append(parts, value)
			}
		}
		if len(parts) == 0 {
			// Irregular table; fall back to whatever the row carries.
			for _, column := range row.ColumnNames() {
				if value := row.Columns[column]; value != "" {
					parts = append(parts, value)
				}
			}
		}
		fmt.Fprintf(w, "%3d. %s\n", i+1, strings.Join(parts, " | "))

		if detail := result.Details[row.Seqno]; detail != nil {
			if detail.DetailLocation != "" {
				fmt.Fprintf(w, "     소재지(상세): %s\n", detail.DetailLocation)
			} else if !detail.OK {
				fmt.Fprintf(w, "     상세조회 실패: %s\n", detail.Err)
			}
		}
		if verbose && row.NoticeURL != "" {
			fmt.Fprintf(w, "     %s (page %d)\n", row.NoticeURL, row.Page)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d notices across %d pages\n", result.RowCount, result.TotalPages)
	return nil
}

// fixedColumns lead every CSV record ahead of the source table's own headers.
var fixedColumns = []string{"_page", "seqno", "notice_url"}

// detailColumns are appended when detail pages were fetched. The raw detail
// text is deliberately not exported; it is paragraph-sized and exists only to
// be mined for the 소재지 field.
var detailColumns = []string{"상세소재지", "detail_ok", "detail_error"}

// writeCSV renders rows as UTF-8 CSV with a leading BOM so spreadsheet
// applications on Windows pick the right encoding for Korean text.
func writeCSV(w io.Writer, result *OutputResult) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return err
	}

	columns := collectColumns(result.Rows)
	header := append(append([]string{}, fixedColumns...), columns...)
	withDetails := result.Details != nil
	if withDetails {
		header = append(header, detailColumns...)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range result.Rows {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(row.Page), row.Seqno, row.NoticeURL)
		for _, column := range columns {
			record = append(record, row.Columns[column])
		}
		if withDetails {
			record = append(record, detailRecord(result.Details[row.Seqno])...)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func detailRecord(detail *notice.DetailResult) []string {
	if detail == nil {
		return []string{"", "0", "missing_url"}
	}
	ok := "0"
	if detail.OK {
		ok = "1"
	}
	return []string{detail.DetailLocation, ok, detail.Err}
}

// collectColumns unions all rows' column names in first-seen table order, so
// pages with irregular extra cells widen the CSV instead of losing data.
func collectColumns(rows []*notice.Row) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, name := range row.ColumnNames() {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	return columns
}
