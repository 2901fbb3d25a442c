package notice

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	// ListURL is the disposition-notice search endpoint.
	ListURL = "https://www.kiscon.net/cis/coad_disposenotice_07.asp"
	// DetailBaseURL is the per-record view endpoint. The record's seqno is
	// appended as its only query parameter.
	DetailBaseURL = "https://www.kiscon.net/cis/coad_disposenotice_view_07.asp"
)

// Row is one parsed notice-list row. Column values are keyed by the header
// label at the same cell position; cells beyond the header count are kept
// under synthetic "col_<index>" keys so irregular tables lose no data.
// Seqno is empty when the row carried no recognizable record identifier,
// and NoticeURL is empty whenever Seqno is.
type Row struct {
	Seqno     string
	NoticeURL string
	Columns   map[string]string
	Page      int

	order []string
}

// NewRow builds a Row, deriving the detail-page URL from seqno. order lists
// the column names in source-table order and drives stable serialization.
func NewRow(seqno string, columns map[string]string, order []string) *Row {
	r := &Row{
		Seqno:   seqno,
		Columns: columns,
		order:   order,
	}
	if seqno != "" {
		r.NoticeURL = DetailBaseURL + "?seqno=" + seqno
	}
	return r
}

// ColumnNames returns the row's column names in source-table order.
func (r *Row) ColumnNames() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// MarshalJSON flattens the column map alongside the fixed fields, so a row
// serializes as a single object keyed by the source table's headers plus
// "seqno" and "notice_url".
func (r *Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(r.Columns)+3)
	for k, v := range r.Columns {
		out[k] = v
	}
	out["seqno"] = r.Seqno
	out["notice_url"] = r.NoticeURL
	if r.Page > 0 {
		out["_page"] = strconv.Itoa(r.Page)
	}
	return json.Marshal(out)
}

// ListResult is the outcome of crawling one list page.
//
// TotalPages is authoritative only when computed from the first page of a
// query; later pages report 1 and callers must keep the first page's value.
type ListResult struct {
	Rows        []*Row `json:"rows"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
}

// DetailResult is the outcome of one detail-page fetch. It is constructed
// once per fetch and never mutated afterwards; a failed fetch is reported
// through OK/Err rather than raised, so one bad record cannot abort a batch.
type DetailResult struct {
	Seqno          string `json:"seqno"`
	DetailText     string `json:"detailText"`
	DetailLocation string `json:"detailLocation"`
	OK             bool   `json:"ok"`
	Err            string `json:"error,omitempty"`
}

// Normalize collapses all runs of whitespace to single spaces and trims the
// ends. Normalizing already-normalized text is a no-op.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
