// Package filter narrows crawled notice rows before output.
//
// A filter is a conjunction of column criteria; a row matches when every
// criterion's column value contains the wanted text (case-insensitive
// substring match). The fixed fields are addressable under the column names
// "seqno" and "notice_url". Criteria come from repeatable
// "column=value" flag values:
//
//	f, err := filter.Parse([]string{"처분내용=영업정지", "소재지=서울"})
//	kept := f.Apply(rows)
package filter

import (
	"fmt"
	"strings"

	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

// Criterion matches one column's value against wanted text.
type Criterion struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Filter is a conjunction of column criteria. The zero value (and an empty
// criteria list) matches every row.
type Filter struct {
	Criteria []Criterion `json:"criteria,omitempty"`
}

// New creates an empty filter that matches all rows.
func New() *Filter {
	return &Filter{}
}

// Parse builds a filter from "column=value" specs. Both sides are trimmed;
// either side empty is an error.
func Parse(specs []string) (*Filter, error) {
	f := New()
	for _, spec := range specs {
		column, value, ok := strings.Cut(spec, "=")
		column = strings.TrimSpace(column)
		value = strings.TrimSpace(value)
		if !ok || column == "" || value == "" {
			return nil, fmt.Errorf("invalid filter %q (want column=value)", spec)
		}
		f.Criteria = append(f.Criteria, Criterion{Column: column, Value: value})
	}
	return f, nil
}

// IsEmpty reports whether the filter has no active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Criteria) == 0
}

// Matches checks a row against every criterion. An empty filter matches all
// rows; a criterion naming a column the row does not carry fails the row.
func (f *Filter) Matches(row *notice.Row) bool {
	for _, c := range f.Criteria {
		var value string
		switch c.Column {
		case "seqno":
			value = row.Seqno
		case "notice_url":
			value = row.NoticeURL
		default:
			var ok bool
			value, ok = row.Columns[c.Column]
			if !ok {
				return false
			}
		}
		if !strings.Contains(strings.ToLower(value), strings.ToLower(c.Value)) {
			return false
		}
	}
	return true
}

// Apply returns only the rows matching all criteria. An empty filter
// returns the input unchanged.
func (f *Filter) Apply(rows []*notice.Row) []*notice.Row {
	if f.IsEmpty() {
		return rows
	}

	var kept []*notice.Row
	for _, row := range rows {
		if f.Matches(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

// String returns a human-readable description of the active criteria.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	parts := make([]string, 0, len(f.Criteria))
	for _, c := range f.Criteria {
		parts = append(parts, fmt.Sprintf("%s contains %q", c.Column, c.Value))
	}
	return strings.Join(parts, " | ")
}
