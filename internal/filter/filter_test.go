package filter

import (
	"testing"

	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

func row(seqno string, columns map[string]string) *notice.Row {
	order := make([]string, 0, len(columns))
	for name := range columns {
		order = append(order, name)
	}
	return notice.NewRow(seqno, columns, order)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		wantErr bool
		wantLen int
	}{
		{"empty specs", nil, false, 0},
		{"single criterion", []string{"처분내용=영업정지"}, false, 1},
		{"multiple criteria", []string{"처분내용=영업정지", "소재지=서울"}, false, 2},
		{"trims whitespace", []string{" 처분내용 = 영업정지 "}, false, 1},
		{"missing equals", []string{"처분내용"}, true, 0},
		{"empty column", []string{"=영업정지"}, true, 0},
		{"empty value", []string{"처분내용="}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.specs)
			if tt.wantErr {
				if err == nil {
					t.Error("Parse() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(f.Criteria) != tt.wantLen {
				t.Errorf("got %d criteria, want %d", len(f.Criteria), tt.wantLen)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	r := row("12345", map[string]string{
		"처분내용": "영업정지 3개월",
		"소재지":  "서울특별시 강남구",
	})

	tests := []struct {
		name     string
		criteria []Criterion
		want     bool
	}{
		{"empty filter matches", nil, true},
		{"substring match", []Criterion{{"처분내용", "영업정지"}}, true},
		{"case-insensitive on latin text", []Criterion{{"seqno", "12345"}}, true},
		{"all criteria must hold", []Criterion{{"처분내용", "영업정지"}, {"소재지", "부산"}}, false},
		{"unknown column fails", []Criterion{{"없는컬럼", "x"}}, false},
		{"notice_url addressable", []Criterion{{"notice_url", "seqno=12345"}}, true},
		{"value not contained", []Criterion{{"처분내용", "과징금"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Filter{Criteria: tt.criteria}
			if got := f.Matches(r); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	rows := []*notice.Row{
		row("1", map[string]string{"처분내용": "영업정지 3개월"}),
		row("2", map[string]string{"처분내용": "과징금 부과"}),
		row("3", map[string]string{"처분내용": "영업정지 1개월"}),
	}

	f, err := Parse([]string{"처분내용=영업정지"})
	if err != nil {
		t.Fatal(err)
	}

	kept := f.Apply(rows)
	if len(kept) != 2 {
		t.Fatalf("Apply() kept %d rows, want 2", len(kept))
	}
	if kept[0].Seqno != "1" || kept[1].Seqno != "3" {
		t.Errorf("Apply() kept seqnos %s, %s; want 1, 3", kept[0].Seqno, kept[1].Seqno)
	}

	// Empty filter passes the slice through untouched.
	if got := New().Apply(rows); len(got) != len(rows) {
		t.Errorf("empty filter kept %d rows, want %d", len(got), len(rows))
	}
}

func TestFilter_String(t *testing.T) {
	if got := New().String(); got != "No active filters" {
		t.Errorf("String() = %q, want 'No active filters'", got)
	}

	f, err := Parse([]string{"처분내용=영업정지", "소재지=서울"})
	if err != nil {
		t.Fatal(err)
	}
	want := `처분내용 contains "영업정지" | 소재지 contains "서울"`
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
