package scraper

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"testing"
)

// fakeFetcher serves canned text and counts calls, standing in for the
// HTTP client.
type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) FetchText(rawURL string, params url.Values) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

func TestFetchDetail_MissingURL(t *testing.T) {
	fetcher := &fakeFetcher{html: "should never be fetched"}
	s := New(fetcher, 0)

	result := s.FetchDetail("12345", "")

	if result.OK {
		t.Error("OK = true, want false")
	}
	if result.Err != "missing_url" {
		t.Errorf("Err = %q, want missing_url", result.Err)
	}
	if result.Seqno != "12345" {
		t.Errorf("Seqno = %q, want 12345", result.Seqno)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher was called %d times, want 0", fetcher.calls)
	}
}

func TestFetchDetail_Fixture(t *testing.T) {
	data, err := os.ReadFile("testdata/detail_page.html")
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	s := New(&fakeFetcher{html: string(data)}, 0)
	result := s.FetchDetail("12345", "https://example.com/view?seqno=12345")

	if !result.OK {
		t.Fatalf("OK = false (err %q), want true", result.Err)
	}
	if !strings.Contains(result.DetailText, "영업정지 3개월") {
		t.Errorf("DetailText = %q, should contain the disposition", result.DetailText)
	}
	if result.DetailLocation != "서울특별시 강남구 테헤란로 123" {
		t.Errorf("DetailLocation = %q, want 서울특별시 강남구 테헤란로 123", result.DetailLocation)
	}
}

func TestFetchDetail_SelectorPriority(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "primary list selector",
			html: `<div class="subcon"><ul class="bl3x mglt25 clr"><li>본문</li></ul><ul><li>기타</li></ul></div>`,
			want: "본문",
		},
		{
			name: "subcon list fallback",
			html: `<div class="subcon"><ul><li>목록 본문</li></ul></div>`,
			want: "목록 본문",
		},
		{
			name: "subcon block fallback",
			html: `<div class="subcon">블록 본문</div>`,
			want: "블록 본문",
		},
		{
			name: "empty primary falls through to next",
			html: `<ul class="bl3x mglt25 clr">  </ul><div class="subcon">대체 본문</div>`,
			want: "대체 본문",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeFetcher{html: tt.html}, 0)
			result := s.FetchDetail("1", "https://example.com/view?seqno=1")

			if !result.OK {
				t.Fatalf("OK = false (err %q), want true", result.Err)
			}
			if result.DetailText != tt.want {
				t.Errorf("DetailText = %q, want %q", result.DetailText, tt.want)
			}
		})
	}
}

func TestFetchDetail_EmptyContent(t *testing.T) {
	s := New(&fakeFetcher{html: `<div class="other">무관한 내용</div>`}, 0)
	result := s.FetchDetail("1", "https://example.com/view?seqno=1")

	if result.OK {
		t.Error("OK = true, want false")
	}
	if result.Err != "empty_detail_text" {
		t.Errorf("Err = %q, want empty_detail_text", result.Err)
	}
}

func TestFetchDetail_FetchErrorIsSoft(t *testing.T) {
	s := New(&fakeFetcher{err: errors.New("connection refused")}, 0)
	result := s.FetchDetail("1", "https://example.com/view?seqno=1")

	if result.OK {
		t.Error("OK = true, want false")
	}
	if !strings.Contains(result.Err, "connection refused") {
		t.Errorf("Err = %q, should carry the transport error", result.Err)
	}
}
