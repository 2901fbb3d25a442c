package fetch

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/daehan-lim/kiscon-notices/internal/logger"
	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

func eucKR(t *testing.T, s string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("encoding fixture to EUC-KR: %v", err)
	}
	return out
}

func TestFetchText_Decoding(t *testing.T) {
	const korText = "검색 결과가 없습니다"

	tests := []struct {
		name        string
		contentType string
		body        func(t *testing.T) []byte
		want        string
	}{
		{
			name:        "euc-kr declared in header",
			contentType: "text/html; charset=euc-kr",
			body:        func(t *testing.T) []byte { return eucKR(t, korText) },
			want:        korText,
		},
		{
			name:        "no charset defaults to euc-kr",
			contentType: "text/html",
			body:        func(t *testing.T) []byte { return eucKR(t, korText) },
			want:        korText,
		},
		{
			name:        "quoted charset token",
			contentType: `text/html; charset="EUC-KR"`,
			body:        func(t *testing.T) []byte { return eucKR(t, korText) },
			want:        korText,
		},
		{
			name:        "utf-8 declared in header",
			contentType: "text/html; charset=utf-8",
			body:        func(t *testing.T) []byte { return []byte(korText) },
			want:        korText,
		},
		{
			name:        "mislabeled utf-8 falls through the chain",
			contentType: "text/html; charset=euc-kr",
			body:        func(t *testing.T) []byte { return []byte("가나다") },
			want:        "가나다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.Write(tt.body(t))
			}))
			defer server.Close()

			client := New(nil, 0)
			got, err := client.FetchText(server.URL, nil)
			if err != nil {
				t.Fatalf("FetchText() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FetchText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchText_Headers(t *testing.T) {
	var gotUA, gotReferer, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(nil, 0)
	if _, err := client.FetchText(server.URL, nil); err != nil {
		t.Fatalf("FetchText() unexpected error: %v", err)
	}

	if !strings.Contains(gotUA, "Chrome") {
		t.Errorf("User-Agent = %q, want a browser-like agent", gotUA)
	}
	if gotReferer != notice.ListURL {
		t.Errorf("Referer = %q, want %q", gotReferer, notice.ListURL)
	}
	if !strings.HasPrefix(gotLang, "ko-KR") {
		t.Errorf("Accept-Language = %q, want Korean-first", gotLang)
	}
}

func TestFetchText_QueryParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	params := url.Values{}
	params.Set("GotoPage", "3")
	params.Set("fromYear", "2026")

	client := New(nil, 0)
	if _, err := client.FetchText(server.URL, params); err != nil {
		t.Fatalf("FetchText() unexpected error: %v", err)
	}

	if gotQuery.Get("GotoPage") != "3" {
		t.Errorf("GotoPage = %q, want 3", gotQuery.Get("GotoPage"))
	}
	if gotQuery.Get("fromYear") != "2026" {
		t.Errorf("fromYear = %q, want 2026", gotQuery.Get("fromYear"))
	}
}

func TestFetchText_TransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(nil, 0)

	if _, err := client.FetchText(server.URL, nil); err == nil {
		t.Error("FetchText() on 503 expected error, got nil")
	}

	server.Close()
	if _, err := client.FetchText(server.URL, nil); err == nil {
		t.Error("FetchText() on refused connection expected error, got nil")
	}
}

func TestFetchText_CountsRequests(t *testing.T) {
	defer logger.SetDefaultMetrics(logger.NewMetrics())
	metrics := logger.SetDefaultMetrics(logger.NewMetrics())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(nil, 0)
	if _, err := client.FetchText(server.URL, nil); err != nil {
		t.Fatalf("FetchText() unexpected error: %v", err)
	}
	if _, err := client.FetchText(server.URL, nil); err != nil {
		t.Fatalf("FetchText() unexpected error: %v", err)
	}

	if got := metrics.Counter("http.requests"); got != 2 {
		t.Errorf("http.requests counter = %d, want 2", got)
	}
}

func TestFetchText_Proxy(t *testing.T) {
	var proxiedHost string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedHost = r.Host
		w.Write([]byte("via proxy"))
	}))
	defer proxy.Close()

	proxyURL, err := url.Parse(proxy.URL)
	if err != nil {
		t.Fatal(err)
	}

	client := New(proxyURL, 0)
	got, err := client.FetchText("http://notices.example.invalid/list", nil)
	if err != nil {
		t.Fatalf("FetchText() unexpected error: %v", err)
	}

	if got != "via proxy" {
		t.Errorf("FetchText() = %q, want %q", got, "via proxy")
	}
	if proxiedHost != "notices.example.invalid" {
		t.Errorf("proxied host = %q, want notices.example.invalid", proxiedHost)
	}
}

func TestHeaderCharset(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"text/html; charset=euc-kr", "euc-kr"},
		{"text/html; charset=EUC-KR", "euc-kr"},
		{`text/html; charset="utf-8"`, "utf-8"},
		{"text/html", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := headerCharset(tt.contentType); got != tt.want {
			t.Errorf("headerCharset(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
