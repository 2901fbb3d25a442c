// Package fetch retrieves pages from the KISCON site as decoded text.
//
// The site serves legacy EUC-KR/CP949 HTML, so the transport hands back raw
// bytes and decoding happens here: the charset comes from the Content-Type
// response header, defaulting to euc-kr, with a cp949 and utf-8 fallback
// chain for mislabeled pages. Transport failures propagate to the caller;
// only decode failures are recovered locally.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/daehan-lim/kiscon-notices/internal/logger"
	"github.com/daehan-lim/kiscon-notices/internal/notice"
)

const (
	// UserAgent mimics a desktop browser; the site serves a degraded page
	// to unknown agents.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
	// AcceptLanguage is tuned for the target locale.
	AcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"

	defaultCharset = "euc-kr"
)

var charsetRe = regexp.MustCompile(`(?i)charset\s*=\s*["']?\s*([a-zA-Z0-9_\-]+)`)

// Client fetches URLs and decodes their bodies from the site's legacy
// encoding. It holds no mutable state after construction and is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	referer    string
}

// New creates a Client. proxyURL may be nil for a direct connection; a
// non-positive timeout falls back to the configured default.
func New(proxyURL *url.URL, timeout time.Duration) *Client {
	rt := http.DefaultTransport
	if proxyURL != nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = http.ProxyURL(proxyURL)
		rt = t
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: rt,
		},
		referer: notice.ListURL,
	}
}

// FetchText GETs rawURL (replacing its query string with params when
// non-nil) and returns the response body decoded to a string. Any transport
// error, including a non-2xx status, is returned as an error; an empty
// string is never silently substituted for a failed fetch.
func (c *Client) FetchText(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Referer", c.referer)
	req.Header.Set("Accept-Language", AcceptLanguage)
	req.Header.Set("Connection", "keep-alive")

	logger.IncrCounter("http.requests")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	return decode(raw, resp.Header.Get("Content-Type")), nil
}

// headerCharset pulls the charset token out of a Content-Type value,
// lowercased. Empty when the header does not declare one.
func headerCharset(contentType string) string {
	m := charsetRe.FindStringSubmatch(contentType)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// decode converts raw bytes to a string, trying the header-declared charset
// first, then cp949, then utf-8. A candidate is rejected when it cannot be
// resolved or when decoding litters the text with replacement runes; the
// last candidate's output is kept when every candidate is imperfect.
func decode(raw []byte, contentType string) string {
	charset := headerCharset(contentType)
	if charset == "" {
		charset = defaultCharset
	}

	var last string
	seen := make(map[string]bool)
	for _, name := range []string{charset, "cp949", "utf-8"} {
		if seen[name] {
			continue
		}
		seen[name] = true

		text, err := decodeAs(raw, name)
		if err != nil {
			logger.Debug("charset not resolvable", logger.Fields{"charset": name})
			continue
		}
		if !strings.ContainsRune(text, utf8.RuneError) {
			return text
		}
		last = text
	}

	if last != "" {
		return last
	}
	return string(raw)
}

// decodeAs decodes raw with the named charset. Korean codepage aliases
// resolve directly to x/text's EUC-KR implementation (a CP949 superset);
// anything else goes through the WHATWG encoding index.
func decodeAs(raw []byte, name string) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "euc-kr", "euckr", "cp949", "ms949", "windows-949", "ks_c_5601-1987":
		return korean.EUCKR, nil
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	default:
		return htmlindex.Get(name)
	}
}
