package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

// fakeResolver simulates DNS, including a rebinding attacker that maps a
// public-looking hostname to a private address.
type fakeResolver struct {
	hosts map[string][]netip.Addr
}

func (r *fakeResolver) LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error) {
	if addrs, ok := r.hosts[host]; ok {
		return addrs, nil
	}
	if ip, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{ip}, nil
	}
	return nil, fmt.Errorf("no such host: %s", host)
}

func TestFetchRejectsNonHTTPSchemes(t *testing.T) {
	f := New(Options{})

	for _, raw := range []string{
		"ftp://example.com/file",
		"file:///etc/passwd",
		"gopher://example.com",
		"javascript:alert(1)",
		"not a url",
	} {
		content := f.Fetch(context.Background(), raw)
		assert.Equal(t, ErrInvalidURL, content.Error)
	}
}

func TestFetchRejectsBlockedHostnames(t *testing.T) {
	f := New(Options{})

	for _, raw := range []string{
		"http://localhost/admin",
		"http://db.internal/status",
		"http://printer.local/",
		"http://nas.lan/share",
		"http://metadata.google.internal/computeMetadata/v1/",
	} {
		content := f.Fetch(context.Background(), raw)
		assert.Equal(t, ErrNotAccessible, content.Error)
	}
}

func TestFetchDNSRebindingNeverConnects(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, "<html><body>internal secrets</body></html>")
	}))
	defer srv.Close()

	srvURL, _ := url.Parse(srv.URL)

	// public-looking hostname resolving to the loopback address the test
	// server actually listens on
	resolver := &fakeResolver{hosts: map[string][]netip.Addr{
		"cdn.example.com": {netip.MustParseAddr("127.0.0.1")},
	}}

	f := New(Options{Resolver: resolver})
	content := f.Fetch(context.Background(), "http://cdn.example.com:"+srvURL.Port()+"/page")

	assert.Equal(t, ErrNotAccessible, content.Error)
	assert.Equal(t, "", content.BodyText)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestFetchRejectsPrivateAddresses(t *testing.T) {
	resolver := &fakeResolver{hosts: map[string][]netip.Addr{
		"a.example.com": {netip.MustParseAddr("10.0.0.5")},
		"b.example.com": {netip.MustParseAddr("192.168.1.1")},
		"c.example.com": {netip.MustParseAddr("169.254.169.254")},
		"d.example.com": {netip.MustParseAddr("::1")},
		"e.example.com": {netip.MustParseAddr("fe80::1")},
		"f.example.com": {netip.MustParseAddr("fc00::1")},
		"g.example.com": {netip.MustParseAddr("100.64.0.1")},
		"h.example.com": {netip.MustParseAddr("::ffff:10.0.0.5")},
		// one public, one private: still blocked
		"i.example.com": {netip.MustParseAddr("93.184.216.34"), netip.MustParseAddr("10.0.0.5")},
	}}

	f := New(Options{Resolver: resolver})

	for host := range resolver.hosts {
		content := f.Fetch(context.Background(), "http://"+host+"/")
		assert.Equal(t, ErrNotAccessible, content.Error)
	}
}

func TestFetchBodySizeBoundary(t *testing.T) {
	const ceiling = 4096

	page := func(n int) string {
		head := "<html><body>"
		tail := "</body></html>"
		return head + strings.Repeat("a", n-len(head)-len(tail)) + tail
	}

	var size int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, page(size))
	}))
	defer srv.Close()

	f := New(Options{AllowPrivate: true, MaxBodyBytes: ceiling})

	size = ceiling - 1
	assert.Equal(t, "", f.Fetch(context.Background(), srv.URL).Error)

	size = ceiling
	assert.Equal(t, "", f.Fetch(context.Background(), srv.URL).Error)

	size = ceiling + 1
	assert.Equal(t, ErrTooLarge, f.Fetch(context.Background(), srv.URL).Error)
}

func TestFetchRedirectCap(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"r", http.StatusFound)
	}))
	defer srv.Close()

	f := New(Options{AllowPrivate: true, MaxRedirects: 5})
	content := f.Fetch(context.Background(), srv.URL+"/")

	assert.Equal(t, ErrNotAccessible, content.Error)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	f := New(Options{AllowPrivate: true, Timeout: 150 * time.Millisecond})
	content := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, ErrTimeout, content.Error)
}

func TestFetchExtractsContentAndMetadata(t *testing.T) {
	page := `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Base Title</title>
  <meta property="og:title" content="OG Title">
  <meta name="description" content="base description">
  <meta property="og:description" content="og description">
  <meta property="og:site_name" content="Example Site">
  <meta property="og:image" content="https://example.com/cover.jpg">
  <meta property="article:published_time" content="2026-08-20T10:00:00Z">
  <meta name="author" content="Jane Doe">
</head>
<body>
  <nav>site navigation that should vanish</nav>
  <article>
    <h1>OG Title</h1>
    <p>This is the main readable content of the article, long enough to be
    selected as the primary text block by the extractor heuristics.</p>
  </article>
  <footer>footer junk</footer>
  <script>alert("nope")</script>
</body>
</html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	f := New(Options{AllowPrivate: true})
	content := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, "", content.Error)
	assert.Equal(t, "OG Title", content.Title)
	assert.Equal(t, "og description", content.Description)
	assert.Equal(t, "Example Site", content.Metadata.SiteName)
	assert.Equal(t, "https://example.com/cover.jpg", content.Metadata.Image)
	assert.Equal(t, "Jane Doe", content.Metadata.Author)
	assert.Equal(t, "2026-08-20T10:00:00Z", content.Metadata.PublishedAt)
	assert.Equal(t, "en", content.Metadata.Language)
	assert.Equal(t, "article", content.ContentKind)

	if strings.Contains(content.BodyText, "site navigation") {
		t.Fatalf("nav text leaked into body: %q", content.BodyText)
	}
	if strings.Contains(content.BodyText, "alert") {
		t.Fatalf("script text leaked into body: %q", content.BodyText)
	}
	if !strings.Contains(content.BodyText, "main readable content") {
		t.Fatalf("missing article text: %q", content.BodyText)
	}
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Options{AllowPrivate: true})
	assert.Equal(t, ErrNotAccessible, f.Fetch(context.Background(), srv.URL).Error)
}
