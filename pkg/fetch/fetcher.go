package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"prospector/internal/model"
)

// Sanitized error strings. These are the only fetch failure messages visible
// to callers; raw transport or DNS detail never crosses this boundary.
const (
	ErrInvalidURL         = "invalid URL"
	ErrNotAccessible      = "URL not accessible"
	ErrTimeout            = "request timed out"
	ErrTooLarge           = "response too large"
	ErrUnsupportedContent = "unsupported content type"
	ErrParseFailed        = "failed to parse content"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 10 << 20
	defaultMaxRedirects = 5
	userAgent           = "prospector/1.0"
)

var (
	errBlockedAddress   = errors.New("blocked address")
	errBodyTooLarge     = errors.New("body too large")
	errTooManyRedirects = errors.New("too many redirects")
)

// Resolver is satisfied by *net.Resolver; tests inject fakes to simulate
// DNS rebinding.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	MaxRedirects int
	Resolver     Resolver

	// AllowPrivate disables the address guard. Local development and tests
	// only; never set in production.
	AllowPrivate bool
}

// Fetcher retrieves a single URL under the security and resource constraints
// and extracts readable content from it.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
}

func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = defaultMaxRedirects
	}
	if opts.Resolver == nil {
		opts.Resolver = net.DefaultResolver
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}

	transport := &http.Transport{
		// Resolve and guard here, on the address actually dialed, so a
		// hostname re-resolving to a private address between validation and
		// connect still gets blocked. Covers every redirect hop as well.
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}

			ips, err := opts.Resolver.LookupNetIP(ctx, "ip", host)
			if err != nil {
				return nil, err
			}
			if len(ips) == 0 {
				return nil, fmt.Errorf("no addresses for %s", host)
			}

			if !opts.AllowPrivate {
				for _, ip := range ips {
					if addrBlocked(ip) {
						return nil, errBlockedAddress
					}
				}
			}

			var lastErr error
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip.Unmap().String(), port))
				if err == nil {
					return conn, nil
				}
				lastErr = err
			}
			return nil, lastErr
		},
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 8 * time.Second,
		MaxIdleConns:          10,
	}

	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errTooManyRedirects
			}
			if !opts.AllowPrivate && hostnameBlocked(req.URL.Hostname()) {
				return errBlockedAddress
			}
			return nil
		},
	}

	return &Fetcher{
		client:  client,
		timeout: opts.Timeout,
		maxBody: opts.MaxBodyBytes,
	}
}

// Fetch retrieves rawURL and extracts readable content. All failure modes are
// reported through ExtractedContent.Error; Fetch never returns a Go error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) model.ExtractedContent {
	content := model.ExtractedContent{URL: rawURL}

	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || target.Hostname() == "" {
		content.Error = ErrInvalidURL
		return content
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		content.Error = ErrInvalidURL
		return content
	}
	if hostnameBlocked(target.Hostname()) {
		content.Error = ErrNotAccessible
		return content
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		content.Error = ErrInvalidURL
		return content
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		content.Error = classifyFetchError(err)
		return content
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		content.Error = ErrNotAccessible
		return content
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		kind := classifyKind(target, contentType, nil)
		if kind == model.KindWebpage {
			content.Error = ErrUnsupportedContent
			return content
		}
		content.ContentKind = kind
		return content
	}

	body, err := readBounded(resp.Body, f.maxBody)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			content.Error = ErrTooLarge
		case errors.Is(err, context.DeadlineExceeded):
			content.Error = ErrTimeout
		default:
			content.Error = ErrNotAccessible
		}
		return content
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		content.Error = ErrParseFailed
		return content
	}

	content.Title, content.Description, content.BodyText = extractReadable(doc)
	content.Metadata = extractMetadata(doc)
	content.ContentKind = classifyKind(target, contentType, doc)
	return content
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") ||
		strings.Contains(ct, "application/xhtml+xml") ||
		ct == ""
}

// readBounded reads at most max bytes and fails if the stream goes past the
// ceiling, aborting the transfer instead of buffering it all.
func readBounded(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func classifyFetchError(err error) string {
	switch {
	case errors.Is(err, errBlockedAddress):
		return ErrNotAccessible
	case errors.Is(err, errTooManyRedirects):
		return ErrNotAccessible
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNotAccessible
	}
}
