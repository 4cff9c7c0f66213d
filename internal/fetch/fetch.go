// Package fetch is the shared HTTP retrieval layer for the platform
// scrapers: browser-like headers, compressed-body decoding, request rate
// limiting, and a short-TTL page cache.
package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/guarzo/ticketdesk/internal/cache"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

const pageCacheTTL = 10 * time.Minute

// Client fetches marketplace pages. Safe for sequential use from the scrape
// cycle; the limiter spaces requests regardless of caller.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	userAgents []string
}

// New builds a client with the given per-request timeout. The cache may be
// nil, in which case every Page call goes to the network.
func New(timeout time.Duration, c *cache.Cache) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		cache:      c,
		userAgents: defaultUserAgents,
	}
}

// Page retrieves one URL as text. Transport failures, non-2xx statuses, and
// unreadable bodies all surface as errors; the caller decides whether that
// fails a strategy or the whole platform.
func (c *Client) Page(ctx context.Context, platform, url string) (string, error) {
	key := cache.PageKey(platform, url)
	if c.cache != nil {
		var body string
		if found, _ := c.cache.Get(key, &body); found {
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setBrowserHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}

	reader, err := bodyReader(resp)
	if err != nil {
		return "", fmt.Errorf("decoding body: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	text := string(body)
	if c.cache != nil {
		_ = c.cache.Put(key, text, pageCacheTTL)
	}
	return text, nil
}

func (c *Client) setBrowserHeaders(req *http.Request) {
	ua := c.userAgents[rand.Intn(len(c.userAgents))]
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Referer", "https://www.google.com/")
}

func bodyReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
