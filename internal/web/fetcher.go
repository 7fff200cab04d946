package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	RequestTimeout  = 10 * time.Second
	MaxResponseSize = 8 * 1024 * 1024 // season pages on Wikipedia run past 1MB
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

// Fetcher performs the single GET behind every data source: HTML pages go
// through colly and come back as goquery documents, API responses through a
// plain http.Client.
type Fetcher struct {
	c      *colly.Collector
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
		colly.MaxBodySize(MaxResponseSize),
	)
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 2,
	})
	c.SetRequestTimeout(timeout)
	return &Fetcher{c: c, client: &http.Client{Timeout: timeout}}
}

// Document fetches rawURL and parses it as HTML.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}

	// Callbacks are per call; a clone shares the transport and limits.
	c := f.c.Clone()
	c.Context = ctx
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", NextUserAgent())
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	var pageHTML []byte
	var status int
	c.OnResponse(func(r *colly.Response) {
		pageHTML = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(rawURL); err != nil {
		if status != 0 {
			return nil, &StatusError{URL: rawURL, Code: status}
		}
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(pageHTML) == 0 {
		return nil, fmt.Errorf("GET %s: empty response body", rawURL)
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
}

// Body fetches rawURL and returns the raw response body, capped at
// MaxResponseSize.
func (f *Fetcher) Body(ctx context.Context, rawURL string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", NextUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
}

func checkURL(rawURL string) error {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return fmt.Errorf("url must start with http:// or https://: %q", rawURL)
	}
	return nil
}
