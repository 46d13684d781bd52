// Package upstream performs the single GET against CASAGATEWAY.
package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 16 << 20
	maxErrorBodyBytes   = 4 << 10
)

// Doer is the subset of *http.Client the fetcher needs
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is a fully read upstream reply
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Config holds fetcher tuning
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Client fetches signed URLs. It never retries.
type Client struct {
	http         Doer
	maxBodyBytes int64
}

// NewClient creates a fetcher backed by a plain http.Client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return NewClientWithDoer(&http.Client{Timeout: cfg.Timeout}, cfg.MaxBodyBytes)
}

// NewClientWithDoer creates a fetcher around an existing Doer
func NewClientWithDoer(doer Doer, maxBodyBytes int64) *Client {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Client{http: doer, maxBodyBytes: maxBodyBytes}
}

// Fetch issues one GET to signedURL
func (c *Client) Fetch(ctx context.Context, signedURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: "request", Err: redact(err)}
	}
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "request", Err: redact(err)}
	}
	defer resp.Body.Close()

	logrus.WithFields(logrus.Fields{
		"host":        req.URL.Host,
		"status_code": resp.StatusCode,
		"latency_ms":  float64(time.Since(start).Nanoseconds()) / 1000000,
	}).Debug("Upstream responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := readAllLimit(resp.Body, maxErrorBodyBytes, true)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := readAllLimit(resp.Body, c.maxBodyBytes, false)
	if err != nil {
		return nil, &NetworkError{Op: "read", Err: err}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases idle keep-alive connections
func (c *Client) Close() error {
	if closer, ok := c.http.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return nil
}

// statusText strips the numeric code from resp.Status
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// redact drops the URL from *url.Error; it contains the apikey and digest
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// readAllLimit reads at most limit bytes. When truncate is false a longer
// body is an error.
func readAllLimit(r io.Reader, limit int64, truncate bool) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		if truncate {
			return b[:limit], nil
		}
		return nil, ErrPayloadTooLarge
	}
	return b, nil
}
