// Package jira is a small client for the Jira REST API v2 covering work-log
// creation, issue lookup, JQL search and per-issue work-log listing.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

var (
	// ErrUpstream matches every *UpstreamError.
	ErrUpstream      = errors.New("jira request failed")
	ErrNotConfigured = errors.New("jira url is not configured")
	ErrInvalid       = errors.New("invalid request")
)

// UpstreamError describes a failed call to Jira: either a transport error
// (Err set) or a non-2xx response (Status and Body set).
type UpstreamError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jira %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("jira %s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Config configures a Client.
type Config struct {
	BaseURL string
	// Token is sent as a bearer credential. Empty means unauthenticated.
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// Concurrency bounds parallel per-issue requests in WorklogsBetween.
	Concurrency int
}

type Client struct {
	http        *http.Client
	baseURL     string
	timeout     time.Duration
	limiter     *rate.Limiter
	concurrency int
	log         *zap.Logger
}

// New returns a Client. Zero-valued limits fall back to conservative defaults.
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		hc = oauth2.NewClient(ctx, src)
		hc.Timeout = cfg.Timeout
	}

	return &Client{
		http:        hc,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     cfg.Timeout,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		concurrency: cfg.Concurrency,
		log:         log.Named("jira"),
	}
}

// do sends one request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("jira %s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("jira %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Atlassian-Token", "no-check")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &UpstreamError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func issuePath(key string, rest ...string) string {
	p := "/rest/api/2/issue/" + url.PathEscape(key)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
