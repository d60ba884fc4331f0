package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// CreateWorklog adds a work entry to req.TicketKey. Started defaults to 09:00
// UTC on req.Date when only a date is given, and is left to Jira otherwise.
func (c *Client) CreateWorklog(ctx context.Context, req WorklogRequest) (*WorklogResponse, error) {
	key := strings.TrimSpace(req.TicketKey)
	if key == "" {
		return nil, fmt.Errorf("%w: ticketKey is required", ErrInvalid)
	}
	if req.TimeSpentSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeSpentSeconds must be positive", ErrInvalid)
	}

	payload := map[string]any{
		"comment":          req.Comment,
		"timeSpentSeconds": req.TimeSpentSeconds,
	}
	switch {
	case strings.TrimSpace(req.Started) != "":
		payload["started"] = req.Started
	case strings.TrimSpace(req.Date) != "":
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, req.Date)
		}
		payload["started"] = req.Date + "T09:00:00.000+0000"
	}
	if req.Username != "" {
		payload["author"] = map[string]string{"name": req.Username}
	}

	var wl apiWorklog
	if err := c.do(ctx, "create worklog", http.MethodPost, issuePath(key, "worklog"), nil, payload, &wl); err != nil {
		return nil, err
	}
	c.log.Info("worklog created",
		zap.String("ticket", key), zap.String("id", string(wl.ID)), zap.Int("seconds", wl.TimeSpentSeconds))
	return &WorklogResponse{
		ID:               string(wl.ID),
		Author:           wl.Author.label(),
		TimeSpentSeconds: wl.TimeSpentSeconds,
		Started:          wl.Started,
	}, nil
}

// IssueSummary fetches the summary field of one issue.
func (c *Client) IssueSummary(ctx context.Context, key string) (*IssueSummary, error) {
	var is apiIssue
	q := url.Values{"fields": {"summary"}}
	if err := c.do(ctx, "get issue", http.MethodGet, issuePath(key), q, nil, &is); err != nil {
		return nil, err
	}
	s := is.summary()
	return &s, nil
}

// Search runs a JQL query and returns the matching issues from a single page.
func (c *Client) Search(ctx context.Context, jql string) ([]IssueSummary, error) {
	var res apiSearch
	q := url.Values{"jql": {jql}, "fields": {"summary"}}
	if err := c.do(ctx, "search", http.MethodGet, "/rest/api/2/search", q, nil, &res); err != nil {
		return nil, err
	}
	out := make([]IssueSummary, 0, len(res.Issues))
	for _, is := range res.Issues {
		out = append(out, is.summary())
	}
	return out, nil
}

// RecentIssues lists issues author logged work on in the last days days.
func (c *Client) RecentIssues(ctx context.Context, days int, author string) ([]HistoryItem, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalid)
	}
	jql := "worklogDate >= " + quote("-"+strconv.Itoa(days)+"d")
	if author != "" {
		jql += " AND worklogAuthor = " + quote(author)
	}
	issues, err := c.Search(ctx, jql)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryItem, 0, len(issues))
	for _, is := range issues {
		out = append(out, HistoryItem{TicketKey: is.Key, Summary: is.Summary})
	}
	return out, nil
}

// WorklogsBetween lists author's work entries dated within [from, to]. Issues
// are found with one search; each issue's work log is then fetched, at most
// Concurrency at a time. An issue whose work log cannot be fetched is
// reported in RangeResult.Failed and does not fail the call.
func (c *Client) WorklogsBetween(ctx context.Context, from, to, author string) (*RangeResult, error) {
	if _, err := time.Parse(dateLayout, from); err != nil {
		return nil, fmt.Errorf("%w: from %q is not YYYY-MM-DD", ErrInvalid, from)
	}
	if _, err := time.Parse(dateLayout, to); err != nil {
		return nil, fmt.Errorf("%w: to %q is not YYYY-MM-DD", ErrInvalid, to)
	}
	if from > to {
		return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalid, from, to)
	}

	jql := "worklogDate >= " + quote(from) + " AND worklogDate <= " + quote(to)
	if author != "" {
		jql += " AND worklogAuthor = " + quote(author)
	}
	issues, err := c.Search(ctx, jql)
	if err != nil {
		return nil, err
	}

	entries := make([][]Entry, len(issues))
	failures := make([]error, len(issues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, is := range issues {
		g.Go(func() error {
			var list apiWorklogList
			if err := c.do(gctx, "list worklogs", http.MethodGet, issuePath(is.Key, "worklog"), nil, nil, &list); err != nil {
				failures[i] = err
				return nil
			}
			entries[i] = filterEntries(is.Key, list.Worklogs, from, to, author)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &RangeResult{Entries: []Entry{}}
	for i, is := range issues {
		if failures[i] != nil {
			c.log.Warn("skipping issue in range listing", zap.String("ticket", is.Key), zap.Error(failures[i]))
			res.Failed = append(res.Failed, IssueFailure{Key: is.Key, Err: failures[i]})
			continue
		}
		res.Entries = append(res.Entries, entries[i]...)
	}
	return res, nil
}

func filterEntries(key string, wls []apiWorklog, from, to, author string) []Entry {
	var out []Entry
	for _, wl := range wls {
		if author != "" && !wl.Author.is(author) {
			continue
		}
		if len(wl.Started) < len(dateLayout) {
			continue
		}
		day := wl.Started[:len(dateLayout)]
		if day < from || day > to {
			continue
		}
		out = append(out, Entry{
			Date:             day,
			WorkTime:         FormatDuration(wl.TimeSpentSeconds),
			TicketNumber:     key,
			TimeSpentSeconds: wl.TimeSpentSeconds,
			Comment:          commentText(wl.Comment),
		})
	}
	return out
}

// FormatDuration renders seconds as "<h> godz. <m> min", dropping zero parts.
func FormatDuration(secs int) string {
	if secs <= 0 {
		return "0 min"
	}
	h, m := secs/3600, (secs%3600)/60
	var parts []string
	if h > 0 {
		parts = append(parts, strconv.Itoa(h)+" godz.")
	}
	if m > 0 {
		parts = append(parts, strconv.Itoa(m)+" min")
	}
	if len(parts) == 0 {
		return "0 min"
	}
	return strings.Join(parts, " ")
}

// quote renders s as a JQL string literal.
func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
