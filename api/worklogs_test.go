package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"jira-worklog/api"
	"jira-worklog/jira"
)

func TestCreateWorklogUsesConfiguredUser(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/worklogs",
		`{"ticketKey":"ABC-1","timeSpentSeconds":1800,"comment":"[BUG] fix","username":"mallory","date":"2026-01-08"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out jira.WorklogResponse
	decode(t, resp, &out)
	if out.ID != "10001" {
		t.Fatalf("unexpected response %+v", out)
	}

	if len(env.gateway.created) != 1 {
		t.Fatalf("expected one created worklog, got %d", len(env.gateway.created))
	}
	got := env.gateway.created[0]
	if got.Username != "jdoe" {
		t.Fatalf("expected configured username jdoe, got %q", got.Username)
	}
	if got.TicketKey != "ABC-1" || got.TimeSpentSeconds != 1800 || got.Date != "2026-01-08" {
		t.Fatalf("request not forwarded intact: %+v", got)
	}
}

func TestCreateWorklogErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", fmt.Errorf("%w: ticket key is required", jira.ErrInvalid), http.StatusBadRequest, api.CodeInvalidArgument},
		{"not configured", jira.ErrNotConfigured, http.StatusServiceUnavailable, api.CodeUpstreamNotConfigured},
		{"upstream 404", &jira.UpstreamError{Op: "create worklog", Status: http.StatusNotFound}, http.StatusNotFound, api.CodeUpstreamNotFound},
		{"upstream 500", &jira.UpstreamError{Op: "create worklog", Status: http.StatusInternalServerError}, http.StatusBadGateway, api.CodeUpstreamFailure},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, api.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestServer(t)
			env.gateway.err = tt.err
			resp := env.do(t, http.MethodPost, "/api/worklogs", `{"ticketKey":"ABC-1","timeSpentSeconds":60}`)
			expectError(t, resp, tt.status, tt.code)
		})
	}
}

func TestCreateWorklogBadJSON(t *testing.T) {
	env := newTestServer(t)
	resp := env.do(t, http.MethodPost, "/api/worklogs", "not-json")
	expectError(t, resp, http.StatusBadRequest, api.CodeInvalidArgument)
	if len(env.gateway.created) != 0 {
		t.Fatal("bad request must not reach Jira")
	}
}

func TestWorklogHistory(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/api/worklogs/history", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var items []jira.HistoryItem
	decode(t, resp, &items)
	if len(items) != 1 || items[0].TicketKey != "ABC-1" {
		t.Fatalf("unexpected history %+v", items)
	}
	if env.gateway.days != 7 || env.gateway.authors[0] != "jdoe" {
		t.Fatalf("expected 7 days for jdoe, got %d for %v", env.gateway.days, env.gateway.authors)
	}

	env.do(t, http.MethodGet, "/api/worklogs/history?days=30", "")
	if env.gateway.days != 30 {
		t.Fatalf("expected 30 days, got %d", env.gateway.days)
	}

	resp = env.do(t, http.MethodGet, "/api/worklogs/history?days=zero", "")
	expectError(t, resp, http.StatusBadRequest, api.CodeInvalidArgument)
}

func TestWorklogListPartialFailures(t *testing.T) {
	env := newTestServer(t)
	env.gateway.result = &jira.RangeResult{
		Entries: []jira.Entry{{Date: "2026-01-08", WorkTime: "30 min", TicketNumber: "ABC-1", TimeSpentSeconds: 1800}},
		Failed: []jira.IssueFailure{
			{Key: "ABC-2", Err: errors.New("timeout")},
			{Key: "ABC-3", Err: errors.New("500")},
		},
	}

	resp := env.do(t, http.MethodGet, "/api/worklogs/list?from=2026-01-01&to=2026-01-31", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Partial-Failures"); got != "ABC-2,ABC-3" {
		t.Fatalf("unexpected X-Partial-Failures %q", got)
	}
	var entries []jira.Entry
	decode(t, resp, &entries)
	if len(entries) != 1 || entries[0].TicketNumber != "ABC-1" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestWorklogListComplete(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/api/worklogs/list?from=2026-01-01&to=2026-01-31", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, ok := resp.Header["X-Partial-Failures"]; ok {
		t.Fatal("header must be absent when nothing failed")
	}
}

func TestWorklogListRequiresRange(t *testing.T) {
	env := newTestServer(t)
	resp := env.do(t, http.MethodGet, "/api/worklogs/list?from=2026-01-01", "")
	expectError(t, resp, http.StatusBadRequest, api.CodeInvalidArgument)
}

func TestIssueSummary(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/api/jira/ABC-7/summary", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var s jira.IssueSummary
	decode(t, resp, &s)
	if s.Key != "ABC-7" || s.Summary != "Summary of ABC-7" {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSearchIssues(t *testing.T) {
	env := newTestServer(t)

	jql := `project = ABC AND text ~ "login"`
	resp := env.do(t, http.MethodGet, "/api/jira/search?jql="+url.QueryEscape(jql), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if env.gateway.searched != jql {
		t.Fatalf("expected jql %q, got %q", jql, env.gateway.searched)
	}

	resp = env.do(t, http.MethodGet, "/api/jira/search", "")
	expectError(t, resp, http.StatusBadRequest, api.CodeInvalidArgument)
}
