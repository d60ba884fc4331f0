package jira

import (
	"bytes"
	"encoding/json"
	"strings"
)

// WorklogRequest is a work entry to create.
type WorklogRequest struct {
	TicketKey        string `json:"ticketKey"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Comment          string `json:"comment"`
	Username         string `json:"username,omitempty"`
	// Date is YYYY-MM-DD; used when Started is empty.
	Date string `json:"date,omitempty"`
	// Started is a full Jira timestamp, e.g. 2026-01-08T09:00:00.000+0100.
	Started string `json:"started,omitempty"`
}

// WorklogResponse is the created work entry as reported by Jira.
type WorklogResponse struct {
	ID               string `json:"id"`
	Author           string `json:"author"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Started          string `json:"started"`
}

type IssueSummary struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// HistoryItem is an issue the user logged work on recently.
type HistoryItem struct {
	TicketKey string `json:"ticketKey"`
	Summary   string `json:"summary"`
}

// Entry is one work-log line in a date-range listing.
type Entry struct {
	Date             string `json:"date"`
	WorkTime         string `json:"workTime"`
	TicketNumber     string `json:"ticketNumber"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Comment          string `json:"comment,omitempty"`
}

// IssueFailure records an issue whose work log could not be fetched.
type IssueFailure struct {
	Key string
	Err error
}

// RangeResult is the outcome of WorklogsBetween. Failed lists issues that
// were skipped; Entries holds everything that could be fetched.
type RangeResult struct {
	Entries []Entry
	Failed  []IssueFailure
}

// FailedKeys returns the keys of the failed issues.
func (r *RangeResult) FailedKeys() []string {
	keys := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		keys[i] = f.Key
	}
	return keys
}

// Wire shapes.

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type apiAuthor struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (a *apiAuthor) label() string {
	if a == nil {
		return ""
	}
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

func (a *apiAuthor) is(user string) bool {
	return a != nil && (a.Name == user || a.DisplayName == user)
}

type apiWorklog struct {
	ID               flexString      `json:"id"`
	Author           *apiAuthor      `json:"author"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
	Started          string          `json:"started"`
	Comment          json.RawMessage `json:"comment"`
}

type apiIssue struct {
	ID     flexString `json:"id"`
	Key    string     `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

func (i apiIssue) summary() IssueSummary {
	return IssueSummary{ID: string(i.ID), Key: i.Key, Summary: i.Fields.Summary}
}

type apiSearch struct {
	Issues []apiIssue `json:"issues"`
}

type apiWorklogList struct {
	Worklogs []apiWorklog `json:"worklogs"`
}

// commentText extracts plain text from a work-log comment, which is a string
// in API v2 and an Atlassian Document Format tree in v3.
func commentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(n any)
	walk = func(n any) {
		switch v := n.(type) {
		case map[string]any:
			if t, ok := v["text"].(string); ok {
				b.WriteString(t)
			}
			if content, ok := v["content"].([]any); ok {
				for i, c := range content {
					if i > 0 && v["type"] == "doc" {
						b.WriteByte('\n')
					}
					walk(c)
				}
			}
		case []any:
			for _, c := range v {
				walk(c)
			}
		}
	}
	walk(doc)
	return b.String()
}
