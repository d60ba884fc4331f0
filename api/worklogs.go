package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"jira-worklog/jira"
)

const defaultHistoryDays = 7

func (h *handler) createWorklog(w http.ResponseWriter, r *http.Request) {
	var req jira.WorklogRequest
	if !readBody(w, r, &req) {
		return
	}
	// The configured identity always wins over whatever the client sent.
	req.Username = h.username
	h.log.Info("create worklog",
		zap.String("ticket", req.TicketKey), zap.String("date", req.Date), zap.String("started", req.Started))

	resp, err := h.jira.CreateWorklog(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) worklogHistory(w http.ResponseWriter, r *http.Request) {
	days := defaultHistoryDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, CodeInvalidArgument, "days must be a positive integer")
			return
		}
		days = n
	}
	items, err := h.jira.RecentIssues(r.Context(), days, h.username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// worklogList returns the entries that could be fetched. Issues whose work
// log failed to load are named in the X-Partial-Failures header.
func (h *handler) worklogList(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "from and to are required")
		return
	}
	res, err := h.jira.WorklogsBetween(r.Context(), from, to, h.username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(res.Failed) > 0 {
		w.Header().Set("X-Partial-Failures", strings.Join(res.FailedKeys(), ","))
	}
	writeJSON(w, http.StatusOK, res.Entries)
}

func (h *handler) issueSummary(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s, err := h.jira.IssueSummary(r.Context(), key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handler) searchIssues(w http.ResponseWriter, r *http.Request) {
	jql := r.URL.Query().Get("jql")
	if strings.TrimSpace(jql) == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "jql is required")
		return
	}
	issues, err := h.jira.Search(r.Context(), jql)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}
