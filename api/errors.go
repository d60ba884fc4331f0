package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"jira-worklog/favorite"
	"jira-worklog/jira"
	"jira-worklog/prefix"
	"jira-worklog/record"
)

// Machine-readable error codes returned in the "error.code" field.
const (
	CodeNotFound              = "not_found"
	CodeLimitExceeded         = "limit_exceeded"
	CodeConflict              = "conflict"
	CodeInvalidArgument       = "invalid_argument"
	CodeRequestTooLarge       = "request_too_large"
	CodeUpstreamFailure       = "upstream_failure"
	CodeUpstreamNotFound      = "upstream_not_found"
	CodeUpstreamNotConfigured = "upstream_not_configured"
	CodeInternal              = "internal"
)

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: apiError{Code: code, Message: msg}})
}

// fail maps err onto a status and error code and writes the response.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *jira.UpstreamError
	switch {
	case errors.Is(err, record.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, favorite.ErrLimitExceeded):
		writeError(w, http.StatusConflict, CodeLimitExceeded, err.Error())
	case errors.Is(err, record.ErrDuplicateID):
		writeError(w, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, favorite.ErrInvalid), errors.Is(err, prefix.ErrInvalid), errors.Is(err, jira.ErrInvalid):
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
	case errors.Is(err, jira.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, CodeUpstreamNotConfigured, err.Error())
	case errors.As(err, &upstream) && upstream.Status == http.StatusNotFound:
		writeError(w, http.StatusNotFound, CodeUpstreamNotFound, err.Error())
	case errors.Is(err, jira.ErrUpstream):
		h.log.Warn("upstream failure", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeUpstreamFailure, err.Error())
	default:
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// maxBodyBytes caps JSON request bodies; every accepted body ends up in a
// small flat file or a single Jira call.
const maxBodyBytes = 64 << 10

// readBody decodes the JSON request body into v. On failure it writes the
// error response and returns false.
func readBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid request body")
	return false
}
