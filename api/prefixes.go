package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jira-worklog/prefix"
)

type suggestionRequest struct {
	TicketKey   string `json:"ticketKey"`
	BaseComment string `json:"baseComment"`
}

type suggestionResponse struct {
	Prefixes []string `json:"prefixes"`
}

func (h *handler) suggestPrefixes(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if !readBody(w, r, &req) {
		return
	}
	prefixes, err := h.suggester.Suggest(req.TicketKey, req.BaseComment)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionResponse{Prefixes: prefixes})
}

func (h *handler) listPrefixes(w http.ResponseWriter, r *http.Request) {
	rules, err := h.prefixes.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (h *handler) createPrefix(w http.ResponseWriter, r *http.Request) {
	var rule prefix.Rule
	if !readBody(w, r, &rule) {
		return
	}
	created, err := h.prefixes.Create(rule)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updatePrefix(w http.ResponseWriter, r *http.Request) {
	var rule prefix.Rule
	if !readBody(w, r, &rule) {
		return
	}
	updated, err := h.prefixes.Update(chi.URLParam(r, "id"), rule)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deletePrefix(w http.ResponseWriter, r *http.Request) {
	if err := h.prefixes.Delete(chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) prefixesEnabled(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.prefixes.Enabled())
}

func (h *handler) constantPrefixes(w http.ResponseWriter, r *http.Request) {
	consts, err := h.prefixes.Constants()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consts)
}
