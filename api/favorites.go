package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jira-worklog/favorite"
)

func (h *handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.favorites.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *handler) createFavorite(w http.ResponseWriter, r *http.Request) {
	var f favorite.Favorite
	if !readBody(w, r, &f) {
		return
	}
	created, err := h.favorites.Create(f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateFavorite(w http.ResponseWriter, r *http.Request) {
	var f favorite.Favorite
	if !readBody(w, r, &f) {
		return
	}
	updated, err := h.favorites.Update(chi.URLParam(r, "id"), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Delete(chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// legacyFavorites serves the older read-only favorite ticket list.
func (h *handler) legacyFavorites(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.favorites.Tickets()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}
