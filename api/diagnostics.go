package api

import (
	"net/http"
	"os"
)

type sourceInfo struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

// sources reports where each data file resolves to and whether it exists.
func (h *handler) sources(w http.ResponseWriter, r *http.Request) {
	var names []string
	names = append(names, h.favorites.Sources()...)
	names = append(names, h.prefixes.Sources()...)

	out := make([]sourceInfo, 0, len(names))
	for _, name := range names {
		info := sourceInfo{Name: name}
		if h.locator != nil {
			info.Path = h.locator.Resolve(name)
			if _, err := os.Stat(info.Path); err == nil {
				info.Exists = true
			}
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}
