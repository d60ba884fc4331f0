package api

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"jira-worklog/favorite"
	"jira-worklog/jira"
	"jira-worklog/notify"
	"jira-worklog/prefix"
	"jira-worklog/record"
	"jira-worklog/suggest"
)

// Gateway is the subset of the Jira client the HTTP surface needs.
type Gateway interface {
	CreateWorklog(ctx context.Context, req jira.WorklogRequest) (*jira.WorklogResponse, error)
	IssueSummary(ctx context.Context, key string) (*jira.IssueSummary, error)
	Search(ctx context.Context, jql string) ([]jira.IssueSummary, error)
	RecentIssues(ctx context.Context, days int, author string) ([]jira.HistoryItem, error)
	WorklogsBetween(ctx context.Context, from, to, author string) (*jira.RangeResult, error)
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Favorites *favorite.Manager
	Prefixes  *prefix.Manager
	Suggester *suggest.Engine
	Jira      Gateway
	// Hub feeds /api/events; nil disables the endpoint.
	Hub *notify.Hub
	// Locator resolves data files for /api/sources.
	Locator record.Locator
	// Username is the identity every work entry is logged and listed as.
	Username string
	Logger   *zap.Logger
}

func RegisterRoutes(d Deps, staticFS fs.FS) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	h := &handler{
		favorites: d.Favorites,
		prefixes:  d.Prefixes,
		suggester: d.Suggester,
		jira:      d.Jira,
		hub:       d.Hub,
		locator:   d.Locator,
		username:  d.Username,
		log:       log,
	}

	// Work entries (proxied to Jira)
	r.Post("/api/worklogs", h.createWorklog)
	r.Get("/api/worklogs/history", h.worklogHistory)
	r.Get("/api/worklogs/list", h.worklogList)
	r.Get("/api/jira/search", h.searchIssues)
	r.Get("/api/jira/{key}/summary", h.issueSummary)

	// Suggestions
	r.Post("/api/suggestions/prefixes", h.suggestPrefixes)

	// Prefix rules
	r.Get("/api/prefixes", h.listPrefixes)
	r.Post("/api/prefixes", h.createPrefix)
	r.Get("/api/prefixes/enabled", h.prefixesEnabled)
	r.Put("/api/prefixes/{id}", h.updatePrefix)
	r.Delete("/api/prefixes/{id}", h.deletePrefix)
	r.Get("/api/constant-prefixes", h.constantPrefixes)

	// Favorites
	r.Get("/api/favorites", h.legacyFavorites)
	r.Get("/api/favorites/worklogs", h.listFavorites)
	r.Post("/api/favorites/worklogs", h.createFavorite)
	r.Put("/api/favorites/worklogs/{id}", h.updateFavorite)
	r.Delete("/api/favorites/worklogs/{id}", h.deleteFavorite)

	// Change events
	r.Get("/api/events", h.handleEvents)

	// Diagnostics
	r.Get("/api/health", h.health)
	r.Get("/api/sources", h.sources)

	// Static sub-FS: strip the "static/" prefix present in the embed.FS.
	// A plain directory is already rooted at the SPA build, so probe
	// index.html to tell the two apart.
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		staticSub = staticFS
	} else if _, statErr := fs.Stat(staticSub, "index.html"); statErr != nil {
		staticSub = staticFS
	}
	r.Get("/*", spaHandler(staticSub))

	return r
}

type handler struct {
	favorites *favorite.Manager
	prefixes  *prefix.Manager
	suggester *suggest.Engine
	jira      Gateway
	hub       *notify.Hub
	locator   record.Locator
	username  string
	log       *zap.Logger
}
