package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jira-worklog/api"
	"jira-worklog/favorite"
	"jira-worklog/jira"
	"jira-worklog/notify"
	"jira-worklog/prefix"
	"jira-worklog/suggest"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Locator()
	favs := favorite.NewManager(loc, logger)
	prefixes := prefix.NewManager(loc, logger)
	hub := notify.NewHub()

	if cfg.Jira.URL == "" {
		logger.Warn("jira.url is not set; work-log endpoints will answer 503")
	}
	if cfg.Worklog.Username == "" {
		logger.Warn("worklog.username is not set; range listings will match nobody")
	}
	gw := jira.New(jira.Config{
		BaseURL:           cfg.Jira.URL,
		Token:             cfg.Jira.Token,
		Timeout:           cfg.Jira.Timeout,
		RequestsPerSecond: cfg.Jira.RequestsPerSecond,
		Burst:             cfg.Jira.Burst,
		Concurrency:       cfg.Jira.Concurrency,
	}, logger)

	if cfg.Data.Watch {
		files := append(favs.Sources(), prefixes.Sources()...)
		w, err := notify.NewWatcher(loc.Dirs(), files, hub, logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Close()
	}

	var staticFS fs.FS = staticFiles
	if cfg.Server.StaticDir != "" {
		staticFS = os.DirFS(cfg.Server.StaticDir)
	}

	router := api.RegisterRoutes(api.Deps{
		Favorites: favs,
		Prefixes:  prefixes,
		Suggester: suggest.NewEngine(prefixes, logger),
		Jira:      gw,
		Hub:       hub,
		Locator:   loc,
		Username:  cfg.Worklog.Username,
		Logger:    logger,
	}, staticFS)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("worklog listening",
			zap.String("addr", srv.Addr), zap.Strings("data_dirs", loc.Dirs()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
