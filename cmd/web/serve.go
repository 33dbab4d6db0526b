package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JospenWolongwo/barber-shop-website/internal/config"
	"github.com/JospenWolongwo/barber-shop-website/internal/content"
	"github.com/JospenWolongwo/barber-shop-website/internal/httpserver"
	"github.com/JospenWolongwo/barber-shop-website/internal/i18n"
	"github.com/JospenWolongwo/barber-shop-website/internal/observability"
	"github.com/JospenWolongwo/barber-shop-website/internal/session"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
	"github.com/JospenWolongwo/barber-shop-website/internal/watch"
	"github.com/JospenWolongwo/barber-shop-website/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default command)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.WithEnvFile(envFile))
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Session.Ephemeral {
		logger.Warn("session keys generated at startup; visitor cookies will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// app bundles the long-lived components the server and its background jobs share.
type app struct {
	ui        fs.FS
	uiDir     string
	content   *content.Store
	bundle    *i18n.Bundle
	templates *httpserver.Templates
	sessions  *session.Manager
	visitors  *session.Store
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	fsys, dir := resolveUI(cfg)
	contentStore, err := content.NewStore(fsys, content.DefaultPath)
	if err != nil {
		return nil, err
	}
	bundle, err := i18n.Load(fsys, "locales", cfg.Site.DefaultLocale, cfg.Site.SupportedLocales)
	if err != nil {
		return nil, err
	}
	templates, err := httpserver.NewTemplates(fsys)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	sessions, err := session.NewManager(session.Config{
		HashKey:      cfg.Session.HashKey,
		BlockKey:     cfg.Session.BlockKey,
		CookieSecure: cfg.Session.CookieSecure,
		Lifetime:     cfg.Session.Lifetime,
	})
	if err != nil {
		return nil, err
	}
	visitors := session.NewStore(session.StoreConfig{
		IdleTTL:      cfg.Session.IdleTTL,
		LoadingDelay: cfg.Site.LoadingDelay,
		Scheduler:    site.SystemScheduler,
		OnEvict: func(v *site.Visitor) {
			logger.Debug("visitor evicted", zap.String("visitor_id", v.ID()))
		},
	})
	return &app{
		ui:        fsys,
		uiDir:     dir,
		content:   contentStore,
		bundle:    bundle,
		templates: templates,
		sessions:  sessions,
		visitors:  visitors,
	}, nil
}

// resolveUI picks the on-disk ui directory in dev mode or when --ui-dir is
// set, and the embedded copy otherwise. dir is empty for the embedded copy.
func resolveUI(cfg config.Config) (fs.FS, string) {
	dir := uiDir
	if dir == "" && cfg.Dev {
		dir = cfg.Site.UIDir
	}
	if dir == "" {
		return ui.FS(), ""
	}
	return os.DirFS(dir), dir
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	return a.run(ctx, cfg, logger)
}

// run serves until ctx is cancelled. The server and the watcher are built
// before any goroutine starts, so a setup error leaves nothing running.
func (a *app) run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	srv, err := httpserver.New(httpserver.Config{
		Address:          cfg.Server.Addr,
		BaseURL:          cfg.Site.BaseURL,
		Dev:              cfg.Dev,
		Logger:           logger,
		UI:               a.ui,
		Templates:        a.templates,
		Content:          a.content,
		Bundle:           a.bundle,
		Sessions:         a.sessions,
		Visitors:         a.visitors,
		CSRFCookieSecure: cfg.Session.CookieSecure,
		TraceProjectID:   cfg.Trace.ProjectID,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
	})
	if err != nil {
		return err
	}
	var watcher *watch.Watcher
	if a.uiDir != "" {
		if watcher, err = watch.New(a.uiDir, a.reload(logger), watch.WithLogger(logger)); err != nil {
			return fmt.Errorf("watch %s: %w", a.uiDir, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("dev", cfg.Dev),
			zap.String("ui_dir", a.uiDir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.visitors.Run(gctx, cfg.Session.SweepInterval)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// reload returns the watcher callback: templates and content are swapped in
// place, locale changes need a restart.
func (a *app) reload(logger *zap.Logger) func(string) error {
	return func(rel string) error {
		switch filepath.Ext(rel) {
		case ".tmpl":
			if err := a.templates.Reload(); err != nil {
				return fmt.Errorf("reload templates: %w", err)
			}
			logger.Info("templates reloaded", zap.String("file", rel))
		case ".yaml":
			if err := a.content.Reload(); err != nil {
				return fmt.Errorf("reload content: %w", err)
			}
			logger.Info("content reloaded", zap.String("file", rel))
		case ".json":
			logger.Warn("locale files changed; restart to apply", zap.String("file", rel))
		}
		return nil
	}
}
