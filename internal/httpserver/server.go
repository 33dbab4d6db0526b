package httpserver

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/JospenWolongwo/barber-shop-website/internal/content"
	"github.com/JospenWolongwo/barber-shop-website/internal/i18n"
	custommw "github.com/JospenWolongwo/barber-shop-website/internal/middleware"
	"github.com/JospenWolongwo/barber-shop-website/internal/observability"
	"github.com/JospenWolongwo/barber-shop-website/internal/session"
)

const defaultLoadingWait = 5 * time.Second

// Config holds runtime options for the site HTTP server.
type Config struct {
	Address string
	// BaseURL is the public origin used for canonical links and structured data.
	BaseURL string
	Dev     bool
	Logger  *zap.Logger

	// UI is the ui tree (templates/, static/). Templates is parsed from it when nil.
	UI        fs.FS
	Templates *Templates
	Content   *content.Store
	Bundle    *i18n.Bundle
	Sessions  *session.Manager
	Visitors  *session.Store

	CSRFCookieName   string
	CSRFCookieSecure bool
	TraceProjectID   string

	// LoadingWait bounds how long /loading holds a request open for the splash to finish.
	LoadingWait    time.Duration
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	Now            func() time.Time
}

// server carries the dependencies shared by the route handlers.
type server struct {
	templates   *Templates
	content     *content.Store
	bundle      *i18n.Bundle
	sessions    *session.Manager
	visitors    *session.Store
	baseURL     string
	loadingWait time.Duration
	now         func() time.Time
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       orDefault(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 60*time.Second),
	}, nil
}

// NewHandler builds the router without an http.Server around it.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.UI == nil {
		return nil, errors.New("httpserver: ui filesystem is required")
	}
	if cfg.Content == nil || cfg.Bundle == nil || cfg.Sessions == nil || cfg.Visitors == nil {
		return nil, errors.New("httpserver: content, bundle, sessions and visitors are required")
	}
	templates := cfg.Templates
	if templates == nil {
		var err error
		if templates, err = NewTemplates(cfg.UI); err != nil {
			return nil, err
		}
	}
	static, err := fs.Sub(cfg.UI, "static")
	if err != nil {
		return nil, err
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	s := &server{
		templates:   templates,
		content:     cfg.Content,
		bundle:      cfg.Bundle,
		sessions:    cfg.Sessions,
		visitors:    cfg.Visitors,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		loadingWait: orDefault(cfg.LoadingWait, defaultLoadingWait),
		now:         nowFn,
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that overwrites it.
	router.Use(chimw.RealIP)
	router.Use(observability.TraceMiddleware(cfg.TraceProjectID))
	router.Use(observability.InjectLogger(cfg.Logger))
	router.Use(observability.RequestLogger)
	router.Use(observability.Recovery)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(orDefault(cfg.RequestTimeout, 30*time.Second)))
	router.Use(custommw.HTMX)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	var assets http.Handler
	if cfg.Dev {
		assets = http.FileServer(http.FS(static))
	} else {
		assets = custommw.AssetsWithCache(static)
	}
	router.Handle("/assets/*", http.StripPrefix("/assets", assets))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommw.WriteError(w, r, http.StatusNotFound, s.bundle.T(custommw.Lang(r.Context(), s.bundle.Fallback()), "error.not_found"))
	})

	router.Group(func(r chi.Router) {
		r.Use(custommw.Locale(cfg.Bundle))
		r.Use(custommw.VaryLocale)
		r.Use(custommw.NoStore)
		r.Use(custommw.CSRF(custommw.CSRFConfig{
			CookieName: cfg.CSRFCookieName,
			Secure:     cfg.CSRFCookieSecure,
		}))
		r.Use(custommw.Session(cfg.Sessions, cfg.Visitors))

		r.Get("/", s.home)
		r.Get("/loading", s.loading)
		r.Post("/nav/select", s.selectSection)
		r.Post("/nav/menu", s.toggleMenu)
		r.With(custommw.RequireHTMX).Get("/sections/{id}", s.section)
		r.Post("/gallery/open", s.openImage)
		r.Post("/gallery/dismiss", s.dismissImage)
		r.Post("/contact/field", s.setContactField)
		r.Post("/contact/submit", s.submitContact)
		r.Post("/session/end", s.endSession)
	})

	return router, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
