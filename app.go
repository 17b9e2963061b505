// Package pagegen generates programmatic landing pages for an eye-care
// practice. It wires the template engine and content generator to a SQL
// template store, a static exporter and an Echo preview server.
package pagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pagegen/content"
	"github.com/eringen/pagegen/engine"
)

// App is the central pagegen application. It owns the template source, the
// generator built from it, the preview batch cache and the HTTP server.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PageCache

	logger       *slog.Logger
	source       engine.Source
	catalog      *content.Catalog
	now          func() time.Time
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	routesOnce   sync.Once

	mu        sync.RWMutex
	generator *content.Generator

	ogOnce  sync.Once
	ogImage []byte
	ogErr   error
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		logger: slog.Default(),
		now:    time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	return a
}

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Setup opens the template source, loads the catalog and builds the
// generator. It is called by Start, and directly by commands that only
// generate or export.
func (a *App) Setup(ctx context.Context) error {
	if a.source == nil {
		if a.Config.DatabaseDSN != "" {
			store, err := NewStore(a.Config.DatabaseDSN, a.logger)
			if err != nil {
				return fmt.Errorf("pagegen: init store: %w", err)
			}
			a.Store = store
			a.source = store
		} else {
			a.source = engine.FSSource{FS: os.DirFS(a.Config.TemplatesDir), Dir: ".", Logger: a.logger}
		}
	}
	if st, ok := a.source.(*Store); ok && a.Store == nil {
		a.Store = st
	}

	a.catalog = content.DefaultCatalog()
	if a.Config.CatalogPath != "" {
		c, err := content.ReadCatalogFile(a.Config.CatalogPath)
		if err != nil {
			return fmt.Errorf("pagegen: load catalog: %w", err)
		}
		a.catalog = c
	}

	if err := a.Reload(ctx); err != nil {
		return err
	}
	a.Cache = NewPageCache(func() []*content.Page {
		return a.Generator().GenerateBatch(a.Config.BatchSize)
	}, a.Config.PageCacheTTL)
	return nil
}

// Reload re-reads the template source and swaps in a new generator. The
// cached preview batch is dropped.
func (a *App) Reload(ctx context.Context) error {
	if a.source == nil {
		return errors.New("pagegen: reload before setup")
	}
	eng := engine.New(ctx, a.logger, a.source)
	gen := content.NewGenerator(eng, a.Config.Business(),
		content.WithCatalog(a.catalog),
		content.WithRules(a.Config.Rules),
		content.WithClock(a.now),
		content.WithLogger(a.logger),
	)

	a.mu.Lock()
	a.generator = gen
	a.mu.Unlock()

	if a.Cache != nil {
		a.Cache.Invalidate()
	}
	return nil
}

// Generator returns the current generator.
func (a *App) Generator() *content.Generator {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.generator
}

// Handler installs middleware and routes once and returns the Echo server
// as an http.Handler.
func (a *App) Handler() http.Handler {
	a.routesOnce.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.Echo
}

// Start sets everything up and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return errors.New("pagegen: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return errors.New("pagegen: SessionSecret is required")
	}
	if err := a.Setup(ctx); err != nil {
		return err
	}
	a.Handler()
	go a.loginLimiter.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("Serving preview", "addr", a.Config.Addr)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleIndex)
	e.GET("/pages/:slug/", a.handlePage)
	e.GET("/api/render/:name", a.handleAPIRender)
	e.GET("/api/batch", a.handleAPIBatch)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/og-image.jpg", a.handleOGImage)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/regenerate/", a.handleAdminRegenerate)
	e.GET("/admin/templates/:name/", a.handleAdminTemplate)
	e.POST("/admin/templates/", a.handleAdminTemplateSave)
	e.DELETE("/admin/templates/:name/", a.handleAdminTemplateDelete)
}

// Close releases the store, if one was opened.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
