// Package foodies is a recipe-sharing site built with Go, Echo, and templ.
// Visitors browse shared meals, open a meal by slug, and share their own
// meal through a form with an image upload.
//
// Users provide templ components via the ViewFuncs struct (the views package
// ships a default set), and foodies handles the handler logic, middleware,
// and persistence.
package foodies

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"
)

// ViewFuncs holds the templ components the framework calls when rendering
// pages. This is the inversion-of-control mechanism that lets users own and
// customize all templates.
type ViewFuncs struct {
	Home        func(meals []Meal) templ.Component
	Meals       func(meals []Meal, flash string) templ.Component
	Meal        func(meal Meal) templ.Component
	ShareForm   func(state ShareFormState, csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central foodies application. It wires together the store,
// cache, service, handlers, middleware, and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   MealStore
	Cache   *MealCache
	Service *MealService
	Views   ViewFuncs

	shareLimiter *ShareLimiter
	customRoutes []func(*App)
}

// New creates a new foodies App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store (unless one was supplied), builds the cache and
// service, and registers middleware and routes. Start calls it; tests call it
// directly and drive a.Echo through httptest.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("foodies: SessionSecret is required")
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("foodies: init store: %w", err)
		}
		a.Store = store
	}

	a.Cache = NewMealCache(a.Store, a.Config.MealCacheTTL)
	a.Service = NewMealService(a.Store, NewImageStore(a.Config.StaticDir), a.Cache, a.Echo.Logger, a.Config.MaxUploadSize)
	a.shareLimiter = NewShareLimiter(a.Config.ShareLimit, a.Config.ShareWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework stylesheet is embedded; everything else under /public comes
	// from the static dir, including uploaded meal images.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/foodies.css", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))))
	e.Static("/public", a.Config.StaticDir)

	e.GET("/", a.handleHome)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/meals", handleMealsRedirect)
	e.GET("/meals/", a.handleMeals)
	e.GET("/meals/share/", a.handleShareForm)
	e.POST("/meals/share/", a.handleShare)
	e.GET("/meals/:slug/", a.handleMeal)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.shareLimiter != nil {
		a.shareLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func parseLogLevel(level string) glog.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return glog.DEBUG
	case "warn", "warning":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	default:
		return glog.INFO
	}
}
