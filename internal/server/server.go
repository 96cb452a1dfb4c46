// Package server assembles the atlas HTTP service: the Huma REST API, the
// Datastar dashboard, Prometheus metrics, and static assets on one mux.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vanachitra/fra-atlas/internal/api"
	"github.com/vanachitra/fra-atlas/internal/api/dashboard"
	"github.com/vanachitra/fra-atlas/internal/config"
	"github.com/vanachitra/fra-atlas/internal/db"
	"github.com/vanachitra/fra-atlas/internal/fetch"
	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/metrics"
	"github.com/vanachitra/fra-atlas/internal/service"
	"github.com/vanachitra/fra-atlas/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	WebDir  string
	Atlas   config.Config
}

// Server is the atlas HTTP server.
type Server struct {
	config  Config
	log     *zap.Logger
	mux     *http.ServeMux
	handler http.Handler
	humaAPI huma.API

	store    *service.Store
	bus      *service.EventBus
	styles   *service.StyleResolver
	metrics  *metrics.Metrics
	loader   *fetch.Loader
	renderer *templates.Renderer
	pageData humastar.PageData

	dbConn *sql.DB
	mirror *db.Mirror
	cache  *redis.Client
}

// New assembles a server from the given configuration.
func New(cfg Config, log *zap.Logger) (*Server, error) {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("fra-atlas API", api.Version)
	humaConfig.Info.Description = "Forest rights claim atlas: normalized claims, cascading filters, statistics, render plans, and scheme recommendations."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, humastar.LinkTransformer())
	humaAPI := humago.New(mux, humaConfig)

	renderer, err := templates.New()
	if err != nil {
		return nil, fmt.Errorf("loading fragment templates: %w", err)
	}

	s := &Server{
		config:   cfg,
		log:      log,
		mux:      mux,
		humaAPI:  humaAPI,
		store:    service.NewStore(),
		bus:      service.NewEventBus(),
		styles:   service.NewStyleResolver(cfg.Atlas.StyleOverrides),
		metrics:  metrics.New(),
		renderer: renderer,
	}

	// The SQL mirror is best-effort: without it the query endpoints report
	// 503 and everything else still works.
	if conn, err := db.Open(); err != nil {
		log.Warn("duckdb unavailable, query endpoints disabled", zap.Error(err))
	} else if mirror, err := db.NewMirror(conn); err != nil {
		log.Warn("duckdb mirror setup failed, query endpoints disabled", zap.Error(err))
		conn.Close()
	} else {
		s.dbConn = conn
		s.mirror = mirror
	}

	if cfg.Atlas.Redis.Addr != "" {
		s.cache = redis.NewClient(&redis.Options{Addr: cfg.Atlas.Redis.Addr})
	}

	s.loader = fetch.NewLoader(fetch.Options{
		Sources: cfg.Atlas.Sources,
		DataDir: cfg.DataDir,
		Store:   s.store,
		Bus:     s.bus,
		Mirror:  s.mirror,
		Metrics: s.metrics,
		Logger:  log,
		Cache:   s.cache,
		TTL:     cfg.Atlas.Redis.TTL,
	})

	if err := s.routes(); err != nil {
		return nil, err
	}
	s.handler = s.withMiddleware(mux)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// OpenAPI exposes the assembled spec for the CLI exporter.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// LoadData fetches every configured source. Individual failures are already
// recorded in the store; the joined error is for startup logging.
func (s *Server) LoadData(ctx context.Context) error {
	return s.loader.LoadAll(ctx)
}

// Run starts the background refresh ticker, if configured.
func (s *Server) Run(ctx context.Context) {
	go s.loader.Run(ctx, s.config.Atlas.RefreshInterval)
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.dbConn != nil {
		return s.dbConn.Close()
	}
	return nil
}

func (s *Server) routes() error {
	services := &api.Services{
		Store:      s.store,
		Styles:     s.styles,
		Bus:        s.bus,
		Loader:     s.loader,
		Mirror:     s.mirror,
		DataDir:    s.config.DataDir,
		Boundaries: s.config.Atlas.Boundaries,
	}
	api.RegisterAll(s.humaAPI, services)

	// Dashboard SSE routes (tagged so hypermedia link generation skips them).
	filters := dashboard.NewFiltersHandler(s.store, s.styles, s.renderer, s.metrics, s.log)
	filters.RegisterRoutes(s.humaAPI)
	dashboard.NewHighlightHandler(s.store, s.styles, s.renderer).RegisterRoutes(s.humaAPI)
	dashboard.NewEventsHandler(s.store, s.bus, s.renderer).RegisterRoutes(s.humaAPI)

	// Spec-driven extras: x-datastar extensions, the runtime filter form,
	// hypermedia links, and the page data the index template consumes.
	humastar.InjectExtensions(s.humaAPI, []humastar.DatastarSchemaConfig{dashboard.SchemaConfig})
	if err := humastar.RegisterFormTemplates(s.humaAPI, s.renderer); err != nil {
		return err
	}
	humastar.AutoLinks(s.humaAPI)
	s.pageData = humastar.BuildPageData(s.humaAPI, dashboard.SchemaConfig, map[string]any{
		"claimCount": 0,
		"featureId":  "",
		"error":      "",
		"success":    "",
	})

	s.mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	s.mux.HandleFunc("/{$}", s.handleIndex)
	return nil
}

// indexData is what the dashboard page template receives.
type indexData struct {
	Page       humastar.PageData
	FilterForm template.HTML
}

// handleIndex serves the dashboard page, rendered from web/index.html with
// the spec-derived page data and the runtime filter form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFiles(filepath.Join(s.config.WebDir, "index.html"))
	if err != nil {
		s.log.Error("parsing index template", zap.Error(err))
		http.Error(w, "dashboard page unavailable", http.StatusInternalServerError)
		return
	}

	form := template.HTML(s.renderer.MustRender(s.pageData.FormTmpl, nil))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	for _, link := range humastar.RootLinks() {
		w.Header().Add("Link", link)
	}
	if err := tmpl.Execute(w, indexData{Page: s.pageData, FilterForm: form}); err != nil {
		s.log.Error("rendering index page", zap.Error(err))
	}
}
