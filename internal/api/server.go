// Package api serves population statistics over HTTP as JSON.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/worldpop-cli/internal/chart"
	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
	"github.com/sells-group/worldpop-cli/internal/store"
)

// Options configures a Server.
type Options struct {
	Year       int // default year for summaries and the population choropleth
	TopN       int
	TargetYear int

	// RateLimit is requests per second across all clients; zero disables
	// limiting.
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string

	// Store backs the /v1/runs endpoints; nil disables them.
	Store  store.Store
	Shapes chart.Shapes
	// Cities is the /v1/cities layer; nil serves the built-in major cities.
	Cities []model.City
}

// Server answers queries against one loaded table. The table is shared
// read-only by every request.
type Server struct {
	table   *dataset.Table
	opts    Options
	limiter *rate.Limiter
}

// New builds a Server over t.
func New(t *dataset.Table, opts Options) *Server {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.TargetYear == 0 {
		opts.TargetYear = 2030
	}
	if opts.Cities == nil {
		opts.Cities = dataset.MajorCities()
	}
	if opts.Year == 0 {
		opts.Year, _ = t.LatestYear()
	}

	s := &Server{table: t, opts: opts}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(rateLimit(s.limiter))
		}
		r.Get("/summary", s.handleSummary)
		r.Get("/countries/{name}/trend", s.handleTrend)
		r.Get("/countries/{name}/projection", s.handleProjection)
		r.Get("/choropleth", s.handleChoropleth)
		r.Get("/cities", s.handleCities)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return r
}
