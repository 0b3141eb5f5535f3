package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/app"
	"github.com/prn-tf/atlant-cms/internal/auth"
	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/metrics"
)

// Router assembles the HTTP API: public reads under /api/v1, writes
// under /api/v1/admin behind bearer auth.
type Router struct {
	mediator    *mediator.Mediator
	tokens      *auth.TokenManager
	metrics     *metrics.Metrics
	metricsPath string
	maxBodySize int64
	mediaDir    string
	mediaPrefix string
	healthcheck func() error
	logger      zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	Mediator *mediator.Mediator
	Tokens   *auth.TokenManager

	// Metrics enables the metrics middleware and endpoint when set.
	Metrics     *metrics.Metrics
	MetricsPath string

	// MaxBodySize caps request bodies.
	MaxBodySize int64

	// MediaDir, when set, serves local uploads under MediaPrefix.
	MediaDir    string
	MediaPrefix string

	// Healthcheck pings the backing database.
	Healthcheck func() error

	Logger zerolog.Logger
}

// NewRouter creates a Router.
func NewRouter(cfg RouterConfig) *Router {
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &Router{
		mediator:    cfg.Mediator,
		tokens:      cfg.Tokens,
		metrics:     cfg.Metrics,
		metricsPath: metricsPath,
		maxBodySize: cfg.MaxBodySize,
		mediaDir:    cfg.MediaDir,
		mediaPrefix: cfg.MediaPrefix,
		healthcheck: cfg.Healthcheck,
		logger:      cfg.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(rt.requestLogger)
	r.Use(middleware.Recoverer)
	if rt.maxBodySize > 0 {
		r.Use(rt.limitBody)
	}
	if rt.metrics != nil {
		r.Use(rt.metrics.HTTPMiddleware)
		r.Method(http.MethodGet, rt.metricsPath, rt.metrics.Handler())
	}

	r.Get("/healthz", rt.handleHealth)

	if rt.mediaDir != "" {
		prefix := rt.mediaPrefix
		if prefix == "" {
			prefix = "/media"
		}
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(rt.mediaDir))))
	}

	users := NewUserHandler(rt.mediator, rt.tokens)
	files := NewFileHandler(rt.mediator)

	groups := NewResource("certificate-groups", rt.mediator, domain.NewCertificateGroup,
		ResourceConfig{Filters: []string{"section"}, Orderable: true})
	items := NewResource("certificate-items", rt.mediator, domain.NewCertificateItem,
		ResourceConfig{Filters: []string{"section"}, Orderable: true})
	certificates := NewResource("certificates", rt.mediator, domain.NewCertificate,
		ResourceConfig{Filters: []string{"parent_id"}, Orderable: true})
	members := NewResource("members", rt.mediator, domain.NewMember,
		ResourceConfig{Orderable: true})
	news := NewResource("news", rt.mediator, domain.NewNews,
		ResourceConfig{Filters: []string{"category"}, KeyLookup: true})
	portfolios := NewResource("portfolios", rt.mediator, domain.NewPortfolio,
		ResourceConfig{Filters: []string{"industry"}, KeyLookup: true})
	products := NewResource("products", rt.mediator, domain.NewProduct,
		ResourceConfig{Filters: []string{"category"}, KeyLookup: true})
	reviews := NewResource("reviews", rt.mediator, domain.NewReview,
		ResourceConfig{Filters: []string{"category"}})
	seo := NewResource("seo-settings", rt.mediator, domain.NewSeoSettings,
		ResourceConfig{})
	submissions := NewResource("submissions", rt.mediator, domain.NewSubmission,
		ResourceConfig{Filters: []string{"form_type"}})
	vacancies := NewResource("vacancies", rt.mediator, domain.NewVacancy,
		ResourceConfig{Filters: []string{"category"}})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", users.Login)

		// Public read-only surface for the site, plus form submission.
		groups.PublicRoutes(r)
		items.PublicRoutes(r)
		certificates.PublicRoutes(r)
		members.PublicRoutes(r)
		news.PublicRoutes(r)
		portfolios.PublicRoutes(r)
		products.PublicRoutes(r)
		reviews.PublicRoutes(r)
		vacancies.PublicRoutes(r)
		r.Get("/seo-settings/lookup", rt.handleSeoLookup)
		r.Post("/submissions", submissions.Create)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(rt.tokens))

			r.Get("/auth/me", users.Me)

			groups.AdminRoutes(r)
			items.AdminRoutes(r)
			certificates.AdminRoutes(r)
			members.AdminRoutes(r)
			news.AdminRoutes(r)
			portfolios.AdminRoutes(r)
			products.AdminRoutes(r)
			reviews.AdminRoutes(r)
			seo.AdminRoutes(r)
			submissions.AdminRoutes(r)
			vacancies.AdminRoutes(r)
			users.AdminRoutes(r)
			files.AdminRoutes(r)
		})
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.healthcheck != nil {
		if err := rt.healthcheck(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleSeoLookup resolves SEO settings by page path. Page paths
// contain slashes, so they travel as a query parameter instead of a
// path segment.
func (rt *Router) handleSeoLookup(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing path parameter"})
		return
	}

	settings, err := rt.mediator.Ask(r.Context(), app.GetByKeyQuery[*domain.SeoSettings]{Key: path})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// requestLogger logs one line per request.
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		rt.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// limitBody caps request body size.
func (rt *Router) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, rt.maxBodySize)
		next.ServeHTTP(w, r)
	})
}
