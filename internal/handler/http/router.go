package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	FilesPath      string // served under /files when set
}

func NewRouter(opts RouterOptions, analyticsHandler AnalyticsHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.FilesPath != "" {
		fs := http.StripPrefix("/files/", http.FileServer(http.Dir(opts.FilesPath)))
		r.Get("/files/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/filters", analyticsHandler.GetFilterOptions)

			r.Route("/attrition", func(r chi.Router) {
				r.Get("/", analyticsHandler.GetAttritionReport)
				r.Get("/separations", analyticsHandler.GetSeparationDrilldown)
				r.Get("/export", analyticsHandler.ExportAttritionReport)
				r.Post("/archive", analyticsHandler.ArchiveAttritionReport)
			})

			r.Route("/diversity", func(r chi.Router) {
				r.Get("/", analyticsHandler.GetDiversityReport)
				r.Get("/{dimension}", analyticsHandler.GetBreakdown)
				r.Get("/{dimension}/export", analyticsHandler.ExportBreakdown)
			})
		})
	})
	return r
}
