package http

import (
	"log/slog"

	"github.com/cmlabs-hris/salary-per-hour/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string

	// JWTService guards /api/v1 when set.
	JWTService jwt.Service
}

func NewRouter(opts RouterOptions, salaryRateHandler SalaryRateHandler) *chi.Mux {
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

	r.Route("/api/v1", func(r chi.Router) {
		if opts.JWTService != nil {
			r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
		}

		r.Route("/salary-per-hour", func(r chi.Router) {
			r.Get("/", salaryRateHandler.List)
			r.Get("/export", salaryRateHandler.Export)
			r.Post("/calculate", salaryRateHandler.Calculate)

			// Admin only
			r.Group(func(r chi.Router) {
				if opts.JWTService != nil {
					r.Use(middleware.AdminOnly)
				}
				r.Post("/recalculate", salaryRateHandler.Recalculate)
			})
		})

		r.Get("/reports/*", salaryRateHandler.DownloadArchive)
	})

	return r
}
