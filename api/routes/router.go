package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bestimator/bestimator-backend/api/controllers"
	"github.com/bestimator/bestimator-backend/api/middleware"
	"github.com/bestimator/bestimator-backend/internal/clients"
	"github.com/bestimator/bestimator-backend/internal/estimates"
	"github.com/bestimator/bestimator-backend/internal/materials"
	"github.com/bestimator/bestimator-backend/internal/reference"
	"github.com/bestimator/bestimator-backend/internal/users"
	"github.com/bestimator/bestimator-backend/pkg/config"
	"github.com/bestimator/bestimator-backend/pkg/logger"
)

// Services bundles everything the router hands to controllers.
type Services struct {
	Users     users.Service
	Clients   clients.Service
	Materials materials.Service
	Estimates estimates.Service
	Reference reference.Service
}

// NewRouter wires middleware, health probes, and the versioned API surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.DBPinger,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, db, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, svcs.Users, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.UserMe(svcs.Users, logg))
			r.Patch("/", controllers.UserUpdateMe(svcs.Users, logg))
			r.Delete("/", controllers.UserDeactivateMe(svcs.Users, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(svcs.Clients, logg))
			r.Post("/", controllers.ClientCreate(svcs.Clients, logg))
			r.Get("/{clientID}", controllers.ClientGet(svcs.Clients, logg))
			r.Patch("/{clientID}", controllers.ClientUpdate(svcs.Clients, logg))
			r.Delete("/{clientID}", controllers.ClientDelete(svcs.Clients, logg))
		})

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", controllers.MaterialList(svcs.Materials, logg))
			r.Post("/", controllers.MaterialCreate(svcs.Materials, logg))
			r.Get("/{materialID}", controllers.MaterialGet(svcs.Materials, logg))
			r.Patch("/{materialID}", controllers.MaterialUpdate(svcs.Materials, logg))
			r.Delete("/{materialID}", controllers.MaterialDelete(svcs.Materials, logg))
		})

		r.Route("/estimates", func(r chi.Router) {
			r.Get("/", controllers.EstimateList(svcs.Estimates, logg))
			r.Post("/", controllers.EstimateCreate(svcs.Estimates, logg))
			r.Post("/painting", controllers.EstimateCreatePainting(svcs.Estimates, logg))
			r.Get("/{estimateID}", controllers.EstimateGet(svcs.Estimates, logg))
			r.Patch("/{estimateID}", controllers.EstimateUpdate(svcs.Estimates, logg))
			r.Delete("/{estimateID}", controllers.EstimateDelete(svcs.Estimates, logg))
		})

		r.Route("/job-types", func(r chi.Router) {
			r.Get("/", controllers.JobTypeList(svcs.Reference, logg))
			r.Post("/", controllers.JobTypeCreate(svcs.Reference, logg))
			r.Get("/{jobTypeID}", controllers.JobTypeGet(svcs.Reference, logg))
			r.Patch("/{jobTypeID}", controllers.JobTypeUpdate(svcs.Reference, logg))
			r.Delete("/{jobTypeID}", controllers.JobTypeDelete(svcs.Reference, logg))
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", controllers.UnitList(svcs.Reference, logg))
			r.Post("/", controllers.UnitCreate(svcs.Reference, logg))
			r.Get("/{unitID}", controllers.UnitGet(svcs.Reference, logg))
			r.Patch("/{unitID}", controllers.UnitUpdate(svcs.Reference, logg))
			r.Delete("/{unitID}", controllers.UnitDelete(svcs.Reference, logg))
		})

		r.Route("/province-weights", func(r chi.Router) {
			r.Get("/", controllers.ProvinceWeightList(svcs.Reference, logg))
			r.Post("/", controllers.ProvinceWeightCreate(svcs.Reference, logg))
			r.Get("/{provinceWeightID}", controllers.ProvinceWeightGet(svcs.Reference, logg))
			r.Patch("/{provinceWeightID}", controllers.ProvinceWeightUpdate(svcs.Reference, logg))
			r.Delete("/{provinceWeightID}", controllers.ProvinceWeightDelete(svcs.Reference, logg))
		})
	})

	return r
}
