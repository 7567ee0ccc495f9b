package controllers

import (
	"context"
	"net/http"

	"github.com/bestimator/bestimator-backend/api/responses"
	"github.com/bestimator/bestimator-backend/pkg/config"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/logger"
)

// DBPinger reports database reachability for the readiness probe.
type DBPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bestimator-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database answers a ping.
func HealthReady(cfg *config.Config, db DBPinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bestimator-Env", cfg.App.Env)
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
