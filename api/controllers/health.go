package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/aziznur-dev/bozorplace-backend/api/responses"
	"github.com/aziznur-dev/bozorplace-backend/pkg/config"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/aziznur-dev/bozorplace-backend/pkg/logger"
	"go.uber.org/multierr"
)

const readinessTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bozorplace-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every backing dependency and fails when any is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bozorplace-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var err error
		checks := map[string]string{}

		if dbP != nil {
			if pingErr := dbP.Ping(ctx); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["db"] = "down"
			} else {
				checks["db"] = "up"
			}
		}
		if redisP != nil {
			if pingErr := redisP.Ping(ctx); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["redis"] = "down"
			} else {
				checks["redis"] = "up"
			}
		}

		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
