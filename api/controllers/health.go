package controllers

import (
	"context"
	"net/http"

	"github.com/CWeait/nemlig-mcp/api/responses"
	"github.com/CWeait/nemlig-mcp/pkg/config"
	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
	"github.com/CWeait/nemlig-mcp/pkg/logger"
)

// Pinger is the probe surface for optional backing services.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Nemlig-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired backing service answers a
// ping. A nil pinger is an unconfigured optional service and is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Nemlig-Env", cfg.App.Env)

		if redisPinger != nil {
			if err := redisPinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg,
					w, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "redis not reachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
