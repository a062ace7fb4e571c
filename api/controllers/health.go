package controllers

import (
	"net/http"

	"github.com/terryberlin/carbonmenu/api/responses"
	"github.com/terryberlin/carbonmenu/pkg/config"
	"github.com/terryberlin/carbonmenu/pkg/logger"
	"github.com/terryberlin/carbonmenu/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CarbonMenu-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports dependency health. Redis is optional; when disabled it
// is reported as skipped rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CarbonMenu-Env", cfg.App.Env)

		checks := map[string]string{"catalog": "ok"}
		healthy := true

		switch {
		case redisP == nil:
			checks["redis"] = "skipped"
		default:
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Warn(r.Context(), "redis ping failed during readiness check")
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
