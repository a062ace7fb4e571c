package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/terryberlin/carbonmenu/api/responses"
	"github.com/terryberlin/carbonmenu/api/validators"
	"github.com/terryberlin/carbonmenu/internal/order"
	"github.com/terryberlin/carbonmenu/internal/resolve"
	"github.com/terryberlin/carbonmenu/pkg/config"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
	"github.com/terryberlin/carbonmenu/pkg/logger"
	"github.com/terryberlin/carbonmenu/pkg/metrics"
	"github.com/terryberlin/carbonmenu/pkg/redis"
)

type quoteRequest struct {
	Lines          []order.LineSelection `json:"lines" validate:"required,min=1"`
	ApplyDiscounts []string              `json:"apply_discounts,omitempty" validate:"omitempty,dive,required"`
}

// QuoteResolve validates and prices an order. The resolution clock defaults
// to the server time and may be pinned with the `now` query parameter so
// clients can preview time-windowed pricing and discounts.
func QuoteResolve(eng *resolve.Engine, cache redis.QuoteCache, qm *metrics.QuoteMetrics, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		now, err := validators.ParseQueryTime(r, "now", time.Now())
		if err != nil {
			qm.IncFailure(string(pkgerrors.CodeValidation))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			qm.IncFailure(string(pkgerrors.CodeValidation))
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			qm.IncFailure(string(pkgerrors.CodeValidation))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		digest := redis.QuoteDigest(cfg.Menu.Version, body, now)
		if cache != nil {
			cached, err := cache.GetQuote(r.Context(), digest)
			switch {
			case err == nil:
				qm.IncSuccess("cache")
				qm.ObserveDuration("success", time.Since(start))
				responses.WriteSuccess(w, json.RawMessage(cached))
				return
			case !errors.Is(err, redis.ErrCacheMiss):
				if logg != nil {
					logg.Warn(r.Context(), "quote cache read failed")
				}
			}
		}

		res, err := eng.Resolve(order.Order{
			Lines:          payload.Lines,
			ApplyDiscounts: payload.ApplyDiscounts,
		}, now)
		if err != nil {
			code := pkgerrors.CodeInternal
			if typed := pkgerrors.As(err); typed != nil {
				code = typed.Code()
			}
			qm.IncFailure(string(code))
			qm.ObserveDuration("failure", time.Since(start))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		qm.IncSuccess("engine")
		qm.ObserveDuration("success", time.Since(start))
		qm.ObserveEligibleDiscounts(len(res.Eligible))

		if cache != nil {
			if encoded, err := json.Marshal(res); err == nil {
				if err := cache.StoreQuote(r.Context(), digest, string(encoded), cfg.Quote.CacheTTL); err != nil && logg != nil {
					logg.Warn(r.Context(), "quote cache write failed")
				}
			}
		}

		responses.WriteSuccess(w, res)
	}
}

// QuoteDiscounts previews discount eligibility: the order is resolved but
// only the eligible set is returned, so a POS can offer choices before the
// caller commits to applying any.
func QuoteDiscounts(eng *resolve.Engine, qm *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now, err := validators.ParseQueryTime(r, "now", time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := eng.Resolve(order.Order{Lines: payload.Lines}, now)
		if err != nil {
			code := pkgerrors.CodeInternal
			if typed := pkgerrors.As(err); typed != nil {
				code = typed.Code()
			}
			qm.IncFailure(string(code))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		qm.ObserveEligibleDiscounts(len(res.Eligible))
		responses.WriteSuccess(w, map[string]any{
			"subtotal_cents":     res.SubtotalCents,
			"eligible_discounts": res.Eligible,
		})
	}
}
