package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/terryberlin/carbonmenu/api/responses"
	"github.com/terryberlin/carbonmenu/api/validators"
	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/pricing"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
	"github.com/terryberlin/carbonmenu/pkg/logger"
)

// MenuItems lists the catalog items in snapshot declaration order.
func MenuItems(cat *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Snapshot().Items)
	}
}

// MenuItem returns one item by id.
func MenuItem(cat *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}
		it := cat.ItemByID(id)
		if it == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "item not found"))
			return
		}
		responses.WriteSuccess(w, it)
	}
}

// MenuCategories lists the snapshot's display categories.
func MenuCategories(cat *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Snapshot().Categories)
	}
}

// MenuDiscounts lists the snapshot's discount definitions.
func MenuDiscounts(cat *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Discounts())
	}
}

// MenuPricing reports which dynamic pricing rule sets are active at the
// requested time, defaulting to the server clock.
func MenuPricing(cat *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		at, err := validators.ParseQueryTime(r, "at", time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		names := []string{}
		for _, set := range pricing.ActiveRuleSets(cat.PricingRuleSets(), at) {
			names = append(names, set.Name)
		}
		responses.WriteSuccess(w, map[string]any{
			"at":               at.UTC().Format(time.RFC3339),
			"active_rule_sets": names,
		})
	}
}
