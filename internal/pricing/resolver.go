// Package pricing computes effective line prices by layering base price,
// variation price, active dynamic pricing rules, slot price overrides and
// modifier upcharges. All arithmetic is integer cents; effective prices are
// clamped at zero.
package pricing

import (
	"time"

	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/menu"
)

// Resolver prices items against one snapshot and one injected clock value.
// It is cheap to construct per resolution run and safe to share across
// goroutines once built.
type Resolver struct {
	index  *catalog.Index
	active []menu.PricingRuleSet
}

// NewResolver snapshots the rule sets active at now.
func NewResolver(idx *catalog.Index, now time.Time) *Resolver {
	return &Resolver{
		index:  idx,
		active: ActiveRuleSets(idx.PricingRuleSets(), now),
	}
}

// ActiveRuleSetNames reports which dynamic rule sets the resolver considers
// active, for logging.
func (r *Resolver) ActiveRuleSetNames() []string {
	names := make([]string, 0, len(r.active))
	for i := range r.active {
		names = append(names, r.active[i].Name)
	}
	return names
}

// UnitPrice computes the effective per-unit price of an (item, variation)
// pair in the context of its containing slot:
//
//  1. variation price when the selected variation carries one, else the
//     item's base price;
//  2. active dynamic pricing modifications;
//  3. the most specific matching slot price override, id-filtered beating
//     tag-filtered beating variation-only beating wildcard, ties broken by
//     later declaration.
//
// slot is nil for top-level lines, which have no override context.
func (r *Resolver) UnitPrice(it *menu.Item, variation string, slot *menu.Slot) int {
	price := it.Price
	if variation != "" {
		if v := it.Variation(variation); v != nil && v.Price != nil {
			price = *v.Price
		}
	}

	price = applyRules(price, it, r.active)

	if slot != nil {
		if ov := bestOverride(slot.PriceOverrides, it, variation); ov != nil {
			price = ov.Price
		}
	}

	if price < 0 {
		price = 0
	}
	return price
}

// ExtraUpcharge computes the modifier upcharge for a slot choice: units
// beyond the slot's free quantity charge the item's Extra rate when the
// choice carries an Extra modifier. Light and Custom modifiers never
// upcharge.
func (r *Resolver) ExtraUpcharge(it *menu.Item, modifiers []menu.Modifier, quantity, freeQuantity int) int {
	hasExtra := false
	for _, m := range modifiers {
		if m.Kind == menu.ModifierExtra {
			hasExtra = true
			break
		}
	}
	if !hasExtra {
		return 0
	}
	charged := quantity - freeQuantity
	if charged <= 0 {
		return 0
	}
	return charged * it.ExtraUpcharge()
}

// bestOverride picks the winning override, or nil when none match.
func bestOverride(overrides []menu.PriceOverride, it *menu.Item, variation string) *menu.PriceOverride {
	var best *menu.PriceOverride
	bestRank := -1
	for i := range overrides {
		ov := &overrides[i]
		if !ov.Matches(it, variation) {
			continue
		}
		// >= keeps the later declaration on equal specificity.
		if rank := ov.Specificity(); rank >= bestRank {
			best = ov
			bestRank = rank
		}
	}
	return best
}
