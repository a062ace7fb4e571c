package pricing

import (
	"time"

	"github.com/terryberlin/carbonmenu/internal/menu"
)

// RuleSetState is the two-state activation machine for a dynamic pricing
// rule set.
type RuleSetState int

const (
	Inactive RuleSetState = iota
	Active
)

// StateAt evaluates a rule set's auto-activation constraint against an
// injected clock. Only time-window constraints can auto-activate; any other
// constraint form leaves the set inactive since there is no order to
// evaluate it against at activation time.
func StateAt(set *menu.PricingRuleSet, now time.Time) RuleSetState {
	c := set.AutoConstraints
	if c.Kind != menu.ConstraintTime || c.Time == nil {
		return Inactive
	}
	if c.Time.Contains(now) {
		return Active
	}
	return Inactive
}

// ActiveRuleSets filters to the sets active at now, preserving declaration
// order. Declaration order is load-bearing: when several active sets modify
// the same item, Flat deltas accumulate and a later Set overwrites.
func ActiveRuleSets(sets []menu.PricingRuleSet, now time.Time) []menu.PricingRuleSet {
	var active []menu.PricingRuleSet
	for i := range sets {
		if StateAt(&sets[i], now) == Active {
			active = append(active, sets[i])
		}
	}
	return active
}

// applyRules folds every matching active rule into the running price, in
// declaration order across sets and within each set.
func applyRules(price int, it *menu.Item, active []menu.PricingRuleSet) int {
	for i := range active {
		for _, rule := range active[i].Rules {
			if !rule.Selection.Matches(it) {
				continue
			}
			switch rule.Modification.Style {
			case menu.ModificationFlat:
				price += rule.Modification.Amount
			case menu.ModificationSet:
				price = rule.Modification.Amount
			}
		}
	}
	return price
}
