package menu

import (
	"encoding/json"
	"fmt"
)

// AmountKind enumerates discount amount forms.
type AmountKind string

const (
	AmountFlat         AmountKind = "Flat"
	AmountPercentOrder AmountKind = "PercentOrder"
)

// DiscountAmount is either a flat cents reduction or a percentage of the
// order subtotal.
type DiscountAmount struct {
	Kind  AmountKind
	Value int
}

func Flat(cents int) DiscountAmount {
	return DiscountAmount{Kind: AmountFlat, Value: cents}
}

func PercentOrder(pct int) DiscountAmount {
	return DiscountAmount{Kind: AmountPercentOrder, Value: pct}
}

// Wire form: {"Flat": 200} | {"PercentOrder": 10}.

func (a DiscountAmount) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AmountFlat, AmountPercentOrder:
		return json.Marshal(map[string]int{string(a.Kind): a.Value})
	}
	return nil, fmt.Errorf("menu: cannot marshal discount amount kind %q", a.Kind)
}

func (a *DiscountAmount) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("menu: discount amount: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("menu: discount amount must carry exactly one variant, got %d", len(raw))
	}
	for key, value := range raw {
		switch AmountKind(key) {
		case AmountFlat, AmountPercentOrder:
			a.Kind = AmountKind(key)
			a.Value = value
			return nil
		default:
			return fmt.Errorf("menu: unknown discount amount variant %q", key)
		}
	}
	return nil
}

// Discount is a declarative eligibility + amount record. The engine reports
// eligibility; it never auto-selects among exclusive discounts.
type Discount struct {
	Name       string         `json:"name"`
	Identifier string         `json:"identifier"`
	Amount     DiscountAmount `json:"amount"`
	// MaxAmount caps a PercentOrder amount in cents. Zero means uncapped.
	MaxAmount int `json:"max_amount,omitempty"`
	// Single discounts count at most once per order regardless of how many
	// times their constraints are satisfied.
	Single bool `json:"single,omitempty"`
	// Incombinable discounts cannot share an order with another
	// incombinable discount.
	Incombinable bool              `json:"incombinable,omitempty"`
	Constraints  []OrderConstraint `json:"constraints,omitempty"`
}

// PricingModificationStyle selects how a dynamic rule alters a price.
type PricingModificationStyle string

const (
	// ModificationFlat adds a (possibly negative) delta to the running price.
	ModificationFlat PricingModificationStyle = "Flat"
	// ModificationSet replaces the running price with an absolute amount.
	ModificationSet PricingModificationStyle = "Set"
)

// PricingModification is one dynamic price adjustment.
type PricingModification struct {
	Style  PricingModificationStyle `json:"style"`
	Amount int                      `json:"amount"`
}

// PricingRule pairs a selector with a modification.
type PricingRule struct {
	Selection    Selector            `json:"selection"`
	Modification PricingModification `json:"pricing_modification"`
}

// PricingRuleSet is a group of pricing rules auto-activated by its
// constraint, typically a time window ("Taco Tuesday").
type PricingRuleSet struct {
	Name            string          `json:"name"`
	AutoConstraints OrderConstraint `json:"auto_constraints"`
	Rules           []PricingRule   `json:"rules"`
}
