// Package discount evaluates discount eligibility against a finalized,
// priced order and enforces combinability when the caller applies a chosen
// subset. An unsatisfied constraint is not an error; the discount is simply
// absent from the eligible set.
package discount

import (
	"time"

	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/menu"
	"github.com/terryberlin/carbonmenu/internal/order"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
)

// Eligible returns every discount whose constraints all hold, in snapshot
// declaration order, with amounts computed against the order subtotal.
func Eligible(cat *catalog.Index, lines []order.ResolvedLine, subtotal int, now time.Time) []order.DiscountQuote {
	var out []order.DiscountQuote
	for i := range cat.Discounts() {
		d := &cat.Discounts()[i]
		if !eligible(cat, d, lines, subtotal, now) {
			continue
		}
		out = append(out, order.DiscountQuote{
			Identifier:  d.Identifier,
			Name:        d.Name,
			AmountCents: Amount(d, subtotal),
			Exclusive:   d.Incombinable,
			Single:      d.Single,
		})
	}
	return out
}

// Apply validates the caller's chosen discount identifiers against the
// eligible set, enforces combinability, and returns the applied quotes plus
// the final total. Stacked amounts are each computed against the original
// subtotal; the running total is clamped at zero.
func Apply(subtotal int, eligible []order.DiscountQuote, chosen []string) ([]order.DiscountQuote, int, error) {
	total := subtotal
	if len(chosen) == 0 {
		return nil, total, nil
	}

	byIdentifier := make(map[string]order.DiscountQuote, len(eligible))
	for _, q := range eligible {
		byIdentifier[q.Identifier] = q
	}

	var applied []order.DiscountQuote
	appliedIdentifiers := make(map[string]struct{}, len(chosen))
	exclusiveTaken := false
	for _, id := range chosen {
		quote, ok := byIdentifier[id]
		if !ok {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "discount is not eligible for this order").
				WithDetails(map[string]any{"identifier": id})
		}
		if _, dup := appliedIdentifiers[id]; dup {
			if quote.Single {
				// Single-use discounts count once; repeats are dropped.
				continue
			}
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "discount applied more than once").
				WithDetails(map[string]any{"identifier": id})
		}
		if quote.Exclusive {
			if exclusiveTaken {
				return nil, 0, pkgerrors.New(pkgerrors.CodeDiscountConflict, "at most one exclusive discount per order").
					WithDetails(map[string]any{"identifier": id})
			}
			exclusiveTaken = true
		}
		appliedIdentifiers[id] = struct{}{}
		applied = append(applied, quote)
		total -= quote.AmountCents
	}

	if total < 0 {
		total = 0
	}
	return applied, total, nil
}

// Amount computes a discount's cents value against the subtotal: flat
// amounts clamp to the subtotal, percent amounts floor-divide and honor the
// optional cap.
func Amount(d *menu.Discount, subtotal int) int {
	var amount int
	switch d.Amount.Kind {
	case menu.AmountFlat:
		amount = d.Amount.Value
	case menu.AmountPercentOrder:
		amount = subtotal * d.Amount.Value / 100
		if d.MaxAmount > 0 && amount > d.MaxAmount {
			amount = d.MaxAmount
		}
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

func eligible(cat *catalog.Index, d *menu.Discount, lines []order.ResolvedLine, subtotal int, now time.Time) bool {
	for _, c := range d.Constraints {
		switch c.Kind {
		case menu.ConstraintItemQuantity:
			qty := matchedQuantity(cat, c.ItemQuantity.Selection, lines)
			if qty < c.ItemQuantity.MinimumQuantity || qty > c.ItemQuantity.MaximumQuantity {
				return false
			}
		case menu.ConstraintOrderTotal:
			if subtotal < c.OrderTotal.MinimumAmount || subtotal > c.OrderTotal.MaximumAmount {
				return false
			}
		case menu.ConstraintTime:
			if !c.Time.Contains(now) {
				return false
			}
		}
	}
	return true
}

// matchedQuantity sums top-level line quantities whose item matches the
// selector. Constraints may be written against either the concrete item or
// the shell the line was ordered through, so both ids are consulted.
func matchedQuantity(cat *catalog.Index, sel menu.Selector, lines []order.ResolvedLine) int {
	var qty int
	for i := range lines {
		line := &lines[i]
		matched := false
		if it := cat.ItemByID(line.ItemID); it != nil && sel.Matches(it) {
			matched = true
		}
		if !matched && line.ShellItemID != nil {
			if shell := cat.ItemByID(*line.ShellItemID); shell != nil && sel.Matches(shell) {
				matched = true
			}
		}
		if matched {
			qty += line.Quantity
		}
	}
	return qty
}
