// Package menu holds the immutable catalog snapshot the resolution engine
// consumes: items, slots, variations, price overrides, discounts and dynamic
// pricing rule sets. The snapshot is produced by the authoring tool and loaded
// once at startup; nothing here mutates after load.
package menu

import (
	"github.com/google/uuid"
)

// Menu is one catalog snapshot. All monetary amounts are integer cents.
type Menu struct {
	Items          []Item           `json:"items"`
	Slots          []Slot           `json:"slots,omitempty"`
	Categories     []Category       `json:"categories,omitempty"`
	Discounts      []Discount       `json:"discounts,omitempty"`
	DynamicPricing []PricingRuleSet `json:"dynamic_pricing,omitempty"`
}

// Item is a sellable or composable catalog entry. Items nest through slots;
// a slot's selections reference other items by id, never by pointer.
type Item struct {
	ID               uuid.UUID            `json:"id"`
	LongName         string               `json:"long_name"`
	ShortName        string               `json:"short_name,omitempty"`
	Price            int                  `json:"price"`
	PLU              string               `json:"plu,omitempty"`
	Tags             []string             `json:"tags,omitempty"`
	Modifiers        []Modifier           `json:"modifiers,omitempty"`
	ModifierUpcharge map[ModifierKind]int `json:"modifier_upcharge,omitempty"`
	Slots            []Slot               `json:"slots,omitempty"`
	Variations       []Variation          `json:"variations,omitempty"`
	DefaultVariation *uuid.UUID           `json:"default_variation,omitempty"`
	Priority         int                  `json:"item_priority,omitempty"`
	Label            *string              `json:"label,omitempty"`
}

// HasTag reports whether the item carries the given tag. Tags are
// case-sensitive opaque strings.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Variation returns the named variation, if the item declares one.
func (it *Item) Variation(name string) *Variation {
	for i := range it.Variations {
		if it.Variations[i].Name == name {
			return &it.Variations[i]
		}
	}
	return nil
}

// DefaultVariationName resolves the item's default variation reference.
func (it *Item) DefaultVariationName() string {
	if it.DefaultVariation == nil {
		return ""
	}
	for i := range it.Variations {
		if it.Variations[i].ID == *it.DefaultVariation {
			return it.Variations[i].Name
		}
	}
	return ""
}

// ExtraUpcharge is the per-unit price of an Extra modifier on this item.
func (it *Item) ExtraUpcharge() int {
	return it.ModifierUpcharge[ModifierExtra]
}

// ShellSlot returns the item's ItemShell slot when the item is a shell:
// a priceless placeholder whose single shell slot names the concrete
// alternatives. Items with zero or several shell slots are not shells.
func (it *Item) ShellSlot() *Slot {
	var found *Slot
	for i := range it.Slots {
		if it.Slots[i].Kind == SlotItemShell {
			if found != nil {
				return nil
			}
			found = &it.Slots[i]
		}
	}
	return found
}

// Variation is an item-scoped size/preparation alternative. A non-nil Price
// replaces the owning item's base price when the variation is selected.
type Variation struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Prefix     *string   `json:"prefix,omitempty"`
	Identifier string    `json:"identifier,omitempty"`
	Price      *int      `json:"price,omitempty"`
}

// SlotKind selects the slot's resolution semantics.
type SlotKind string

const (
	// SlotIngredient is additive: independent per-item quantities, with
	// Extra upcharges past the slot's free quantity.
	SlotIngredient SlotKind = "Ingredient"
	// SlotItems is a multi-select whose min/max bound the total chosen
	// count across all items ("pick 2 of N").
	SlotItems SlotKind = "Items"
	// SlotReplace is a mutually exclusive single choice.
	SlotReplace SlotKind = "Replace"
	// SlotItemShell redirects the parent item to exactly one full
	// alternative item that supplies the entire price and slot tree.
	SlotItemShell SlotKind = "ItemShell"
)

// Slot is a named, constrained selection point inside an item.
type Slot struct {
	Name            string          `json:"name"`
	Kind            SlotKind        `json:"slot_type"`
	Selection       Selector        `json:"selection"`
	Hidden          *Selector       `json:"hidden,omitempty"`
	MinimumQuantity int             `json:"minimum_quantity,omitempty"`
	MaximumQuantity int             `json:"maximum_quantity,omitempty"`
	DefaultQuantity int             `json:"default_quantity,omitempty"`
	FreeQuantity    int             `json:"free_quantity,omitempty"`
	PriceOverrides  []PriceOverride `json:"price_overrides,omitempty"`
	// DefaultItemIDs may repeat an id to express default multiplicity.
	DefaultItemIDs []uuid.UUID `json:"default_item_ids,omitempty"`
	Collapsed      bool        `json:"collapsed,omitempty"`
}

// Bounds returns the effective [min, max] total quantity for the slot.
// Replace and ItemShell slots are single-choice unless explicitly widened;
// an unset maximum on other kinds is unbounded.
func (s *Slot) Bounds() (min, max int) {
	min = s.MinimumQuantity
	max = s.MaximumQuantity
	switch s.Kind {
	case SlotReplace, SlotItemShell:
		if min == 0 {
			min = 1
		}
		if max == 0 {
			max = 1
		}
	default:
		if max == 0 {
			max = int(^uint(0) >> 1)
		}
	}
	return min, max
}

// PriceOverride replaces a matched line's running price. Every declared
// filter must hold for the override to match; empty filters are wildcards.
type PriceOverride struct {
	Tags      []string    `json:"tags,omitempty"`
	ItemIDs   []uuid.UUID `json:"item_ids,omitempty"`
	Variation string      `json:"variation,omitempty"`
	Price     int         `json:"price"`
}

// Matches reports whether the override applies to the (item, variation) pair.
func (o *PriceOverride) Matches(it *Item, variation string) bool {
	if len(o.ItemIDs) > 0 {
		found := false
		for _, id := range o.ItemIDs {
			if id == it.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(o.Tags) > 0 {
		found := false
		for _, tag := range o.Tags {
			if it.HasTag(tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if o.Variation != "" && o.Variation != variation {
		return false
	}
	return true
}

// Specificity ranks overrides for precedence: id-filtered beats tag-filtered
// beats variation-only beats wildcard. Ties go to the later declaration.
func (o *PriceOverride) Specificity() int {
	switch {
	case len(o.ItemIDs) > 0:
		return 3
	case len(o.Tags) > 0:
		return 2
	case o.Variation != "":
		return 1
	default:
		return 0
	}
}

// Category is POS display metadata; the engine carries it opaquely.
type Category struct {
	Name             string   `json:"name"`
	POSMenu          bool     `json:"pos_menu,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Image            *string  `json:"image,omitempty"`
	MultiSelectModal bool     `json:"multi_select_modal,omitempty"`
}
