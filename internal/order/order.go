// Package order defines the caller-owned request and result trees for a
// resolution run. Selections reference catalog ids by value, never by live
// pointer, so the same order can be re-resolved deterministically against the
// same snapshot.
package order

import (
	"github.com/google/uuid"

	"github.com/terryberlin/carbonmenu/internal/menu"
)

// Order is one customer order submitted for resolution.
type Order struct {
	Lines []LineSelection `json:"lines"`
	// ApplyDiscounts names the discount identifiers the caller chose from a
	// previously reported eligible set. The engine enforces combinability;
	// it never picks discounts on its own.
	ApplyDiscounts []string `json:"apply_discounts,omitempty"`
}

// LineSelection is one top-level chosen item with its slot selections.
type LineSelection struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  int             `json:"quantity"`
	Variation string          `json:"variation,omitempty"`
	Slots     []SlotSelection `json:"slots,omitempty"`
}

// SlotSelection addresses one of the item's slots by name and carries the
// customer's choices for it. Omitted slots fall back to catalog defaults.
type SlotSelection struct {
	SlotName string   `json:"slot_name"`
	Choices  []Choice `json:"choices"`
}

// Choice is one chosen sub-item within a slot. Shell choices carry the slot
// selections for the concrete child item.
type Choice struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  int             `json:"quantity"`
	Variation string          `json:"variation,omitempty"`
	Modifiers []menu.Modifier `json:"modifiers,omitempty"`
	Slots     []SlotSelection `json:"slots,omitempty"`
}

// Resolved is the engine's output: the expanded, priced order tree.
type Resolved struct {
	Lines         []ResolvedLine  `json:"lines"`
	SubtotalCents int             `json:"subtotal_cents"`
	Eligible      []DiscountQuote `json:"eligible_discounts,omitempty"`
	Applied       []DiscountQuote `json:"applied_discounts,omitempty"`
	TotalCents    int             `json:"total_cents"`
}

// ResolvedLine is one priced top-level line. For shell items the fields
// describe the concrete child the shell resolved to.
type ResolvedLine struct {
	ItemID uuid.UUID `json:"item_id"`
	// ShellItemID records the shell the line was ordered through, when it
	// was; discount constraints may reference either id.
	ShellItemID    *uuid.UUID     `json:"shell_item_id,omitempty"`
	Name           string         `json:"name"`
	PLU            string         `json:"plu,omitempty"`
	Variation      string         `json:"variation,omitempty"`
	Quantity       int            `json:"quantity"`
	UnitPriceCents int            `json:"unit_price_cents"`
	Slots          []ResolvedSlot `json:"slots,omitempty"`
	// LineTotalCents is unit price times quantity plus all slot upcharges.
	LineTotalCents int `json:"line_total_cents"`
}

// ResolvedSlot is one validated slot composition.
type ResolvedSlot struct {
	Name    string           `json:"name"`
	Kind    menu.SlotKind    `json:"kind"`
	Choices []ResolvedChoice `json:"choices"`
}

// ResolvedChoice is one priced sub-item within a slot.
type ResolvedChoice struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Variation string          `json:"variation,omitempty"`
	Modifiers []menu.Modifier `json:"modifiers,omitempty"`
	// PriceCents is the choice's effective per-slot price contribution,
	// overrides and free-quantity upcharges already applied.
	PriceCents int            `json:"price_cents"`
	Slots      []ResolvedSlot `json:"slots,omitempty"`
}

// DiscountQuote reports one discount's computed amount against this order.
type DiscountQuote struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	AmountCents int    `json:"amount_cents"`
	// Exclusive marks incombinable discounts so the caller knows at most
	// one of them may be applied.
	Exclusive bool `json:"exclusive"`
	Single    bool `json:"single"`
}
