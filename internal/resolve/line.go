package resolve

import (
	"github.com/google/uuid"

	"github.com/terryberlin/carbonmenu/internal/menu"
	"github.com/terryberlin/carbonmenu/internal/order"
	"github.com/terryberlin/carbonmenu/internal/pricing"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
)

// resolveLine expands one top-level line. Shell items are redirected to
// their chosen concrete child first; the resolved line then carries the
// child's identity and price, which keeps shell resolution equivalent to
// ordering the concrete item directly.
func (e *Engine) resolveLine(pr *pricing.Resolver, sel order.LineSelection) (order.ResolvedLine, error) {
	if sel.Quantity <= 0 {
		return order.ResolvedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
	}

	it := e.cat.ItemByID(sel.ItemID)
	if it == nil {
		return order.ResolvedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "order references unknown item").
			WithDetails(map[string]any{"item_id": sel.ItemID})
	}

	// A shell may redirect to another shell; cycles are rejected at
	// catalog build, so this terminates.
	var shellID *uuid.UUID
	for shell := it.ShellSlot(); shell != nil; shell = it.ShellSlot() {
		if shellID == nil {
			id := it.ID
			shellID = &id
		}
		var err error
		it, sel, err = e.resolveShell(it, shell, sel)
		if err != nil {
			return order.ResolvedLine{}, err
		}
	}

	variation, err := effectiveVariation(it, sel.Variation)
	if err != nil {
		return order.ResolvedLine{}, err
	}

	// Top-level lines have no containing slot, so no override context.
	unit := pr.UnitPrice(it, variation, nil)

	slots, slotTotal, err := e.resolveItemSlots(pr, it, sel.Slots)
	if err != nil {
		return order.ResolvedLine{}, err
	}

	return order.ResolvedLine{
		ItemID:         it.ID,
		ShellItemID:    shellID,
		Name:           it.LongName,
		PLU:            it.PLU,
		Variation:      variation,
		Quantity:       sel.Quantity,
		UnitPriceCents: unit,
		Slots:          slots,
		LineTotalCents: sel.Quantity * (unit + slotTotal),
	}, nil
}

// resolveShell maps a shell line onto its chosen concrete child. The child
// id comes from the selection for the shell slot, or the slot's default when
// the caller submitted nothing. The child's own slot selections travel in
// the choice's nested slots.
func (e *Engine) resolveShell(shell *menu.Item, slot *menu.Slot, sel order.LineSelection) (*menu.Item, order.LineSelection, error) {
	var chosen *order.Choice
	var leftover []order.SlotSelection
	for i := range sel.Slots {
		if sel.Slots[i].SlotName != slot.Name {
			leftover = append(leftover, sel.Slots[i])
			continue
		}
		if chosen != nil {
			return nil, sel, slotError(slot.Name, "slot selected more than once")
		}
		if len(sel.Slots[i].Choices) != 1 {
			return nil, sel, pkgerrors.New(pkgerrors.CodeInvalidShell, "shell slot requires exactly one choice").
				WithDetails(map[string]any{"slot": slot.Name, "choices": len(sel.Slots[i].Choices)})
		}
		chosen = &sel.Slots[i].Choices[0]
		// The line's own quantity scales the order; the shell choice itself
		// names one concrete item.
		if chosen.Quantity != 1 {
			return nil, sel, pkgerrors.New(pkgerrors.CodeInvalidShell, "shell slot resolves to exactly one item").
				WithDetails(map[string]any{"slot": slot.Name, "quantity": chosen.Quantity})
		}
	}

	var childID uuid.UUID
	if chosen != nil {
		childID = chosen.ItemID
	} else {
		if len(slot.DefaultItemIDs) != 1 {
			return nil, sel, pkgerrors.New(pkgerrors.CodeInvalidShell, "shell slot requires a selection").
				WithDetails(map[string]any{"slot": slot.Name})
		}
		childID = slot.DefaultItemIDs[0]
	}

	child := e.cat.ItemByID(childID)
	if child == nil || !slot.Selection.Matches(child) {
		return nil, sel, pkgerrors.New(pkgerrors.CodeInvalidShell, "chosen item is not a shell alternative").
			WithDetails(map[string]any{"slot": slot.Name, "item_id": childID})
	}

	out := order.LineSelection{
		ItemID:    child.ID,
		Quantity:  sel.Quantity,
		Variation: sel.Variation,
		Slots:     leftover,
	}
	if chosen != nil {
		if chosen.Variation != "" {
			out.Variation = chosen.Variation
		}
		out.Slots = append(out.Slots, chosen.Slots...)
	}
	return child, out, nil
}

// effectiveVariation validates the requested variation, falling back to the
// item's default when none is requested.
func effectiveVariation(it *menu.Item, requested string) (string, error) {
	if requested == "" {
		return it.DefaultVariationName(), nil
	}
	if it.Variation(requested) == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown variation").
			WithDetails(map[string]any{"item": it.LongName, "variation": requested})
	}
	return requested, nil
}
