package resolve

import (
	"github.com/google/uuid"

	"github.com/terryberlin/carbonmenu/internal/menu"
	"github.com/terryberlin/carbonmenu/internal/order"
	"github.com/terryberlin/carbonmenu/internal/pricing"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
)

// resolveItemSlots walks every slot the item declares, pairing it with the
// caller's selection by slot name, and returns the resolved slots plus the
// summed per-unit price contribution. Selections naming a slot the item does
// not declare are rejected.
func (e *Engine) resolveItemSlots(pr *pricing.Resolver, it *menu.Item, sels []order.SlotSelection) ([]order.ResolvedSlot, int, error) {
	byName := make(map[string][]order.Choice, len(sels))
	for i := range sels {
		name := sels[i].SlotName
		if _, dup := byName[name]; dup {
			return nil, 0, slotError(name, "slot selected more than once")
		}
		byName[name] = sels[i].Choices
	}

	var out []order.ResolvedSlot
	var total int
	for i := range it.Slots {
		slot := &it.Slots[i]
		choices, submitted := byName[slot.Name]
		if submitted {
			delete(byName, slot.Name)
		}

		resolved, slotTotal, err := e.resolveSlot(pr, slot, choices)
		if err != nil {
			return nil, 0, err
		}
		if len(resolved.Choices) > 0 {
			out = append(out, resolved)
		}
		total += slotTotal
	}

	for name := range byName {
		return nil, 0, slotError(name, "item does not declare this slot")
	}

	return out, total, nil
}

// resolveSlot validates one slot's choices against its selector and
// cardinality and prices each choice. No partial acceptance: the first
// violation rejects the whole resolution.
func (e *Engine) resolveSlot(pr *pricing.Resolver, slot *menu.Slot, choices []order.Choice) (order.ResolvedSlot, int, error) {
	if len(choices) == 0 {
		choices = defaultChoices(slot)
	}

	min, max := slot.Bounds()
	if len(choices) == 0 {
		if min > 0 {
			return order.ResolvedSlot{}, 0, slotError(slot.Name, "selection required")
		}
		return order.ResolvedSlot{Name: slot.Name, Kind: slot.Kind}, 0, nil
	}

	if slot.Kind == menu.SlotItemShell {
		return e.resolveShellSlot(pr, slot, choices)
	}

	seen := make(map[uuid.UUID]struct{}, len(choices))
	resolved := order.ResolvedSlot{Name: slot.Name, Kind: slot.Kind}
	var total, totalQty int

	for i := range choices {
		choice := choices[i]
		if choice.Quantity <= 0 {
			return order.ResolvedSlot{}, 0, slotError(slot.Name, "choice quantity must be positive")
		}

		it := e.cat.ItemByID(choice.ItemID)
		if it == nil || !slot.Selection.Matches(it) {
			return order.ResolvedSlot{}, 0, slotError(slot.Name, "choice is not selectable in this slot")
		}
		if _, dup := seen[choice.ItemID]; dup {
			return order.ResolvedSlot{}, 0, slotError(slot.Name, "duplicate choice; express multiples through quantity")
		}
		seen[choice.ItemID] = struct{}{}

		for _, m := range choice.Modifiers {
			if !m.AllowedOn(it) {
				return order.ResolvedSlot{}, 0, slotError(slot.Name, "modifier not allowed on choice")
			}
		}

		variation, err := effectiveVariation(it, choice.Variation)
		if err != nil {
			return order.ResolvedSlot{}, 0, err
		}

		unit := pr.UnitPrice(it, variation, slot)
		upcharge := pr.ExtraUpcharge(it, choice.Modifiers, choice.Quantity, slot.FreeQuantity)

		nested, nestedTotal, err := e.resolveItemSlots(pr, it, choice.Slots)
		if err != nil {
			return order.ResolvedSlot{}, 0, err
		}

		price := choice.Quantity*(unit+nestedTotal) + upcharge
		resolved.Choices = append(resolved.Choices, order.ResolvedChoice{
			ItemID:     it.ID,
			Name:       it.LongName,
			Quantity:   choice.Quantity,
			Variation:  variation,
			Modifiers:  choice.Modifiers,
			PriceCents: price,
			Slots:      nested,
		})
		total += price
		totalQty += choice.Quantity
	}

	if totalQty < min || totalQty > max {
		return order.ResolvedSlot{}, 0, slotError(slot.Name, "total quantity outside slot bounds")
	}
	if slot.Kind == menu.SlotReplace && len(resolved.Choices) > 1 && max == 1 {
		return order.ResolvedSlot{}, 0, slotError(slot.Name, "replace slot admits a single choice")
	}

	return resolved, total, nil
}

// resolveShellSlot handles an ItemShell slot encountered inside a larger
// item (a combo naming full alternative entrées). Exactly one child is
// chosen; it supplies its entire price and slot tree, with the shell slot's
// own overrides as pricing context.
func (e *Engine) resolveShellSlot(pr *pricing.Resolver, slot *menu.Slot, choices []order.Choice) (order.ResolvedSlot, int, error) {
	if len(choices) != 1 || choices[0].Quantity != 1 {
		return order.ResolvedSlot{}, 0, pkgerrors.New(pkgerrors.CodeInvalidShell, "shell slot resolves to exactly one item").
			WithDetails(map[string]any{"slot": slot.Name})
	}
	choice := choices[0]

	it := e.cat.ItemByID(choice.ItemID)
	if it == nil || !slot.Selection.Matches(it) {
		return order.ResolvedSlot{}, 0, pkgerrors.New(pkgerrors.CodeInvalidShell, "chosen item is not a shell alternative").
			WithDetails(map[string]any{"slot": slot.Name, "item_id": choice.ItemID})
	}

	variation, err := effectiveVariation(it, choice.Variation)
	if err != nil {
		return order.ResolvedSlot{}, 0, err
	}

	unit := pr.UnitPrice(it, variation, slot)
	nested, nestedTotal, err := e.resolveItemSlots(pr, it, choice.Slots)
	if err != nil {
		return order.ResolvedSlot{}, 0, err
	}

	price := unit + nestedTotal
	resolved := order.ResolvedSlot{
		Name: slot.Name,
		Kind: slot.Kind,
		Choices: []order.ResolvedChoice{{
			ItemID:     it.ID,
			Name:       it.LongName,
			Quantity:   1,
			Variation:  variation,
			Modifiers:  choice.Modifiers,
			PriceCents: price,
			Slots:      nested,
		}},
	}
	return resolved, price, nil
}

// defaultChoices expands a slot's default item ids, honoring repeated ids as
// default multiplicity.
func defaultChoices(slot *menu.Slot) []order.Choice {
	if len(slot.DefaultItemIDs) == 0 {
		return nil
	}
	counts := make(map[uuid.UUID]int, len(slot.DefaultItemIDs))
	var ordered []uuid.UUID
	for _, id := range slot.DefaultItemIDs {
		if counts[id] == 0 {
			ordered = append(ordered, id)
		}
		counts[id]++
	}
	// A single default id with a wider default quantity means "N of this".
	if len(ordered) == 1 && slot.DefaultQuantity > counts[ordered[0]] {
		counts[ordered[0]] = slot.DefaultQuantity
	}
	choices := make([]order.Choice, 0, len(ordered))
	for _, id := range ordered {
		choices = append(choices, order.Choice{ItemID: id, Quantity: counts[id]})
	}
	return choices
}

func slotError(slot, rule string) error {
	return pkgerrors.New(pkgerrors.CodeSlotValidation, rule).
		WithDetails(map[string]any{"slot": slot, "rule": rule})
}
