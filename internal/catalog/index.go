// Package catalog builds the read-only lookup structures the resolution
// engine runs against. An Index is constructed once per snapshot and is safe
// for concurrent reads; it fails construction on any broken reference rather
// than deferring to resolution time.
package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/terryberlin/carbonmenu/internal/menu"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
)

// Index is the immutable lookup view over one menu snapshot.
type Index struct {
	snapshot   *menu.Menu
	itemsByID  map[uuid.UUID]*menu.Item
	itemsByTag map[string][]*menu.Item
}

// Build validates the snapshot and constructs the index. Every violation is
// collected before failing so authors see the full list at once.
func Build(m *menu.Menu) (*Index, error) {
	if m == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCatalogIntegrity, "nil menu snapshot")
	}

	idx := &Index{
		snapshot:   m,
		itemsByID:  make(map[uuid.UUID]*menu.Item, len(m.Items)),
		itemsByTag: make(map[string][]*menu.Item),
	}

	var violations error
	for i := range m.Items {
		it := &m.Items[i]
		if _, dup := idx.itemsByID[it.ID]; dup {
			violations = multierr.Append(violations, fmt.Errorf("duplicate item id %s (%s)", it.ID, it.LongName))
			continue
		}
		idx.itemsByID[it.ID] = it
		seen := make(map[string]struct{}, len(it.Tags))
		for _, tag := range it.Tags {
			if _, dup := seen[tag]; dup {
				violations = multierr.Append(violations, fmt.Errorf("item %s repeats tag %q", it.LongName, tag))
				continue
			}
			seen[tag] = struct{}{}
			idx.itemsByTag[tag] = append(idx.itemsByTag[tag], it)
		}
	}

	for i := range m.Items {
		it := &m.Items[i]
		violations = multierr.Append(violations, checkDefaultVariation(it))
		violations = multierr.Append(violations, idx.checkSlots(fmt.Sprintf("item %s", it.LongName), it.Slots))
	}
	for i := range m.Slots {
		violations = multierr.Append(violations, idx.checkSlots("menu", []menu.Slot{m.Slots[i]}))
	}
	for i := range m.Discounts {
		d := &m.Discounts[i]
		for _, c := range d.Constraints {
			if c.Kind == menu.ConstraintItemQuantity {
				violations = multierr.Append(violations, idx.checkRefs(fmt.Sprintf("discount %s", d.Identifier), c.ItemQuantity.Selection.ReferencedIDs()))
			}
		}
	}
	for i := range m.DynamicPricing {
		set := &m.DynamicPricing[i]
		for _, rule := range set.Rules {
			violations = multierr.Append(violations, idx.checkRefs(fmt.Sprintf("pricing rule set %s", set.Name), rule.Selection.ReferencedIDs()))
		}
	}

	violations = multierr.Append(violations, idx.checkShellCycles())

	if violations != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCatalogIntegrity, violations, "menu snapshot failed integrity check").
			WithDetails(map[string]any{"violations": errorStrings(violations)})
	}
	return idx, nil
}

// ItemByID returns the item for id, or nil.
func (idx *Index) ItemByID(id uuid.UUID) *menu.Item {
	return idx.itemsByID[id]
}

// ItemsByTag returns items carrying the tag, in snapshot declaration order.
func (idx *Index) ItemsByTag(tag string) []*menu.Item {
	return idx.itemsByTag[tag]
}

// Select returns the items a selector matches, in declaration order.
func (idx *Index) Select(sel menu.Selector) []*menu.Item {
	var out []*menu.Item
	for i := range idx.snapshot.Items {
		it := &idx.snapshot.Items[i]
		if sel.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Snapshot exposes the underlying menu for read-only traversal.
func (idx *Index) Snapshot() *menu.Menu {
	return idx.snapshot
}

// Discounts returns the snapshot's discount definitions in declaration order.
func (idx *Index) Discounts() []menu.Discount {
	return idx.snapshot.Discounts
}

// PricingRuleSets returns the snapshot's dynamic pricing rule sets in
// declaration order.
func (idx *Index) PricingRuleSets() []menu.PricingRuleSet {
	return idx.snapshot.DynamicPricing
}

func (idx *Index) checkSlots(owner string, slots []menu.Slot) error {
	var violations error
	for i := range slots {
		s := &slots[i]
		scope := fmt.Sprintf("%s slot %s", owner, s.Name)

		violations = multierr.Append(violations, idx.checkRefs(scope, s.Selection.ReferencedIDs()))
		if s.Hidden != nil {
			violations = multierr.Append(violations, idx.checkRefs(scope, s.Hidden.ReferencedIDs()))
		}
		violations = multierr.Append(violations, idx.checkRefs(scope, s.DefaultItemIDs))
		for _, ov := range s.PriceOverrides {
			violations = multierr.Append(violations, idx.checkRefs(scope, ov.ItemIDs))
		}

		if s.MinimumQuantity > 0 && s.MaximumQuantity > 0 && s.MinimumQuantity > s.MaximumQuantity {
			violations = multierr.Append(violations, fmt.Errorf("%s: minimum quantity %d exceeds maximum %d", scope, s.MinimumQuantity, s.MaximumQuantity))
		}
		if s.DefaultQuantity > 0 {
			if s.DefaultQuantity < s.MinimumQuantity {
				violations = multierr.Append(violations, fmt.Errorf("%s: default quantity %d below minimum %d", scope, s.DefaultQuantity, s.MinimumQuantity))
			}
			if s.MaximumQuantity > 0 && s.DefaultQuantity > s.MaximumQuantity {
				violations = multierr.Append(violations, fmt.Errorf("%s: default quantity %d above maximum %d", scope, s.DefaultQuantity, s.MaximumQuantity))
			}
		}
	}
	return violations
}

func checkDefaultVariation(it *menu.Item) error {
	if it.DefaultVariation == nil {
		return nil
	}
	for i := range it.Variations {
		if it.Variations[i].ID == *it.DefaultVariation {
			return nil
		}
	}
	return fmt.Errorf("item %s default variation %s is not a declared variation", it.LongName, it.DefaultVariation)
}

func (idx *Index) checkRefs(scope string, ids []uuid.UUID) error {
	var violations error
	for _, id := range ids {
		if _, ok := idx.itemsByID[id]; !ok {
			violations = multierr.Append(violations, fmt.Errorf("%s references unknown item id %s", scope, id))
		}
	}
	return violations
}

// checkShellCycles walks shell slots as an id graph: a shell resolving,
// directly or transitively, back to itself would recurse forever at
// resolution time.
func (idx *Index) checkShellCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[uuid.UUID]int, len(idx.itemsByID))

	var violations error
	var walk func(it *menu.Item) bool
	walk = func(it *menu.Item) bool {
		switch state[it.ID] {
		case visiting:
			violations = multierr.Append(violations, fmt.Errorf("shell cycle through item %s (%s)", it.ID, it.LongName))
			return false
		case done:
			return true
		}
		state[it.ID] = visiting
		shell := it.ShellSlot()
		if shell != nil {
			for _, child := range idx.Select(shell.Selection) {
				if !walk(child) {
					break
				}
			}
		}
		state[it.ID] = done
		return true
	}

	for _, it := range idx.itemsByID {
		if it.ShellSlot() != nil {
			walk(it)
		}
	}
	return violations
}

func errorStrings(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
