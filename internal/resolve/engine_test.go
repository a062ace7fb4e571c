package resolve

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/menu"
	"github.com/terryberlin/carbonmenu/internal/order"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
)

// fixture is a small but complete catalog: a taco with an additive filling
// slot, a combo with entree/sides/drink slots, and a shell item standing in
// for "any taco".
type fixture struct {
	onions, cheese         uuid.UUID
	taco, chickenTaco      uuid.UUID
	fries, beans, fountain uuid.UUID
	combo, anyTaco         uuid.UUID
	engine                 *Engine
	cat                    *catalog.Index
}

func intPtr(v int) *int { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		onions:      uuid.New(),
		cheese:      uuid.New(),
		taco:        uuid.New(),
		chickenTaco: uuid.New(),
		fries:       uuid.New(),
		beans:       uuid.New(),
		fountain:    uuid.New(),
		combo:       uuid.New(),
		anyTaco:     uuid.New(),
	}

	regularID := uuid.New()
	m := &menu.Menu{Items: []menu.Item{
		{ID: f.onions, LongName: "Onions", Tags: []string{"filling"}, Modifiers: []menu.Modifier{menu.Light()}},
		{
			ID: f.cheese, LongName: "Cheese", Tags: []string{"filling"},
			Modifiers:        []menu.Modifier{menu.Extra(), menu.Light()},
			ModifierUpcharge: map[menu.ModifierKind]int{menu.ModifierExtra: 30},
		},
		{
			ID: f.taco, LongName: "Carne Asada Taco", Price: 299, PLU: "1001", Tags: []string{"taco"},
			Slots: []menu.Slot{{
				Name:           "Fillings",
				Kind:           menu.SlotIngredient,
				Selection:      menu.ByTag("filling"),
				FreeQuantity:   2,
				DefaultItemIDs: []uuid.UUID{f.onions},
			}},
		},
		{
			ID: f.chickenTaco, LongName: "Chicken Taco", Price: 279, Tags: []string{"taco"},
			Variations: []menu.Variation{
				{ID: regularID, Name: "Regular"},
				{ID: uuid.New(), Name: "Supreme", Price: intPtr(329)},
			},
			DefaultVariation: &regularID,
		},
		{ID: f.fries, LongName: "Fries", Price: 199, Tags: []string{"side"}},
		{ID: f.beans, LongName: "Refried Beans", Price: 149, Tags: []string{"side"}},
		{ID: f.fountain, LongName: "Fountain Drink", Price: 129, Tags: []string{"drink"}},
		{
			ID: f.combo, LongName: "Taco Combo", Price: 699, Tags: []string{"combo"},
			Slots: []menu.Slot{
				{
					Name:      "Entree",
					Kind:      menu.SlotItemShell,
					Selection: menu.ByAnyID(f.taco, f.chickenTaco),
					PriceOverrides: []menu.PriceOverride{
						{ItemIDs: []uuid.UUID{f.taco}, Price: 0},
						{ItemIDs: []uuid.UUID{f.chickenTaco}, Price: 29},
					},
					DefaultItemIDs: []uuid.UUID{f.taco},
				},
				{
					Name:            "Sides",
					Kind:            menu.SlotItems,
					Selection:       menu.ByTag("side"),
					MinimumQuantity: 2,
					MaximumQuantity: 2,
					DefaultItemIDs:  []uuid.UUID{f.fries, f.beans},
				},
				{
					Name:           "Drink",
					Kind:           menu.SlotReplace,
					Selection:      menu.ByTag("drink"),
					DefaultItemIDs: []uuid.UUID{f.fountain},
				},
			},
		},
		{
			ID: f.anyTaco, LongName: "Any Taco",
			Slots: []menu.Slot{{
				Name:           "Pick",
				Kind:           menu.SlotItemShell,
				Selection:      menu.ByTag("taco"),
				DefaultItemIDs: []uuid.UUID{f.taco},
			}},
		},
	}}

	cat, err := catalog.Build(m)
	if err != nil {
		t.Fatalf("build fixture catalog: %v", err)
	}
	f.cat = cat
	f.engine = New(cat)
	return f
}

func (f *fixture) resolve(t *testing.T, ord order.Order) *order.Resolved {
	t.Helper()
	res, err := f.engine.Resolve(ord, time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return res
}

func (f *fixture) resolveErr(t *testing.T, ord order.Order, code pkgerrors.Code) {
	t.Helper()
	_, err := f.engine.Resolve(ord, time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected %s error", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestResolveSimpleLine(t *testing.T) {
	f := newFixture(t)
	res := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.taco, Quantity: 2},
	}})

	if len(res.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(res.Lines))
	}
	line := res.Lines[0]
	if line.UnitPriceCents != 299 || line.LineTotalCents != 598 {
		t.Fatalf("line priced %d/%d, want 299/598", line.UnitPriceCents, line.LineTotalCents)
	}
	if res.SubtotalCents != 598 || res.TotalCents != 598 {
		t.Fatalf("order totals %d/%d, want 598/598", res.SubtotalCents, res.TotalCents)
	}
	// Omitted slot falls back to the default filling at no charge.
	if len(line.Slots) != 1 || line.Slots[0].Choices[0].ItemID != f.onions {
		t.Fatalf("default filling missing: %+v", line.Slots)
	}
}

func TestResolveRejectsEmptyOrder(t *testing.T) {
	f := newFixture(t)
	f.resolveErr(t, order.Order{}, pkgerrors.CodeValidation)
}

func TestResolveRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.taco, Quantity: 0},
	}}, pkgerrors.CodeValidation)
}

func TestResolveRejectsUnknownItem(t *testing.T) {
	f := newFixture(t)
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{ItemID: uuid.New(), Quantity: 1},
	}}, pkgerrors.CodeValidation)
}

func TestComboDefaultsAndEntreeOverrides(t *testing.T) {
	f := newFixture(t)

	// All defaults: entree taco at override 0, fries+beans, fountain drink.
	res := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.combo, Quantity: 1},
	}})
	want := 699 + 0 + (199 + 149) + 129
	if res.Lines[0].LineTotalCents != want {
		t.Fatalf("combo total = %d, want %d", res.Lines[0].LineTotalCents, want)
	}

	// Upgrading the entree applies that entree's override instead.
	res = f.resolve(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.combo, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Entree",
				Choices:  []order.Choice{{ItemID: f.chickenTaco, Quantity: 1}},
			}},
		},
	}})
	want = 699 + 29 + (199 + 149) + 129
	if res.Lines[0].LineTotalCents != want {
		t.Fatalf("upgraded combo total = %d, want %d", res.Lines[0].LineTotalCents, want)
	}
}

func TestComboLineQuantityScalesEverything(t *testing.T) {
	f := newFixture(t)
	res := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.combo, Quantity: 3},
	}})
	perUnit := 699 + 0 + (199 + 149) + 129
	if res.Lines[0].LineTotalCents != 3*perUnit {
		t.Fatalf("combo x3 = %d, want %d", res.Lines[0].LineTotalCents, 3*perUnit)
	}
}

func TestItemsSlotBounds(t *testing.T) {
	f := newFixture(t)

	// One side against a pick-exactly-2 slot.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.combo, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Sides",
				Choices:  []order.Choice{{ItemID: f.fries, Quantity: 1}},
			}},
		},
	}}, pkgerrors.CodeSlotValidation)

	// Quantity satisfies the bound even through a single choice.
	res := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.combo, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Sides",
				Choices:  []order.Choice{{ItemID: f.fries, Quantity: 2}},
			}},
		},
	}})
	want := 699 + 0 + 2*199 + 129
	if res.Lines[0].LineTotalCents != want {
		t.Fatalf("double fries combo = %d, want %d", res.Lines[0].LineTotalCents, want)
	}

	// Three total is past the maximum.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.combo, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Sides",
				Choices: []order.Choice{
					{ItemID: f.fries, Quantity: 2},
					{ItemID: f.beans, Quantity: 1},
				},
			}},
		},
	}}, pkgerrors.CodeSlotValidation)
}

func TestIngredientExtraUpcharge(t *testing.T) {
	f := newFixture(t)

	lineFor := func(cheeseQty int, mods []menu.Modifier) int {
		res := f.resolve(t, order.Order{Lines: []order.LineSelection{
			{
				ItemID: f.taco, Quantity: 1,
				Slots: []order.SlotSelection{{
					SlotName: "Fillings",
					Choices:  []order.Choice{{ItemID: f.cheese, Quantity: cheeseQty, Modifiers: mods}},
				}},
			},
		}})
		return res.Lines[0].LineTotalCents
	}

	extra := []menu.Modifier{menu.Extra()}
	if got := lineFor(2, extra); got != 299 {
		t.Fatalf("within free quantity = %d, want 299", got)
	}
	if got := lineFor(3, extra); got != 299+30 {
		t.Fatalf("one past free = %d, want 329", got)
	}
	if got := lineFor(5, extra); got != 299+3*30 {
		t.Fatalf("three past free = %d, want 389", got)
	}
	// No Extra modifier, no upcharge.
	if got := lineFor(5, nil); got != 299 {
		t.Fatalf("no modifier = %d, want 299", got)
	}
}

func TestSlotSelectionValidation(t *testing.T) {
	f := newFixture(t)

	// Slot name the item does not declare.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.taco, Quantity: 1,
			Slots: []order.SlotSelection{{SlotName: "Sauces", Choices: []order.Choice{{ItemID: f.onions, Quantity: 1}}}},
		},
	}}, pkgerrors.CodeSlotValidation)

	// Same slot selected twice.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.taco, Quantity: 1,
			Slots: []order.SlotSelection{
				{SlotName: "Fillings", Choices: []order.Choice{{ItemID: f.onions, Quantity: 1}}},
				{SlotName: "Fillings", Choices: []order.Choice{{ItemID: f.cheese, Quantity: 1}}},
			},
		},
	}}, pkgerrors.CodeSlotValidation)

	// Choice outside the slot's selector.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.taco, Quantity: 1,
			Slots: []order.SlotSelection{{SlotName: "Fillings", Choices: []order.Choice{{ItemID: f.fries, Quantity: 1}}}},
		},
	}}, pkgerrors.CodeSlotValidation)

	// Duplicate item expressed as two choices instead of quantity.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.taco, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Fillings",
				Choices: []order.Choice{
					{ItemID: f.onions, Quantity: 1},
					{ItemID: f.onions, Quantity: 1},
				},
			}},
		},
	}}, pkgerrors.CodeSlotValidation)

	// Modifier the choice item does not declare.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.taco, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Fillings",
				Choices:  []order.Choice{{ItemID: f.onions, Quantity: 1, Modifiers: []menu.Modifier{menu.Extra()}}},
			}},
		},
	}}, pkgerrors.CodeSlotValidation)
}

func TestShellRoundTrip(t *testing.T) {
	f := newFixture(t)

	direct := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.chickenTaco, Quantity: 1, Variation: "Supreme"},
	}})
	viaShell := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.anyTaco, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Pick",
				Choices:  []order.Choice{{ItemID: f.chickenTaco, Quantity: 1, Variation: "Supreme"}},
			}},
		},
	}})

	d, s := direct.Lines[0], viaShell.Lines[0]
	if s.ItemID != f.chickenTaco {
		t.Fatalf("shell line resolved to %s, want the concrete child", s.ItemID)
	}
	if s.ShellItemID == nil || *s.ShellItemID != f.anyTaco {
		t.Fatal("shell line must remember the shell it was ordered through")
	}
	if d.UnitPriceCents != s.UnitPriceCents || d.LineTotalCents != s.LineTotalCents {
		t.Fatalf("shell pricing %d/%d differs from direct %d/%d",
			s.UnitPriceCents, s.LineTotalCents, d.UnitPriceCents, d.LineTotalCents)
	}
	if d.UnitPriceCents != 329 {
		t.Fatalf("supreme unit = %d, want 329", d.UnitPriceCents)
	}
	if direct.SubtotalCents != viaShell.SubtotalCents {
		t.Fatal("shell resolution must price like the direct order")
	}
}

func TestShellDefaultChild(t *testing.T) {
	f := newFixture(t)
	res := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.anyTaco, Quantity: 1},
	}})
	line := res.Lines[0]
	if line.ItemID != f.taco || line.LineTotalCents != 299 {
		t.Fatalf("defaulted shell resolved to %s at %d", line.ItemID, line.LineTotalCents)
	}
}

func TestShellRejectsForeignChild(t *testing.T) {
	f := newFixture(t)
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.anyTaco, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Pick",
				Choices:  []order.Choice{{ItemID: f.fries, Quantity: 1}},
			}},
		},
	}}, pkgerrors.CodeInvalidShell)
}

func TestShellRejectsMultipleChoices(t *testing.T) {
	f := newFixture(t)
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.anyTaco, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Pick",
				Choices: []order.Choice{
					{ItemID: f.taco, Quantity: 1},
					{ItemID: f.chickenTaco, Quantity: 1},
				},
			}},
		},
	}}, pkgerrors.CodeInvalidShell)
}

func TestShellRejectsChoiceQuantity(t *testing.T) {
	f := newFixture(t)
	// Multiples are expressed on the line, not on the shell choice; a wider
	// choice quantity must not silently collapse to one.
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.anyTaco, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Pick",
				Choices:  []order.Choice{{ItemID: f.taco, Quantity: 3}},
			}},
		},
	}}, pkgerrors.CodeInvalidShell)
}

func TestShellRejectsRepeatedSlotSelection(t *testing.T) {
	f := newFixture(t)
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{
			ItemID: f.anyTaco, Quantity: 1,
			Slots: []order.SlotSelection{
				{SlotName: "Pick", Choices: []order.Choice{{ItemID: f.taco, Quantity: 1}}},
				{SlotName: "Pick", Choices: []order.Choice{{ItemID: f.chickenTaco, Quantity: 1}}},
			},
		},
	}}, pkgerrors.CodeSlotValidation)
}

func TestDefaultVariationApplied(t *testing.T) {
	f := newFixture(t)
	res := f.resolve(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.chickenTaco, Quantity: 1},
	}})
	line := res.Lines[0]
	if line.Variation != "Regular" {
		t.Fatalf("variation = %q, want the declared default", line.Variation)
	}
	// Regular has no price of its own, so the base price holds.
	if line.UnitPriceCents != 279 {
		t.Fatalf("unit = %d, want 279", line.UnitPriceCents)
	}
}

func TestUnknownVariationRejected(t *testing.T) {
	f := newFixture(t)
	f.resolveErr(t, order.Order{Lines: []order.LineSelection{
		{ItemID: f.chickenTaco, Quantity: 1, Variation: "Mega"},
	}}, pkgerrors.CodeValidation)
}

func TestResolutionIsDeterministic(t *testing.T) {
	f := newFixture(t)
	ord := order.Order{Lines: []order.LineSelection{
		{ItemID: f.combo, Quantity: 2},
		{
			ItemID: f.taco, Quantity: 1,
			Slots: []order.SlotSelection{{
				SlotName: "Fillings",
				Choices:  []order.Choice{{ItemID: f.cheese, Quantity: 3, Modifiers: []menu.Modifier{menu.Extra()}}},
			}},
		},
	}}

	first := f.resolve(t, ord)
	second := f.resolve(t, ord)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical order and clock must resolve identically")
	}
}
