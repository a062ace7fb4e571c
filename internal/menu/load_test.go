package menu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const snapshotJSON = `{
  "items": [
    {
      "id": "11111111-1111-1111-1111-111111111111",
      "long_name": "Carne Asada Taco",
      "short_name": "CA Taco",
      "price": 299,
      "plu": "1001",
      "tags": ["taco", "beef"],
      "modifiers": ["Extra", "Light", {"Custom": "Grilled"}],
      "modifier_upcharge": {"Extra": 50},
      "slots": [
        {
          "name": "Fillings",
          "slot_type": "Ingredient",
          "selection": {"Tag": "filling"},
          "free_quantity": 2,
          "default_item_ids": ["22222222-2222-2222-2222-222222222222"]
        }
      ],
      "variations": [
        {"id": "33333333-3333-3333-3333-333333333333", "name": "Supreme", "price": 349}
      ]
    },
    {
      "id": "22222222-2222-2222-2222-222222222222",
      "long_name": "Onions",
      "price": 0,
      "tags": ["filling"]
    }
  ],
  "categories": [
    {"name": "Tacos", "pos_menu": true, "tags": ["taco"]}
  ],
  "discounts": [
    {
      "name": "Taco Pack",
      "identifier": "taco-pack",
      "amount": {"Flat": 200},
      "constraints": [
        {"ItemQuantity": {"selection": {"Tag": "taco"}, "minimum_quantity": 3, "maximum_quantity": 99}}
      ]
    }
  ],
  "dynamic_pricing": [
    {
      "name": "Taco Tuesday",
      "auto_constraints": {"Time": {"day_of_week": ["Tue"], "start_time": 0, "stop_time": 86400}},
      "rules": [
        {"selection": {"Tag": "taco"}, "pricing_modification": {"style": "Flat", "amount": -70}}
      ]
    }
  ]
}`

func TestParseSnapshot(t *testing.T) {
	m, err := Parse(strings.NewReader(snapshotJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(m.Items))
	}

	taco := &m.Items[0]
	if taco.Price != 299 || taco.ExtraUpcharge() != 50 {
		t.Fatalf("taco pricing decoded wrong: price=%d extra=%d", taco.Price, taco.ExtraUpcharge())
	}
	if len(taco.Modifiers) != 3 || taco.Modifiers[2].Kind != ModifierCustom {
		t.Fatalf("modifiers decoded wrong: %+v", taco.Modifiers)
	}
	if taco.Slots[0].Selection.Kind != SelectTag || taco.Slots[0].Selection.Tag != "filling" {
		t.Fatalf("slot selector decoded wrong: %+v", taco.Slots[0].Selection)
	}

	if len(m.Discounts) != 1 || m.Discounts[0].Amount.Kind != AmountFlat {
		t.Fatalf("discounts decoded wrong: %+v", m.Discounts)
	}
	c := m.Discounts[0].Constraints[0]
	if c.Kind != ConstraintItemQuantity || c.ItemQuantity.MinimumQuantity != 3 {
		t.Fatalf("constraint decoded wrong: %+v", c)
	}

	set := m.DynamicPricing[0]
	if set.AutoConstraints.Kind != ConstraintTime {
		t.Fatalf("auto constraint decoded wrong: %+v", set.AutoConstraints)
	}
	if set.Rules[0].Modification.Style != ModificationFlat || set.Rules[0].Modification.Amount != -70 {
		t.Fatalf("rule decoded wrong: %+v", set.Rules[0])
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"items": [], "menus": []}`))
	if err == nil {
		t.Fatal("expected error for unknown top-level field")
	}
	_, err = Parse(strings.NewReader(`{"items": [{"id": "11111111-1111-1111-1111-111111111111", "long_name": "X", "price": 1, "calories": 300}]}`))
	if err == nil {
		t.Fatal("expected error for unknown nested field")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(path, []byte(snapshotJSON), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(m.Categories) != 1 || m.Categories[0].Name != "Tacos" {
		t.Fatalf("categories decoded wrong: %+v", m.Categories)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
