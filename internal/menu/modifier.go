package menu

import (
	"encoding/json"
	"fmt"
)

// ModifierKind classifies per-line annotations.
type ModifierKind string

const (
	// ModifierExtra may carry a per-unit upcharge from the item's
	// modifier_upcharge map.
	ModifierExtra ModifierKind = "Extra"
	// ModifierLight never upcharges.
	ModifierLight ModifierKind = "Light"
	// ModifierCustom is a named free-form annotation; never upcharges.
	ModifierCustom ModifierKind = "Custom"
)

// Modifier is one annotation on an order line or allowed on an item.
type Modifier struct {
	Kind ModifierKind
	// Custom holds the annotation text for ModifierCustom.
	Custom string
}

func Extra() Modifier { return Modifier{Kind: ModifierExtra} }
func Light() Modifier { return Modifier{Kind: ModifierLight} }
func Custom(text string) Modifier {
	return Modifier{Kind: ModifierCustom, Custom: text}
}

// Wire form mirrors the authoring tool: "Extra" | "Light" |
// {"Custom": "Grilled"}.

func (m Modifier) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case ModifierExtra, ModifierLight:
		return json.Marshal(string(m.Kind))
	case ModifierCustom:
		return json.Marshal(map[string]string{"Custom": m.Custom})
	}
	return nil, fmt.Errorf("menu: cannot marshal modifier kind %q", m.Kind)
}

func (m *Modifier) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		switch ModifierKind(plain) {
		case ModifierExtra, ModifierLight:
			m.Kind = ModifierKind(plain)
			return nil
		}
		return fmt.Errorf("menu: unknown modifier %q", plain)
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("menu: modifier: %w", err)
	}
	text, ok := tagged["Custom"]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("menu: modifier object must carry a single Custom variant")
	}
	m.Kind = ModifierCustom
	m.Custom = text
	return nil
}

// AllowedOn reports whether the item declares this modifier. Custom modifiers
// match on their text.
func (m Modifier) AllowedOn(it *Item) bool {
	for _, allowed := range it.Modifiers {
		if allowed.Kind != m.Kind {
			continue
		}
		if m.Kind != ModifierCustom || allowed.Custom == m.Custom {
			return true
		}
	}
	return false
}
