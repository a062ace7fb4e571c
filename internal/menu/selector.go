package menu

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SelectorKind enumerates the closed set of selection forms.
type SelectorKind string

const (
	SelectID     SelectorKind = "Id"
	SelectAnyID  SelectorKind = "AnyId"
	SelectTag    SelectorKind = "Tag"
	SelectAnyTag SelectorKind = "AnyTag"
)

// Selector declares which items may fill a slot or satisfy a constraint.
// It is a tagged union: exactly one of the payload fields is meaningful,
// chosen by Kind. Matching is structural and total; there is no fuzzy form.
type Selector struct {
	Kind SelectorKind
	ID   uuid.UUID
	IDs  []uuid.UUID
	Tag  string
	Tags []string
}

// ByID builds an exact-id selector.
func ByID(id uuid.UUID) Selector {
	return Selector{Kind: SelectID, ID: id}
}

// ByAnyID builds an id-set membership selector.
func ByAnyID(ids ...uuid.UUID) Selector {
	return Selector{Kind: SelectAnyID, IDs: ids}
}

// ByTag builds a single-tag selector.
func ByTag(tag string) Selector {
	return Selector{Kind: SelectTag, Tag: tag}
}

// ByAnyTag builds a tag-set intersection selector.
func ByAnyTag(tags ...string) Selector {
	return Selector{Kind: SelectAnyTag, Tags: tags}
}

// Matches reports whether the item satisfies the selector. An unknown Kind is
// a programming error, not a runtime condition, so it panics.
func (s Selector) Matches(it *Item) bool {
	switch s.Kind {
	case SelectID:
		return it.ID == s.ID
	case SelectAnyID:
		for _, id := range s.IDs {
			if it.ID == id {
				return true
			}
		}
		return false
	case SelectTag:
		return it.HasTag(s.Tag)
	case SelectAnyTag:
		for _, tag := range s.Tags {
			if it.HasTag(tag) {
				return true
			}
		}
		return false
	}
	panic(fmt.Sprintf("menu: unknown selector kind %q", s.Kind))
}

// ReferencedIDs returns the item ids the selector names directly, for
// integrity checking. Tag selectors reference no ids.
func (s Selector) ReferencedIDs() []uuid.UUID {
	switch s.Kind {
	case SelectID:
		return []uuid.UUID{s.ID}
	case SelectAnyID:
		return s.IDs
	}
	return nil
}

// The wire form is externally tagged, matching the authoring tool's
// serialization: {"Id": "..."} | {"AnyId": [...]} | {"Tag": "..."} |
// {"AnyTag": [...]}.

func (s Selector) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SelectID:
		return json.Marshal(map[string]uuid.UUID{"Id": s.ID})
	case SelectAnyID:
		ids := s.IDs
		if ids == nil {
			ids = []uuid.UUID{}
		}
		return json.Marshal(map[string][]uuid.UUID{"AnyId": ids})
	case SelectTag:
		return json.Marshal(map[string]string{"Tag": s.Tag})
	case SelectAnyTag:
		tags := s.Tags
		if tags == nil {
			tags = []string{}
		}
		return json.Marshal(map[string][]string{"AnyTag": tags})
	}
	return nil, fmt.Errorf("menu: cannot marshal selector kind %q", s.Kind)
}

func (s *Selector) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("menu: selector: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("menu: selector must carry exactly one variant, got %d", len(raw))
	}
	for key, payload := range raw {
		switch SelectorKind(key) {
		case SelectID:
			s.Kind = SelectID
			return json.Unmarshal(payload, &s.ID)
		case SelectAnyID:
			s.Kind = SelectAnyID
			return json.Unmarshal(payload, &s.IDs)
		case SelectTag:
			s.Kind = SelectTag
			return json.Unmarshal(payload, &s.Tag)
		case SelectAnyTag:
			s.Kind = SelectAnyTag
			return json.Unmarshal(payload, &s.Tags)
		default:
			return fmt.Errorf("menu: unknown selector variant %q", key)
		}
	}
	return nil
}
