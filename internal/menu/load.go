package menu

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a catalog snapshot from the file the authoring tool writes.
func Load(path string) (*Menu, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu snapshot: %w", err)
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse menu snapshot %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a snapshot from a reader. Unknown fields are rejected so an
// authoring-format drift fails loudly at startup rather than silently
// dropping catalog data.
func Parse(r io.Reader) (*Menu, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var m Menu
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
