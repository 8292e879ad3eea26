package model

import (
	"strings"

	"github.com/google/uuid"
)

// MaterialPreset is a reusable stock sheet definition.
type MaterialPreset struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	SheetSize    Dimensions `json:"sheetSize"`
	CostPerSheet float64    `json:"costPerSheet,omitempty"`
}

// NewMaterialPreset creates a new MaterialPreset with a generated ID.
func NewMaterialPreset(name string, length, width float64) MaterialPreset {
	return MaterialPreset{
		ID:        uuid.New().String()[:8],
		Name:      name,
		SheetSize: Dimensions{Length: length, Width: width},
	}
}

// ToMaterial converts a preset into a project material with its own ID.
func (mp MaterialPreset) ToMaterial() Material {
	m := NewMaterial(mp.Name, mp.SheetSize.Length, mp.SheetSize.Width)
	m.CostPerSheet = mp.CostPerSheet
	return m
}

// Catalog holds the user's saved material presets.
type Catalog struct {
	Presets []MaterialPreset `json:"presets"`
}

// DefaultCatalog returns a catalog populated with common sheet goods.
// Sizes are length x width in inches.
func DefaultCatalog() Catalog {
	return Catalog{
		Presets: []MaterialPreset{
			NewMaterialPreset("4×8 Plywood Sheet", 96, 48),
			NewMaterialPreset("5×5 Baltic Birch", 60, 60),
			NewMaterialPreset("4×4 Plywood Sheet", 48, 48),
		},
	}
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (c *Catalog) FindByID(id string) *MaterialPreset {
	for i := range c.Presets {
		if c.Presets[i].ID == id {
			return &c.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset whose name matches,
// ignoring case, or nil.
func (c *Catalog) FindByName(name string) *MaterialPreset {
	for i := range c.Presets {
		if strings.EqualFold(c.Presets[i].Name, name) {
			return &c.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}

// Add appends a preset to the catalog.
func (c *Catalog) Add(p MaterialPreset) {
	c.Presets = append(c.Presets, p)
}

// Remove deletes the preset with the given ID. Returns false if not found.
func (c *Catalog) Remove(id string) bool {
	for i := range c.Presets {
		if c.Presets[i].ID == id {
			c.Presets = append(c.Presets[:i], c.Presets[i+1:]...)
			return true
		}
	}
	return false
}
