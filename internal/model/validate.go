package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidDimensions = errors.New("dimensions must be positive")
	ErrInvalidQuantity   = errors.New("quantity must not be negative")
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrDuplicateID       = errors.New("duplicate id")
)

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Validate checks the material's sheet size.
func (m Material) Validate() error {
	if !positive(m.SheetSize.Length) || !positive(m.SheetSize.Width) {
		return fmt.Errorf("material %q: %w", m.ID, ErrInvalidDimensions)
	}
	return nil
}

// Validate checks the piece's dimensions and quantity. A piece that
// references an unknown material is still valid: the engine reports it
// as unplaced.
func (c CutPiece) Validate() error {
	if !positive(c.Dimensions.Length) || !positive(c.Dimensions.Width) {
		return fmt.Errorf("piece %q: %w", c.ID, ErrInvalidDimensions)
	}
	if c.Quantity < 0 {
		return fmt.Errorf("piece %q: %w", c.ID, ErrInvalidQuantity)
	}
	return nil
}

func (s ProjectSettings) Validate() error {
	if s.SawKerf < 0 || math.IsNaN(s.SawKerf) {
		return fmt.Errorf("saw kerf %v: %w", s.SawKerf, ErrInvalidSettings)
	}
	if s.EdgeMargin < 0 || math.IsNaN(s.EdgeMargin) {
		return fmt.Errorf("edge margin %v: %w", s.EdgeMargin, ErrInvalidSettings)
	}
	return nil
}

// ValidateInputs checks a full set of engine inputs and returns every
// problem found, joined.
func ValidateInputs(materials []Material, pieces []CutPiece, settings ProjectSettings) error {
	var errs []error
	seenMaterials := make(map[string]bool, len(materials))
	for _, m := range materials {
		if seenMaterials[m.ID] {
			errs = append(errs, fmt.Errorf("material %q: %w", m.ID, ErrDuplicateID))
		}
		seenMaterials[m.ID] = true
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	seenPieces := make(map[string]bool, len(pieces))
	for _, p := range pieces {
		if seenPieces[p.ID] {
			errs = append(errs, fmt.Errorf("piece %q: %w", p.ID, ErrDuplicateID))
		}
		seenPieces[p.ID] = true
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := settings.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks the project's materials, pieces and settings.
func (p Project) Validate() error {
	return ValidateInputs(p.Materials, p.Pieces, p.Settings)
}
