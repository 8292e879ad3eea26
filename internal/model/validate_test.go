package model

import (
	"errors"
	"math"
	"testing"
)

func TestMaterialValidate(t *testing.T) {
	if err := NewMaterial("Ply", 96, 48).Validate(); err != nil {
		t.Errorf("expected valid material, got %v", err)
	}
	for _, m := range []Material{
		NewMaterial("Zero length", 0, 48),
		NewMaterial("Negative width", 96, -1),
		NewMaterial("Infinite", math.Inf(1), 48),
	} {
		if err := m.Validate(); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%s: expected ErrInvalidDimensions, got %v", m.Name, err)
		}
	}
}

func TestCutPieceValidate(t *testing.T) {
	if err := NewCutPiece("Zero qty", 10, 10, "unknown", 0).Validate(); err != nil {
		t.Errorf("zero quantity and unknown material are valid, got %v", err)
	}
	if err := NewCutPiece("Neg", 10, 10, "m", -1).Validate(); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := NewCutPiece("Flat", 10, 0, "m", 1).Validate(); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should be valid, got %v", err)
	}
	s.SawKerf = 0
	s.EdgeMargin = 0
	if err := s.Validate(); err != nil {
		t.Errorf("zero kerf and margin are valid, got %v", err)
	}
	s.SawKerf = -0.1
	if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
	s.SawKerf = 0
	s.EdgeMargin = math.NaN()
	if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings for NaN margin, got %v", err)
	}
}

func TestValidateInputsJoinsErrors(t *testing.T) {
	m := NewMaterial("Ply", 96, 48)
	bad := NewMaterial("Bad", 0, 0)
	piece := NewCutPiece("Side", 10, 10, m.ID, 1)
	settings := DefaultSettings()
	settings.SawKerf = -1

	err := ValidateInputs([]Material{m, m, bad}, []CutPiece{piece, piece}, settings)
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, target := range []error{ErrDuplicateID, ErrInvalidDimensions, ErrInvalidSettings} {
		if !errors.Is(err, target) {
			t.Errorf("expected joined error to contain %v", target)
		}
	}

	p := NewProject("ok")
	p.AddMaterial(m)
	p.AddPiece(piece)
	if err := p.Validate(); err != nil {
		t.Errorf("expected valid project, got %v", err)
	}
}
