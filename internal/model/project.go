package model

import (
	"time"

	"github.com/google/uuid"
)

// Project ties materials, pieces and settings together for save/load.
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Materials []Material      `json:"materials"`
	Pieces    []CutPiece      `json:"pieces"`
	Settings  ProjectSettings `json:"settings"`
}

func NewProject(name string) Project {
	if name == "" {
		name = "New Project"
	}
	now := time.Now().UTC()
	return Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Materials: []Material{},
		Pieces:    []CutPiece{},
		Settings:  DefaultSettings(),
	}
}

func NewMaterial(name string, length, width float64) Material {
	return Material{
		ID:        uuid.New().String()[:8],
		Name:      name,
		SheetSize: Dimensions{Length: length, Width: width},
	}
}

func NewCutPiece(name string, length, width float64, materialID string, qty int) CutPiece {
	return CutPiece{
		ID:             uuid.New().String()[:8],
		Name:           name,
		Dimensions:     Dimensions{Length: length, Width: width},
		MaterialID:     materialID,
		Quantity:       qty,
		GrainDirection: GrainNone,
	}
}

func (p *Project) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// MaterialByID returns the material with the given id.
func (p *Project) MaterialByID(id string) (Material, bool) {
	for _, m := range p.Materials {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}

// PieceByID returns the piece with the given id.
func (p *Project) PieceByID(id string) (CutPiece, bool) {
	for _, piece := range p.Pieces {
		if piece.ID == id {
			return piece, true
		}
	}
	return CutPiece{}, false
}

func (p *Project) AddMaterial(m Material) {
	p.Materials = append(p.Materials, m)
	p.touch()
}

// UpdateMaterial applies fn to the material with the given id.
// Returns false if no such material exists.
func (p *Project) UpdateMaterial(id string, fn func(*Material)) bool {
	for i := range p.Materials {
		if p.Materials[i].ID == id {
			fn(&p.Materials[i])
			p.Materials[i].ID = id
			p.touch()
			return true
		}
	}
	return false
}

// RemoveMaterial removes a material by id. Pieces referencing it are kept
// and will be reported as unplaced by the engine.
func (p *Project) RemoveMaterial(id string) bool {
	for i, m := range p.Materials {
		if m.ID == id {
			p.Materials = append(p.Materials[:i], p.Materials[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

func (p *Project) AddPiece(piece CutPiece) {
	p.Pieces = append(p.Pieces, piece)
	p.touch()
}

// UpdatePiece applies fn to the piece with the given id.
// Returns false if no such piece exists.
func (p *Project) UpdatePiece(id string, fn func(*CutPiece)) bool {
	for i := range p.Pieces {
		if p.Pieces[i].ID == id {
			fn(&p.Pieces[i])
			p.Pieces[i].ID = id
			p.touch()
			return true
		}
	}
	return false
}

func (p *Project) RemovePiece(id string) bool {
	for i, piece := range p.Pieces {
		if piece.ID == id {
			p.Pieces = append(p.Pieces[:i], p.Pieces[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

func (p *Project) UpdateSettings(fn func(*ProjectSettings)) {
	fn(&p.Settings)
	p.touch()
}
