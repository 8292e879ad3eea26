package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate captures a project's materials, pieces and settings so
// the same cut list can be started again with fresh IDs.
type ProjectTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	Materials   []Material      `json:"materials"`
	Pieces      []CutPiece      `json:"pieces"`
	Settings    ProjectSettings `json:"settings"`
}

// NewProjectTemplate copies the materials, pieces and settings of p.
func NewProjectTemplate(name, description string, p Project) ProjectTemplate {
	if name == "" {
		name = p.Name
	}
	return ProjectTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		Materials:   append([]Material{}, p.Materials...),
		Pieces:      append([]CutPiece{}, p.Pieces...),
		Settings:    p.Settings,
	}
}

// ToProject creates a new Project from this template. Materials and pieces
// get fresh IDs and piece material references are remapped to match.
func (t ProjectTemplate) ToProject(projectName string) Project {
	p := NewProject(projectName)
	p.Settings = t.Settings

	remap := make(map[string]string, len(t.Materials))
	for _, m := range t.Materials {
		nm := m
		nm.ID = uuid.New().String()[:8]
		if m.QuantityOnHand != nil {
			qty := *m.QuantityOnHand
			nm.QuantityOnHand = &qty
		}
		remap[m.ID] = nm.ID
		p.Materials = append(p.Materials, nm)
	}

	for _, piece := range t.Pieces {
		np := piece
		np.ID = uuid.New().String()[:8]
		if id, ok := remap[piece.MaterialID]; ok {
			np.MaterialID = id
		}
		p.Pieces = append(p.Pieces, np)
	}
	return p
}

// TemplateStore holds a collection of project templates.
type TemplateStore struct {
	Templates []ProjectTemplate `json:"templates"`
}

func NewTemplateStore() TemplateStore {
	return TemplateStore{Templates: []ProjectTemplate{}}
}

func (ts *TemplateStore) Add(t ProjectTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template whose name matches,
// ignoring case, or nil.
func (ts *TemplateStore) FindByName(name string) *ProjectTemplate {
	for i := range ts.Templates {
		if strings.EqualFold(ts.Templates[i].Name, name) {
			return &ts.Templates[i]
		}
	}
	return nil
}
