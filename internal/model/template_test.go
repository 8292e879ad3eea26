package model

import (
	"testing"
)

func templateSource() Project {
	p := NewProject("Cabinet")
	ply := NewMaterial("Plywood", 96, 48)
	mdf := NewMaterial("MDF", 96, 48)
	p.AddMaterial(ply)
	p.AddMaterial(mdf)
	p.AddPiece(NewCutPiece("Side", 30, 12, ply.ID, 2))
	p.AddPiece(NewCutPiece("Back", 30, 24, mdf.ID, 1))
	p.AddPiece(NewCutPiece("Orphan", 10, 10, "gone", 1))
	p.Settings.SawKerf = 0.25
	return p
}

func TestNewProjectTemplate(t *testing.T) {
	src := templateSource()
	tmpl := NewProjectTemplate("Base cabinet", "Standard carcass", src)

	if tmpl.Name != "Base cabinet" {
		t.Errorf("expected name 'Base cabinet', got %q", tmpl.Name)
	}
	if tmpl.ID == "" {
		t.Error("expected non-empty ID")
	}
	if tmpl.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if len(tmpl.Materials) != 2 || len(tmpl.Pieces) != 3 {
		t.Errorf("expected 2 materials and 3 pieces, got %d and %d", len(tmpl.Materials), len(tmpl.Pieces))
	}

	// Template must not alias the project's slices
	src.Pieces[0].Name = "Changed"
	if tmpl.Pieces[0].Name != "Side" {
		t.Errorf("template shares piece storage with project")
	}
}

func TestNewProjectTemplateDefaultsName(t *testing.T) {
	tmpl := NewProjectTemplate("", "", templateSource())
	if tmpl.Name != "Cabinet" {
		t.Errorf("expected name to default to project name, got %q", tmpl.Name)
	}
}

func TestProjectTemplate_ToProject(t *testing.T) {
	src := templateSource()
	tmpl := NewProjectTemplate("Base cabinet", "", src)
	proj := tmpl.ToProject("Kitchen")

	if proj.Name != "Kitchen" {
		t.Errorf("expected project name 'Kitchen', got %q", proj.Name)
	}
	if proj.ID == src.ID {
		t.Error("expected a fresh project ID")
	}
	if proj.Settings.SawKerf != 0.25 {
		t.Errorf("expected kerf 0.25, got %v", proj.Settings.SawKerf)
	}
	if len(proj.Materials) != 2 || len(proj.Pieces) != 3 {
		t.Fatalf("expected 2 materials and 3 pieces, got %d and %d", len(proj.Materials), len(proj.Pieces))
	}

	for i, m := range proj.Materials {
		if m.ID == src.Materials[i].ID {
			t.Errorf("material %d kept its template ID", i)
		}
	}
	if proj.Pieces[0].MaterialID != proj.Materials[0].ID {
		t.Errorf("piece 0 should reference new plywood id %q, got %q", proj.Materials[0].ID, proj.Pieces[0].MaterialID)
	}
	if proj.Pieces[1].MaterialID != proj.Materials[1].ID {
		t.Errorf("piece 1 should reference new MDF id %q, got %q", proj.Materials[1].ID, proj.Pieces[1].MaterialID)
	}
	if proj.Pieces[2].MaterialID != "gone" {
		t.Errorf("unknown material reference should be kept, got %q", proj.Pieces[2].MaterialID)
	}
}

func TestTemplateStore(t *testing.T) {
	ts := NewTemplateStore()
	a := NewProjectTemplate("Shelf", "", templateSource())
	b := NewProjectTemplate("Drawer", "", templateSource())
	ts.Add(a)
	ts.Add(b)

	if got := ts.FindByID(b.ID); got == nil || got.Name != "Drawer" {
		t.Errorf("FindByID did not return Drawer")
	}
	if got := ts.FindByName("shelf"); got == nil || got.ID != a.ID {
		t.Errorf("FindByName should match case-insensitively")
	}
	if ts.FindByID("missing") != nil {
		t.Error("expected nil for missing template")
	}
	if !ts.Remove(a.ID) {
		t.Fatal("expected Remove to succeed")
	}
	if ts.Remove(a.ID) {
		t.Error("second Remove should report false")
	}
	if len(ts.Templates) != 1 {
		t.Errorf("expected 1 template left, got %d", len(ts.Templates))
	}
}
