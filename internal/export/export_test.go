package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
)

// buildTestProject returns a project and a two-sheet layout over it.
func buildTestProject() (model.Project, model.CutLayout) {
	p := model.NewProject("Bookcase")
	p.Materials = []model.Material{
		{ID: "ply", Name: "Birch Plywood", SheetSize: model.Dimensions{Length: 96, Width: 48}, CostPerSheet: 60},
		{ID: "mdf", Name: "MDF", SheetSize: model.Dimensions{Length: 48, Width: 48}},
	}
	p.Pieces = []model.CutPiece{
		{ID: "side", Name: "Side Panel", Dimensions: model.Dimensions{Length: 72, Width: 12}, MaterialID: "ply", Quantity: 2},
		{ID: "shelf", Name: "Shelf", Dimensions: model.Dimensions{Length: 11, Width: 30}, MaterialID: "ply", Quantity: 1},
		{ID: "back", Name: "Back", Dimensions: model.Dimensions{Length: 40, Width: 30}, MaterialID: "mdf", Quantity: 1},
		{ID: "huge", Name: "Too Big", Dimensions: model.Dimensions{Length: 200, Width: 100}, MaterialID: "mdf", Quantity: 1},
	}

	layout := model.CutLayout{
		Sheets: []model.CutSheet{
			{
				SheetIndex: 0, MaterialID: "ply", Width: 48, Height: 96,
				Pieces: []model.PlacedPiece{
					{PieceID: "side", InstanceIndex: 0, X: 0.25, Y: 0.25, Width: 12, Height: 72},
					{PieceID: "side", InstanceIndex: 1, X: 12.375, Y: 0.25, Width: 12, Height: 72},
					{PieceID: "shelf", InstanceIndex: 0, X: 24.5, Y: 0.25, Width: 11, Height: 30, Rotated: true},
				},
				Cuts: []model.CutInstruction{
					{Type: model.CutVertical, Position: 12.25, From: 0.25, To: 72.25},
					{Type: model.CutHorizontal, Position: 72.25, From: 0.25, To: 12.25},
				},
			},
			{
				SheetIndex: 1, MaterialID: "mdf", Width: 48, Height: 48,
				Pieces: []model.PlacedPiece{
					{PieceID: "back", InstanceIndex: 0, X: 0.25, Y: 0.25, Width: 30, Height: 40},
				},
				Cuts: []model.CutInstruction{
					{Type: model.CutVertical, Position: 30.25, From: 0.25, To: 47.75},
				},
			},
		},
		UnplacedPieces: []string{"huge"},
	}
	for _, s := range layout.Sheets {
		layout.TotalArea += s.TotalArea()
		layout.UsedArea += s.UsedArea()
	}
	layout.TotalWaste = layout.TotalArea - layout.UsedArea
	return p, layout
}

func requireFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportersRejectEmptyLayout(t *testing.T) {
	dir := t.TempDir()
	p, _ := buildTestProject()
	empty := model.CutLayout{Sheets: []model.CutSheet{}}

	checks := map[string]error{
		"pdf":    ExportPDF(filepath.Join(dir, "a.pdf"), empty, p),
		"labels": ExportLabels(filepath.Join(dir, "b.pdf"), empty, p),
		"dxf":    ExportDXF(filepath.Join(dir, "c.dxf"), empty, p),
		"xlsx":   ExportCutList(filepath.Join(dir, "d.xlsx"), empty, p),
		"chart":  WriteWasteChart(&discard{}, empty, p),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNoSheets) {
			t.Errorf("%s: expected ErrNoSheets, got %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "a.pdf")); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty layout")
	}
}

type discard struct{ n int }

func (d *discard) Write(b []byte) (int, error) {
	d.n += len(b)
	return len(b), nil
}

func TestCatalogFallsBackToIDs(t *testing.T) {
	p, _ := buildTestProject()
	cat := newCatalog(p)

	if got := cat.pieceName("side"); got != "Side Panel" {
		t.Errorf("expected 'Side Panel', got %q", got)
	}
	if got := cat.pieceName("ghost"); got != "ghost" {
		t.Errorf("expected id fallback, got %q", got)
	}
	if got := cat.materialName("mdf"); got != "MDF" {
		t.Errorf("expected 'MDF', got %q", got)
	}
	if got := cat.size(24.5, 12); got != "24 1/2\" x 12\"" {
		t.Errorf("unexpected imperial size %q", got)
	}

	p.Settings.UnitSystem = model.UnitMetric
	if got := newCatalog(p).size(600, 300); got != "600mm x 300mm" {
		t.Errorf("unexpected metric size %q", got)
	}
}
