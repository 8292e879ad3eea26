package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/PanelCut/internal/model"
)

// DXF layer names.
const (
	LayerSheets = "SHEETS"
	LayerPieces = "PIECES"
	LayerCuts   = "CUTS"
	LayerText   = "TEXT"
)

// sheetGap separates consecutive sheets along X, as a share of the widest sheet.
const sheetGap = 0.1

// ExportDXF writes every sheet to a DXF drawing, side by side along X.
// Outlines, pieces and cut lines are on separate layers so a CAM tool can
// choose what to machine. DXF Y grows upward, so sheet coordinates are
// flipped.
func ExportDXF(path string, layout model.CutLayout, project model.Project) error {
	if len(layout.Sheets) == 0 {
		return ErrNoSheets
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerSheets, color.White},
		{LayerPieces, color.Green},
		{LayerCuts, color.Red},
		{LayerText, color.Cyan},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	cat := newCatalog(project)
	maxWidth := 0.0
	for _, s := range layout.Sheets {
		maxWidth = max(maxWidth, s.Width)
	}

	offsetX := 0.0
	for _, sheet := range layout.Sheets {
		if err := drawSheet(d, cat, sheet, offsetX); err != nil {
			return fmt.Errorf("failed to draw sheet %d: %w", sheet.SheetIndex+1, err)
		}
		offsetX += sheet.Width + maxWidth*sheetGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func drawSheet(d *drawing.Drawing, cat catalog, sheet model.CutSheet, offsetX float64) error {
	h := sheet.Height
	// flip converts a top-left sheet point to drawing space
	flip := func(x, y float64) (float64, float64) {
		return offsetX + x, h - y
	}

	if err := d.ChangeLayer(LayerSheets); err != nil {
		return err
	}
	if err := rectangle(d, flip, 0, 0, sheet.Width, sheet.Height); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerPieces); err != nil {
		return err
	}
	for _, p := range sheet.Pieces {
		if err := rectangle(d, flip, p.X, p.Y, p.Width, p.Height); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerCuts); err != nil {
		return err
	}
	for _, c := range sheet.Cuts {
		var x1, y1, x2, y2 float64
		if c.Type == model.CutHorizontal {
			x1, y1 = flip(c.From, c.Position)
			x2, y2 = flip(c.To, c.Position)
		} else {
			x1, y1 = flip(c.Position, c.From)
			x2, y2 = flip(c.Position, c.To)
		}
		if _, err := d.Line(x1, y1, 0, x2, y2, 0); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerText); err != nil {
		return err
	}
	textHeight := max(sheet.Height/60, 0.1)
	tx, ty := flip(0, -textHeight)
	title := fmt.Sprintf("Sheet %d %s", sheet.SheetIndex+1, cat.materialName(sheet.MaterialID))
	if _, err := d.Text(title, tx, ty, 0, textHeight); err != nil {
		return err
	}
	for _, p := range sheet.Pieces {
		px, py := flip(p.X+textHeight/2, p.Y+p.Height/2)
		if _, err := d.Text(cat.pieceName(p.PieceID), px, py, 0, textHeight/2); err != nil {
			return err
		}
	}
	return nil
}

func rectangle(d *drawing.Drawing, flip func(x, y float64) (float64, float64), x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		x1, y1 := flip(a[0], a[1])
		x2, y2 := flip(b[0], b[1])
		if _, err := d.Line(x1, y1, 0, x2, y2, 0); err != nil {
			return err
		}
	}
	return nil
}
