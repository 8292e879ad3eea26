package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Workbook sheet names.
const (
	SheetSummary    = "Summary"
	SheetPlacements = "Placements"
	SheetCuts       = "Cuts"
)

// ExportCutList writes the cut list workbook to path.
func ExportCutList(path string, layout model.CutLayout, project model.Project) error {
	f, err := BuildCutList(layout, project)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteCutList writes the cut list workbook to w.
func WriteCutList(w io.Writer, layout model.CutLayout, project model.Project) error {
	f, err := BuildCutList(layout, project)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildCutList creates a workbook with a per-material summary, every
// placement and every advisory cut.
func BuildCutList(layout model.CutLayout, project model.Project) (*excelize.File, error) {
	if len(layout.Sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetPlacements, SheetCuts} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	cat := newCatalog(project)
	w := sheetWriter{f: f, headerStyle: headerStyle}

	usage := model.CalculateMaterialUsage(layout, project.Materials, cat.unit())
	w.header(SheetSummary, "Material", "Sheets Used", "On Hand", "To Buy", "Pieces", "Efficiency %", "Board Feet", "Cost / Sheet", "Estimated Cost")
	for i, u := range usage {
		var onHand any = ""
		if u.SheetsOnHand != nil {
			onHand = *u.SheetsOnHand
		}
		w.row(SheetSummary, i+2, u.MaterialName, u.SheetsUsed, onHand, u.SheetsShort, u.PiecesPlaced,
			round1(u.Efficiency), round1(u.BoardFeet), u.CostPerSheet, u.EstimatedCost)
	}
	totalRow := len(usage) + 3
	w.row(SheetSummary, totalRow, "Total", len(layout.Sheets), "", "", layout.PlacedCount(),
		round1(layout.Efficiency()), "", "", model.TotalCost(usage))
	w.row(SheetSummary, totalRow+1, "Unplaced", len(layout.UnplacedPieces))
	for i, id := range layout.UnplacedPieces {
		w.row(SheetSummary, totalRow+2+i, "", cat.pieceName(id))
	}

	w.header(SheetPlacements, "Sheet", "Material", "Piece", "Copy", "X", "Y", "Width", "Height", "Rotated")
	row := 2
	for _, sheet := range layout.Sheets {
		for _, p := range sheet.Pieces {
			w.row(SheetPlacements, row, sheet.SheetIndex+1, cat.materialName(sheet.MaterialID), cat.pieceName(p.PieceID),
				p.InstanceIndex+1, p.X, p.Y, p.Width, p.Height, p.Rotated)
			row++
		}
	}

	w.header(SheetCuts, "Sheet", "Direction", "Position", "From", "To", "Length")
	row = 2
	for _, sheet := range layout.Sheets {
		for _, c := range sheet.Cuts {
			w.row(SheetCuts, row, sheet.SheetIndex+1, string(c.Type), c.Position, c.From, c.To, c.Length())
			row++
		}
	}

	if w.err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to build workbook: %w", w.err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// sheetWriter remembers the first cell error so rows can be written
// without checking each one.
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) header(sheet string, titles ...string) {
	if w.err != nil {
		return
	}
	for i, t := range titles {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		cell := fmt.Sprintf("%s1", col)
		if err := w.f.SetCellValue(sheet, cell, t); err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellStyle(sheet, cell, cell, w.headerStyle); err != nil {
			w.err = err
			return
		}
		if err := w.f.SetColWidth(sheet, col, col, 14); err != nil {
			w.err = err
			return
		}
	}
}

func (w *sheetWriter) row(sheet string, row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = err
	}
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
