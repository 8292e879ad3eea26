// Package engine lays out cut pieces on stock sheets with a greedy
// best-area-fit guillotine packer.
package engine

import (
	"sort"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Optimizer runs the packing algorithm with a fixed set of project settings.
type Optimizer struct {
	Settings model.ProjectSettings
}

func New(settings model.ProjectSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// Optimize lays out pieces on sheets of their materials.
func (o *Optimizer) Optimize(materials []model.Material, pieces []model.CutPiece) model.CutLayout {
	return Calculate(materials, pieces, o.Settings)
}

// Calculate produces a complete cut layout. Materials are processed in the
// order pieces first reference them, and sheet indexes run across all
// materials. Pieces that cannot be placed are listed once each in
// UnplacedPieces. Calculate never fails: bad input ends up unplaced.
//
// OptimizationPriority and CutType are not consulted.
func Calculate(materials []model.Material, pieces []model.CutPiece, settings model.ProjectSettings) model.CutLayout {
	groups, unplaced := expandPieces(materials, pieces, settings)

	var sheets []model.CutSheet
	for _, g := range groups {
		var groupUnplaced []string
		sheets, groupUnplaced = packGroup(g, settings, sheets)
		unplaced = append(unplaced, groupUnplaced...)
	}
	return buildLayout(sheets, unplaced)
}

// packGroup fills sheets of one material until every instance is placed or
// a fresh sheet accepts nothing. New sheets are appended to sheets, which
// also provides the next sheet index.
func packGroup(g materialGroup, settings model.ProjectSettings, sheets []model.CutSheet) ([]model.CutSheet, []string) {
	sheetWidth := g.material.SheetSize.Width
	sheetHeight := g.material.SheetSize.Length

	remaining := make([]pieceInstance, len(g.instances))
	copy(remaining, g.instances)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].area() > remaining[j].area()
	})

	var unplaced []string
	for len(remaining) > 0 {
		sheetIndex := len(sheets)
		res := packSheet(remaining, sheetWidth, sheetHeight, settings.SawKerf, settings.EdgeMargin, sheetIndex)
		if len(res.placed) == 0 {
			for _, inst := range remaining {
				unplaced = append(unplaced, inst.pieceID)
			}
			break
		}
		sheets = append(sheets, model.CutSheet{
			SheetIndex: sheetIndex,
			MaterialID: g.material.ID,
			Width:      sheetWidth,
			Height:     sheetHeight,
			Pieces:     res.placed,
			Cuts:       res.cuts,
		})
		remaining = res.remaining
	}
	return sheets, unplaced
}

// buildLayout totals the sheets and dedupes unplaced ids, keeping the first
// occurrence of each.
func buildLayout(sheets []model.CutSheet, unplaced []string) model.CutLayout {
	layout := model.CutLayout{
		Sheets:         sheets,
		UnplacedPieces: dedupe(unplaced),
	}
	if layout.Sheets == nil {
		layout.Sheets = []model.CutSheet{}
	}
	for _, s := range sheets {
		layout.TotalArea += s.TotalArea()
		layout.UsedArea += s.UsedArea()
	}
	layout.TotalWaste = layout.TotalArea - layout.UsedArea
	return layout
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
