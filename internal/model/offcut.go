package model

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Offcut represents a usable rectangular remnant area left over after cutting.
type Offcut struct {
	ID           string  `json:"id"`
	MaterialID   string  `json:"materialId"`
	SheetIndex   int     `json:"sheetIndex"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	CostFraction float64 `json:"costFraction"` // Share of the sheet price proportional to area
}

// Area returns the area of the offcut.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// ToMaterial converts an offcut into a material entry so the remnant can be
// stocked and cut from in a later project.
func (o Offcut) ToMaterial(source Material) Material {
	m := NewMaterial("Offcut "+source.Name, o.Height, o.Width)
	m.CostPerSheet = o.CostFraction
	one := 1
	m.QuantityOnHand = &one
	return m
}

// MinOffcutDimension is the minimum width or height (in mm) for a remnant
// to be considered a usable offcut. Remnants smaller than this are waste.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area (in sq mm) for a remnant to be considered usable.
const MinOffcutArea = 10000.0 // 100mm x 100mm equivalent

// DetectOffcuts finds the remnant strips to the right of and below the
// extent of all placed pieces, inside the edge margin. Minimum sizes are
// scaled to the settings' unit system. Results are sorted by area, largest
// first.
func DetectOffcuts(sheet CutSheet, settings ProjectSettings) []Offcut {
	kerf, margin := settings.SawKerf, settings.EdgeMargin
	mpu := settings.UnitSystem.MillimetersPerUnit()
	minDim := MinOffcutDimension / mpu
	minArea := MinOffcutArea / (mpu * mpu)
	usableOffcut := func(w, h float64) bool {
		return w >= minDim && h >= minDim && w*h >= minArea
	}

	right := sheet.Width - margin
	bottom := sheet.Height - margin
	if right-margin <= 0 || bottom-margin <= 0 {
		return nil
	}

	newOffcut := func(x, y, w, h float64) Offcut {
		return Offcut{
			ID:         uuid.New().String()[:8],
			MaterialID: sheet.MaterialID,
			SheetIndex: sheet.SheetIndex,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
		}
	}

	var offcuts []Offcut
	if len(sheet.Pieces) == 0 {
		if usableOffcut(right-margin, bottom-margin) {
			offcuts = append(offcuts, newOffcut(margin, margin, right-margin, bottom-margin))
		}
		return offcuts
	}

	maxPartRight, maxPartBottom := margin, margin
	for _, p := range sheet.Pieces {
		maxPartRight = math.Max(maxPartRight, p.X+p.Width+kerf)
		maxPartBottom = math.Max(maxPartBottom, p.Y+p.Height+kerf)
	}
	maxPartRight = math.Min(maxPartRight, right)
	maxPartBottom = math.Min(maxPartBottom, bottom)

	// Right strip spans the full usable height
	if w, h := right-maxPartRight, bottom-margin; usableOffcut(w, h) {
		offcuts = append(offcuts, newOffcut(maxPartRight, margin, w, h))
	}
	// Bottom strip stops at the right strip so the two never overlap
	if w, h := maxPartRight-margin, bottom-maxPartBottom; usableOffcut(w, h) {
		offcuts = append(offcuts, newOffcut(margin, maxPartBottom, w, h))
	}

	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

// DetectAllOffcuts finds offcuts across all sheets in a layout and prices
// them from their material's sheet cost.
func DetectAllOffcuts(layout CutLayout, materials []Material, settings ProjectSettings) []Offcut {
	costs := make(map[string]float64, len(materials))
	for _, m := range materials {
		costs[m.ID] = m.CostPerSheet
	}

	var all []Offcut
	for _, sheet := range layout.Sheets {
		offcuts := DetectOffcuts(sheet, settings)
		if price := costs[sheet.MaterialID]; price > 0 && sheet.TotalArea() > 0 {
			for i := range offcuts {
				offcuts[i].CostFraction = (offcuts[i].Area() / sheet.TotalArea()) * price
			}
		}
		all = append(all, offcuts...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
