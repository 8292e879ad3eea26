package engine

import (
	"slices"

	"github.com/piwi3910/PanelCut/internal/model"
)

type rect struct {
	x, y, w, h float64
}

func (r rect) area() float64 {
	return r.w * r.h
}

// guillotinePacker fills one sheet. Free rectangles never overlap and are
// scanned in order, which is part of the placement tie-break.
type guillotinePacker struct {
	freeRects  []rect
	kerf       float64
	sheetIndex int
	placed     []model.PlacedPiece
	cuts       []model.CutInstruction
}

func newGuillotinePacker(sheetWidth, sheetHeight, kerf, margin float64, sheetIndex int) *guillotinePacker {
	gp := &guillotinePacker{
		kerf:       kerf,
		sheetIndex: sheetIndex,
		placed:     []model.PlacedPiece{},
		cuts:       []model.CutInstruction{},
	}
	usable := rect{x: margin, y: margin, w: sheetWidth - 2*margin, h: sheetHeight - 2*margin}
	if usable.w > 0 && usable.h > 0 {
		gp.freeRects = []rect{usable}
	}
	return gp
}

// fits reports whether a w x h orientation fits inside r. Non-positive
// sizes never fit.
func fits(w, h float64, r rect) bool {
	return w > 0 && h > 0 && w <= r.w && h <= r.h
}

// bestFit finds the free rectangle and orientation leaving the least area.
// Only a strictly smaller leftover replaces the current best, so earlier
// rectangles and the un-rotated orientation win ties. Returns -1 if the
// instance fits nowhere.
func (gp *guillotinePacker) bestFit(inst pieceInstance) (int, bool) {
	bestIdx := -1
	bestRotated := false
	var bestWaste float64

	for i, r := range gp.freeRects {
		if fits(inst.width, inst.height, r) {
			if waste := r.area() - inst.area(); bestIdx < 0 || waste < bestWaste {
				bestIdx, bestRotated, bestWaste = i, false, waste
			}
		}
		if inst.canRotate && fits(inst.height, inst.width, r) {
			if waste := r.area() - inst.area(); bestIdx < 0 || waste < bestWaste {
				bestIdx, bestRotated, bestWaste = i, true, waste
			}
		}
	}
	return bestIdx, bestRotated
}

// insert places the instance if any free rectangle can hold it.
func (gp *guillotinePacker) insert(inst pieceInstance) bool {
	idx, rotated := gp.bestFit(inst)
	if idx < 0 {
		return false
	}

	chosen := gp.freeRects[idx]
	gp.freeRects = slices.Delete(gp.freeRects, idx, idx+1)

	pw, ph := inst.width, inst.height
	if rotated {
		pw, ph = ph, pw
	}
	gp.placed = append(gp.placed, model.PlacedPiece{
		PieceID:       inst.pieceID,
		InstanceIndex: inst.instanceIndex,
		X:             chosen.x,
		Y:             chosen.y,
		Width:         pw,
		Height:        ph,
		Rotated:       rotated,
		SheetIndex:    gp.sheetIndex,
	})
	gp.split(chosen, pw, ph)
	return true
}

// split divides the leftover of r around a pw x ph piece at its top-left
// corner, reserving one kerf on the right and bottom. When both leftovers
// exist the larger one gets the full-length strip.
func (gp *guillotinePacker) split(r rect, pw, ph float64) {
	k := gp.kerf
	rightSpace := r.w - pw - k
	bottomSpace := r.h - ph - k
	cutX := r.x + pw + k/2
	cutY := r.y + ph + k/2

	switch {
	case rightSpace > 0 && bottomSpace > 0 && rightSpace >= bottomSpace:
		gp.freeRects = append(gp.freeRects,
			rect{x: r.x + pw + k, y: r.y, w: rightSpace, h: ph},
			rect{x: r.x, y: r.y + ph + k, w: r.w, h: bottomSpace},
		)
		gp.addCut(model.CutVertical, cutX, r.y, r.y+ph)
		gp.addCut(model.CutHorizontal, cutY, r.x, r.x+r.w)

	case rightSpace > 0 && bottomSpace > 0:
		gp.freeRects = append(gp.freeRects,
			rect{x: r.x, y: r.y + ph + k, w: pw, h: bottomSpace},
			rect{x: r.x + pw + k, y: r.y, w: rightSpace, h: r.h},
		)
		gp.addCut(model.CutHorizontal, cutY, r.x, r.x+pw)
		gp.addCut(model.CutVertical, cutX, r.y, r.y+r.h)

	case rightSpace > 0:
		gp.freeRects = append(gp.freeRects, rect{x: r.x + pw + k, y: r.y, w: rightSpace, h: r.h})
		gp.addCut(model.CutVertical, cutX, r.y, r.y+r.h)

	case bottomSpace > 0:
		gp.freeRects = append(gp.freeRects, rect{x: r.x, y: r.y + ph + k, w: r.w, h: bottomSpace})
		gp.addCut(model.CutHorizontal, cutY, r.x, r.x+r.w)
	}
}

func (gp *guillotinePacker) addCut(axis model.CutAxis, position, from, to float64) {
	gp.cuts = append(gp.cuts, model.CutInstruction{
		Type:       axis,
		Position:   position,
		From:       from,
		To:         to,
		SheetIndex: gp.sheetIndex,
	})
}

// packResult is the outcome of filling one sheet.
type packResult struct {
	placed    []model.PlacedPiece
	cuts      []model.CutInstruction
	remaining []pieceInstance
}

// packSheet places as many instances as possible, in the order given, on a
// single fresh sheet. Instances that fit nowhere are returned in their
// original relative order.
func packSheet(instances []pieceInstance, sheetWidth, sheetHeight, kerf, margin float64, sheetIndex int) packResult {
	gp := newGuillotinePacker(sheetWidth, sheetHeight, kerf, margin, sheetIndex)
	var remaining []pieceInstance
	for _, inst := range instances {
		if !gp.insert(inst) {
			remaining = append(remaining, inst)
		}
	}
	return packResult{placed: gp.placed, cuts: gp.cuts, remaining: remaining}
}
