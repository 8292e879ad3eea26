package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PanelCut/internal/model"
)

// MergeLayouts concatenates layouts in order. Sheets are renumbered so the
// indexes on sheets, pieces and cuts run from zero across the result.
func MergeLayouts(layouts ...model.CutLayout) model.CutLayout {
	var sheets []model.CutSheet
	var unplaced []string
	for _, l := range layouts {
		for _, s := range l.Sheets {
			sheets = append(sheets, reindexSheet(s, len(sheets)))
		}
		unplaced = append(unplaced, l.UnplacedPieces...)
	}
	return buildLayout(sheets, unplaced)
}

func reindexSheet(s model.CutSheet, index int) model.CutSheet {
	out := s
	out.SheetIndex = index
	out.Pieces = make([]model.PlacedPiece, len(s.Pieces))
	for i, p := range s.Pieces {
		p.SheetIndex = index
		out.Pieces[i] = p
	}
	out.Cuts = make([]model.CutInstruction, len(s.Cuts))
	for i, c := range s.Cuts {
		c.SheetIndex = index
		out.Cuts[i] = c
	}
	return out
}

// CalculateParallel packs each material concurrently and merges the results
// in material order. The layout is identical to Calculate's. It returns
// ctx.Err() if ctx is cancelled before all materials are packed.
func CalculateParallel(ctx context.Context, materials []model.Material, pieces []model.CutPiece, settings model.ProjectSettings) (model.CutLayout, error) {
	groups, unplaced := expandPieces(materials, pieces, settings)

	parts := make([]model.CutLayout, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	for i, group := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sheets, groupUnplaced := packGroup(group, settings, nil)
			parts[i] = model.CutLayout{Sheets: sheets, UnplacedPieces: groupUnplaced}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.CutLayout{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.CutLayout{}, err
	}

	merged := MergeLayouts(append([]model.CutLayout{{UnplacedPieces: unplaced}}, parts...)...)
	return merged, nil
}
