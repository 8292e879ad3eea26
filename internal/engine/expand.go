package engine

import "github.com/piwi3910/PanelCut/internal/model"

// pieceInstance is one physical copy of a CutPiece awaiting placement.
// width and height are taken from the piece's width and length; rotation
// eligibility is decided once here and never re-evaluated.
type pieceInstance struct {
	pieceID       string
	instanceIndex int
	width         float64
	height        float64
	canRotate     bool
}

func (p pieceInstance) area() float64 {
	return p.width * p.height
}

// materialGroup holds the instances to be cut from a single material.
type materialGroup struct {
	material  model.Material
	instances []pieceInstance
}

// expandPieces turns pieces into per-instance work items grouped by material.
// Groups are ordered by the first piece that references each material.
// Pieces that reference an unknown material produce no instances and are
// returned as unplaced.
func expandPieces(materials []model.Material, pieces []model.CutPiece, settings model.ProjectSettings) ([]materialGroup, []string) {
	byID := make(map[string]model.Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}

	var groups []materialGroup
	groupIdx := make(map[string]int)
	var unplaced []string

	for _, p := range pieces {
		mat, ok := byID[p.MaterialID]
		if !ok {
			unplaced = append(unplaced, p.ID)
			continue
		}

		idx, seen := groupIdx[p.MaterialID]
		if !seen {
			idx = len(groups)
			groupIdx[p.MaterialID] = idx
			groups = append(groups, materialGroup{material: mat})
		}

		canRotate := settings.AllowRotation && !p.GrainDirection.Locked()
		for i := 0; i < p.Quantity; i++ {
			groups[idx].instances = append(groups[idx].instances, pieceInstance{
				pieceID:       p.ID,
				instanceIndex: i,
				width:         p.Dimensions.Width,
				height:        p.Dimensions.Length,
				canRotate:     canRotate,
			})
		}
	}
	return groups, unplaced
}
