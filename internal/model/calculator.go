package model

// MaterialUsage summarises how much of one material a layout consumes.
type MaterialUsage struct {
	MaterialID    string  `json:"materialId"`
	MaterialName  string  `json:"materialName"`
	SheetsUsed    int     `json:"sheetsUsed"`
	SheetsOnHand  *int    `json:"sheetsOnHand,omitempty"` // nil when stock is not tracked
	SheetsShort   int     `json:"sheetsShort"`            // Sheets to buy beyond what is on hand
	PiecesPlaced  int     `json:"piecesPlaced"`
	UsedArea      float64 `json:"usedArea"`
	TotalArea     float64 `json:"totalArea"`
	Efficiency    float64 `json:"efficiency"`    // Percent of sheet area covered by pieces
	BoardFeet     float64 `json:"boardFeet"`     // Piece area in board feet at 1" thickness
	CostPerSheet  float64 `json:"costPerSheet"`  // 0 if no price is set
	EstimatedCost float64 `json:"estimatedCost"` // SheetsUsed * CostPerSheet
	PurchaseCost  float64 `json:"purchaseCost"`  // SheetsShort * CostPerSheet
}

// sqmmPerBoardFoot is the number of square millimeters in one board foot.
// 1 board foot = 12" x 12" x 1" (area) = 144 sq inches = 144 * 645.16 sq mm = 92903.04 sq mm.
const sqmmPerBoardFoot = 92903.04

// CalculateMaterialUsage computes per-material consumption for a layout, in
// the order materials are given. Materials without sheets in the layout are
// included with zero usage. unit is the system the layout is measured in.
func CalculateMaterialUsage(layout CutLayout, materials []Material, unit UnitSystem) []MaterialUsage {
	mpu := unit.MillimetersPerUnit()
	usage := make([]MaterialUsage, 0, len(materials))
	for _, m := range materials {
		u := MaterialUsage{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			SheetsOnHand: m.QuantityOnHand,
			CostPerSheet: m.CostPerSheet,
			SheetsUsed:   layout.SheetsForMaterial(m.ID),
		}
		for _, s := range layout.Sheets {
			if s.MaterialID != m.ID {
				continue
			}
			u.PiecesPlaced += len(s.Pieces)
			u.UsedArea += s.UsedArea()
			u.TotalArea += s.TotalArea()
		}
		if u.TotalArea > 0 {
			u.Efficiency = (u.UsedArea / u.TotalArea) * 100.0
		}
		u.BoardFeet = u.UsedArea * mpu * mpu / sqmmPerBoardFoot
		if m.QuantityOnHand != nil && u.SheetsUsed > *m.QuantityOnHand {
			u.SheetsShort = u.SheetsUsed - *m.QuantityOnHand
		}
		u.EstimatedCost = float64(u.SheetsUsed) * m.CostPerSheet
		u.PurchaseCost = float64(u.SheetsShort) * m.CostPerSheet
		usage = append(usage, u)
	}
	return usage
}

// TotalCost returns the summed estimated cost of all usage entries.
func TotalCost(usage []MaterialUsage) float64 {
	var total float64
	for _, u := range usage {
		total += u.EstimatedCost
	}
	return total
}
