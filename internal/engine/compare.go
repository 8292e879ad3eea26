package engine

import (
	"fmt"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string                `json:"name"`
	Settings model.ProjectSettings `json:"settings"`
}

// ComparisonResult holds the layout and computed statistics for a single
// scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario `json:"scenario"`
	Layout        model.CutLayout    `json:"layout"`
	SheetsUsed    int                `json:"sheetsUsed"`
	TotalCuts     int                `json:"totalCuts"`
	WastePercent  float64            `json:"wastePercent"`
	UnplacedCount int                `json:"unplacedCount"`
}

// CompareScenarios lays out the same materials and pieces under each
// scenario's settings. Results are in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, materials []model.Material, pieces []model.CutPiece) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		layout := New(scenario.Settings).Optimize(materials, pieces)
		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Layout:        layout,
			SheetsUsed:    len(layout.Sheets),
			TotalCuts:     layout.CutCount(),
			WastePercent:  layout.WastePercent(),
			UnplacedCount: len(layout.UnplacedPieces),
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives to the given
// settings by varying rotation, kerf and edge margin.
func BuildDefaultScenarios(base model.ProjectSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	rot := base
	rot.AllowRotation = !base.AllowRotation
	name := "Allow Rotation"
	if base.AllowRotation {
		name = "No Rotation"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: rot})

	// Thinner blade
	if base.SawKerf > 0 {
		half := base
		half.SawKerf = base.SawKerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %g (half)", half.SawKerf),
			Settings: half,
		})
	}

	if base.EdgeMargin > 0 {
		noMargin := base
		noMargin.EdgeMargin = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Edge Margin", Settings: noMargin})
	}

	return scenarios
}
