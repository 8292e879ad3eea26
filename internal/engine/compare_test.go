package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelCut/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	require.Len(t, scenarios, 4)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, model.DefaultSettings(), scenarios[0].Settings)

	assert.Equal(t, "No Rotation", scenarios[1].Name)
	assert.False(t, scenarios[1].Settings.AllowRotation)

	assert.Equal(t, "Kerf 0.0625 (half)", scenarios[2].Name)
	assert.Equal(t, 0.0625, scenarios[2].Settings.SawKerf)

	assert.Equal(t, "No Edge Margin", scenarios[3].Name)
	assert.Zero(t, scenarios[3].Settings.EdgeMargin)
	assert.Equal(t, 0.125, scenarios[3].Settings.SawKerf)
}

func TestBuildDefaultScenarios_MinimalBase(t *testing.T) {
	base := exactSettings()
	base.AllowRotation = false
	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "Allow Rotation", scenarios[1].Name)
	assert.True(t, scenarios[1].Settings.AllowRotation)
}

func TestCompareScenarios(t *testing.T) {
	pieces := []model.CutPiece{piece("long", "1", 300, 1500, 2), piece("sq", "1", 300, 300, 4)}
	scenarios := BuildDefaultScenarios(testSettings())

	results := CompareScenarios(scenarios, []model.Material{sheet4x8}, pieces)
	require.Len(t, results, len(scenarios))

	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)
		assert.Equal(t, len(r.Layout.Sheets), r.SheetsUsed)
		assert.Equal(t, r.Layout.CutCount(), r.TotalCuts)
		assert.InDelta(t, r.Layout.WastePercent(), r.WastePercent, 1e-9)
	}

	// The long piece only fits when turned
	assert.Equal(t, 0, results[0].UnplacedCount)
	assert.Equal(t, "No Rotation", results[1].Scenario.Name)
	assert.Equal(t, 1, results[1].UnplacedCount)
}
