// Package export renders cut layouts to PDF diagrams, QR label sheets, DXF
// drawings, Excel cut lists and HTML charts.
package export

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/units"
)

// ErrNoSheets is returned when a layout has nothing to render.
var ErrNoSheets = errors.New("no sheets to export")

// catalog resolves the names of a project's pieces and materials and
// formats its lengths.
type catalog struct {
	project model.Project
}

func newCatalog(p model.Project) catalog {
	return catalog{project: p}
}

func (c catalog) pieceName(id string) string {
	if piece, ok := c.project.PieceByID(id); ok && piece.Name != "" {
		return piece.Name
	}
	return id
}

func (c catalog) materialName(id string) string {
	if m, ok := c.project.MaterialByID(id); ok && m.Name != "" {
		return m.Name
	}
	return id
}

func (c catalog) unit() model.UnitSystem {
	if c.project.Settings.UnitSystem == "" {
		return model.UnitImperial
	}
	return c.project.Settings.UnitSystem
}

// length formats a value already in the project's unit system.
func (c catalog) length(v float64) string {
	u := c.unit()
	return units.FormatDimension(units.ToMillimeters(v, u), u)
}

func (c catalog) size(w, h float64) string {
	return fmt.Sprintf("%s x %s", c.length(w), c.length(h))
}

// areaUnit names the squared unit for area figures.
func (c catalog) areaUnit() string {
	if c.unit() == model.UnitMetric {
		return "sq mm"
	}
	return "sq in"
}
