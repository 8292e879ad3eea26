// Package model defines the data types shared by the packing engine and the
// application around it. All lengths in a project are expressed in its
// UnitSystem and all areas in that unit squared.
package model

// GrainDirection represents the grain direction constraint for a piece.
// Any direction other than none locks the piece's orientation.
type GrainDirection string

const (
	GrainNone       GrainDirection = "none"       // No grain constraint, can rotate freely
	GrainLengthwise GrainDirection = "lengthwise" // Grain runs along the piece length
	GrainWidthwise  GrainDirection = "widthwise"  // Grain runs along the piece width
)

func (g GrainDirection) String() string {
	switch g {
	case GrainLengthwise:
		return "Lengthwise"
	case GrainWidthwise:
		return "Widthwise"
	default:
		return "None"
	}
}

// Locked reports whether the grain forbids rotating the piece.
// The empty value is treated as GrainNone.
func (g GrainDirection) Locked() bool {
	return g != GrainNone && g != ""
}

// UnitSystem selects how dimensions are entered and displayed.
type UnitSystem string

const (
	UnitImperial UnitSystem = "imperial" // inches
	UnitMetric   UnitSystem = "metric"   // millimetres
)

// MillimetersPerUnit returns the length of one unit in millimetres.
func (u UnitSystem) MillimetersPerUnit() float64 {
	if u == UnitMetric {
		return 1
	}
	return 25.4
}

// OptimizationPriority is carried in project settings for the application.
// The packer does not currently branch on it.
type OptimizationPriority string

const (
	PriorityMinimizeSheets OptimizationPriority = "minimizeSheets"
	PriorityMinimizeWaste  OptimizationPriority = "minimizeWaste"
)

// CutType is carried in project settings for the application. Only
// guillotine layouts are produced.
type CutType string

const (
	CutTypeGuillotine CutType = "guillotine"
	CutTypeNesting    CutType = "nesting"
)

// Dimensions is a length x width pair.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// Area returns length * width.
func (d Dimensions) Area() float64 {
	return d.Length * d.Width
}

// Material is a stock sheet type that pieces are cut from.
type Material struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	SheetSize      Dimensions `json:"sheetSize"`
	CostPerSheet   float64    `json:"costPerSheet,omitempty"`
	QuantityOnHand *int       `json:"quantityOnHand,omitempty"` // nil when stock is not tracked
}

// CutPiece represents a required piece to be cut.
type CutPiece struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Dimensions     Dimensions     `json:"dimensions"`
	MaterialID     string         `json:"materialId"`
	Quantity       int            `json:"quantity"`
	GrainDirection GrainDirection `json:"grainDirection"`
	Notes          string         `json:"notes,omitempty"`
}

// ProjectSettings holds the options a project is cut with. Only SawKerf,
// AllowRotation and EdgeMargin influence the layout.
type ProjectSettings struct {
	UnitSystem           UnitSystem           `json:"unitSystem"`
	SawKerf              float64              `json:"sawKerf"`       // Blade width reserved between neighbours
	AllowRotation        bool                 `json:"allowRotation"` // Global rotation switch, grain still wins
	OptimizationPriority OptimizationPriority `json:"optimizationPriority"`
	CutType              CutType              `json:"cutType"`
	EdgeMargin           float64              `json:"edgeMargin"` // Unusable border around each sheet
}

func DefaultSettings() ProjectSettings {
	return ProjectSettings{
		UnitSystem:           UnitImperial,
		SawKerf:              0.125,
		AllowRotation:        true,
		OptimizationPriority: PriorityMinimizeSheets,
		CutType:              CutTypeGuillotine,
		EdgeMargin:           0.25,
	}
}

// PlacedPiece is one instance of a piece positioned on a sheet.
type PlacedPiece struct {
	PieceID       string  `json:"pieceId"`
	InstanceIndex int     `json:"instanceIndex"`
	X             float64 `json:"x"`      // Distance from the left sheet edge
	Y             float64 `json:"y"`      // Distance from the top sheet edge
	Width         float64 `json:"width"`  // Placed width, already swapped when rotated
	Height        float64 `json:"height"` // Placed height, already swapped when rotated
	Rotated       bool    `json:"rotated"`
	SheetIndex    int     `json:"sheetIndex"`
}

// Area returns the placed area.
func (p PlacedPiece) Area() float64 {
	return p.Width * p.Height
}

// CutAxis is the orientation of a cut line.
type CutAxis string

const (
	CutHorizontal CutAxis = "horizontal" // Runs along X at a fixed Y
	CutVertical   CutAxis = "vertical"   // Runs along Y at a fixed X
)

// CutInstruction is an advisory cut line used for diagrams. Position is
// the fixed coordinate; From and To bound the line on the other axis.
type CutInstruction struct {
	Type       CutAxis `json:"type"`
	Position   float64 `json:"position"`
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	SheetIndex int     `json:"sheetIndex"`
}

// Length returns the span of the cut line.
func (c CutInstruction) Length() float64 {
	return c.To - c.From
}

// CutSheet is one stock sheet with its placed pieces.
type CutSheet struct {
	SheetIndex int              `json:"sheetIndex"`
	MaterialID string           `json:"materialId"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Pieces     []PlacedPiece    `json:"pieces"`
	Cuts       []CutInstruction `json:"cuts"`
}

// TotalArea returns the sheet area.
func (s CutSheet) TotalArea() float64 {
	return s.Width * s.Height
}

// UsedArea returns the total area covered by placed pieces.
func (s CutSheet) UsedArea() float64 {
	var total float64
	for _, p := range s.Pieces {
		total += p.Area()
	}
	return total
}

// WasteArea returns the sheet area not covered by pieces.
func (s CutSheet) WasteArea() float64 {
	return s.TotalArea() - s.UsedArea()
}

// Efficiency returns the usage percentage.
func (s CutSheet) Efficiency() float64 {
	ta := s.TotalArea()
	if ta <= 0 {
		return 0
	}
	return (s.UsedArea() / ta) * 100.0
}

// CutLayout is the complete result of one packing run.
type CutLayout struct {
	Sheets         []CutSheet `json:"sheets"`
	UnplacedPieces []string   `json:"unplacedPieces"` // Piece ids, each listed once
	TotalWaste     float64    `json:"totalWaste"`
	TotalArea      float64    `json:"totalArea"`
	UsedArea       float64    `json:"usedArea"`
}

// Efficiency returns overall material usage percentage.
func (l CutLayout) Efficiency() float64 {
	if l.TotalArea <= 0 {
		return 0
	}
	return (l.UsedArea / l.TotalArea) * 100.0
}

// WastePercent returns the share of sheet area that is waste.
func (l CutLayout) WastePercent() float64 {
	if l.TotalArea <= 0 {
		return 0
	}
	return (l.TotalWaste / l.TotalArea) * 100.0
}

// PlacedCount returns the number of placed piece instances.
func (l CutLayout) PlacedCount() int {
	n := 0
	for _, s := range l.Sheets {
		n += len(s.Pieces)
	}
	return n
}

// CutCount returns the number of advisory cut lines across all sheets.
func (l CutLayout) CutCount() int {
	n := 0
	for _, s := range l.Sheets {
		n += len(s.Cuts)
	}
	return n
}

// SheetsForMaterial returns how many sheets of the given material were used.
func (l CutLayout) SheetsForMaterial(materialID string) int {
	n := 0
	for _, s := range l.Sheets {
		if s.MaterialID == materialID {
			n++
		}
	}
	return n
}
