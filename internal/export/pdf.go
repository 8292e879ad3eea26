package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PanelCut/internal/model"
)

// pieceColor represents an RGB color for a placed piece.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// pdfRenderer carries the document and the helpers shared by every page.
type pdfRenderer struct {
	pdf *fpdf.Fpdf
	cat catalog
	tr  func(string) string
}

// ExportPDF writes the layout diagram document to path.
func ExportPDF(path string, layout model.CutLayout, project model.Project) error {
	pdf, err := buildPDF(layout, project)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF writes the layout diagram document to w. Each sheet is rendered
// on its own page, followed by a summary page with overall statistics.
func WritePDF(w io.Writer, layout model.CutLayout, project model.Project) error {
	pdf, err := buildPDF(layout, project)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(layout model.CutLayout, project model.Project) (*fpdf.Fpdf, error) {
	if len(layout.Sheets) == 0 {
		return nil, ErrNoSheets
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(project.Name, true)
	pdf.SetAutoPageBreak(false, marginBottom)
	r := pdfRenderer{
		pdf: pdf,
		cat: newCatalog(project),
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}

	for _, sheet := range layout.Sheets {
		pdf.AddPage()
		r.sheetPage(sheet, project.Settings)
	}

	pdf.AddPage()
	r.summaryPage(layout, project)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf, nil
}

// sheetPage draws a single sheet on the current page.
func (r pdfRenderer) sheetPage(sheet model.CutSheet, settings model.ProjectSettings) {
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d: %s (%s)", sheet.SheetIndex+1, r.cat.materialName(sheet.MaterialID), r.cat.size(sheet.Width, sheet.Height))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, r.tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Cuts: %d | Used area: %.0f %s | Efficiency: %.1f%%",
		len(sheet.Pieces), len(sheet.Cuts), sheet.UsedArea(), r.cat.areaUnit(), sheet.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return
	}
	scale := math.Min(drawWidth/sheet.Width, drawHeight/sheet.Height)

	canvasW := sheet.Width * scale
	canvasH := sheet.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Stock sheet background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	r.marginBand(settings.EdgeMargin*scale, offsetX, offsetY, canvasW, canvasH)

	for i, p := range sheet.Pieces {
		col := pieceColors[i%len(pieceColors)]
		pw := p.Width * scale
		ph := p.Height * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := r.tr(r.cat.pieceName(p.PieceID))
			dims := r.tr(r.cat.size(p.Width, p.Height))
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	r.cutLines(sheet.Cuts, scale, offsetX, offsetY)
	r.dimensionAnnotations(sheet, offsetX, offsetY, canvasW, canvasH)
	r.legend(sheet, offsetY+canvasH+5)
}

// marginBand shades the edge margin that no piece may enter.
func (r pdfRenderer) marginBand(m, x, y, w, h float64) {
	if m <= 0 {
		return
	}
	pdf := r.pdf
	pdf.SetFillColor(230, 210, 180)
	zones := [][4]float64{
		{x, y, w, m},
		{x, y + h - m, w, m},
		{x, y + m, m, h - 2*m},
		{x + w - m, y + m, m, h - 2*m},
	}
	for _, z := range zones {
		if z[2] > 0 && z[3] > 0 {
			pdf.Rect(z[0], z[1], z[2], z[3], "F")
		}
	}
	drawHatchPattern(pdf, x, y, w, m)
	drawHatchPattern(pdf, x, y+h-m, w, m)
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(160, 120, 80)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h
	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// cutLines draws the advisory guillotine cuts as dashed red lines.
func (r pdfRenderer) cutLines(cuts []model.CutInstruction, scale, offsetX, offsetY float64) {
	if len(cuts) == 0 {
		return
	}
	pdf := r.pdf
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1.5, 1}, 0)
	for _, c := range cuts {
		pos := c.Position * scale
		from := c.From * scale
		to := c.To * scale
		if c.Type == model.CutHorizontal {
			pdf.Line(offsetX+from, offsetY+pos, offsetX+to, offsetY+pos)
		} else {
			pdf.Line(offsetX+pos, offsetY+from, offsetX+pos, offsetY+to)
		}
	}
	pdf.SetDashPattern([]float64{}, 0)
}

// dimensionAnnotations adds width and height labels outside the sheet rectangle.
func (r pdfRenderer) dimensionAnnotations(sheet model.CutSheet, offsetX, offsetY, canvasW, canvasH float64) {
	pdf := r.pdf
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := r.tr(r.cat.length(sheet.Width))
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := r.tr(r.cat.length(sheet.Height))
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// legend renders a compact list of placed pieces below the diagram.
func (r pdfRenderer) legend(sheet model.CutSheet, startY float64) {
	if len(sheet.Pieces) == 0 {
		return
	}
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range sheet.Pieces {
		col := pieceColors[i%len(pieceColors)]
		label := fmt.Sprintf("%s #%d (%s)", r.cat.pieceName(p.PieceID), p.InstanceIndex+1, r.cat.size(p.Width, p.Height))
		if p.Rotated {
			label += " R"
		}
		label = r.tr(label)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// summaryPage draws the final page with overall statistics.
func (r pdfRenderer) summaryPage(layout model.CutLayout, project model.Project) {
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, r.tr("Cut List Summary: "+project.Name), "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	usage := model.CalculateMaterialUsage(layout, project.Materials, r.cat.unit())
	summaryItems := []struct {
		label string
		value string
	}{
		{"Total Sheets Used", fmt.Sprintf("%d", len(layout.Sheets))},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", layout.Efficiency())},
		{"Waste", fmt.Sprintf("%.0f %s (%.1f%%)", layout.TotalWaste, r.cat.areaUnit(), layout.WastePercent())},
		{"Pieces Placed", fmt.Sprintf("%d", layout.PlacedCount())},
		{"Unplaced Pieces", fmt.Sprintf("%d", len(layout.UnplacedPieces))},
		{"Estimated Cost", fmt.Sprintf("%.2f", model.TotalCost(usage))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 70, 55, 30, 30, 40}
	headers := []string{"Sheet", "Material", "Dimensions", "Pieces", "Cuts", "Efficiency"}
	y = r.tableHeader(colWidths, headers, y)

	pdf.SetFont("Helvetica", "", 9)
	for i, sheet := range layout.Sheets {
		y = r.tableRow(colWidths, []string{
			fmt.Sprintf("%d", sheet.SheetIndex+1),
			r.cat.materialName(sheet.MaterialID),
			r.cat.size(sheet.Width, sheet.Height),
			fmt.Sprintf("%d", len(sheet.Pieces)),
			fmt.Sprintf("%d", len(sheet.Cuts)),
			fmt.Sprintf("%.1f%%", sheet.Efficiency()),
		}, i, y)
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
	}

	if len(layout.UnplacedPieces) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Pieces", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, id := range layout.UnplacedPieces {
			text := "- " + id
			if piece, ok := project.PieceByID(id); ok {
				text = fmt.Sprintf("- %s: %s (qty: %d)", piece.Name, r.cat.size(piece.Dimensions.Length, piece.Dimensions.Width), piece.Quantity)
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, r.tr(text), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cut Settings", "", 0, "L", false, 0, "")
	y += 9

	s := project.Settings
	settingsItems := []struct {
		label string
		value string
	}{
		{"Saw Kerf", r.cat.length(s.SawKerf)},
		{"Edge Margin", r.cat.length(s.EdgeMargin)},
		{"Rotation", map[bool]string{true: "Allowed", false: "Off"}[s.AllowRotation]},
		{"Units", string(r.cat.unit())},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, r.tr(item.value), "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PanelCut - Sheet Goods Cut List Optimizer", "", 0, "C", false, 0, "")
}

func (r pdfRenderer) tableHeader(widths []float64, headers []string, y float64) float64 {
	pdf := r.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 6
}

func (r pdfRenderer) tableRow(widths []float64, cells []string, row int, y float64) float64 {
	pdf := r.pdf
	if row%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	x := marginLeft
	for i, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, r.tr(cell), "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 6
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
