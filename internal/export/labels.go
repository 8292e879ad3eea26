package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PanelCut/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	PieceID    string  `json:"pieceId"`
	Name       string  `json:"name"`
	Instance   int     `json:"instance"` // 1-based copy number
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	SheetIndex int     `json:"sheet"` // 1-based
	Material   string  `json:"material"`
	Rotated    bool    `json:"rotated"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos lists one label per placed piece in sheet order.
func CollectLabelInfos(layout model.CutLayout, project model.Project) []LabelInfo {
	cat := newCatalog(project)
	labels := []LabelInfo{}
	for _, sheet := range layout.Sheets {
		for _, p := range sheet.Pieces {
			labels = append(labels, LabelInfo{
				PieceID:    p.PieceID,
				Name:       cat.pieceName(p.PieceID),
				Instance:   p.InstanceIndex + 1,
				Width:      p.Width,
				Height:     p.Height,
				SheetIndex: sheet.SheetIndex + 1,
				Material:   cat.materialName(sheet.MaterialID),
				Rotated:    p.Rotated,
				X:          p.X,
				Y:          p.Y,
			})
		}
	}
	return labels
}

// ExportLabels writes the label sheets to path.
func ExportLabels(path string, layout model.CutLayout, project model.Project) error {
	pdf, err := buildLabels(layout, project)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteLabels writes a PDF of QR-coded labels for all placed pieces. Each
// label carries the piece name, size and sheet position, and a QR code
// encoding the LabelInfo as JSON. Labels are laid out on Avery 5160 sheets.
func WriteLabels(w io.Writer, layout model.CutLayout, project model.Project) error {
	pdf, err := buildLabels(layout, project)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildLabels(layout model.CutLayout, project model.Project) (*fpdf.Fpdf, error) {
	if len(layout.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	labels := CollectLabelInfos(layout, project)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no pieces placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	cat := newCatalog(project)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		x := labelMarginLeft + float64(posOnPage%labelCols)*labelWidth
		y := labelMarginTop + float64(posOnPage/labelCols)*labelHeight

		if err := renderLabel(pdf, tr, cat, x, y, i, label); err != nil {
			return nil, fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}
	return pdf, nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, cat catalog, x, y float64, n int, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", n)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := tr(info.Name)
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, tr(cat.size(info.Width, info.Height)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	sheetInfo := fmt.Sprintf("Sheet %d @ (%.1f, %.1f)", info.SheetIndex, info.X, info.Y)
	pdf.CellFormat(textW, 3, sheetInfo, "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return pdf.Error()
}
