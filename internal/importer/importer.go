// Package importer provides CSV and Excel import functionality for cut
// lists. It supports automatic delimiter detection, flexible column mapping,
// case-insensitive header recognition and dimensions written in either unit
// system.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/units"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Pieces   []model.CutPiece `json:"pieces"`
	Errors   []string         `json:"errors"`
	Warnings []string         `json:"warnings"`
}

// Options controls how cells are interpreted.
type Options struct {
	// Unit is the system dimension cells are written in and the system the
	// resulting pieces are expressed in.
	Unit model.UnitSystem
	// Materials are matched against the material column by id or name.
	Materials []model.Material
	// DefaultMaterialID is used when the material cell is empty or unknown.
	// Defaults to the first of Materials.
	DefaultMaterialID string
}

func (o Options) defaultMaterial() string {
	if o.DefaultMaterialID != "" {
		return o.DefaultMaterialID
	}
	if len(o.Materials) > 0 {
		return o.Materials[0].ID
	}
	return ""
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Length   int
	Width    int
	Quantity int
	Material int
	Grain    int
	Notes    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "label", "part", "part name", "description", "desc", "piece", "item"},
	"length":   {"length", "len", "l", "height", "h", "y"},
	"width":    {"width", "w", "depth", "d", "x"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"material": {"material", "mat", "stock", "sheet"},
	"grain":    {"grain", "grain direction", "direction", "grain dir", "orientation"},
	"notes":    {"notes", "note", "comment", "comments", "remarks"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := newCSVReader(bytes.NewReader(data), delim)
		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Consistency dominates, column count breaks ties
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (name, length, width, quantity, material, grain) and false if not.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Length: -1, Width: -1, Quantity: -1, Material: -1, Grain: -1, Notes: -1}
	slots := map[string]*int{
		"name":     &mapping.Name,
		"length":   &mapping.Length,
		"width":    &mapping.Width,
		"quantity": &mapping.Quantity,
		"material": &mapping.Material,
		"grain":    &mapping.Grain,
		"notes":    &mapping.Notes,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Length: 1, Width: 2, Quantity: 3, Material: 4, Grain: 5, Notes: -1}, false
	}
	return mapping, true
}

// parseGrain converts a grain direction string to a model.GrainDirection.
// It returns the grain value and a boolean indicating whether the string was recognized.
func parseGrain(s string) (model.GrainDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lengthwise", "length", "l", "vertical", "v":
		return model.GrainLengthwise, true
	case "widthwise", "width", "w", "horizontal", "h":
		return model.GrainWidthwise, true
	case "", "none", "n", "-":
		return model.GrainNone, true
	default:
		return model.GrainNone, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseLength reads a dimension cell and returns it in the options' unit.
func parseLength(cell string, unit model.UnitSystem) (float64, error) {
	mm, err := units.ParseDimension(cell, unit)
	if err != nil {
		return 0, err
	}
	return units.FromMillimeters(mm, unit), nil
}

// resolveMaterial matches a material cell against the known materials.
func resolveMaterial(cell string, opts Options) (id string, known bool) {
	if cell == "" {
		return opts.defaultMaterial(), true
	}
	for _, m := range opts.Materials {
		if m.ID == cell || strings.EqualFold(m.Name, cell) {
			return m.ID, true
		}
	}
	return opts.defaultMaterial(), false
}

// parseRow extracts a CutPiece from a row using the given column mapping.
// Returns the piece, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, pieceCount int, opts Options) (model.CutPiece, string, []string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Piece %d", pieceCount+1)
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.CutPiece{}, fmt.Sprintf("%s: Missing length value", rowLabel), nil
	}
	length, err := parseLength(lengthStr, opts.Unit)
	if err != nil {
		return model.CutPiece{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), nil
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.CutPiece{}, fmt.Sprintf("%s: Missing width value", rowLabel), nil
	}
	width, err := parseLength(widthStr, opts.Unit)
	if err != nil {
		return model.CutPiece{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), nil
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.CutPiece{}, fmt.Sprintf("%s: Missing quantity value", rowLabel), nil
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.CutPiece{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
	}

	if length <= 0 || width <= 0 || qty <= 0 {
		return model.CutPiece{}, fmt.Sprintf("%s: Length, width, and quantity must be positive", rowLabel), nil
	}

	var warnings []string
	matCell := getCell(row, mapping.Material)
	materialID, known := resolveMaterial(matCell, opts)
	if !known {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown material '%s', using default", rowLabel, matCell))
	}

	piece := model.NewCutPiece(name, length, width, materialID, qty)
	piece.Notes = getCell(row, mapping.Notes)

	grainStr := getCell(row, mapping.Grain)
	if grainStr != "" {
		grain, ok := parseGrain(grainStr)
		if ok {
			piece.GrainDirection = grain
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown grain direction '%s', defaulting to None", rowLabel, grainStr))
		}
	}

	return piece, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports pieces from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, opts Options) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return ImportCSVData(data, opts)
}

// ImportCSVData imports pieces from CSV bytes, detecting the delimiter.
func ImportCSVData(data []byte, opts Options) ImportResult {
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result := ImportCSVFromReader(bytes.NewReader(data), delimiter, opts)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports pieces from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	return importFromRows(records, "Line", nil, opts)
}

// ImportFile imports a CSV or Excel file, chosen by extension.
func ImportFile(path string, opts Options) ImportResult {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path, opts)
	case ".xlsx":
		return ImportExcel(path, opts)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s', expected .csv or .xlsx", ext)}}
	}
}

// ImportExcel imports pieces from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, opts Options) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()
	return importWorkbook(f, opts)
}

// ImportExcelFromReader imports pieces from an Excel workbook stream.
func ImportExcelFromReader(r io.Reader, opts Options) ImportResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()
	return importWorkbook(f, opts)
}

func importWorkbook(f *excelize.File, opts Options) ImportResult {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"Excel file has no sheets"}}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	if len(rows) == 0 {
		return ImportResult{Errors: []string{"Sheet is empty"}}
	}

	return importFromRows(rows, "Row", nil, opts)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into pieces.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, opts Options) ImportResult {
	result := ImportResult{
		Pieces:   []model.CutPiece{},
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// A non-dimension in the length column is an unrecognized header
		if _, err := units.ParseDimension(getCell(rows[0], mapping.Length), opts.Unit); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		piece, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Pieces), opts)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Pieces = append(result.Pieces, piece)
	}

	return result
}
