package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PanelCut/internal/model"
)

func metricOpts() Options {
	return Options{
		Unit: model.UnitMetric,
		Materials: []model.Material{
			{ID: "ply", Name: "Plywood"},
			{ID: "mdf", Name: "MDF"},
		},
	}
}

func importString(t *testing.T, content string, opts Options) ImportResult {
	t.Helper()
	return ImportCSVFromReader(strings.NewReader(content), ',', opts)
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Length,Width,Qty\nShelf,600,300,2\nDoor,800,400,1\n", ','},
		{"semicolon", "Name;Length;Width;Qty\nShelf;600;300;2\nDoor;800;400;1\n", ';'},
		{"tab", "Name\tLength\tWidth\tQty\nShelf\t600\t300\t2\nDoor\t800\t400\t1\n", '\t'},
		{"pipe", "Name|Length|Width|Qty\nShelf|600|300|2\nDoor|800|400|1\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCSVDelimiter([]byte(tt.data)))
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Name", "Length", "Width", "Quantity", "Material", "Grain", "Notes"})

	require.True(t, isHeader)
	assert.Equal(t, ColumnMapping{Name: 0, Length: 1, Width: 2, Quantity: 3, Material: 4, Grain: 5, Notes: 6}, mapping)
}

func TestDetectColumns_AlternativeNamesAndOrder(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"PCS", "W", "Part Name", "L", "Direction", "Stock"})

	require.True(t, isHeader)
	assert.Equal(t, 0, mapping.Quantity)
	assert.Equal(t, 1, mapping.Width)
	assert.Equal(t, 2, mapping.Name)
	assert.Equal(t, 3, mapping.Length)
	assert.Equal(t, 4, mapping.Grain)
	assert.Equal(t, 5, mapping.Material)
	assert.Equal(t, -1, mapping.Notes)
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Shelf", "600", "300", "2"})

	assert.False(t, isHeader)
	assert.Equal(t, ColumnMapping{Name: 0, Length: 1, Width: 2, Quantity: 3, Material: 4, Grain: 5, Notes: -1}, mapping)
}

// ─── Row parsing ───────────────────────────────────────────

func TestImport_MetricWithHeader(t *testing.T) {
	result := importString(t, "Name,Length,Width,Qty\nShelf,600,300,2\nDoor,800mm,400,1\n", metricOpts())

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 2)
	assert.Contains(t, result.Warnings, "Detected header row, skipping")

	shelf := result.Pieces[0]
	assert.Equal(t, "Shelf", shelf.Name)
	assert.Equal(t, 600.0, shelf.Dimensions.Length)
	assert.Equal(t, 300.0, shelf.Dimensions.Width)
	assert.Equal(t, 2, shelf.Quantity)
	assert.Equal(t, "ply", shelf.MaterialID)
	assert.Equal(t, model.GrainNone, shelf.GrainDirection)
	assert.NotEmpty(t, shelf.ID)

	assert.Equal(t, 800.0, result.Pieces[1].Dimensions.Length)
}

func TestImport_ImperialFractions(t *testing.T) {
	opts := metricOpts()
	opts.Unit = model.UnitImperial

	result := importString(t, "Name,Length,Width,Qty\nSide,24 1/2,3/4\",2\nTop,30\",12.5,1\n", opts)

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 2)
	assert.InDelta(t, 24.5, result.Pieces[0].Dimensions.Length, 1e-9)
	assert.InDelta(t, 0.75, result.Pieces[0].Dimensions.Width, 1e-9)
	assert.InDelta(t, 30.0, result.Pieces[1].Dimensions.Length, 1e-9)
	assert.InDelta(t, 12.5, result.Pieces[1].Dimensions.Width, 1e-9)
}

func TestImport_MaterialMatching(t *testing.T) {
	content := "Name,Length,Width,Qty,Material\n" +
		"A,100,100,1,plywood\n" +
		"B,100,100,1,mdf\n" +
		"C,100,100,1,Walnut\n" +
		"D,100,100,1,\n"
	result := importString(t, content, metricOpts())

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 4)
	assert.Equal(t, "ply", result.Pieces[0].MaterialID, "name match is case-insensitive")
	assert.Equal(t, "mdf", result.Pieces[1].MaterialID, "id match")
	assert.Equal(t, "ply", result.Pieces[2].MaterialID, "unknown falls back to default")
	assert.Equal(t, "ply", result.Pieces[3].MaterialID, "empty uses default")
	assert.Contains(t, result.Warnings, "Line 4: Unknown material 'Walnut', using default")
}

func TestImport_ExplicitDefaultMaterial(t *testing.T) {
	opts := metricOpts()
	opts.DefaultMaterialID = "mdf"

	result := importString(t, "Name,Length,Width,Qty\nA,100,100,1\n", opts)

	require.Len(t, result.Pieces, 1)
	assert.Equal(t, "mdf", result.Pieces[0].MaterialID)
}

func TestImport_GrainAndNotes(t *testing.T) {
	content := "Name,Length,Width,Qty,Grain,Notes\n" +
		"A,100,100,1,lengthwise,face frame\n" +
		"B,100,100,1,h,\n" +
		"C,100,100,1,diagonal,\n"
	result := importString(t, content, metricOpts())

	require.Len(t, result.Pieces, 3)
	assert.Equal(t, model.GrainLengthwise, result.Pieces[0].GrainDirection)
	assert.Equal(t, "face frame", result.Pieces[0].Notes)
	assert.Equal(t, model.GrainWidthwise, result.Pieces[1].GrainDirection)
	assert.Equal(t, model.GrainNone, result.Pieces[2].GrainDirection)
	assert.Contains(t, result.Warnings, "Line 4: Unknown grain direction 'diagonal', defaulting to None")
}

func TestParseGrain(t *testing.T) {
	tests := map[string]model.GrainDirection{
		"none": model.GrainNone, "N": model.GrainNone, "-": model.GrainNone, "": model.GrainNone,
		"Lengthwise": model.GrainLengthwise, "length": model.GrainLengthwise, "l": model.GrainLengthwise,
		"vertical": model.GrainLengthwise, "V": model.GrainLengthwise,
		"widthwise": model.GrainWidthwise, "width": model.GrainWidthwise, "w": model.GrainWidthwise,
		"Horizontal": model.GrainWidthwise, "h": model.GrainWidthwise,
	}
	for in, want := range tests {
		got, ok := parseGrain(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := parseGrain("sideways")
	assert.False(t, ok)
}

func TestImport_RowErrors(t *testing.T) {
	content := "Name,Length,Width,Qty\n" +
		"Good,100,100,1\n" +
		"NoLength,,100,1\n" +
		"BadWidth,100,abc,1\n" +
		"BadQty,100,100,two\n" +
		"Zero,0,100,1\n" +
		"Negative,100,100,-1\n"
	result := importString(t, content, metricOpts())

	require.Len(t, result.Pieces, 1)
	assert.Equal(t, []string{
		"Line 3: Missing length value",
		"Line 4: Invalid width 'abc'",
		"Line 5: Invalid quantity 'two'",
		"Line 6: Length, width, and quantity must be positive",
		"Line 7: Length, width, and quantity must be positive",
	}, result.Errors)
}

func TestImport_MissingRequiredColumns(t *testing.T) {
	result := importString(t, "Name,Length,Qty\nShelf,600,2\n", metricOpts())

	assert.Empty(t, result.Pieces)
	assert.Equal(t, []string{"Required columns not found in header: Width"}, result.Errors)
}

func TestImport_DefaultNameAndEmptyRows(t *testing.T) {
	result := importString(t, "Name,Length,Width,Qty\n,600,300,1\n,,,\n,500,200,1\n", metricOpts())

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 2)
	assert.Equal(t, "Piece 1", result.Pieces[0].Name)
	assert.Equal(t, "Piece 2", result.Pieces[1].Name)
}

func TestImport_PositionalWithoutHeader(t *testing.T) {
	result := importString(t, "Shelf,600,300,2,mdf,v\nDoor,800,400,1\n", metricOpts())

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 2)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "mdf", result.Pieces[0].MaterialID)
	assert.Equal(t, model.GrainLengthwise, result.Pieces[0].GrainDirection)
	assert.Equal(t, "ply", result.Pieces[1].MaterialID)
}

func TestImport_UnrecognizedHeaderSkipped(t *testing.T) {
	result := importString(t, "Foo,Bar,Baz,Qux\nShelf,600,300,2\n", metricOpts())

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 1)
	assert.Contains(t, result.Warnings, "Detected header row, skipping")
}

// ─── File import ───────────────────────────────────────────

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := writeTempFile(t, "pieces.csv", "Name;Length;Width;Qty\nShelf;600;300;2\nDoor;800;400;1\n")

	result := ImportCSV(path, metricOpts())

	require.Empty(t, result.Errors)
	assert.Len(t, result.Pieces, 2)
	assert.Contains(t, result.Warnings, "Detected semicolon delimiter")
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "  \n")

	result := ImportCSV(path, metricOpts())

	assert.Equal(t, []string{"File is empty"}, result.Errors)
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv"), metricOpts())

	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Cannot open file"))
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pieces.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Length", "Width", "Quantity", "Material", "Grain"},
		{"Shelf", 600, 300, 2, "MDF", "Lengthwise"},
		{"Door", 800, 400, 1, "", "Widthwise"},
	})

	result := ImportExcel(path, metricOpts())

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 2)
	assert.Equal(t, "Shelf", result.Pieces[0].Name)
	assert.Equal(t, 600.0, result.Pieces[0].Dimensions.Length)
	assert.Equal(t, "mdf", result.Pieces[0].MaterialID)
	assert.Equal(t, model.GrainLengthwise, result.Pieces[0].GrainDirection)
	assert.Equal(t, "ply", result.Pieces[1].MaterialID)
	assert.Equal(t, model.GrainWidthwise, result.Pieces[1].GrainDirection)
}

func TestImportExcelFromReader(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Shelf", 600, 300, 2},
	})
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	result := ImportExcelFromReader(f, metricOpts())

	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 1)
	assert.Equal(t, 2, result.Pieces[0].Quantity)
}

func TestImportExcel_InvalidFile(t *testing.T) {
	path := writeTempFile(t, "broken.xlsx", "not a workbook")

	result := ImportExcel(path, metricOpts())

	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Cannot open Excel file"))
}

func TestImportFile_DispatchesByExtension(t *testing.T) {
	csvPath := writeTempFile(t, "pieces.CSV", "Name,Length,Width,Qty\nShelf,600,300,2\n")
	xlsxPath := createTestExcel(t, [][]interface{}{
		{"Name", "Length", "Width", "Quantity"},
		{"Door", 800, 400, 1},
	})

	result := ImportFile(csvPath, metricOpts())
	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 1)
	assert.Equal(t, "Shelf", result.Pieces[0].Name)

	result = ImportFile(xlsxPath, metricOpts())
	require.Empty(t, result.Errors)
	require.Len(t, result.Pieces, 1)
	assert.Equal(t, "Door", result.Pieces[0].Name)

	result = ImportFile(writeTempFile(t, "pieces.pdf", "%PDF"), metricOpts())
	assert.Equal(t, []string{"Unsupported file type '.pdf', expected .csv or .xlsx"}, result.Errors)
}
