package server

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/PanelCut/internal/importer"
	"github.com/piwi3910/PanelCut/internal/model"
)

// maxImportSize bounds uploaded cut list files.
const maxImportSize = 10 << 20

// importPieces parses an uploaded CSV or Excel cut list. The form may name
// a unit system and a project whose materials the material column is
// matched against.
func (s *Server) importPieces(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file field")
		return
	}
	if fh.Size > maxImportSize {
		BadRequest(c, "file too large")
		return
	}

	opts := importer.Options{Unit: s.cfg.Defaults.Settings().UnitSystem}
	if unit := c.PostForm("unit"); unit != "" {
		switch u := model.UnitSystem(unit); u {
		case model.UnitMetric, model.UnitImperial:
			opts.Unit = u
		default:
			BadRequest(c, "unit must be metric or imperial")
			return
		}
	}
	if id := c.PostForm("projectId"); id != "" {
		p, err := s.lib.Get(id)
		if err != nil {
			s.projectError(c, err)
			return
		}
		opts.Materials = p.Materials
		if c.PostForm("unit") == "" {
			opts.Unit = p.Settings.UnitSystem
		}
	}
	opts.DefaultMaterialID = c.PostForm("materialId")

	f, err := fh.Open()
	if err != nil {
		InternalError(c, "cannot read upload")
		return
	}
	defer f.Close()

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv", ".txt", ".tsv":
		data, err := io.ReadAll(f)
		if err != nil {
			InternalError(c, "cannot read upload")
			return
		}
		result = importer.ImportCSVData(data, opts)
	case ".xlsx":
		result = importer.ImportExcelFromReader(f, opts)
	default:
		BadRequest(c, "unsupported file type, expected .csv or .xlsx")
		return
	}
	Success(c, result)
}
