package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/export"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// CreateProjectRequest starts a project. Settings default to the configured
// project defaults.
type CreateProjectRequest struct {
	Name      string                 `json:"name"`
	Materials []model.Material       `json:"materials"`
	Pieces    []model.CutPiece       `json:"pieces"`
	Settings  *model.ProjectSettings `json:"settings"`
}

// ProjectLayout is a project's layout with its derived figures.
type ProjectLayout struct {
	Layout     model.CutLayout       `json:"layout"`
	Usage      []model.MaterialUsage `json:"usage"`
	Offcuts    []model.Offcut        `json:"offcuts"`
	OffcutArea float64               `json:"offcutArea"` // In the project's units
	Cost       float64               `json:"cost"`
}

// projectError maps library errors onto the envelope.
func (s *Server) projectError(c *gin.Context, err error) {
	if errors.Is(err, project.ErrProjectNotFound) {
		NotFound(c, "project not found")
		return
	}
	s.logger.Error("Project library error", zap.Error(err))
	InternalError(c, "project library error")
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.lib.List()
	if err != nil {
		s.projectError(c, err)
		return
	}
	Success(c, projects)
}

func (s *Server) currentProject(c *gin.Context) {
	p, err := s.lib.Open()
	if err != nil {
		s.projectError(c, err)
		return
	}
	Success(c, p)
}

func (s *Server) createProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p := model.NewProject(req.Name)
	p.Settings = s.cfg.Defaults.Settings()
	if req.Settings != nil {
		p.Settings = *req.Settings
	}
	if req.Materials != nil {
		p.Materials = req.Materials
	}
	if req.Pieces != nil {
		p.Pieces = req.Pieces
	}
	if err := p.Validate(); err != nil {
		Error(c, CodeInvalidInput, err.Error())
		return
	}

	if err := s.lib.Save(p); err != nil {
		s.projectError(c, err)
		return
	}
	if err := s.lib.SetCurrent(p.ID); err != nil {
		s.projectError(c, err)
		return
	}
	Created(c, p)
}

func (s *Server) getProject(c *gin.Context) {
	p, err := s.lib.Get(c.Param("id"))
	if err != nil {
		s.projectError(c, err)
		return
	}
	Success(c, p)
}

// updateProject replaces a saved project. The id comes from the path and
// the creation time is preserved.
func (s *Server) updateProject(c *gin.Context) {
	existing, err := s.lib.Get(c.Param("id"))
	if err != nil {
		s.projectError(c, err)
		return
	}

	var p model.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	p.ID = existing.ID
	if p.Name == "" {
		p.Name = existing.Name
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if p.Materials == nil {
		p.Materials = []model.Material{}
	}
	if p.Pieces == nil {
		p.Pieces = []model.CutPiece{}
	}
	if err := p.Validate(); err != nil {
		Error(c, CodeInvalidInput, err.Error())
		return
	}

	if err := s.lib.Save(p); err != nil {
		s.projectError(c, err)
		return
	}
	Success(c, p)
}

func (s *Server) deleteProject(c *gin.Context) {
	if err := s.lib.Delete(c.Param("id")); err != nil {
		s.projectError(c, err)
		return
	}
	Success(c, nil)
}

func (s *Server) layoutFor(c *gin.Context) (model.Project, model.CutLayout, bool) {
	p, err := s.lib.Get(c.Param("id"))
	if err != nil {
		s.projectError(c, err)
		return p, model.CutLayout{}, false
	}
	layout, err := s.calculate(c, p.Materials, p.Pieces, p.Settings)
	if err != nil {
		s.logger.Error("Failed to calculate layout", zap.String("project_id", p.ID), zap.Error(err))
		InternalError(c, "failed to calculate layout")
		return p, layout, false
	}
	return p, layout, true
}

func (s *Server) projectLayout(c *gin.Context) {
	p, layout, ok := s.layoutFor(c)
	if !ok {
		return
	}
	usage := model.CalculateMaterialUsage(layout, p.Materials, p.Settings.UnitSystem)
	offcuts := model.DetectAllOffcuts(layout, p.Materials, p.Settings)
	if offcuts == nil {
		offcuts = []model.Offcut{}
	}
	Success(c, ProjectLayout{
		Layout:     layout,
		Usage:      usage,
		Offcuts:    offcuts,
		OffcutArea: model.TotalOffcutArea(offcuts),
		Cost:       model.TotalCost(usage),
	})
}

// exportFormat describes one downloadable rendering of a layout.
type exportFormat struct {
	contentType string
	extension   string
	write       func(w io.Writer, layout model.CutLayout, p model.Project) error
}

var exportFormats = map[string]exportFormat{
	"pdf":    {"application/pdf", "pdf", export.WritePDF},
	"labels": {"application/pdf", "labels.pdf", export.WriteLabels},
	"xlsx":   {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", export.WriteCutList},
	"chart":  {"text/html; charset=utf-8", "html", export.WriteWasteChart},
}

func (s *Server) exportProject(c *gin.Context) {
	format, ok := exportFormats[strings.ToLower(c.Param("format"))]
	if !ok {
		BadRequest(c, fmt.Sprintf("unsupported export format %q", c.Param("format")))
		return
	}

	p, layout, ok := s.layoutFor(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := format.write(&buf, layout, p); err != nil {
		if errors.Is(err, export.ErrNoSheets) {
			Error(c, CodeInvalidInput, err.Error())
			return
		}
		s.logger.Error("Export failed", zap.String("project_id", p.ID), zap.Error(err))
		InternalError(c, "export failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, fileSlug(p.Name), format.extension))
	c.Data(200, format.contentType, buf.Bytes())
}

// fileSlug reduces a project name to a safe file name.
func fileSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "layout"
	}
	return b.String()
}
