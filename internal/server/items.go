package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// AddMaterialRequest adds a material to a project, either copied from a
// catalog preset or given in full.
type AddMaterialRequest struct {
	PresetID string          `json:"presetId"`
	Material *model.Material `json:"material"`
}

func shortID() string {
	return uuid.New().String()[:8]
}

// editProject loads the project named by the path, applies fn and saves the
// result if it validates. fn writes its own error response and returns false
// to abort.
func (s *Server) editProject(c *gin.Context, fn func(p *model.Project) bool) (model.Project, bool) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	p, err := s.lib.Get(c.Param("id"))
	if err != nil {
		s.projectError(c, err)
		return p, false
	}
	if !fn(&p) {
		return p, false
	}
	if err := p.Validate(); err != nil {
		Error(c, CodeInvalidInput, err.Error())
		return p, false
	}
	if err := s.lib.Save(p); err != nil {
		s.projectError(c, err)
		return p, false
	}
	return p, true
}

func (s *Server) addMaterial(c *gin.Context) {
	var req AddMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	var m model.Material
	switch {
	case req.PresetID != "":
		catalog, err := project.LoadCatalog(project.CatalogPath(s.lib.Dir()))
		if err != nil {
			s.logger.Error("Failed to load catalog", zap.Error(err))
			InternalError(c, "failed to load material presets")
			return
		}
		preset := catalog.FindByID(req.PresetID)
		if preset == nil {
			NotFound(c, "preset not found")
			return
		}
		m = preset.ToMaterial()
	case req.Material != nil:
		m = *req.Material
		if m.ID == "" {
			m.ID = shortID()
		}
	default:
		BadRequest(c, "presetId or material is required")
		return
	}

	if _, ok := s.editProject(c, func(p *model.Project) bool {
		p.AddMaterial(m)
		return true
	}); ok {
		Created(c, m)
	}
}

func (s *Server) updateMaterial(c *gin.Context) {
	var req model.Material
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	id := c.Param("itemId")
	if _, ok := s.editProject(c, func(p *model.Project) bool {
		if !p.UpdateMaterial(id, func(m *model.Material) { *m = req }) {
			NotFound(c, "material not found")
			return false
		}
		return true
	}); ok {
		req.ID = id
		Success(c, req)
	}
}

func (s *Server) removeMaterial(c *gin.Context) {
	id := c.Param("itemId")
	if _, ok := s.editProject(c, func(p *model.Project) bool {
		if !p.RemoveMaterial(id) {
			NotFound(c, "material not found")
			return false
		}
		return true
	}); ok {
		Success(c, nil)
	}
}

func (s *Server) addPiece(c *gin.Context) {
	var piece model.CutPiece
	if err := c.ShouldBindJSON(&piece); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if piece.ID == "" {
		piece.ID = shortID()
	}
	if _, ok := s.editProject(c, func(p *model.Project) bool {
		p.AddPiece(piece)
		return true
	}); ok {
		Created(c, piece)
	}
}

func (s *Server) updatePiece(c *gin.Context) {
	var req model.CutPiece
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	id := c.Param("itemId")
	if _, ok := s.editProject(c, func(p *model.Project) bool {
		if !p.UpdatePiece(id, func(piece *model.CutPiece) { *piece = req }) {
			NotFound(c, "piece not found")
			return false
		}
		return true
	}); ok {
		req.ID = id
		Success(c, req)
	}
}

func (s *Server) removePiece(c *gin.Context) {
	id := c.Param("itemId")
	if _, ok := s.editProject(c, func(p *model.Project) bool {
		if !p.RemovePiece(id) {
			NotFound(c, "piece not found")
			return false
		}
		return true
	}); ok {
		Success(c, nil)
	}
}

func (s *Server) updateSettings(c *gin.Context) {
	var req model.ProjectSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if p, ok := s.editProject(c, func(p *model.Project) bool {
		p.UpdateSettings(func(st *model.ProjectSettings) { *st = req })
		return true
	}); ok {
		Success(c, p.Settings)
	}
}

// stockOffcut turns the offcut at the given position of the project's
// layout offcut list into a new material with one sheet on hand.
func (s *Server) stockOffcut(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		BadRequest(c, "offcut index must be a non-negative integer")
		return
	}

	var stocked model.Material
	if _, ok := s.editProject(c, func(p *model.Project) bool {
		layout, err := s.calculate(c, p.Materials, p.Pieces, p.Settings)
		if err != nil {
			s.logger.Error("Failed to calculate layout", zap.String("project_id", p.ID), zap.Error(err))
			InternalError(c, "failed to calculate layout")
			return false
		}
		offcuts := model.DetectAllOffcuts(layout, p.Materials, p.Settings)
		if index >= len(offcuts) {
			NotFound(c, "offcut not found")
			return false
		}
		offcut := offcuts[index]
		source, _ := p.MaterialByID(offcut.MaterialID)
		stocked = offcut.ToMaterial(source)
		p.AddMaterial(stocked)
		return true
	}); ok {
		Created(c, stocked)
	}
}

func (s *Server) createPreset(c *gin.Context) {
	var req model.MaterialPreset
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		BadRequest(c, "preset name is required")
		return
	}
	if err := req.ToMaterial().Validate(); err != nil {
		Error(c, CodeInvalidInput, err.Error())
		return
	}
	preset := model.NewMaterialPreset(req.Name, req.SheetSize.Length, req.SheetSize.Width)
	preset.CostPerSheet = req.CostPerSheet

	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	path := project.CatalogPath(s.lib.Dir())
	catalog, err := project.LoadCatalog(path)
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		InternalError(c, "failed to load material presets")
		return
	}
	catalog.Add(preset)
	if err := project.SaveCatalog(path, catalog); err != nil {
		s.logger.Error("Failed to save catalog", zap.Error(err))
		InternalError(c, "failed to save material presets")
		return
	}
	Created(c, preset)
}

func (s *Server) deletePreset(c *gin.Context) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	path := project.CatalogPath(s.lib.Dir())
	catalog, err := project.LoadCatalog(path)
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		InternalError(c, "failed to load material presets")
		return
	}
	if !catalog.Remove(c.Param("id")) {
		NotFound(c, "preset not found")
		return
	}
	if err := project.SaveCatalog(path, catalog); err != nil {
		s.logger.Error("Failed to save catalog", zap.Error(err))
		InternalError(c, "failed to save material presets")
		return
	}
	Success(c, nil)
}
