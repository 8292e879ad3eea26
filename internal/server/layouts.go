package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/model"
)

// LayoutRequest carries engine inputs. Settings default to the configured
// project defaults when omitted.
type LayoutRequest struct {
	Materials []model.Material       `json:"materials"`
	Pieces    []model.CutPiece       `json:"pieces"`
	Settings  *model.ProjectSettings `json:"settings"`
}

func (s *Server) bindLayoutRequest(c *gin.Context) (LayoutRequest, model.ProjectSettings, bool) {
	var req LayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return req, model.ProjectSettings{}, false
	}
	settings := s.cfg.Defaults.Settings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := model.ValidateInputs(req.Materials, req.Pieces, settings); err != nil {
		Error(c, CodeInvalidInput, err.Error())
		return req, settings, false
	}
	return req, settings, true
}

func (s *Server) createLayout(c *gin.Context) {
	req, settings, ok := s.bindLayoutRequest(c)
	if !ok {
		return
	}
	layout, err := s.calculate(c, req.Materials, req.Pieces, settings)
	if err != nil {
		s.logger.Error("Failed to calculate layout", zap.Error(err))
		InternalError(c, "failed to calculate layout")
		return
	}
	Success(c, layout)
}

func (s *Server) compare(c *gin.Context) {
	req, settings, ok := s.bindLayoutRequest(c)
	if !ok {
		return
	}
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(settings), req.Materials, req.Pieces)
	Success(c, results)
}
