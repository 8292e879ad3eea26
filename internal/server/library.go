package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// CreateTemplateRequest captures a saved project as a template.
type CreateTemplateRequest struct {
	ProjectID   string `json:"projectId" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// InstantiateTemplateRequest names the project created from a template.
type InstantiateTemplateRequest struct {
	Name string `json:"name"`
}

func (s *Server) listPresets(c *gin.Context) {
	catalog, err := project.LoadCatalog(project.CatalogPath(s.lib.Dir()))
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		InternalError(c, "failed to load material presets")
		return
	}
	Success(c, catalog.Presets)
}

func (s *Server) loadTemplates(c *gin.Context) (model.TemplateStore, bool) {
	store, err := project.LoadTemplates(project.TemplatesPath(s.lib.Dir()))
	if err != nil {
		s.logger.Error("Failed to load templates", zap.Error(err))
		InternalError(c, "failed to load templates")
		return store, false
	}
	return store, true
}

func (s *Server) listTemplates(c *gin.Context) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	store, ok := s.loadTemplates(c)
	if !ok {
		return
	}
	Success(c, store.Templates)
}

func (s *Server) createTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	p, err := s.lib.Get(req.ProjectID)
	if err != nil {
		s.projectError(c, err)
		return
	}

	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	store, ok := s.loadTemplates(c)
	if !ok {
		return
	}
	tmpl := model.NewProjectTemplate(req.Name, req.Description, p)
	store.Add(tmpl)
	if err := project.SaveTemplates(project.TemplatesPath(s.lib.Dir()), store); err != nil {
		s.logger.Error("Failed to save templates", zap.Error(err))
		InternalError(c, "failed to save template")
		return
	}
	Created(c, tmpl)
}

func (s *Server) instantiateTemplate(c *gin.Context) {
	var req InstantiateTemplateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	s.storeMu.Lock()
	store, ok := s.loadTemplates(c)
	s.storeMu.Unlock()
	if !ok {
		return
	}
	tmpl := store.FindByID(c.Param("id"))
	if tmpl == nil {
		NotFound(c, "template not found")
		return
	}

	name := req.Name
	if name == "" {
		name = tmpl.Name
	}
	p := tmpl.ToProject(name)
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
