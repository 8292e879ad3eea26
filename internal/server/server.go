// Package server exposes the layout engine and the project library over a
// JSON HTTP API.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/config"
	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	cfg     *config.Config
	lib     *project.Library
	logger  *zap.Logger
	layouts *lru.Cache[string, model.CutLayout] // nil when caching is off

	// storeMu serializes read-modify-write of catalog.json and templates.json
	storeMu sync.Mutex
	// editMu serializes read-modify-write of single projects
	editMu sync.Mutex
}

// New creates a server over lib. A cache size of zero disables layout caching.
func New(cfg *config.Config, lib *project.Library, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, lib: lib, logger: logger}
	if cfg.Cache.Size > 0 {
		cache, err := lru.New[string, model.CutLayout](cfg.Cache.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to create layout cache: %w", err)
		}
		s.layouts = cache
	}
	return s, nil
}

// Router builds the gin engine with all middleware and routes.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Server.Mode != "" {
		gin.SetMode(s.cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(RequestID(), Recovery(s.logger), Logger(s.logger), CORS())

	r.GET("/healthz", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/layouts", s.createLayout)
		v1.POST("/compare", s.compare)
		v1.POST("/import", s.importPieces)
		v1.GET("/presets", s.listPresets)
		v1.POST("/presets", s.createPreset)
		v1.DELETE("/presets/:id", s.deletePreset)

		v1.GET("/current", s.currentProject)
		projects := v1.Group("/projects")
		projects.GET("", s.listProjects)
		projects.POST("", s.createProject)
		projects.GET("/:id", s.getProject)
		projects.PUT("/:id", s.updateProject)
		projects.DELETE("/:id", s.deleteProject)
		projects.POST("/:id/layout", s.projectLayout)
		projects.POST("/:id/materials", s.addMaterial)
		projects.PUT("/:id/materials/:itemId", s.updateMaterial)
		projects.DELETE("/:id/materials/:itemId", s.removeMaterial)
		projects.POST("/:id/pieces", s.addPiece)
		projects.PUT("/:id/pieces/:itemId", s.updatePiece)
		projects.DELETE("/:id/pieces/:itemId", s.removePiece)
		projects.PUT("/:id/settings", s.updateSettings)
		projects.POST("/:id/offcuts/:index/stock", s.stockOffcut)
		projects.GET("/:id/export/:format", s.exportProject)

		templates := v1.Group("/templates")
		templates.GET("", s.listTemplates)
		templates.POST("", s.createTemplate)
		templates.POST("/:id/projects", s.instantiateTemplate)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	Success(c, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// layoutKey hashes the engine inputs so identical requests share a cache entry.
func layoutKey(materials []model.Material, pieces []model.CutPiece, settings model.ProjectSettings) (string, error) {
	data, err := json.Marshal(struct {
		Materials []model.Material      `json:"materials"`
		Pieces    []model.CutPiece      `json:"pieces"`
		Settings  model.ProjectSettings `json:"settings"`
	}{materials, pieces, settings})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// calculate returns the layout for the inputs, from the cache when possible.
// The X-Cache header reports HIT or MISS.
func (s *Server) calculate(c *gin.Context, materials []model.Material, pieces []model.CutPiece, settings model.ProjectSettings) (model.CutLayout, error) {
	key, err := layoutKey(materials, pieces, settings)
	if err != nil {
		return model.CutLayout{}, err
	}
	if s.layouts != nil {
		if layout, ok := s.layouts.Get(key); ok {
			c.Header("X-Cache", "HIT")
			return layout, nil
		}
	}

	start := time.Now()
	layout, err := engine.CalculateParallel(c.Request.Context(), materials, pieces, settings)
	if err != nil {
		return model.CutLayout{}, err
	}
	s.logger.Debug("Layout calculated",
		zap.Int("sheets", len(layout.Sheets)),
		zap.Int("unplaced", len(layout.UnplacedPieces)),
		zap.Float64("waste_percent", layout.WastePercent()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if s.layouts != nil {
		s.layouts.Add(key, layout)
	}
	c.Header("X-Cache", "MISS")
	return layout, nil
}
