package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/PanelCut/internal/model"
)

// BackupVersion is written to every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version          string          `json:"version"`
	CreatedAt        string          `json:"createdAt"`
	CurrentProjectID string          `json:"currentProjectId,omitempty"`
	Projects         []model.Project `json:"projects"`
	Catalog          *model.Catalog  `json:"catalog,omitempty"`
}

// ExportAllData writes every project, the current project id and an
// optional material catalog to a single JSON file at exportPath.
func ExportAllData(exportPath string, projects []model.Project, currentID string, catalog *model.Catalog) error {
	if projects == nil {
		projects = []model.Project{}
	}
	backup := BackupData{
		Version:          BackupVersion,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		CurrentProjectID: currentID,
		Projects:         projects,
		Catalog:          catalog,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it, usually with Library.Replace.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Projects == nil {
		backup.Projects = []model.Project{}
	}
	for i := range backup.Projects {
		normalize(&backup.Projects[i])
	}
	return backup, nil
}

// Backup exports the library contents to path.
func (l *Library) Backup(path string, catalog *model.Catalog) error {
	projects, err := l.List()
	if err != nil {
		return err
	}
	l.mu.RLock()
	current := l.currentID
	l.mu.RUnlock()
	return ExportAllData(path, projects, current, catalog)
}

// Restore replaces the library contents with the backup at path and
// returns the backup for the caller to apply its catalog.
func (l *Library) Restore(path string) (BackupData, error) {
	backup, err := ImportAllData(path)
	if err != nil {
		return BackupData{}, err
	}
	if err := l.Replace(backup.Projects, backup.CurrentProjectID); err != nil {
		return BackupData{}, err
	}
	return backup, nil
}
