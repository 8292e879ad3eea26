// Package project persists projects, material presets and templates as JSON
// files inside a data directory.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	projectsFile  = "projects.json"
	currentFile   = "current.json"
	catalogFile   = "catalog.json"
	templatesFile = "templates.json"
)

// DefaultDataDir returns the default directory for application data.
// On all platforms this is ~/.panelcut/
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".panelcut")
}

// CatalogPath returns the material catalog file inside dir.
func CatalogPath(dir string) string {
	return filepath.Join(dir, catalogFile)
}

// TemplatesPath returns the template store file inside dir.
func TemplatesPath(dir string) string {
	return filepath.Join(dir, templatesFile)
}

// writeJSON writes v as indented JSON, creating parent directories as needed.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
