package project

import (
	"encoding/json"
	"os"

	"github.com/piwi3910/PanelCut/internal/model"
)

// SaveCatalog writes the material catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, c model.Catalog) error {
	return writeJSON(path, c)
}

// LoadCatalog reads the material catalog from the specified JSON file.
// If the file does not exist, it returns the default catalog and saves it.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, c); saveErr != nil {
				return c, saveErr
			}
			return c, nil
		}
		return model.Catalog{}, err
	}
	var c model.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Catalog{}, err
	}
	if c.Presets == nil {
		c.Presets = []model.MaterialPreset{}
	}
	return c, nil
}

// MergeCatalog adds presets from imported into existing, skipping presets
// whose name is already present (ignoring case). Default catalogs from
// different installs carry different ids, so ids are not compared.
func MergeCatalog(existing, imported model.Catalog) model.Catalog {
	merged := model.Catalog{Presets: append([]model.MaterialPreset{}, existing.Presets...)}
	for _, p := range imported.Presets {
		if merged.FindByName(p.Name) == nil {
			merged.Add(p)
		}
	}
	return merged
}

// ImportCatalog reads a catalog from a user-specified JSON file and merges
// it into existing.
func ImportCatalog(path string, existing model.Catalog) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Catalog
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}
	return MergeCatalog(existing, imported), nil
}

// MergeCatalogFile merges imported into the catalog stored at path and
// saves the result.
func MergeCatalogFile(path string, imported model.Catalog) (model.Catalog, error) {
	existing, err := LoadCatalog(path)
	if err != nil {
		return existing, err
	}
	merged := MergeCatalog(existing, imported)
	if err := SaveCatalog(path, merged); err != nil {
		return merged, err
	}
	return merged, nil
}
