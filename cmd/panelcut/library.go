package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/importer"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	projectID := fs.String("project", "", "project id (default: current project)")
	unit := fs.String("unit", "", "unit system of the file: metric or imperial (default: the project's)")
	materialID := fs.String("material", "", "material for rows without a known material")
	in := fs.String("in", "", "CSV or Excel file to import")
	fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	e, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	var p model.Project
	if *projectID != "" {
		p, err = e.lib.Get(*projectID)
	} else {
		p, err = e.lib.Open()
	}
	if err != nil {
		return err
	}

	opts := importer.Options{Unit: p.Settings.UnitSystem, Materials: p.Materials, DefaultMaterialID: *materialID}
	if *unit != "" {
		switch u := model.UnitSystem(*unit); u {
		case model.UnitMetric, model.UnitImperial:
			opts.Unit = u
		default:
			return fmt.Errorf("unit must be metric or imperial, got %q", *unit)
		}
	}

	result := importer.ImportFile(*in, opts)
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	for _, msg := range result.Errors {
		fmt.Fprintln(os.Stderr, "error:", msg)
	}
	if len(result.Pieces) == 0 {
		return fmt.Errorf("no pieces imported from %s", *in)
	}

	for _, piece := range result.Pieces {
		p.AddPiece(piece)
	}
	if err := e.lib.Save(p); err != nil {
		return err
	}
	e.logger.Info("Pieces imported",
		zap.String("project", p.Name),
		zap.String("path", *in),
		zap.Int("pieces", len(result.Pieces)),
		zap.Int("errors", len(result.Errors)),
	)
	fmt.Printf("Imported %d piece(s) into %s\n", len(result.Pieces), p.Name)
	return nil
}

func runCatalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	importPath := fs.String("import", "", "merge presets from this catalog JSON file")
	removeID := fs.String("remove", "", "remove the preset with this id")
	fs.Parse(args)

	e, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	path := project.CatalogPath(e.lib.Dir())
	catalog, err := project.LoadCatalog(path)
	if err != nil {
		return err
	}

	changed := false
	if *importPath != "" {
		before := len(catalog.Presets)
		if catalog, err = project.ImportCatalog(*importPath, catalog); err != nil {
			return fmt.Errorf("failed to import catalog: %w", err)
		}
		e.logger.Info("Catalog imported", zap.String("path", *importPath), zap.Int("added", len(catalog.Presets)-before))
		changed = true
	}
	if *removeID != "" {
		if !catalog.Remove(*removeID) {
			return fmt.Errorf("preset %q not found", *removeID)
		}
		changed = true
	}
	if changed {
		if err := project.SaveCatalog(path, catalog); err != nil {
			return err
		}
	}

	for i, name := range catalog.Names() {
		mp := catalog.Presets[i]
		fmt.Printf("%s  %s  %g x %g\n", mp.ID, name, mp.SheetSize.Length, mp.SheetSize.Width)
	}
	return nil
}
