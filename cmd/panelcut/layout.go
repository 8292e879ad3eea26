package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/export"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
	"github.com/piwi3910/PanelCut/internal/units"
)

func runLayout(args []string) error {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	projectPath := fs.String("project", "", "project JSON file (default: current project)")
	pdfPath := fs.String("pdf", "", "write the layout PDF to this file")
	labelsPath := fs.String("labels", "", "write piece labels to this PDF file")
	dxfPath := fs.String("dxf", "", "write the layout DXF to this file")
	xlsxPath := fs.String("xlsx", "", "write the Excel cut list to this file")
	chartPath := fs.String("chart", "", "write the HTML waste chart to this file")
	parallel := fs.Bool("parallel", false, "lay out each material concurrently")
	fs.Parse(args)

	e, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	p, err := loadProject(e, *projectPath)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	start := time.Now()
	var layout model.CutLayout
	if *parallel {
		layout, err = engine.CalculateParallel(context.Background(), p.Materials, p.Pieces, p.Settings)
		if err != nil {
			return err
		}
	} else {
		layout = engine.Calculate(p.Materials, p.Pieces, p.Settings)
	}
	e.logger.Info("Layout calculated",
		zap.String("project", p.Name),
		zap.Int("sheets", len(layout.Sheets)),
		zap.Int("unplaced", len(layout.UnplacedPieces)),
		zap.Float64("waste_percent", layout.WastePercent()),
		zap.Duration("elapsed", time.Since(start)),
	)

	printSummary(os.Stdout, &p, layout)

	outputs := []struct {
		path  string
		write func(string, model.CutLayout, model.Project) error
	}{
		{*pdfPath, export.ExportPDF},
		{*labelsPath, export.ExportLabels},
		{*dxfPath, export.ExportDXF},
		{*xlsxPath, export.ExportCutList},
		{*chartPath, exportChart},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := out.write(out.path, layout, p); err != nil {
			return fmt.Errorf("failed to write %s: %w", out.path, err)
		}
		e.logger.Info("Export written", zap.String("path", out.path))
	}
	return nil
}

func loadProject(e *env, path string) (model.Project, error) {
	if path == "" {
		return e.lib.Open()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p, err := project.ImportProject(data)
	if err != nil {
		return model.Project{}, err
	}
	if p.Settings.UnitSystem == "" {
		p.Settings = e.cfg.Defaults.Settings()
	}
	return p, nil
}

func exportChart(path string, layout model.CutLayout, p model.Project) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteWasteChart(f, layout, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, p *model.Project, layout model.CutLayout) {
	unit := p.Settings.UnitSystem
	length := func(v float64) string {
		return units.FormatDimension(units.ToMillimeters(v, unit), unit)
	}

	fmt.Fprintf(w, "%s: %d sheet(s), %d piece(s) placed, %d cut(s), efficiency %.1f%%\n",
		p.Name, len(layout.Sheets), layout.PlacedCount(), layout.CutCount(), layout.Efficiency())
	for i, s := range layout.Sheets {
		name := s.MaterialID
		if m, ok := p.MaterialByID(s.MaterialID); ok {
			name = m.Name
		}
		fmt.Fprintf(w, "  #%d %s %s x %s: %d piece(s), %.1f%% used\n",
			i+1, name, length(s.Width), length(s.Height), len(s.Pieces), s.Efficiency())
	}

	usage := model.CalculateMaterialUsage(layout, p.Materials, unit)
	for _, u := range usage {
		fmt.Fprintf(w, "  %s: %d sheet(s), %.2f board feet, $%.2f\n", u.MaterialName, u.SheetsUsed, u.BoardFeet, u.EstimatedCost)
	}
	if total := model.TotalCost(usage); total > 0 {
		fmt.Fprintf(w, "Estimated cost: $%.2f\n", total)
	}

	if n := len(layout.UnplacedPieces); n > 0 {
		fmt.Fprintf(w, "%d piece(s) could not be placed:\n", n)
		for _, id := range layout.UnplacedPieces {
			name := id
			if piece, ok := p.PieceByID(id); ok {
				name = piece.Name
			}
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
}
