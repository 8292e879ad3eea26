package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/piwi3910/PanelCut/internal/model"
)

// WasteChartData returns the per-sheet axis labels with used and waste
// areas in the same order.
func WasteChartData(layout model.CutLayout, project model.Project) (labels []string, used, waste []float64) {
	cat := newCatalog(project)
	for _, s := range layout.Sheets {
		labels = append(labels, fmt.Sprintf("#%d %s", s.SheetIndex+1, cat.materialName(s.MaterialID)))
		used = append(used, round1(s.UsedArea()))
		waste = append(waste, round1(s.WasteArea()))
	}
	return labels, used, waste
}

// WriteWasteChart writes an HTML page with a stacked bar per sheet showing
// used and wasted area.
func WriteWasteChart(w io.Writer, layout model.CutLayout, project model.Project) error {
	if len(layout.Sheets) == 0 {
		return ErrNoSheets
	}

	labels, used, waste := WasteChartData(layout, project)
	cat := newCatalog(project)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    project.Name,
			Subtitle: fmt.Sprintf("Efficiency %.1f%%, waste %.0f %s", layout.Efficiency(), layout.TotalWaste, cat.areaUnit()),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(labels).
		AddSeries("Used", barData(used), charts.WithBarChartOpts(opts.BarChart{Stack: "area"})).
		AddSeries("Waste", barData(waste), charts.WithBarChartOpts(opts.BarChart{Stack: "area"}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func barData(values []float64) []opts.BarData {
	items := make([]opts.BarData, len(values))
	for i, v := range values {
		items[i] = opts.BarData{Value: v}
	}
	return items
}
