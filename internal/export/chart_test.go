package export

import (
	"bytes"
	"strings"
	"testing"
)

func TestWasteChartData(t *testing.T) {
	p, layout := buildTestProject()
	labels, used, waste := WasteChartData(layout, p)

	if len(labels) != 2 || labels[0] != "#1 Birch Plywood" || labels[1] != "#2 MDF" {
		t.Fatalf("unexpected labels %v", labels)
	}
	// 2 x 12x72 + 11x30 on a 48x96 sheet
	if used[0] != 2058 || waste[0] != 2550 {
		t.Errorf("sheet 1: expected used 2058 waste 2550, got %v %v", used[0], waste[0])
	}
	if used[1] != 1200 || waste[1] != 1104 {
		t.Errorf("sheet 2: expected used 1200 waste 1104, got %v %v", used[1], waste[1])
	}
}

func TestWriteWasteChart_HTML(t *testing.T) {
	p, layout := buildTestProject()
	var buf bytes.Buffer

	if err := WriteWasteChart(&buf, layout, p); err != nil {
		t.Fatalf("WriteWasteChart returned error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<html", "echarts", "Waste", "Bookcase"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}
