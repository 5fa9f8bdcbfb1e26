// Package report persists driver.Result rows to JSONL (grounded on the
// teacher's cmd/pacs_sweep sweep-logging pattern) and renders a go-echarts
// HTML line chart of p-value against tested epsilon, one series over all
// results (grounded on Additionnals/plot_pacs_sweep.go and cmd/analysis/main.go's
// summary-statistics helpers).
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"statdp/driver"
)

// Row is the JSON-serializable rendering of a driver.Result.
type Row struct {
	Epsilon float64            `json:"epsilon"`
	P       float64            `json:"p"`
	D1      []float64          `json:"d1"`
	D2      []float64          `json:"d2"`
	Kwargs  map[string]float64 `json:"kwargs"`
	Event   string             `json:"event"`
}

func toRow(r driver.Result) Row {
	return Row{
		Epsilon: r.Epsilon,
		P:       r.P,
		D1:      append([]float64(nil), r.D1...),
		D2:      append([]float64(nil), r.D2...),
		Kwargs:  r.Kwargs,
		Event:   r.Event.String(),
	}
}

// WriteJSONL writes one JSON object per line, one per Result, to path,
// replacing any existing file there.
func WriteJSONL(path string, results []driver.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("statdp/report: creating %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for _, r := range results {
		if err := enc.Encode(toRow(r)); err != nil {
			return fmt.Errorf("statdp/report: encoding row: %w", err)
		}
	}
	return buf.Flush()
}

// summaryStats mirrors the teacher's analysis-package summary, trimmed
// to the fields a p-value distribution needs.
type summaryStats struct {
	Count  int
	Mean   float64
	Min    float64
	Median float64
	Max    float64
}

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	var sum float64
	for _, v := range x {
		sum += v
	}
	return summaryStats{
		Count:  n,
		Mean:   sum / float64(n),
		Min:    cp[0],
		Median: quantileSorted(cp, 0.5),
		Max:    cp[n-1],
	}
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// RenderChart writes an interactive HTML line chart of p-value against
// tested epsilon to path, with a 0.05 significance threshold marked and
// a subtitle carrying the p-value distribution's summary statistics.
func RenderChart(path, title string, results []driver.Result) error {
	xs := make([]string, len(results))
	ys := make([]opts.LineData, len(results))
	ps := make([]float64, len(results))
	for i, r := range results {
		xs[i] = fmt.Sprintf("%.4g", r.Epsilon)
		ys[i] = opts.LineData{Value: r.P}
		ps[i] = r.P
	}
	stats := computeStats(ps)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("n=%d, mean p=%.4f, median p=%.4f", stats.Count, stats.Mean, stats.Median),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "550px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "tested epsilon"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "p-value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(xs).AddSeries("p-value", ys,
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			YAxis: 0.05,
			Name:  "significance threshold (0.05)",
		}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Label:     &opts.Label{Show: opts.Bool(true)},
			LineStyle: &opts.LineStyle{Type: "dashed", Width: 1},
		}),
	)

	page := components.NewPage().SetPageTitle(title)
	page.AddCharts(line)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("statdp/report: creating %s: %w", path, err)
	}
	defer f.Close()
	return page.Render(f)
}
