package lanmac

// render.go draws the results table: one line chart per protocol,
// throughput against load, one line per device count

import (
	"fmt"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"path/filepath"
)

// chartWidth and chartHeight size every chart
var chartWidth = 8 * vg.Inch
var chartHeight = 6 * vg.Inch

// buildChart creates the plot for one protocol
func buildChart(name string, seriesList []Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Channel Utilization vs Load", name)
	p.X.Label.Text = "G (attempts per packet time)"
	p.Y.Label.Text = "S (throughput per packet time)"
	p.Legend.Top = true

	// plotutil.AddLines takes alternating legend labels and point sets
	lines := make([]any, 0, 2*len(seriesList))
	for _, series := range seriesList {
		xys := make(plotter.XYs, len(series.G))
		for idx := range series.G {
			xys[idx].X = series.G[idx]
			xys[idx].Y = series.S[idx]
		}
		lines = append(lines, fmt.Sprintf("%d devices", series.Devices), xys)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return nil, fmt.Errorf("charting %s: %w", name, err)
	}
	return p, nil
}

// RenderCharts writes one PNG per protocol of the table into dir and
// returns the names of the files written
func RenderCharts(rt *ResultsTable, dir string) ([]string, error) {
	if _, err := CheckDirectories([]string{dir}); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(rt.Protocols))
	for _, name := range rt.Protocols {
		proto, err := ProtocolFromStr(name)
		if err != nil {
			return written, err
		}
		p, err := buildChart(name, rt.Results[name])
		if err != nil {
			return written, err
		}

		filename := filepath.Join(dir, proto.Slug()+".png")
		if err := p.Save(chartWidth, chartHeight, filename); err != nil {
			return written, fmt.Errorf("saving chart %s: %w", filename, err)
		}
		written = append(written, filename)
	}
	return written, nil
}
