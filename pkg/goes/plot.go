package goes

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"solarcube/internal/models"
)

// PlotTimeSeries renders both XRS channels of the series as a PNG line chart
// at path. The series needs at least two samples to draw a line.
func PlotTimeSeries(ts *models.TimeSeries, path string) error {
	if ts.Len() < 2 {
		return fmt.Errorf("goes: need at least 2 samples to plot, got %d", ts.Len())
	}

	ch := chart.Chart{
		Title: fmt.Sprintf("GOES-%d XRS", ts.Satellite),
		XAxis: chart.XAxis{Name: "Time"},
		YAxis: chart.YAxis{Name: "Flux (W/m^2)"},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "XRS-A 0.5-4 A",
				XValues: ts.Times,
				YValues: ts.ShortFlux,
				Style:   chart.Style{StrokeColor: chart.ColorBlue},
			},
			chart.TimeSeries{
				Name:    "XRS-B 1-8 A",
				XValues: ts.Times,
				YValues: ts.LongFlux,
				Style:   chart.Style{StrokeColor: chart.ColorRed},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ch.Render(chart.PNG, file)
}
