package reporting

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartTitle    = "Ingresos vs Egresos"
	chartHeight   = 400
	chartBarWidth = 20
	chartSpacing  = 10
	chartMinWidth = 600
)

var (
	ingresosFill   = drawing.Color{R: 0, G: 128, B: 0, A: 178}
	ingresosStroke = drawing.ColorFromHex("008000")
	egresosFill    = drawing.Color{R: 255, G: 0, B: 0, A: 178}
	egresosStroke  = drawing.ColorFromHex("ff0000")
)

// RenderBarChart dibuja una barra verde (ingresos) y una roja (egresos) por día y devuelve
// el PNG. Sin datos se dibuja una única barra en cero.
func RenderBarChart(data Chart) ([]byte, error) {
	bars := chartBars(data)

	minValue, maxValue := 0.0, 0.0
	for _, bar := range bars {
		minValue = math.Min(minValue, bar.Value)
		maxValue = math.Max(maxValue, bar.Value)
	}
	if minValue == maxValue {
		maxValue = minValue + 1
	}

	graph := chart.BarChart{
		Title:  chartTitle,
		Width:  max(chartMinWidth, len(bars)*(chartBarWidth+chartSpacing)+120),
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:   chartBarWidth,
		BarSpacing: chartSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: minValue, Max: maxValue},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("error al renderizar gráfico: %w", err)
	}

	return buf.Bytes(), nil
}

func chartBars(data Chart) []chart.Value {
	var ingresos, egresos []float64
	for _, ds := range data.Datasets {
		switch ds.Label {
		case "Ingresos":
			ingresos = ds.Data
		case "Egresos":
			egresos = ds.Data
		}
	}

	bars := make([]chart.Value, 0, len(data.Labels)*2)
	for i, label := range data.Labels {
		bars = append(bars,
			chart.Value{
				Label: shortLabel(label),
				Value: valueAt(ingresos, i),
				Style: chart.Style{FillColor: ingresosFill, StrokeColor: ingresosStroke, StrokeWidth: 1},
			},
			chart.Value{
				Value: valueAt(egresos, i),
				Style: chart.Style{FillColor: egresosFill, StrokeColor: egresosStroke, StrokeWidth: 1},
			},
		)
	}

	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "Sin datos", Value: 0})
	}

	return bars
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// shortLabel convierte YYYY-MM-DD en dd/mm para que quepa bajo la barra
func shortLabel(label string) string {
	t, err := time.Parse(time.DateOnly, label)
	if err != nil {
		return label
	}
	return t.Format("02/01")
}
