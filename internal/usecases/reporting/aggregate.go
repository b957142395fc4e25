package reporting

import (
	"math"
	"sort"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary son las series diarias paralelas: Ingresos[i] y Egresos[i] corresponden a Labels[i]
type Summary struct {
	Labels   []string  `json:"labels"`
	Ingresos []float64 `json:"ingresos"`
	Egresos  []float64 `json:"egresos"`
	Average  float64   `json:"average"`
}

type dailyBucket struct {
	ingresos decimal.Decimal
	egresos  decimal.Decimal
}

// Aggregate agrupa los movimientos ya filtrados por día calendario local.
// El promedio es el neto diario (ingresos - egresos) entre la cantidad de días con datos.
func Aggregate(filtered []domain.Movement) Summary {
	buckets := make(map[string]*dailyBucket)

	for _, m := range filtered {
		label := m.Fecha.Label()
		if label == "" {
			continue
		}
		if math.IsNaN(m.Monto) || math.IsInf(m.Monto, 0) {
			continue
		}

		b, ok := buckets[label]
		if !ok {
			b = &dailyBucket{}
			buckets[label] = b
		}

		amount := decimal.NewFromFloat(m.Monto)
		if m.Tipo == domain.TipoIngreso {
			b.ingresos = b.ingresos.Add(amount)
		} else {
			b.egresos = b.egresos.Add(amount)
		}
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	summary := Summary{
		Labels:   labels,
		Ingresos: make([]float64, 0, len(labels)),
		Egresos:  make([]float64, 0, len(labels)),
	}

	net := decimal.Zero
	for _, label := range labels {
		b := buckets[label]
		ingresos, _ := b.ingresos.Float64()
		egresos, _ := b.egresos.Float64()

		summary.Ingresos = append(summary.Ingresos, ingresos)
		summary.Egresos = append(summary.Egresos, egresos)
		net = net.Add(b.ingresos.Sub(b.egresos))
	}

	if len(labels) > 0 {
		summary.Average, _ = net.Div(decimal.NewFromInt(int64(len(labels)))).Float64()
	}

	return summary
}

const (
	ingresosColor = "rgba(0, 128, 0, 0.7)"
	ingresosLine  = "green"
	egresosColor  = "rgba(255, 0, 0, 0.7)"
	egresosLine   = "red"
)

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// Chart es la estructura que consume el componente de gráficos del panel
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

func ChartData(summary Summary) Chart {
	return Chart{
		Labels: summary.Labels,
		Datasets: []Dataset{
			{
				Label:           "Ingresos",
				Data:            summary.Ingresos,
				BackgroundColor: ingresosColor,
				BorderColor:     ingresosLine,
				BorderWidth:     1,
			},
			{
				Label:           "Egresos",
				Data:            summary.Egresos,
				BackgroundColor: egresosColor,
				BorderColor:     egresosLine,
				BorderWidth:     1,
			},
		},
	}
}
