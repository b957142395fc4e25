package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/reporting"
	"github.com/sirupsen/logrus"
)

func reportRequest(query url.Values) reporting.ReportRequest {
	timeFrame := domain.TimeFrame(strings.TrimSpace(query.Get("time_frame")))
	if timeFrame == "" {
		timeFrame = domain.TimeFrameDiario
	}

	return reporting.ReportRequest{
		TimeFrame: timeFrame,
		Range: domain.CustomRange{
			Start: strings.TrimSpace(query.Get("start_date")),
			End:   strings.TrimSpace(query.Get("end_date")),
		},
	}
}

func GetMovementReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetMovementReport")

		report, err := service.Report(r.Context(), reportRequest(r.URL.Query()))
		if err != nil {
			writeServiceError(w, r, err, "Error al generar el reporte")
			return
		}

		writeJSON(w, r, http.StatusOK, report)
	}
}

func GetMovementChart(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetMovementChart")

		png, err := service.RenderChart(r.Context(), reportRequest(r.URL.Query()))
		if err != nil {
			writeServiceError(w, r, err, "Error al generar el gráfico")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(png); err != nil {
			logrus.WithError(err).Error("Error al enviar el gráfico")
		}
	}
}

func ExportMovements(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ExportMovements")

		query := r.URL.Query()
		req := reporting.ExportRequest{
			ReportRequest: reportRequest(query),
			Format:        reporting.ExportFormat(defaultString(query.Get("format"), string(reporting.ExportFormatXLSX))),
			Mode:          reporting.ExportMode(defaultString(query.Get("mode"), string(reporting.ExportModeSelected))),
		}

		file, err := service.Export(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err, "Error al exportar movimientos")
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
		if _, err := w.Write(file.Content); err != nil {
			logrus.WithError(err).Error("Error al enviar el archivo exportado")
		}
	}
}

func defaultString(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
