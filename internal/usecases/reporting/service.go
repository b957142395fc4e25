package reporting

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/log"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
)

type Reporter interface {
	Report(ctx context.Context, req ReportRequest) (*Report, error)
	RenderChart(ctx context.Context, req ReportRequest) ([]byte, error)
	Export(ctx context.Context, req ExportRequest) (*ExportFile, error)
}

// MovementLister es la fuente de movimientos del reporte
type MovementLister interface {
	ListMovements(ctx context.Context) ([]domain.Movement, error)
}

type ReportRequest struct {
	TimeFrame domain.TimeFrame
	Range     domain.CustomRange
}

func (r ReportRequest) validate() error {
	if !r.TimeFrame.Valid() {
		return NewReportError(ErrInvalidTimeFrame, apiErrors.ErrInvalidTimeFrame, "Periodo no soportado: "+string(r.TimeFrame))
	}
	return nil
}

type ExportRequest struct {
	ReportRequest
	Format ExportFormat
	Mode   ExportMode
}

func (r ExportRequest) validate() error {
	if !r.Format.Valid() {
		return NewReportError(ErrInvalidFormat, apiErrors.ErrInvalidFormat, "Formato no soportado: "+string(r.Format))
	}
	if !r.Mode.Valid() {
		return NewReportError(ErrInvalidMode, apiErrors.ErrInvalidFormat, "Modo no soportado: "+string(r.Mode))
	}
	if r.Mode == ExportModeSelected {
		return r.ReportRequest.validate()
	}
	return nil
}

// Report es el estado derivado que muestra el panel
type Report struct {
	TimeFrame  domain.TimeFrame    `json:"timeFrame"`
	Range      *domain.CustomRange `json:"range,omitempty"`
	From       *time.Time          `json:"from,omitempty"`
	To         *time.Time          `json:"to,omitempty"`
	RangeError string              `json:"rangeError,omitempty"`
	Movements  []domain.Movement   `json:"movements"`
	Summary    Summary             `json:"summary"`
	ChartData  Chart               `json:"chartData"`
	Average    float64             `json:"average"`
}

type Service struct {
	movements MovementLister
	cfg       *config.Config
	now       utils.Clock
}

func NewService(movements MovementLister, cfg *config.Config, clock utils.Clock) *Service {
	if clock == nil {
		var loc *time.Location
		if cfg != nil {
			loc = cfg.App.Location
		}
		clock = utils.NewClock(loc)
	}
	return &Service{
		movements: movements,
		cfg:       cfg,
		now:       clock,
	}
}

func (s *Service) Report(ctx context.Context, req ReportRequest) (*Report, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	movements, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	report := s.Recompute(movements, req, s.now())

	log.ForContext(ctx).WithFields(log.Fields{
		"time_frame": req.TimeFrame,
		"movements":  len(report.Movements),
		"days":       len(report.Summary.Labels),
	}).Debug("reports: reporte calculado")

	return report, nil
}

// Recompute es el cálculo puro que se repite cada vez que cambian los movimientos, la
// ventana o los límites del rango.
func (s *Service) Recompute(movements []domain.Movement, req ReportRequest, now time.Time) *Report {
	filtered := FilterByTimeFrame(movements, req.TimeFrame, req.Range, now)
	summary := Aggregate(filtered)

	report := &Report{
		TimeFrame: req.TimeFrame,
		Movements: filtered,
		Summary:   summary,
		ChartData: ChartData(summary),
		Average:   summary.Average,
	}

	if from, to, ok := Window(req.TimeFrame, req.Range, now); ok {
		report.From, report.To = &from, &to
	}

	if req.TimeFrame == domain.TimeFrameRango {
		rng := req.Range
		report.Range = &rng
		report.RangeError = validateCustomRange(rng.Start, rng.End, s.maxRangeDays())
	}

	return report
}

func (s *Service) RenderChart(ctx context.Context, req ReportRequest) ([]byte, error) {
	report, err := s.Report(ctx, req)
	if err != nil {
		return nil, err
	}

	return RenderBarChart(report.ChartData)
}

func (s *Service) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	movements, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	file, err := s.BuildExport(movements, req, s.now())
	if err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"file_name": file.Name,
		"bytes":     len(file.Content),
	}).Info("reports: exportación generada")

	return file, nil
}

// BuildExport arma el archivo a partir de movimientos ya cargados. Sin movimientos
// cargados (nil) no hay nada que exportar.
func (s *Service) BuildExport(movements []domain.Movement, req ExportRequest, now time.Time) (*ExportFile, error) {
	if movements == nil {
		return nil, ErrNothingToExport
	}

	var snapshot Snapshot
	switch req.Mode {
	case ExportModeThreeSheets:
		snapshot = ThreeWindowSnapshot(movements, now, s.dateLayout())
	default:
		if req.TimeFrame == domain.TimeFrameRango {
			if msg := validateCustomRange(req.Range.Start, req.Range.End, s.maxRangeDays()); msg != "" {
				return nil, invalidRangeError(msg)
			}
		}
		snapshot = SelectedSnapshot(movements, req.TimeFrame, req.Range, now, s.dateLayout())
	}

	return WriteExport(snapshot, req.Format)
}

func (s *Service) fetch(ctx context.Context) ([]domain.Movement, error) {
	movements, err := s.movements.ListMovements(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("reports: error al obtener movimientos")
		return nil, NewReportError(err, apiErrors.ErrDatabaseOperation, ErrMovementsFetch.Error())
	}
	return movements, nil
}

func (s *Service) maxRangeDays() int {
	if s.cfg == nil || s.cfg.Report.MaxRangeDays <= 0 {
		return DefaultMaxRangeDays
	}
	return s.cfg.Report.MaxRangeDays
}

func (s *Service) dateLayout() string {
	if s.cfg == nil || s.cfg.Report.DateLayout == "" {
		return "2/1/2006"
	}
	return s.cfg.Report.DateLayout
}
