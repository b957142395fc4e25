package movements

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/repository"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/log"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
)

const MsgInvalidAmount = "El monto debe ser un número válido."

type MovementService interface {
	List(ctx context.Context) ([]domain.Movement, error)
	Create(ctx context.Context, session *domain.Claims, req domain.CreateMovementRequest) (*domain.Movement, error)
}

type Service struct {
	movementRepository repository.MovementRepository
	now                utils.Clock
}

func NewService(movementRepository repository.MovementRepository, clock utils.Clock) *Service {
	if clock == nil {
		clock = utils.NewClock(nil)
	}
	return &Service{
		movementRepository: movementRepository,
		now:                clock,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Movement, error) {
	movements, err := s.movementRepository.ListMovements(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("movements: error al listar movimientos")
		return nil, NewMovementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Error al obtener movimientos")
	}

	return movements, nil
}

// Create registra un movimiento. Un usuario que no es administrador sólo puede registrar
// movimientos propios. La fecha se guarda tal como llega.
func (s *Service) Create(ctx context.Context, session *domain.Claims, req domain.CreateMovementRequest) (*domain.Movement, error) {
	logger := log.ForContext(ctx)

	req.UserID = strings.TrimSpace(req.UserID)
	req.Concepto = strings.TrimSpace(req.Concepto)
	if req.UserID == "" || req.Concepto == "" || strings.TrimSpace(req.Fecha) == "" || req.Monto == nil {
		return nil, NewMovementError(ErrMissingFields, apiErrors.ErrMissingRequiredData, "userId, concepto, monto, fecha y tipo son obligatorios")
	}

	if !session.IsAdmin() && session.UserID != req.UserID {
		logger.WithFields(log.Fields{
			"user_id":        session.UserID,
			"user_target_id": req.UserID,
		}).Warn("movements: intento de crear movimiento para otro usuario")
		return nil, NewMovementError(ErrForbidden, apiErrors.ErrInsufficientPrivilege, "No autorizado para crear movimientos para otros usuarios")
	}

	monto, ok := ParseMonto(req.Monto)
	if !ok {
		return nil, NewMovementError(ErrInvalidAmount, apiErrors.ErrInvalidFormat, MsgInvalidAmount)
	}

	if !req.Tipo.Valid() {
		return nil, NewMovementError(ErrInvalidTipo, apiErrors.ErrInvalidFormat, "El tipo debe ser ingreso o egreso.")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewMovementError(ErrDatabaseOperation, apiErrors.ErrInternalServer, "Error al crear movimiento")
	}

	movement := &domain.Movement{
		ID:       id,
		Concepto: req.Concepto,
		Monto:    monto,
		Fecha:    domain.ParseFecha(req.Fecha, s.now()),
		Tipo:     req.Tipo,
		UserID:   req.UserID,
		User:     &domain.MovementOwner{ID: req.UserID},
	}

	if err := s.movementRepository.CreateMovement(ctx, movement); err != nil {
		if errors.Is(err, repository.ErrReference) {
			return nil, NewMovementError(ErrUserNotFound, apiErrors.ErrUserNotFound, "El usuario del movimiento no existe")
		}
		logger.WithError(err).Error("movements: error al guardar movimiento")
		return nil, NewMovementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Error al crear movimiento")
	}

	if !movement.Fecha.Valid() {
		logger.WithField("user_id", req.UserID).Warn("movements: fecha no reconocida, el movimiento no aparecerá en los reportes")
	}

	logger.WithField("user_id", req.UserID).Info("movements: movimiento creado")

	return movement, nil
}

// ParseMonto acepta un número JSON o un texto numérico y rechaza valores no finitos
func ParseMonto(value any) (float64, bool) {
	var v float64

	switch m := value.(type) {
	case float64:
		v = m
	case float32:
		v = float64(m)
	case int:
		v = float64(m)
	case int64:
		v = float64(m)
	case interface{ Float64() (float64, error) }:
		f, err := m.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
