package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/database/postgres"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
	"github.com/pkg/errors"
)

const movementsTable = "movements"

//go:generate mockgen -source=movement.go -destination=mocks/mock_movement.go -package=mocks
type MovementRepository interface {
	ListMovements(ctx context.Context) ([]domain.Movement, error)
	CreateMovement(ctx context.Context, movement *domain.Movement) error
}

type movementRepository struct {
	conn postgres.Queryer
	now  utils.Clock
}

// NewMovementRepository resuelve la fecha de cada movimiento con el reloj recibido, así
// todas las etapas siguientes trabajan con la misma interpretación.
func NewMovementRepository(conn postgres.Queryer, clock utils.Clock) MovementRepository {
	if clock == nil {
		clock = utils.NewClock(nil)
	}
	return &movementRepository{
		conn: conn,
		now:  clock,
	}
}

func (r *movementRepository) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	movementsSQL, movementsArgs, err := squirrel.
		Select("m.id", "m.concepto", "m.monto", "m.fecha", "m.tipo", "m.user_id", "m.created_at", "u.name").
		From(movementsTable + " m").
		LeftJoin(usersTable + " u ON u.id = m.user_id").
		OrderBy("m.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, movementsSQL, movementsArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "listar movimientos")
	}
	defer rows.Close()

	now := r.now()
	movements := make([]domain.Movement, 0)
	for rows.Next() {
		var (
			m         domain.Movement
			fecha     string
			tipo      string
			ownerName sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Concepto, &m.Monto, &fecha, &tipo, &m.UserID, &m.CreatedAt, &ownerName); err != nil {
			return nil, errors.Wrap(err, "leer movimiento")
		}

		m.Fecha = domain.ParseFecha(fecha, now)
		m.Tipo = domain.Tipo(tipo)
		m.User = &domain.MovementOwner{ID: m.UserID}
		if ownerName.Valid {
			name := ownerName.String
			m.User.Name = &name
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}

func (r *movementRepository) CreateMovement(ctx context.Context, movement *domain.Movement) error {
	movementsSQL, movementsArgs, err := squirrel.
		Insert(movementsTable).
		Columns("id", "concepto", "monto", "fecha", "tipo", "user_id").
		Values(movement.ID, movement.Concepto, movement.Monto, movement.Fecha.Raw, string(movement.Tipo), movement.UserID).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.conn.QueryRowContext(ctx, movementsSQL, movementsArgs...).Scan(&movement.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrReference
		}
		return errors.Wrap(err, "insertar movimiento")
	}

	return nil
}
