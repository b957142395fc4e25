package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/database/postgres"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/pkg/errors"
)

const usersTable = "users"

var userColumns = []string{
	"id", "auth0_id", "name", "email", "email_verified", "image", "phone", "role", "sync_pending", "created_at", "updated_at",
}

//go:generate mockgen -source=user.go -destination=mocks/mock_user.go -package=mocks
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListSyncPending(ctx context.Context) ([]*domain.User, error)
	SetSyncPending(ctx context.Context, userID string, pending bool) error
}

type userRepository struct {
	conn postgres.Queryer
}

func NewUserRepository(conn postgres.Queryer) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Auth0ID,
		&user.Name,
		&user.Email,
		&user.EmailVerified,
		&user.Image,
		&user.Phone,
		&role,
		&user.SyncPending,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	queryBuilder := squirrel.
		Insert(usersTable).
		Columns("id", "auth0_id", "name", "email", "image", "phone", "role", "sync_pending").
		Values(user.ID, user.Auth0ID, user.Name, user.Email, user.Image, user.Phone, string(user.Role), user.SyncPending).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	usersSQL, usersArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.conn.QueryRowContext(ctx, usersSQL, usersArgs...).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, errors.Wrap(err, "insertar usuario")
	}

	return user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	queryBuilder := squirrel.
		Update(usersTable).
		Set("auth0_id", user.Auth0ID).
		Set("name", user.Name).
		Set("email", user.Email).
		Set("image", user.Image).
		Set("phone", user.Phone).
		Set("role", string(user.Role)).
		Set("sync_pending", user.SyncPending).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	usersSQL, usersArgs, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	err = r.conn.QueryRowContext(ctx, usersSQL, usersArgs...).Scan(&user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "actualizar usuario")
	}

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) (*domain.User, error) {
	queryBuilder := squirrel.
		Delete(usersTable).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		PlaceholderFormat(squirrel.Dollar)

	usersSQL, usersArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.conn.QueryRowContext(ctx, usersSQL, usersArgs...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "eliminar usuario")
	}

	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, squirrel.Eq{"email": email})
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUser(ctx, squirrel.Eq{"id": userID})
}

func (r *userRepository) getUser(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	usersSQL, usersArgs, err := squirrel.
		Select(userColumns...).
		From(usersTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.conn.QueryRowContext(ctx, usersSQL, usersArgs...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "buscar usuario")
	}

	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return r.listUsers(ctx, squirrel.
		Select(userColumns...).
		From(usersTable).
		OrderBy("created_at ASC"))
}

func (r *userRepository) ListSyncPending(ctx context.Context) ([]*domain.User, error) {
	return r.listUsers(ctx, squirrel.
		Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"sync_pending": true}).
		OrderBy("updated_at ASC"))
}

func (r *userRepository) listUsers(ctx context.Context, queryBuilder squirrel.SelectBuilder) ([]*domain.User, error) {
	usersSQL, usersArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, usersSQL, usersArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "listar usuarios")
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "leer usuario")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) SetSyncPending(ctx context.Context, userID string, pending bool) error {
	usersSQL, usersArgs, err := squirrel.
		Update(usersTable).
		Set("sync_pending", pending).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.ExecContext(ctx, usersSQL, usersArgs...); err != nil {
		return errors.Wrap(err, "marcar sincronización pendiente")
	}

	return nil
}
