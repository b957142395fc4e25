//go:build integration

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/database/postgres"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/migration"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "root",
				"POSTGRES_DB":       "finanzas",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:root@%s:%s/finanzas?sslmode=disable", host, port.Port())
	require.NoError(t, migration.Run(dsn))

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return postgres.NewFromDB(db)
}

func TestRepositories_Postgres(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()

	bogota := time.FixedZone("COT", -5*60*60)
	clock := func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, bogota) }

	users := NewUserRepository(conn)
	movements := NewMovementRepository(conn, clock)

	name := "Ana"
	created, err := users.CreateUser(ctx, &domain.User{ID: "u1", Name: &name, Email: "ana@example.com", Role: domain.RoleAdmin, SyncPending: true})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("Correo duplicado", func(t *testing.T) {
		_, err := users.CreateUser(ctx, &domain.User{ID: "u2", Email: "ana@example.com", Role: domain.RoleUser})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("Pendientes de sincronización", func(t *testing.T) {
		pending, err := users.ListSyncPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "u1", pending[0].ID)

		require.NoError(t, users.SetSyncPending(ctx, "u1", false))

		pending, err = users.ListSyncPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("Actualizar usuario", func(t *testing.T) {
		user, err := users.GetUserByID(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, user)

		auth0ID := "auth0|abc"
		user.Auth0ID = &auth0ID
		require.NoError(t, users.UpdateUser(ctx, user))

		got, err := users.GetUserByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.True(t, got.HasIdentity())

		missing := &domain.User{ID: "nadie", Email: "x@example.com", Role: domain.RoleUser}
		assert.ErrorIs(t, users.UpdateUser(ctx, missing), ErrNotFound)
	})

	t.Run("Movimientos conservan la fecha original", func(t *testing.T) {
		require.NoError(t, movements.CreateMovement(ctx, &domain.Movement{
			ID: "m1", Concepto: "Salario", Monto: 1500.5, Fecha: domain.Fecha{Raw: "2024-03-01"}, Tipo: domain.TipoIngreso, UserID: "u1",
		}))
		require.NoError(t, movements.CreateMovement(ctx, &domain.Movement{
			ID: "m2", Concepto: "Arriendo", Monto: 800, Fecha: domain.Fecha{Raw: "1709269200000"}, Tipo: domain.TipoEgreso, UserID: "u1",
		}))

		list, err := movements.ListMovements(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)

		assert.Equal(t, "2024-03-01", list[0].Fecha.Raw)
		assert.Equal(t, domain.FechaDateOnly, list[0].Fecha.Kind)
		assert.Equal(t, domain.FechaEpochMillis, list[1].Fecha.Kind)
		require.NotNil(t, list[0].User.Name)
		assert.Equal(t, "Ana", *list[0].User.Name)
	})

	t.Run("Movimiento de usuario inexistente", func(t *testing.T) {
		err := movements.CreateMovement(ctx, &domain.Movement{
			ID: "m3", Concepto: "x", Monto: 1, Fecha: domain.Fecha{Raw: "2024-03-01"}, Tipo: domain.TipoEgreso, UserID: "nadie",
		})
		assert.ErrorIs(t, err, ErrReference)
	})

	t.Run("Eliminar usuario elimina sus movimientos", func(t *testing.T) {
		deleted, err := users.DeleteUser(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, deleted)

		list, err := movements.ListMovements(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		again, err := users.DeleteUser(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, again)
	})
}
