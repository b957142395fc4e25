package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	idpmocks "github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0/mocks"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/repository"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/repository/mocks"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	adminSession = &domain.Claims{UserID: "admin-1", Role: domain.RoleAdmin}
	userSession  = &domain.Claims{UserID: "user-1", Role: domain.RoleUser}
)

type fixture struct {
	service  *Service
	repo     *mocks.MockUserRepository
	identity *idpmocks.MockIdentityProvider
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	identity := idpmocks.NewMockIdentityProvider(ctrl)

	cfg := &config.Config{IdentitySync: config.IdentitySync{MaxConcurrentJobs: 2}}

	return fixture{
		service:  NewService(repo, identity, cfg),
		repo:     repo,
		identity: identity,
	}
}

func strPtr(s string) *string {
	return &s
}

func assertUserError(t *testing.T, err error, target error, code string) {
	t.Helper()

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.ErrorIs(t, err, target)
	assert.Equal(t, code, userErr.Code)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		session  *domain.Claims
		role     domain.Role
		wantRole domain.Role
	}{
		{name: "admin crea administrador", session: adminSession, role: domain.RoleAdmin, wantRole: domain.RoleAdmin},
		{name: "usuario no puede crear administrador", session: userSession, role: domain.RoleAdmin, wantRole: domain.RoleUser},
		{name: "rol desconocido termina en user", session: adminSession, role: "root", wantRole: domain.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(nil, nil)
			f.identity.EXPECT().Enabled().Return(true)
			f.identity.EXPECT().CreateUser(gomock.Any(), gomock.Any(), "ana@example.com").Return("auth0|1", nil)
			f.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, user *domain.User) (*domain.User, error) {
					return user, nil
				})
			f.identity.EXPECT().AssignRole(gomock.Any(), "auth0|1", tt.wantRole).Return(nil)

			user, err := f.service.Create(context.Background(), tt.session, domain.CreateUserRequest{
				Name:  "Ana",
				Email: "ana@example.com",
				Role:  tt.role,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, "auth0|1", *user.Auth0ID)
			assert.Len(t, user.ID, 21)
			assert.False(t, user.SyncPending)
		})
	}
}

func TestService_Create_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), adminSession, domain.CreateUserRequest{Name: " ", Email: "ana@example.com"})

	assertUserError(t, err, ErrMissingFields, apiErrors.ErrMissingRequiredData)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(&domain.User{ID: "x"}, nil)

	_, err := f.service.Create(context.Background(), adminSession, domain.CreateUserRequest{Name: "Ana", Email: "ana@example.com"})

	assertUserError(t, err, ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists)
}

func TestService_Create_IdentityProviderFailure(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.identity.EXPECT().Enabled().Return(true)
	f.identity.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("409"))

	_, err := f.service.Create(context.Background(), adminSession, domain.CreateUserRequest{Name: "Ana", Email: "ana@example.com"})

	assertUserError(t, err, ErrIdentityProvider, apiErrors.ErrExternalService)
	assert.Contains(t, err.Error(), "Error al crear usuario")
}

func TestService_Create_WithoutIdentityProvider(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.identity.EXPECT().Enabled().Return(false)
	f.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, user *domain.User) (*domain.User, error) {
			return user, nil
		})

	user, err := f.service.Create(context.Background(), adminSession, domain.CreateUserRequest{Name: "Ana", Email: "ana@example.com"})

	require.NoError(t, err)
	assert.Nil(t, user.Auth0ID)
	assert.True(t, user.SyncPending)
}

func TestService_Update_RoleRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	role := domain.RoleAdmin

	_, err := f.service.Update(context.Background(), userSession, domain.UpdateUserRequest{ID: "user-1", Role: &role})

	assertUserError(t, err, ErrForbiddenRole, apiErrors.ErrInsufficientPrivilege)
	assert.Contains(t, err.Error(), "No autorizado a cambiar el rol")
}

func TestService_Update_SyncsIdentity(t *testing.T) {
	f := newFixture(t)
	role := domain.RoleAdmin
	stored := &domain.User{ID: "user-1", Auth0ID: strPtr("auth0|1"), Email: "ana@example.com", Role: domain.RoleUser}

	f.repo.EXPECT().GetUserByID(gomock.Any(), "user-1").Return(stored, nil)
	f.repo.EXPECT().UpdateUser(gomock.Any(), stored).Return(nil)
	f.identity.EXPECT().Enabled().Return(true)
	f.identity.EXPECT().UpdateUser(gomock.Any(), "auth0|1", nil, strPtr("Ana María")).Return(nil)
	f.identity.EXPECT().AssignRole(gomock.Any(), "auth0|1", domain.RoleAdmin).Return(nil)

	user, err := f.service.Update(context.Background(), adminSession, domain.UpdateUserRequest{
		ID:   "user-1",
		Name: strPtr("Ana María"),
		Role: &role,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "Ana María", *user.Name)
	assert.False(t, user.SyncPending)
}

func TestService_Update_IdentityFailureMarksPending(t *testing.T) {
	f := newFixture(t)
	stored := &domain.User{ID: "user-1", Auth0ID: strPtr("auth0|1"), Email: "ana@example.com", Role: domain.RoleUser}

	f.repo.EXPECT().GetUserByID(gomock.Any(), "user-1").Return(stored, nil)
	f.repo.EXPECT().UpdateUser(gomock.Any(), stored).Return(nil)
	f.identity.EXPECT().Enabled().Return(true)
	f.identity.EXPECT().UpdateUser(gomock.Any(), "auth0|1", gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
	f.repo.EXPECT().SetSyncPending(gomock.Any(), "user-1", true).Return(nil)

	user, err := f.service.Update(context.Background(), userSession, domain.UpdateUserRequest{
		ID:    "user-1",
		Email: strPtr("nueva@example.com"),
	})

	require.NoError(t, err)
	assert.Equal(t, "nueva@example.com", user.Email)
	assert.True(t, user.SyncPending)
}

func TestService_Update_WithoutIdentitySkipsSync(t *testing.T) {
	f := newFixture(t)
	stored := &domain.User{ID: "user-1", Email: "ana@example.com", Role: domain.RoleUser}

	f.repo.EXPECT().GetUserByID(gomock.Any(), "user-1").Return(stored, nil)
	f.repo.EXPECT().UpdateUser(gomock.Any(), stored).Return(nil)

	_, err := f.service.Update(context.Background(), userSession, domain.UpdateUserRequest{ID: "user-1", Phone: strPtr("300")})

	require.NoError(t, err)
}

func TestService_Update_NotFound(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetUserByID(gomock.Any(), "nope").Return(nil, nil)

	_, err := f.service.Update(context.Background(), adminSession, domain.UpdateUserRequest{ID: "nope"})

	assertUserError(t, err, ErrUserNotFound, apiErrors.ErrUserNotFound)
}

func TestService_Update_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	stored := &domain.User{ID: "user-1", Email: "ana@example.com"}

	f.repo.EXPECT().GetUserByID(gomock.Any(), "user-1").Return(stored, nil)
	f.repo.EXPECT().UpdateUser(gomock.Any(), stored).Return(repository.ErrDuplicate)

	_, err := f.service.Update(context.Background(), adminSession, domain.UpdateUserRequest{ID: "user-1", Email: strPtr("otro@example.com")})

	assertUserError(t, err, ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists)
}

func TestService_Delete(t *testing.T) {
	t.Run("sólo administradores", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Delete(context.Background(), userSession, "user-2")

		assertUserError(t, err, ErrForbiddenDelete, apiErrors.ErrInsufficientPrivilege)
		assert.Contains(t, err.Error(), "Solo administradores pueden eliminar usuarios")
	})

	t.Run("devuelve el usuario eliminado", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().DeleteUser(gomock.Any(), "user-2").Return(&domain.User{ID: "user-2"}, nil)

		user, err := f.service.Delete(context.Background(), adminSession, "user-2")

		require.NoError(t, err)
		assert.Equal(t, "user-2", user.ID)
	})

	t.Run("usuario inexistente", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().DeleteUser(gomock.Any(), "user-2").Return(nil, nil)

		_, err := f.service.Delete(context.Background(), adminSession, "user-2")

		assertUserError(t, err, ErrUserNotFound, apiErrors.ErrUserNotFound)
	})
}

func TestService_Get(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetUserByID(gomock.Any(), "user-1").Return(nil, errors.New("db caída"))

	_, err := f.service.Get(context.Background(), "user-1")

	assertUserError(t, err, ErrDatabaseOperation, apiErrors.ErrDatabaseOperation)
}

func TestService_SyncPending(t *testing.T) {
	f := newFixture(t)
	linked := &domain.User{ID: "u1", Auth0ID: strPtr("auth0|1"), Email: "a@example.com", Role: domain.RoleUser, SyncPending: true}
	unlinked := &domain.User{ID: "u2", Email: "b@example.com", Role: domain.RoleAdmin, SyncPending: true}
	broken := &domain.User{ID: "u3", Auth0ID: strPtr("auth0|3"), Email: "c@example.com", Role: domain.RoleUser, SyncPending: true}

	var mu sync.Mutex
	cleared := map[string]bool{}

	f.identity.EXPECT().Enabled().Return(true)
	f.repo.EXPECT().ListSyncPending(gomock.Any()).Return([]*domain.User{linked, unlinked, broken}, nil)

	f.identity.EXPECT().UpdateUser(gomock.Any(), "auth0|1", gomock.Any(), gomock.Any()).Return(nil)
	f.identity.EXPECT().AssignRole(gomock.Any(), "auth0|1", domain.RoleUser).Return(nil)

	f.identity.EXPECT().CreateUser(gomock.Any(), gomock.Any(), "b@example.com").Return("auth0|2", nil)
	f.repo.EXPECT().UpdateUser(gomock.Any(), unlinked).Return(nil)
	f.identity.EXPECT().AssignRole(gomock.Any(), "auth0|2", domain.RoleAdmin).Return(nil)

	f.identity.EXPECT().UpdateUser(gomock.Any(), "auth0|3", gomock.Any(), gomock.Any()).Return(errors.New("429"))

	f.repo.EXPECT().SetSyncPending(gomock.Any(), gomock.Any(), false).DoAndReturn(
		func(_ context.Context, userID string, _ bool) error {
			mu.Lock()
			defer mu.Unlock()
			cleared[userID] = true
			return nil
		}).Times(2)

	result, err := f.service.SyncPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &SyncResult{Pending: 3, Synced: 2, Failed: 1}, result)
	assert.Equal(t, map[string]bool{"u1": true, "u2": true}, cleared)
	assert.Equal(t, "auth0|2", *unlinked.Auth0ID)
}

func TestService_SyncPending_NotConfigured(t *testing.T) {
	f := newFixture(t)

	f.identity.EXPECT().Enabled().Return(false)

	_, err := f.service.SyncPending(context.Background())

	assertUserError(t, err, ErrIdentityProvider, apiErrors.ErrExternalService)
}

func TestService_SyncPending_RoleFailureKeepsPending(t *testing.T) {
	f := newFixture(t)
	unlinked := &domain.User{ID: "u2", Email: "b@example.com", Role: domain.RoleAdmin, SyncPending: true}

	var storedPending []bool

	f.identity.EXPECT().Enabled().Return(true)
	f.repo.EXPECT().ListSyncPending(gomock.Any()).Return([]*domain.User{unlinked}, nil)
	f.identity.EXPECT().CreateUser(gomock.Any(), gomock.Any(), "b@example.com").Return("auth0|2", nil)
	f.repo.EXPECT().UpdateUser(gomock.Any(), unlinked).DoAndReturn(
		func(_ context.Context, user *domain.User) error {
			storedPending = append(storedPending, user.SyncPending)
			return nil
		})
	f.identity.EXPECT().AssignRole(gomock.Any(), "auth0|2", domain.RoleAdmin).Return(errors.New("429"))

	result, err := f.service.SyncPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &SyncResult{Pending: 1, Synced: 0, Failed: 1}, result)
	assert.Equal(t, []bool{true}, storedPending)
	assert.Equal(t, "auth0|2", *unlinked.Auth0ID)
	assert.True(t, unlinked.SyncPending)
}

func TestService_Update_SuccessClearsPending(t *testing.T) {
	f := newFixture(t)
	stored := &domain.User{ID: "user-1", Auth0ID: strPtr("auth0|1"), Email: "ana@example.com", Role: domain.RoleUser, SyncPending: true}

	f.repo.EXPECT().GetUserByID(gomock.Any(), "user-1").Return(stored, nil)
	f.repo.EXPECT().UpdateUser(gomock.Any(), stored).Return(nil)
	f.identity.EXPECT().Enabled().Return(true)
	f.identity.EXPECT().UpdateUser(gomock.Any(), "auth0|1", gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().SetSyncPending(gomock.Any(), "user-1", false).Return(nil)

	user, err := f.service.Update(context.Background(), userSession, domain.UpdateUserRequest{
		ID:    "user-1",
		Email: strPtr("nueva@example.com"),
	})

	require.NoError(t, err)
	assert.False(t, user.SyncPending)
}
