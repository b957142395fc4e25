package users

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/repository"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/log"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const defaultSyncConcurrency = 4

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Create(ctx context.Context, session *domain.Claims, req domain.CreateUserRequest) (*domain.User, error)
	Update(ctx context.Context, session *domain.Claims, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, session *domain.Claims, userID string) (*domain.User, error)
	SyncPending(ctx context.Context) (*SyncResult, error)
}

// SyncResult resume una pasada de reintentos contra el proveedor de identidad
type SyncResult struct {
	Pending int `json:"pending"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
}

type Service struct {
	userRepository repository.UserRepository
	identity       auth0.IdentityProvider
	cfg            *config.Config
}

func NewService(
	userRepository repository.UserRepository,
	identity auth0.IdentityProvider,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepository: userRepository,
		identity:       identity,
		cfg:            cfg,
	}
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepository.ListUsers(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("users: error al listar usuarios")
		return nil, NewUserError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Error al obtener usuarios")
	}

	return users, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("users: error al buscar usuario")
		return nil, NewUserErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, userID, "Error al obtener usuario")
	}
	if user == nil {
		return nil, NewUserErrorWithID(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "Usuario no encontrado")
	}

	return user, nil
}

// Create da de alta al usuario en el proveedor de identidad y luego localmente.
// Sólo un administrador puede crear otro administrador; cualquier otro rol termina en user.
func (s *Service) Create(ctx context.Context, session *domain.Claims, req domain.CreateUserRequest) (*domain.User, error) {
	logger := log.ForContext(ctx)

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		return nil, NewUserError(ErrMissingFields, apiErrors.ErrMissingRequiredData, "Nombre y correo son obligatorios")
	}

	finalRole := domain.RoleUser
	if req.Role == domain.RoleAdmin && session.IsAdmin() {
		finalRole = domain.RoleAdmin
	}

	existing, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		logger.WithError(err).Error("users: error al verificar correo")
		return nil, NewUserError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Error al crear usuario")
	}
	if existing != nil {
		return nil, NewUserError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Ya existe un usuario con ese correo")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewUserError(ErrDatabaseOperation, apiErrors.ErrInternalServer, "Error al crear usuario")
	}

	user := &domain.User{
		ID:    id,
		Name:  &req.Name,
		Email: req.Email,
		Image: req.Image,
		Phone: req.Phone,
		Role:  finalRole,
	}

	if s.identity.Enabled() {
		auth0ID, err := s.identity.CreateUser(ctx, user.Name, user.Email)
		if err != nil {
			logger.WithError(err).Error("users: error al crear usuario en el proveedor de identidad")
			return nil, NewUserError(ErrIdentityProvider, apiErrors.ErrExternalService, "Error al crear usuario")
		}
		user.Auth0ID = &auth0ID
	} else {
		logger.Warn("users: proveedor de identidad no configurado, el usuario queda pendiente de sincronización")
		user.SyncPending = true
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewUserError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Ya existe un usuario con ese correo")
		}
		logger.WithError(err).Error("users: error al guardar usuario")
		return nil, NewUserError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Error al crear usuario")
	}

	if created.HasIdentity() {
		if err := s.identity.AssignRole(ctx, *created.Auth0ID, finalRole); err != nil {
			logger.WithError(err).Error("users: error al asignar rol en el proveedor de identidad")
			if err := s.userRepository.SetSyncPending(ctx, created.ID, true); err != nil {
				logger.WithError(err).Error("users: no se pudo marcar la sincronización pendiente")
			}
			return nil, NewUserErrorWithID(ErrIdentityProvider, apiErrors.ErrExternalService, created.ID, "Error al crear usuario")
		}
	}

	logger.WithFields(log.Fields{
		"user_id":   created.ID,
		"user_role": string(created.Role),
	}).Info("users: usuario creado")

	return created, nil
}

// Update guarda primero el cambio local; los fallos al replicarlo en el proveedor de
// identidad sólo marcan al usuario como pendiente de sincronización.
func (s *Service) Update(ctx context.Context, session *domain.Claims, req domain.UpdateUserRequest) (*domain.User, error) {
	logger := log.ForContext(ctx).WithField("user_id", req.ID)

	roleChange := req.Role != nil && *req.Role != ""
	if roleChange && !session.IsAdmin() {
		return nil, NewUserErrorWithID(ErrForbiddenRole, apiErrors.ErrInsufficientPrivilege, req.ID, "No autorizado a cambiar el rol")
	}
	if roleChange && !req.Role.Valid() {
		return nil, NewUserErrorWithID(ErrInvalidRole, apiErrors.ErrInvalidRequest, req.ID, "Rol no soportado: "+string(*req.Role))
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return nil, NewUserErrorWithID(ErrMissingFields, apiErrors.ErrMissingRequiredData, req.ID, "El correo no puede estar vacío")
	}

	user, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	applyUpdate(user, req, roleChange)

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewUserErrorWithID(ErrUserNotFound, apiErrors.ErrUserNotFound, req.ID, "Usuario no encontrado")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, NewUserErrorWithID(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, req.ID, "Ya existe un usuario con ese correo")
		}
		logger.WithError(err).Error("users: error al actualizar usuario")
		return nil, NewUserErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, req.ID, "Error al actualizar usuario")
	}

	if !user.HasIdentity() {
		logger.Warn("users: usuario sin auth0_id, se omite la actualización en el proveedor de identidad")
		return user, nil
	}

	var role *domain.Role
	if roleChange {
		role = &user.Role
	}

	if err := s.pushIdentity(ctx, *user.Auth0ID, req.Email, req.Name, role); err != nil {
		logger.WithError(err).Error("users: error al sincronizar con el proveedor de identidad")
		if err := s.userRepository.SetSyncPending(ctx, user.ID, true); err != nil {
			logger.WithError(err).Error("users: no se pudo marcar la sincronización pendiente")
		} else {
			user.SyncPending = true
		}
		return user, nil
	}

	if user.SyncPending {
		if err := s.userRepository.SetSyncPending(ctx, user.ID, false); err != nil {
			logger.WithError(err).Error("users: no se pudo limpiar la sincronización pendiente")
		} else {
			user.SyncPending = false
		}
	}

	return user, nil
}

func applyUpdate(user *domain.User, req domain.UpdateUserRequest, roleChange bool) {
	if req.Name != nil {
		user.Name = req.Name
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Image != nil {
		user.Image = req.Image
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if roleChange {
		user.Role = *req.Role
	}
}

func (s *Service) pushIdentity(ctx context.Context, auth0ID string, email, name *string, role *domain.Role) error {
	if !s.identity.Enabled() {
		return auth0.ErrNotConfigured
	}

	if err := s.identity.UpdateUser(ctx, auth0ID, email, name); err != nil {
		return err
	}

	if role != nil {
		return s.identity.AssignRole(ctx, auth0ID, *role)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, session *domain.Claims, userID string) (*domain.User, error) {
	if !session.IsAdmin() {
		return nil, NewUserErrorWithID(ErrForbiddenDelete, apiErrors.ErrInsufficientPrivilege, userID, "Solo administradores pueden eliminar usuarios")
	}

	user, err := s.userRepository.DeleteUser(ctx, userID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("users: error al eliminar usuario")
		return nil, NewUserErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, userID, "Error al eliminar usuario")
	}
	if user == nil {
		return nil, NewUserErrorWithID(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "Usuario no encontrado")
	}

	log.ForContext(ctx).WithField("user_id", userID).Info("users: usuario eliminado")

	return user, nil
}

// SyncPending reintenta la replicación de los usuarios marcados como pendientes.
// Los que aún no tienen identidad se crean en el proveedor.
func (s *Service) SyncPending(ctx context.Context) (*SyncResult, error) {
	if !s.identity.Enabled() {
		return nil, NewUserError(ErrIdentityProvider, apiErrors.ErrExternalService, "Proveedor de identidad no configurado")
	}

	pending, err := s.userRepository.ListSyncPending(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("users: error al listar usuarios pendientes")
		return nil, NewUserError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Error al obtener usuarios pendientes")
	}

	result := &SyncResult{Pending: len(pending)}
	if len(pending) == 0 {
		return result, nil
	}

	var synced, failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.syncConcurrency())

	for _, user := range pending {
		g.Go(func() error {
			if err := s.syncUser(gctx, user); err != nil {
				failed.Add(1)
				log.ForContext(gctx).WithFields(log.Fields{
					"user_id": user.ID,
					"error":   err.Error(),
				}).Warn("users: sincronización pendiente fallida")
				return nil
			}
			synced.Add(1)
			return nil
		})
	}

	_ = g.Wait()

	result.Synced = int(synced.Load())
	result.Failed = int(failed.Load())

	log.ForContext(ctx).WithFields(log.Fields{
		"sync_pending": result.Pending,
		"sync_synced":  result.Synced,
		"sync_failed":  result.Failed,
	}).Info("users: sincronización de pendientes completada")

	return result, nil
}

func (s *Service) syncUser(ctx context.Context, user *domain.User) error {
	if !user.HasIdentity() {
		auth0ID, err := s.identity.CreateUser(ctx, user.Name, user.Email)
		if err != nil {
			return err
		}
		// El usuario sigue pendiente hasta asignar el rol
		user.Auth0ID = &auth0ID
		if err := s.userRepository.UpdateUser(ctx, user); err != nil {
			return err
		}
	} else {
		email := user.Email
		if err := s.identity.UpdateUser(ctx, *user.Auth0ID, &email, user.Name); err != nil {
			return err
		}
	}

	if err := s.identity.AssignRole(ctx, *user.Auth0ID, user.Role); err != nil {
		return err
	}

	if err := s.userRepository.SetSyncPending(ctx, user.ID, false); err != nil {
		return err
	}
	user.SyncPending = false

	return nil
}

func (s *Service) syncConcurrency() int {
	if s.cfg != nil && s.cfg.IdentitySync.MaxConcurrentJobs > 0 {
		return s.cfg.IdentitySync.MaxConcurrentJobs
	}
	return defaultSyncConcurrency
}
