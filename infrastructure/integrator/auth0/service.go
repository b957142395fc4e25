package auth0

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0/auth0client"
	auth0domain "github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
	"github.com/sirupsen/logrus"
)

var ErrNotConfigured = auth0client.ErrNotConfigured

// IdentityProvider mantiene el espejo de los usuarios en el proveedor de identidad
type IdentityProvider interface {
	Enabled() bool
	CreateUser(ctx context.Context, name *string, email string) (string, error)
	UpdateUser(ctx context.Context, auth0ID string, email, name *string) error
	AssignRole(ctx context.Context, auth0ID string, role domain.Role) error
}

type Auth0Integrator struct {
	cfg    config.Auth0
	Client auth0client.Client
}

func New(cfg config.Auth0, client auth0client.Client) *Auth0Integrator {
	return &Auth0Integrator{
		cfg:    cfg,
		Client: client,
	}
}

func (s *Auth0Integrator) Enabled() bool {
	return s.cfg.Enabled() && s.Client != nil
}

// CreateUser crea la identidad con una contraseña aleatoria y devuelve su user_id
func (s *Auth0Integrator) CreateUser(ctx context.Context, name *string, email string) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}

	password, err := utils.GeneratePassword()
	if err != nil {
		return "", fmt.Errorf("auth0: error al generar contraseña: %w", err)
	}

	req := auth0domain.CreateUserRequest{
		Email:      email,
		Password:   password,
		Connection: s.cfg.Connection,
	}
	if name != nil {
		req.Name = *name
	}

	user, err := s.Client.CreateUser(ctx, req)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_email": email,
			"error":      err.Error(),
		}).Error("auth0: error al crear usuario")
		return "", err
	}

	if strings.TrimSpace(user.UserID) == "" {
		return "", fmt.Errorf("auth0: la respuesta de creación no trae user_id")
	}

	logrus.WithField("auth0_id", user.UserID).Debug("auth0: usuario creado")

	return user.UserID, nil
}

// UpdateUser sólo envía los campos presentes; sin cambios no hace ninguna llamada
func (s *Auth0Integrator) UpdateUser(ctx context.Context, auth0ID string, email, name *string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}

	req := auth0domain.UpdateUserRequest{Email: email, Name: name}
	if req.Empty() {
		return nil
	}

	if _, err := s.Client.UpdateUser(ctx, auth0ID, req); err != nil {
		logrus.WithFields(logrus.Fields{
			"auth0_id": auth0ID,
			"error":    err.Error(),
		}).Error("auth0: error al actualizar usuario")
		return err
	}

	return nil
}

// AssignRole asigna el rol configurado para role; si no hay id de rol configurado se omite
func (s *Auth0Integrator) AssignRole(ctx context.Context, auth0ID string, role domain.Role) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}

	roleID := s.roleID(role)
	if roleID == "" {
		logrus.WithFields(logrus.Fields{
			"auth0_id":  auth0ID,
			"user_role": string(role),
		}).Warn("auth0: rol sin id configurado, se omite la asignación")
		return nil
	}

	if err := s.Client.AssignRoles(ctx, auth0ID, []string{roleID}); err != nil {
		logrus.WithFields(logrus.Fields{
			"auth0_id": auth0ID,
			"error":    err.Error(),
		}).Error("auth0: error al asignar rol")
		return err
	}

	return nil
}

func (s *Auth0Integrator) roleID(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return s.cfg.RoleAdminID
	case domain.RoleUser:
		return s.cfg.RoleUserID
	default:
		return ""
	}
}
