package authenticating

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/repository"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

type Authenticator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
	GenerateToken(user *domain.User, ttl time.Duration) (string, error)
	Me(ctx context.Context, claims *domain.Claims) (*domain.User, error)
}

type Service struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) *Service {
	return &Service{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) secret() ([]byte, error) {
	if s.cfg == nil || s.cfg.Auth.Secret == "" {
		return nil, ErrMissingSecret
	}
	return []byte(s.cfg.Auth.Secret), nil
}

// GenerateToken firma una sesión con los mismos claims que emite el frontend
func (s *Service) GenerateToken(user *domain.User, ttl time.Duration) (string, error) {
	secret, err := s.secret()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := s.now()
	claims := &domain.Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.Name != nil {
		claims.Name = *user.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken verifica la firma HS256 con NEXTAUTH_SECRET y que la sesión traiga id y rol
func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	secret, err := s.secret()
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Autenticación no configurada")
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "La sesión expiró")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Token inválido")
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Token inválido")
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "La sesión no trae id o rol")
	}

	return claims, nil
}

// Me devuelve el usuario dueño de la sesión
func (s *Service) Me(ctx context.Context, claims *domain.Claims) (*domain.User, error) {
	if claims == nil {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "No autenticado")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("auth: error al buscar el usuario de la sesión")
		return nil, NewAuthErrorWithUserID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, claims.UserID, "Error al obtener el usuario")
	}
	if user == nil {
		return nil, NewAuthErrorWithUserID(ErrUserNotFound, apiErrors.ErrUserNotFound, claims.UserID, "Usuario no encontrado")
	}

	return user, nil
}
