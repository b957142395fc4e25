package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/database/postgres"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/migration"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/repository"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	defaultSeedEmail = "daposadap@gmail.com"
	defaultSeedName  = "user"
	devTokenTTL      = 24 * time.Hour
)

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando carga inicial...")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seedUser crea el usuario local pendiente de sincronizar; el cron lo da de alta en Auth0
func seedUser(ctx context.Context, users repository.UserRepository, email, name string, role domain.Role) (*domain.User, error) {
	existing, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logrus.WithField("email", email).Info("El usuario ya existe, no se vuelve a crear")
		return existing, nil
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	return users.CreateUser(ctx, &domain.User{
		ID:          id,
		Name:        &name,
		Email:       email,
		Role:        role,
		SyncPending: true,
	})
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := migration.Run(cfg.Database.DSN); err != nil {
		logrus.WithError(err).Fatal("Error al aplicar migraciones")
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Error al conectar con la base de datos")
	}
	defer conn.Close()

	role := domain.Role(envOrDefault("SEED_ROLE", string(domain.RoleUser)))
	if !role.Valid() {
		logrus.Fatalf("Rol inválido: %s", role)
	}

	userRepo := repository.NewUserRepository(conn)
	user, err := seedUser(ctx, userRepo, envOrDefault("SEED_EMAIL", defaultSeedEmail), envOrDefault("SEED_NAME", defaultSeedName), role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logrus.Fatal("El correo ya está registrado")
		}
		logrus.WithError(err).Fatal("Error al crear el usuario")
	}
	logrus.WithFields(logrus.Fields{"id": user.ID, "email": user.Email, "role": user.Role}).Info("Usuario de carga inicial listo")

	if cfg.Auth.Secret == "" {
		return
	}

	token, err := authenticating.NewService(userRepo, cfg).GenerateToken(user, devTokenTTL)
	if err != nil {
		logrus.WithError(err).Warn("No fue posible generar el token de desarrollo")
		return
	}
	logrus.WithField("expira_en", devTokenTTL.String()).Infof("Token de desarrollo: %s", token)
}
