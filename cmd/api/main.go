package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/database/postgres"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0/auth0client"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/migration"
	"github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/repository"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/api"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/scheduler"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/movements"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/reporting"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nivel de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nivel de log configurado en: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.Migrate {
		if err := migration.Run(cfg.Database.DSN); err != nil {
			logrus.WithError(err).Fatal("Error al aplicar migraciones")
		}
	}

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	clock := utils.NewClock(cfg.App.Location)

	userRepo := repository.NewUserRepository(pgConn)
	movementRepo := repository.NewMovementRepository(pgConn, clock)

	auth0Client := auth0client.NewClient(cfg.Auth0)
	if cfg.Auth0.Enabled() {
		go auth0Client.Tokens().StartAutoRefresh(ctx)
		defer auth0Client.Tokens().StopAutoRefresh()
	} else {
		logrus.Warn("Auth0 sin credenciales: los usuarios quedarán pendientes de sincronización")
	}
	identity := auth0.New(cfg.Auth0, auth0Client)

	authenticator := authenticating.NewService(userRepo, cfg)
	userService := users.NewService(userRepo, identity, cfg)
	movementService := movements.NewService(movementRepo, clock)
	reportService := reporting.NewService(movementRepo, cfg, clock)

	identitySyncService := scheduler.NewIdentitySyncService(userService, cfg)
	if err := identitySyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Error al iniciar el programador de sincronización de identidades")
	} else {
		logrus.Info("Programador de sincronización de identidades iniciado")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Users:         userService,
		Movements:     movementService,
		Reports:       reportService,
		IdentitySync:  identitySyncService,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura el formato de los logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Error al conectar con PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Error al probar la conexión con PostgreSQL")
	}

	logrus.Info("Conexión con PostgreSQL establecida")
	return conn
}
