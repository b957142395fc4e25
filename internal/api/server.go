package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/api/handler"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/api/handler/router"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/movements"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/reporting"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/middleware"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// Services agrupa los casos de uso expuestos por la API
type Services struct {
	Authenticator authenticating.Authenticator
	Users         users.UserService
	Movements     movements.MovementService
	Reports       reporting.Reporter
	IdentitySync  handler.IdentitySyncer
}

func New(config *config.Config, services Services) (*Server, error) {
	if services.Authenticator == nil {
		return nil, fmt.Errorf("api: falta el servicio de autenticación")
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(services.Authenticator)...),
		router.WithRoutes(handler.User(services.Users)...),
		router.WithRoutes(handler.Movements(services.Movements)...),
		router.WithRoutes(handler.Reports(services.Reports)...),
		router.WithRoutes(handler.IdentitySync(services.IdentitySync)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	h := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           h,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Error durante la ejecución del servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Señal de interrupción recibida")
	case <-ctx.Done():
		logrus.Info("Contexto de la aplicación cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando apagado ordenado del servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error durante el apagado del servidor")
		return err
	}

	logrus.Info("Servidor apagado correctamente")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP detenido")
	return nil
}
