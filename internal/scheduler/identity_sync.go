// Package scheduler contiene los trabajos programados de la API
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

type IdentitySyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// PendingSyncer reintenta la replicación de usuarios pendientes
type PendingSyncer interface {
	SyncPending(ctx context.Context) (*users.SyncResult, error)
}

// IdentitySyncService reintenta periódicamente la sincronización con el proveedor de identidad
type IdentitySyncService struct {
	scheduler           *gocron.Scheduler
	syncer              PendingSyncer
	config              IdentitySyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          *users.SyncResult
	lastError           string
}

func NewIdentitySyncService(syncer PendingSyncer, cfg *config.Config) *IdentitySyncService {
	syncConfig := IdentitySyncConfig{
		CronSchedule: cfg.IdentitySync.CronSchedule,
		SyncEnabled:  cfg.IdentitySync.Enabled,
	}

	loc := cfg.App.Location
	if loc == nil {
		loc = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"sync_cron":    syncConfig.CronSchedule,
		"sync_enabled": syncConfig.SyncEnabled,
	}).Info("identity-sync: configuración del agendador cargada")

	return &IdentitySyncService{
		scheduler: gocron.NewScheduler(loc),
		syncer:    syncer,
		config:    syncConfig,
	}
}

func (s *IdentitySyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("identity-sync: cron deshabilitado por configuración")
		return nil
	}

	logrus.WithField("sync_cron", s.config.CronSchedule).Info("identity-sync: iniciando cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.Sync(ctx); err != nil {
			logrus.WithError(err).Error("identity-sync: error en la sincronización programada")
		}
	})
	if err != nil {
		return fmt.Errorf("error al programar la sincronización de identidades: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("identity-sync: deteniendo cron")
		s.scheduler.Stop()
	}()

	return nil
}

// Sync ejecuta una pasada; si ya hay una en curso no hace nada
func (s *IdentitySyncService) Sync(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("identity-sync: la sincronización ya está en ejecución")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	logrus.Info("identity-sync: sincronización iniciada")

	result, err := s.syncer.SyncPending(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastResult = result
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"sync_pending": result.Pending,
		"sync_synced":  result.Synced,
		"sync_failed":  result.Failed,
	}).Info("identity-sync: sincronización completada")

	return nil
}

// TriggerManualSync lanza una sincronización en segundo plano. Devuelve false si ya hay una en curso.
func (s *IdentitySyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("identity-sync: sincronización en curso, se ignora la solicitud manual")
		return false
	}

	logrus.Info("identity-sync: sincronización manual iniciada")
	go func() {
		if err := s.Sync(context.Background()); err != nil {
			logrus.WithError(err).Error("identity-sync: error en la sincronización manual")
		}
	}()

	return true
}

func (s *IdentitySyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_result":            s.lastResult,
		"last_error":             s.lastError,
	}
}
