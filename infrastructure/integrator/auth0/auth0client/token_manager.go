package auth0client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/sirupsen/logrus"
)

// TokenManager conserva el token de administración hasta poco antes de que expire
type TokenManager struct {
	cfg         config.Auth0
	httpClient  *http.Client
	mutex       sync.Mutex
	token       string
	expiresAt   time.Time
	stopRefresh chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

func NewTokenManager(cfg config.Auth0, httpClient *http.Client) *TokenManager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &TokenManager{
		cfg:         cfg,
		httpClient:  httpClient,
		stopRefresh: make(chan struct{}),
		now:         time.Now,
	}
}

// Token devuelve el token en caché o pide uno nuevo si está vencido
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if tm.token != "" && tm.now().Before(tm.expiresAt) {
		return tm.token, nil
	}

	return tm.refreshLocked(ctx)
}

// Invalidate descarta el token en caché; el próximo Token pide uno nuevo
func (tm *TokenManager) Invalidate() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.token = ""
	tm.expiresAt = time.Time{}
}

func (tm *TokenManager) ExpiresAt() time.Time {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	return tm.expiresAt
}

func (tm *TokenManager) refreshLocked(ctx context.Context) (string, error) {
	tokenResp, err := RequestManagementToken(ctx, tm.httpClient, tm.cfg)
	if err != nil {
		return "", err
	}

	tm.token = tokenResp.AccessToken
	tm.expiresAt = CalculateTokenExpiration(tm.now(), tokenResp.ExpiresIn, tm.cfg.TokenExpiryBuffer)

	logrus.WithField("auth0_token_expires_at", tm.expiresAt.Format(time.RFC3339)).Info("auth0: token de administración renovado")

	return tm.token, nil
}

// StartAutoRefresh renueva el token periódicamente hasta StopAutoRefresh o la cancelación de ctx
func (tm *TokenManager) StartAutoRefresh(ctx context.Context) {
	if !tm.cfg.Enabled() {
		logrus.Info("auth0: credenciales no configuradas, renovación automática desactivada")
		return
	}

	refreshInterval := tm.cfg.TokenRefreshPeriod
	if refreshInterval <= 0 {
		refreshInterval = 12 * time.Hour
	}

	if _, err := tm.Token(ctx); err != nil {
		logrus.WithError(err).Warn("auth0: no se pudo obtener el token inicial")
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tm.mutex.Lock()
			_, err := tm.refreshLocked(ctx)
			tm.mutex.Unlock()

			if err != nil {
				logrus.WithError(err).Error("auth0: error en la renovación periódica del token")
				ticker.Reset(time.Minute * 5)
				continue
			}
			ticker.Reset(refreshInterval)
		case <-tm.stopRefresh:
			logrus.Info("auth0: renovación periódica del token detenida")
			return
		case <-ctx.Done():
			return
		}
	}
}

func (tm *TokenManager) StopAutoRefresh() {
	tm.stopOnce.Do(func() {
		close(tm.stopRefresh)
	})
}
