package auth0client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	auth0domain "github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	"github.com/sirupsen/logrus"
)

// RequestManagementToken obtiene un token de la API de administración con client_credentials
func RequestManagementToken(ctx context.Context, httpClient *http.Client, cfg config.Auth0) (*auth0domain.TokenResponse, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(auth0domain.TokenRequest{
		GrantType:    "client_credentials",
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Audience:     Audience(cfg.Issuer),
	})
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Issuer + "/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error al crear solicitud de token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error al obtener token de administración: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error al leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logrus.Errorf("auth0: error obteniendo token. Status: %d", resp.StatusCode)
		return nil, newAPIError(resp.StatusCode, body, endpoint)
	}

	var tokenResp auth0domain.TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("error al decodificar token: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("el token devuelto por Auth0 está vacío")
	}

	logrus.Debugf("auth0: token de administración obtenido, expira en %s", FormatDuration(tokenResp.ExpiresIn))

	return &tokenResp, nil
}

// Audience es el identificador de la API de administración del tenant
func Audience(issuer string) string {
	return issuer + "/api/v2/"
}

func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	hours := duration / time.Hour
	minutes := (duration % time.Hour) / time.Minute

	return fmt.Sprintf("%d horas y %d minutos", hours, minutes)
}

// CalculateTokenExpiration resta el margen para renovar antes del vencimiento real. Si el
// token dura menos que el margen se usa la mitad de su vida.
func CalculateTokenExpiration(now time.Time, expiresIn int64, buffer time.Duration) time.Time {
	lifetime := time.Duration(expiresIn) * time.Second
	safe := lifetime - buffer
	if safe <= 0 {
		safe = lifetime / 2
	}

	return now.Add(safe)
}
