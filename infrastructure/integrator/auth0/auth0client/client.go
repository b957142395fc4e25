package auth0client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	auth0domain "github.com/daposadap9/prueba-tecnica-fullstack/infrastructure/integrator/auth0/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotConfigured = errors.New("auth0: credenciales de administración no configuradas")

type Client interface {
	CreateUser(ctx context.Context, req auth0domain.CreateUserRequest) (*auth0domain.User, error)
	UpdateUser(ctx context.Context, userID string, req auth0domain.UpdateUserRequest) (*auth0domain.User, error)
	AssignRoles(ctx context.Context, userID string, roleIDs []string) error
}

// APIError es una respuesta no 2xx de Auth0
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth0: %s respondió %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte, endpoint string) *APIError {
	msg := http.StatusText(status)

	var errResp auth0domain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		msg = errResp.Message
	}

	return &APIError{StatusCode: status, Message: msg, Endpoint: endpoint}
}

type Auth0Client struct {
	cfg        config.Auth0
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     *TokenManager
}

type ClientOption func(*Auth0Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Auth0Client) {
		c.httpClient = httpClient
	}
}

func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Auth0Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
	}
}

func WithTokenManager(tokens *TokenManager) ClientOption {
	return func(c *Auth0Client) {
		c.tokens = tokens
	}
}

func NewClient(cfg config.Auth0, opts ...ClientOption) *Auth0Client {
	c := &Auth0Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}

	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tokens == nil {
		c.tokens = NewTokenManager(cfg, c.httpClient)
	}

	return c
}

func (c *Auth0Client) Tokens() *TokenManager {
	return c.tokens
}

func (c *Auth0Client) CreateUser(ctx context.Context, req auth0domain.CreateUserRequest) (*auth0domain.User, error) {
	var user auth0domain.User
	if err := c.do(ctx, http.MethodPost, "/api/v2/users", req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Auth0Client) UpdateUser(ctx context.Context, userID string, req auth0domain.UpdateUserRequest) (*auth0domain.User, error) {
	var user auth0domain.User
	if err := c.do(ctx, http.MethodPatch, "/api/v2/users/"+url.PathEscape(userID), req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Auth0Client) AssignRoles(ctx context.Context, userID string, roleIDs []string) error {
	path := "/api/v2/users/" + url.PathEscape(userID) + "/roles"
	return c.do(ctx, http.MethodPost, path, auth0domain.AssignRolesRequest{Roles: roleIDs}, nil)
}

// do envía la solicitud con el token en caché; ante un 401 descarta el token y reintenta una vez
func (c *Auth0Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.cfg.Enabled() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("auth0: error al serializar solicitud: %w", err)
	}

	err = c.send(ctx, method, path, payload, out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		logrus.WithField("auth0_endpoint", path).Warn("auth0: token rechazado, renovando y reintentando")
		c.tokens.Invalidate()
		err = c.send(ctx, method, path, payload, out)
	}

	return err
}

func (c *Auth0Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	endpoint := c.cfg.Issuer + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("auth0: error al crear solicitud: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth0: error de comunicación con %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("auth0: error al leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody, path)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("auth0: error al decodificar respuesta: %w", err)
	}

	return nil
}
