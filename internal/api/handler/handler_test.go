package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/api/handler/router"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	authmocks "github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating/mocks"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/movements"
	movementmocks "github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/movements/mocks"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/reporting"
	reportmocks "github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/reporting/mocks"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users"
	usermocks "github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users/mocks"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	adminClaims = &domain.Claims{UserID: "admin-1", Role: domain.RoleAdmin}
	userClaims  = &domain.Claims{UserID: "user-1", Role: domain.RoleUser}
)

type apiFixture struct {
	auth      *authmocks.MockAuthenticator
	users     *usermocks.MockUserService
	movements *movementmocks.MockMovementService
	reports   *reportmocks.MockReporter
	sync      *stubSyncer
	handler   http.Handler
}

type stubSyncer struct {
	accept bool
}

func (s *stubSyncer) TriggerManualSync() bool {
	return s.accept
}

func (s *stubSyncer) GetStatus() map[string]any {
	return map[string]any{"sync_enabled": true}
}

func newAPIFixture(t *testing.T) *apiFixture {
	ctrl := gomock.NewController(t)

	f := &apiFixture{
		auth:      authmocks.NewMockAuthenticator(ctrl),
		users:     usermocks.NewMockUserService(ctrl),
		movements: movementmocks.NewMockMovementService(ctrl),
		reports:   reportmocks.NewMockReporter(ctrl),
		sync:      &stubSyncer{accept: true},
	}

	rt := router.New(
		router.WithRoutes(Healthcheck()...),
		router.WithRoutes(Authentication(f.auth)...),
		router.WithRoutes(User(f.users)...),
		router.WithRoutes(Movements(f.movements)...),
		router.WithRoutes(Reports(f.reports)...),
		router.WithRoutes(IdentitySync(f.sync)...),
	)
	f.handler = middleware.AuthMiddleware(f.auth)(rt)

	return f
}

func (f *apiFixture) do(t *testing.T, claims *domain.Claims, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if claims != nil {
		req.Header.Set("Authorization", "Bearer token-"+claims.UserID)
		f.auth.EXPECT().ValidateToken("token-"+claims.UserID).Return(claims, nil)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthcheck(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, nil, http.MethodGet, "/healthcheck", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_NotFound(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, userClaims, http.MethodGet, "/v1/nada", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrNotFound)
}

func TestGetMe(t *testing.T) {
	f := newAPIFixture(t)

	f.auth.EXPECT().Me(gomock.Any(), userClaims).Return(&domain.User{ID: "user-1", Email: "ana@example.com"}, nil)

	rec := f.do(t, userClaims, http.MethodGet, "/v1/me", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Session domain.Claims `json:"session"`
		User    domain.User   `json:"user"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "user-1", body.Session.UserID)
	assert.Equal(t, "ana@example.com", body.User.Email)
}

func TestCreateUser(t *testing.T) {
	f := newAPIFixture(t)

	f.users.EXPECT().Create(gomock.Any(), userClaims, domain.CreateUserRequest{Name: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin}).
		Return(&domain.User{ID: "u1", Email: "ana@example.com", Role: domain.RoleUser}, nil)

	rec := f.do(t, userClaims, http.MethodPost, "/v1/users", `{"name":"Ana","email":"ana@example.com","role":"admin"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var user domain.User
	decodeBody(t, rec, &user)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestCreateUser_InvalidBody(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, userClaims, http.MethodPost, "/v1/users", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidRequest)
}

func TestUpdateUser_ForbiddenRole(t *testing.T) {
	f := newAPIFixture(t)

	f.users.EXPECT().Update(gomock.Any(), userClaims, gomock.Any()).DoAndReturn(
		func(_ any, _ *domain.Claims, req domain.UpdateUserRequest) (*domain.User, error) {
			assert.Equal(t, "user-2", req.ID)
			return nil, users.NewUserError(users.ErrForbiddenRole, apiErrors.ErrInsufficientPrivilege, "No autorizado a cambiar el rol")
		})

	rec := f.do(t, userClaims, http.MethodPut, "/v1/users/user-2", `{"role":"admin"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body apiErrors.APIError
	decodeBody(t, rec, &body)
	assert.Equal(t, "No autorizado a cambiar el rol", body.Message)
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, userClaims, http.MethodDelete, "/v1/users/user-2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	f.users.EXPECT().Delete(gomock.Any(), adminClaims, "user-2").Return(&domain.User{ID: "user-2"}, nil)

	rec = f.do(t, adminClaims, http.MethodDelete, "/v1/users/user-2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	f := newAPIFixture(t)

	f.users.EXPECT().Get(gomock.Any(), "ghost").Return(nil, users.NewUserError(users.ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuario no encontrado"))

	rec := f.do(t, userClaims, http.MethodGet, "/v1/users/ghost", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateMovement(t *testing.T) {
	f := newAPIFixture(t)

	f.movements.EXPECT().Create(gomock.Any(), userClaims, gomock.Any()).DoAndReturn(
		func(_ any, _ *domain.Claims, req domain.CreateMovementRequest) (*domain.Movement, error) {
			monto, ok := movements.ParseMonto(req.Monto)
			assert.True(t, ok)
			assert.Equal(t, 1200.5, monto)
			return &domain.Movement{ID: "m1", Concepto: req.Concepto, Monto: monto, Tipo: req.Tipo, UserID: req.UserID}, nil
		})

	rec := f.do(t, userClaims, http.MethodPost, "/v1/movements",
		`{"userId":"user-1","concepto":"Venta","monto":1200.5,"fecha":"2024-03-19","tipo":"ingreso"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"concepto":"Venta"`)
}

func TestCreateMovement_InvalidAmount(t *testing.T) {
	f := newAPIFixture(t)

	f.movements.EXPECT().Create(gomock.Any(), userClaims, gomock.Any()).
		Return(nil, movements.NewMovementError(movements.ErrInvalidAmount, apiErrors.ErrInvalidFormat, movements.MsgInvalidAmount))

	rec := f.do(t, userClaims, http.MethodPost, "/v1/movements", `{"monto":"abc"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), movements.MsgInvalidAmount)
}

func TestListMovements_WithoutSession(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, nil, http.MethodGet, "/v1/movements", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMovementReport(t *testing.T) {
	f := newAPIFixture(t)

	f.reports.EXPECT().Report(gomock.Any(), reporting.ReportRequest{
		TimeFrame: domain.TimeFrameRango,
		Range:     domain.CustomRange{Start: "2024-03-01", End: "2024-03-10"},
	}).Return(&reporting.Report{TimeFrame: domain.TimeFrameRango, Movements: []domain.Movement{}}, nil)

	rec := f.do(t, userClaims, http.MethodGet, "/v1/reports/movements?time_frame=rango&start_date=2024-03-01&end_date=2024-03-10", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"timeFrame":"rango"`)
}

func TestGetMovementReport_DefaultsToDiario(t *testing.T) {
	f := newAPIFixture(t)

	f.reports.EXPECT().Report(gomock.Any(), reporting.ReportRequest{TimeFrame: domain.TimeFrameDiario}).
		Return(&reporting.Report{TimeFrame: domain.TimeFrameDiario}, nil)

	rec := f.do(t, userClaims, http.MethodGet, "/v1/reports/movements", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetMovementChart(t *testing.T) {
	f := newAPIFixture(t)

	f.reports.EXPECT().RenderChart(gomock.Any(), gomock.Any()).Return([]byte("\x89PNG"), nil)

	rec := f.do(t, userClaims, http.MethodGet, "/v1/reports/movements/chart?time_frame=semanal", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestExportMovements(t *testing.T) {
	f := newAPIFixture(t)

	f.reports.EXPECT().Export(gomock.Any(), reporting.ExportRequest{
		ReportRequest: reporting.ReportRequest{TimeFrame: domain.TimeFrameDiario},
		Format:        reporting.ExportFormatCSV,
		Mode:          reporting.ExportModeThreeSheets,
	}).Return(&reporting.ExportFile{Name: "movimientos.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("a,b\r\n")}, nil)

	rec := f.do(t, userClaims, http.MethodGet, "/v1/reports/movements/export?format=csv&mode=three-sheets", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="movimientos.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\r\n", rec.Body.String())
}

func TestExportMovements_NothingToExport(t *testing.T) {
	f := newAPIFixture(t)

	f.reports.EXPECT().Export(gomock.Any(), gomock.Any()).Return(nil, reporting.ErrNothingToExport)

	rec := f.do(t, userClaims, http.MethodGet, "/v1/reports/movements/export", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestExportMovements_InvalidRange(t *testing.T) {
	f := newAPIFixture(t)

	f.reports.EXPECT().Export(gomock.Any(), gomock.Any()).
		Return(nil, reporting.NewReportError(reporting.ErrInvalidRange, apiErrors.ErrInvalidRange, reporting.MsgRangeTooLong))

	rec := f.do(t, userClaims, http.MethodGet, "/v1/reports/movements/export?time_frame=rango&start_date=2023-01-01&end_date=2024-01-01", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), reporting.MsgRangeTooLong)
}

func TestReports_UnexpectedError(t *testing.T) {
	f := newAPIFixture(t)

	f.reports.EXPECT().Report(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	rec := f.do(t, userClaims, http.MethodGet, "/v1/reports/movements", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}

func TestIdentitySync(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, userClaims, http.MethodPost, "/v1/identity-sync/run", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, adminClaims, http.MethodPost, "/v1/identity-sync/run", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	f.sync.accept = false
	rec = f.do(t, adminClaims, http.MethodPost, "/v1/identity-sync/run", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, adminClaims, http.MethodGet, "/v1/identity-sync/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sync_enabled":true`)
}
