package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"quicksent/db"
	"quicksent/internal/auth"
	"quicksent/internal/handlers"
	"quicksent/internal/handlers/testutils"
	"quicksent/internal/puesc"
	"quicksent/models"
)

// MockStorage implements handlers.StorageInterface and auth.Store. Methods
// a test cares about are overridable through func fields; the rest return
// canned sample data.
type MockStorage struct {
	user                 *db.User
	createDeclarationErr error

	GetDeclarationFunc          func(ctx context.Context, number string) (*db.Declaration, error)
	UpdateDeclarationStatusFunc func(ctx context.Context, number string, status models.DeclarationStatus) error
	CreateDeclarationEditFunc   func(ctx context.Context, e *db.DeclarationEdit) error
	GetDeclarationsFunc         func(ctx context.Context, statuses []string, createdBy string, limit, offset int) ([]db.Declaration, error)
}

func (m *MockStorage) CreateUser(ctx context.Context, u *db.User) error {
	if u.ID == "" {
		u.ID = "user-1"
	}
	return nil
}
func (m *MockStorage) GetUser(ctx context.Context, id string) (*db.User, error) {
	if m.user == nil {
		return nil, errors.New("not found")
	}
	return m.user, nil
}
func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, errors.New("not found")
	}
	return m.user, nil
}
func (m *MockStorage) UpdateUser(ctx context.Context, u *db.User) error { return nil }
func (m *MockStorage) DeleteUser(ctx context.Context, id string) error  { return nil }
func (m *MockStorage) GetUsers(ctx context.Context, role, status, search string, limit, offset int) ([]db.User, error) {
	return []db.User{{ID: "user-1", Email: "spedytor@quicksent.pl", Role: models.RoleSpedytor}}, nil
}
func (m *MockStorage) CountUsersByStatus(ctx context.Context) (map[string]int, error) {
	return map[string]int{"active": 3, "pending": 1}, nil
}
func (m *MockStorage) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	return map[string]int{"admin": 1, "spedytor": 2, "klient": 1}, nil
}
func (m *MockStorage) RecordLogin(ctx context.Context, userID string, at time.Time) error { return nil }
func (m *MockStorage) RecordFailedLogin(ctx context.Context, userID string) error         { return nil }

func (m *MockStorage) CreateSession(ctx context.Context, sess *db.Session) error {
	if sess.ID == "" {
		sess.ID = "session-1"
	}
	return nil
}
func (m *MockStorage) GetSessionByTokenHash(ctx context.Context, hash string) (*db.Session, error) {
	return nil, errors.New("not found")
}
func (m *MockStorage) TouchSession(ctx context.Context, id string, at time.Time) error { return nil }
func (m *MockStorage) DeleteSessionByTokenHash(ctx context.Context, hash string) error { return nil }

func (m *MockStorage) AppendActivity(ctx context.Context, a *db.ActivityLog) error { return nil }
func (m *MockStorage) GetActivityLogs(ctx context.Context, userID string, limit, offset int) ([]db.ActivityLog, error) {
	return []db.ActivityLog{{ID: "log-1", Action: "login"}}, nil
}
func (m *MockStorage) AppendAudit(ctx context.Context, a *db.AuditTrail) error { return nil }
func (m *MockStorage) GetAuditTrail(ctx context.Context, tableName string, limit, offset int) ([]db.AuditTrail, error) {
	return []db.AuditTrail{{ID: "audit-1", Action: "create", TableName: "declarations"}}, nil
}

func (m *MockStorage) CreateCompany(ctx context.Context, c *db.Company) error {
	if c.ID == "" {
		c.ID = "company-1"
	}
	return nil
}
func (m *MockStorage) GetCompany(ctx context.Context, id string) (*db.Company, error) {
	return &db.Company{ID: id, Name: "Transpol Sp. z o.o.", NIP: "7740001454"}, nil
}
func (m *MockStorage) UpdateCompany(ctx context.Context, c *db.Company) error { return nil }
func (m *MockStorage) DeleteCompany(ctx context.Context, id string) error     { return nil }
func (m *MockStorage) GetCompanies(ctx context.Context, search string, limit, offset int) ([]db.Company, error) {
	return []db.Company{{ID: "company-1", Name: "Transpol Sp. z o.o."}}, nil
}

func (m *MockStorage) CreateContractor(ctx context.Context, c *db.Contractor) error {
	if c.ID == "" {
		c.ID = "contractor-1"
	}
	return nil
}
func (m *MockStorage) GetContractor(ctx context.Context, id string) (*db.Contractor, error) {
	return &db.Contractor{ID: id, Name: "Logistyka Plus", NIP: "5260250995", IsActive: true}, nil
}
func (m *MockStorage) UpdateContractor(ctx context.Context, c *db.Contractor) error { return nil }
func (m *MockStorage) DeleteContractor(ctx context.Context, id string) error        { return nil }
func (m *MockStorage) GetContractors(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]db.Contractor, error) {
	return []db.Contractor{{ID: "contractor-1", Name: "Logistyka Plus", NIP: "5260250995"}}, nil
}

func (m *MockStorage) CreateLocation(ctx context.Context, l *db.Location) error {
	if l.ID == "" {
		l.ID = "location-1"
	}
	return nil
}
func (m *MockStorage) GetLocation(ctx context.Context, id string) (*db.Location, error) {
	return &db.Location{ID: id, Name: "Magazyn Warszawa"}, nil
}
func (m *MockStorage) UpdateLocation(ctx context.Context, l *db.Location) error { return nil }
func (m *MockStorage) DeleteLocation(ctx context.Context, id string) error      { return nil }
func (m *MockStorage) GetLocations(ctx context.Context, search string, limit, offset int) ([]db.Location, error) {
	return []db.Location{{ID: "location-1", Name: "Magazyn Warszawa"}}, nil
}

func (m *MockStorage) CreateProduct(ctx context.Context, p *db.Product) error {
	if p.ID == "" {
		p.ID = "product-1"
	}
	return nil
}
func (m *MockStorage) GetProduct(ctx context.Context, id string) (*db.Product, error) {
	return &db.Product{ID: id, Name: "Olej napedowy", Code: "ON-01"}, nil
}
func (m *MockStorage) UpdateProduct(ctx context.Context, p *db.Product) error { return nil }
func (m *MockStorage) DeleteProduct(ctx context.Context, id string) error     { return nil }
func (m *MockStorage) GetProducts(ctx context.Context, search, category string, limit, offset int) ([]db.Product, error) {
	return []db.Product{{ID: "product-1", Name: "Olej napedowy", Code: "ON-01"}}, nil
}

func (m *MockStorage) CreateVehicle(ctx context.Context, v *db.Vehicle) error {
	if v.ID == "" {
		v.ID = "vehicle-1"
	}
	return nil
}
func (m *MockStorage) GetVehicle(ctx context.Context, id string) (*db.Vehicle, error) {
	return &db.Vehicle{ID: id, RegistrationNumber: "WA12345", Type: "TRUCK"}, nil
}
func (m *MockStorage) UpdateVehicle(ctx context.Context, v *db.Vehicle) error { return nil }
func (m *MockStorage) DeleteVehicle(ctx context.Context, id string) error     { return nil }
func (m *MockStorage) GetVehicles(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]db.Vehicle, error) {
	return []db.Vehicle{{ID: "vehicle-1", RegistrationNumber: "WA12345", Type: "TRUCK"}}, nil
}

func (m *MockStorage) CreateDriver(ctx context.Context, d *db.Driver) error {
	if d.ID == "" {
		d.ID = "driver-1"
	}
	return nil
}
func (m *MockStorage) GetDriver(ctx context.Context, id string) (*db.Driver, error) {
	return &db.Driver{ID: id, FirstName: "Jan", LastName: "Kowalski", LicenseNumber: "PL123456"}, nil
}
func (m *MockStorage) UpdateDriver(ctx context.Context, d *db.Driver) error { return nil }
func (m *MockStorage) DeleteDriver(ctx context.Context, id string) error    { return nil }
func (m *MockStorage) GetDrivers(ctx context.Context, search string, limit, offset int) ([]db.Driver, error) {
	return []db.Driver{{ID: "driver-1", FirstName: "Jan", LastName: "Kowalski"}}, nil
}

func (m *MockStorage) CreateTransportTemplate(ctx context.Context, t *db.TransportTemplate) error {
	if t.ID == "" {
		t.ID = "template-1"
	}
	return nil
}
func (m *MockStorage) GetTransportTemplate(ctx context.Context, id string) (*db.TransportTemplate, error) {
	return &db.TransportTemplate{ID: id, Name: "Warszawa-Berlin"}, nil
}
func (m *MockStorage) UpdateTransportTemplate(ctx context.Context, t *db.TransportTemplate) error {
	return nil
}
func (m *MockStorage) DeleteTransportTemplate(ctx context.Context, id string) error { return nil }
func (m *MockStorage) GetTransportTemplates(ctx context.Context, limit, offset int) ([]db.TransportTemplate, error) {
	return []db.TransportTemplate{{ID: "template-1", Name: "Warszawa-Berlin"}}, nil
}

func (m *MockStorage) CreateDeclaration(ctx context.Context, d *db.Declaration) error {
	if m.createDeclarationErr != nil {
		return m.createDeclarationErr
	}
	if d.ID == "" {
		d.ID = "declaration-1"
	}
	return nil
}
func (m *MockStorage) GetDeclaration(ctx context.Context, number string) (*db.Declaration, error) {
	if m.GetDeclarationFunc != nil {
		return m.GetDeclarationFunc(ctx, number)
	}
	return &db.Declaration{
		ID:                "declaration-1",
		DeclarationNumber: number,
		Status:            models.StatusDraft,
		SenderName:        "Transpol Sp. z o.o.",
	}, nil
}
func (m *MockStorage) UpdateDeclarationStatus(ctx context.Context, number string, status models.DeclarationStatus) error {
	if m.UpdateDeclarationStatusFunc != nil {
		return m.UpdateDeclarationStatusFunc(ctx, number, status)
	}
	return nil
}
func (m *MockStorage) GetDeclarations(ctx context.Context, statuses []string, createdBy string, limit, offset int) ([]db.Declaration, error) {
	if m.GetDeclarationsFunc != nil {
		return m.GetDeclarationsFunc(ctx, statuses, createdBy, limit, offset)
	}
	return []db.Declaration{{
		ID:                "declaration-1",
		DeclarationNumber: "QS1000",
		Status:            models.StatusSubmitted,
		SenderName:        "Transpol Sp. z o.o.",
	}}, nil
}
func (m *MockStorage) GetDeclarationStats(ctx context.Context) (*db.DashboardStats, error) {
	return &db.DashboardStats{TotalDeclarations: 12, PendingDeclarations: 4, TotalContractors: 3}, nil
}
func (m *MockStorage) CreateDeclarationEdit(ctx context.Context, e *db.DeclarationEdit) error {
	if m.CreateDeclarationEditFunc != nil {
		return m.CreateDeclarationEditFunc(ctx, e)
	}
	if e.ID == "" {
		e.ID = "edit-1"
	}
	return nil
}
func (m *MockStorage) GetDeclarationEdits(ctx context.Context, number string) ([]db.DeclarationEdit, error) {
	return []db.DeclarationEdit{}, nil
}

func (m *MockStorage) CreateReport(ctx context.Context, r *db.Report) error {
	if r.ID == "" {
		r.ID = "report-1"
	}
	return nil
}
func (m *MockStorage) GetReport(ctx context.Context, id string) (*db.Report, error) {
	return &db.Report{ID: id, Name: "declarations report", Type: "declarations", Status: "pending"}, nil
}
func (m *MockStorage) MarkReportCompleted(ctx context.Context, id, filePath string, at time.Time) error {
	return nil
}
func (m *MockStorage) MarkReportFailed(ctx context.Context, id string) error { return nil }
func (m *MockStorage) GetReports(ctx context.Context, limit, offset int) ([]db.Report, error) {
	return []db.Report{{ID: "report-1", Name: "declarations report", Status: "completed"}}, nil
}

// fakePuesc implements handlers.PuescAPI with canned results.
type fakePuesc struct {
	submitResult puesc.SubmitResult
	editResult   puesc.EditResult
	statusResp   *models.SentStatusResponse
	statusErr    error
	gusResp      models.GusValidationResponse
	gusCalled    bool
	connResult   puesc.ConnectionResult
}

func (f *fakePuesc) SubmitSent100(ctx context.Context, declaration models.Sent100Declaration) puesc.SubmitResult {
	return f.submitResult
}
func (f *fakePuesc) SubmitSentEdit(ctx context.Context, edit models.SentEditDeclaration) puesc.EditResult {
	return f.editResult
}
func (f *fakePuesc) GetDeclarationStatus(ctx context.Context, number string) (*models.SentStatusResponse, error) {
	return f.statusResp, f.statusErr
}
func (f *fakePuesc) ValidateCompany(ctx context.Context, nip, regon string) models.GusValidationResponse {
	f.gusCalled = true
	return f.gusResp
}
func (f *fakePuesc) TestConnection(ctx context.Context) puesc.ConnectionResult {
	return f.connResult
}
func (f *fakePuesc) GetDocumentation(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"title":"SENT API"}`), nil
}

func newTestHandler(store *MockStorage, api *fakePuesc, reportDir string) *handlers.Handler {
	authSvc := auth.NewService(store, time.Hour, nil)
	builder := puesc.NewBuilder("QUICKSENT", "PUESC", func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	})
	return handlers.NewHandler(store, authSvc, api, builder, reportDir)
}

func TestCreateDeclarationHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	reqBody := `{
        "sender": {"entityType": "COMPANY", "nip": "7740001454", "name": "Transpol Sp. z o.o."},
        "receiver": {"entityType": "COMPANY", "nip": "5260250995", "name": "Logistyka Plus"},
        "transportDetails": {"transportType": "ROAD", "vehicle": {"registrationNumber": "WA12345"}},
        "goods": {"description": "Olej napedowy", "quantity": 1000, "unit": "L", "value": 5000, "currency": "PLN"}
    }`
	req := httptest.NewRequest(http.MethodPost, "/api/declarations/new", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateDeclarationHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, string(body), "DRAFT")
	require.Contains(t, string(body), "SENT100_")
	require.Contains(t, string(body), "QS1741608000000")
}

func TestCreateDeclarationHandlerMissingParties(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/declarations/new", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.CreateDeclarationHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestCreateDeclarationHandlerDuplicateNumber(t *testing.T) {
	mockStore := &MockStorage{
		createDeclarationErr: &pq.Error{Code: "23505"},
	}
	handler := newTestHandler(mockStore, &fakePuesc{}, t.TempDir())

	reqBody := `{
        "declarationNumber": "QS-DUP",
        "sender": {"name": "Transpol Sp. z o.o."},
        "receiver": {"name": "Logistyka Plus"}
    }`
	req := httptest.NewRequest(http.MethodPost, "/api/declarations/new", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.CreateDeclarationHandler(w, req)

	require.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestSubmitDeclarationHandler(t *testing.T) {
	var updatedTo models.DeclarationStatus
	mockStore := &MockStorage{
		GetDeclarationFunc: func(ctx context.Context, number string) (*db.Declaration, error) {
			return &db.Declaration{
				ID:                "declaration-1",
				DeclarationNumber: number,
				Status:            models.StatusDraft,
				RawPayload:        json.RawMessage(`{"messageHeader":{"messageType":"SENT100"},"declaration":{"declarationNumber":"QS-1"}}`),
			}, nil
		},
		UpdateDeclarationStatusFunc: func(ctx context.Context, number string, status models.DeclarationStatus) error {
			updatedTo = status
			return nil
		},
	}
	api := &fakePuesc{submitResult: puesc.SubmitResult{Success: true, DeclarationNumber: "SENT-2025-0001"}}
	handler := newTestHandler(mockStore, api, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/declarations/QS-1/submit", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "QS-1"})
	w := httptest.NewRecorder()

	handler.SubmitDeclarationHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "SENT-2025-0001")
	require.Equal(t, models.StatusSubmitted, updatedTo)
}

func TestSubmitDeclarationHandlerNotDraft(t *testing.T) {
	mockStore := &MockStorage{
		GetDeclarationFunc: func(ctx context.Context, number string) (*db.Declaration, error) {
			return &db.Declaration{DeclarationNumber: number, Status: models.StatusSubmitted}, nil
		},
	}
	handler := newTestHandler(mockStore, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/declarations/QS-1/submit", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "QS-1"})
	w := httptest.NewRecorder()

	handler.SubmitDeclarationHandler(w, req)

	require.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestSubmitDeclarationHandlerGatewayFailure(t *testing.T) {
	mockStore := &MockStorage{
		GetDeclarationFunc: func(ctx context.Context, number string) (*db.Declaration, error) {
			return &db.Declaration{
				DeclarationNumber: number,
				Status:            models.StatusDraft,
				RawPayload:        json.RawMessage(`{}`),
			}, nil
		},
	}
	api := &fakePuesc{submitResult: puesc.SubmitResult{Success: false, Error: "invalid NIP format"}}
	handler := newTestHandler(mockStore, api, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/declarations/QS-1/submit", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "QS-1"})
	w := httptest.NewRecorder()

	handler.SubmitDeclarationHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusBadGateway, res.StatusCode)
	require.Contains(t, string(body), "invalid NIP format")
}

func TestEditDeclarationHandler(t *testing.T) {
	var recorded *db.DeclarationEdit
	mockStore := &MockStorage{
		CreateDeclarationEditFunc: func(ctx context.Context, e *db.DeclarationEdit) error {
			recorded = e
			return nil
		},
	}
	api := &fakePuesc{editResult: puesc.EditResult{Success: true}}
	handler := newTestHandler(mockStore, api, t.TempDir())

	reqBody := `{"editReason": "CORRECTION", "changes": {"goods": {"description": "Benzyna", "quantity": 500}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/declarations/QS-1/edit", strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "QS-1"})
	w := httptest.NewRecorder()

	handler.EditDeclarationHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "CORRECTION")
	require.NotNil(t, recorded)
	require.Equal(t, "QS-1", recorded.DeclarationNumber)
	require.True(t, recorded.Accepted)
}

func TestEditDeclarationHandlerUnknownDeclaration(t *testing.T) {
	mockStore := &MockStorage{
		GetDeclarationFunc: func(ctx context.Context, number string) (*db.Declaration, error) {
			return nil, errors.New("not found")
		},
	}
	handler := newTestHandler(mockStore, &fakePuesc{}, t.TempDir())

	reqBody := `{"editReason": "CANCELLATION"}`
	req := httptest.NewRequest(http.MethodPost, "/api/declarations/MISSING/edit", strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "MISSING"})
	w := httptest.NewRecorder()

	handler.EditDeclarationHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestEditDeclarationHandlerBadReason(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	reqBody := `{"editReason": "WHATEVER"}`
	req := httptest.NewRequest(http.MethodPost, "/api/declarations/QS-1/edit", strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "QS-1"})
	w := httptest.NewRecorder()

	handler.EditDeclarationHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestEditDeclarationHandlerCompletionUpdatesStatus(t *testing.T) {
	var updatedTo models.DeclarationStatus
	mockStore := &MockStorage{
		UpdateDeclarationStatusFunc: func(ctx context.Context, number string, status models.DeclarationStatus) error {
			updatedTo = status
			return nil
		},
	}
	api := &fakePuesc{editResult: puesc.EditResult{Success: true}}
	handler := newTestHandler(mockStore, api, t.TempDir())

	reqBody := `{"editReason": "COMPLETION"}`
	req := httptest.NewRequest(http.MethodPost, "/api/declarations/QS-1/edit", strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "QS-1"})
	w := httptest.NewRecorder()

	handler.EditDeclarationHandler(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	require.Equal(t, models.StatusCompleted, updatedTo)
}

func TestGetDeclarationStatusHandlerSyncsLocalStatus(t *testing.T) {
	var updatedTo models.DeclarationStatus
	mockStore := &MockStorage{
		UpdateDeclarationStatusFunc: func(ctx context.Context, number string, status models.DeclarationStatus) error {
			updatedTo = status
			return nil
		},
	}
	api := &fakePuesc{
		statusResp: &models.SentStatusResponse{
			StatusInfo: models.StatusInfo{DeclarationNumber: "QS-1", Status: models.StatusApproved},
		},
	}
	handler := newTestHandler(mockStore, api, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/declarations/QS-1/status", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"declarationNumber": "QS-1"})
	w := httptest.NewRecorder()

	handler.GetDeclarationStatusHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "APPROVED")
	require.Equal(t, models.StatusApproved, updatedTo)
}

func TestGetDeclarationsHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/declarations?status=SUBMITTED,APPROVED", nil)
	w := httptest.NewRecorder()

	handler.GetDeclarationsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "QS1000")
}

func TestValidateGusHandlerMissingData(t *testing.T) {
	api := &fakePuesc{}
	handler := newTestHandler(&MockStorage{}, api, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/gus/validate", strings.NewReader(`{"nip": "", "regon": ""}`))
	w := httptest.NewRecorder()

	handler.ValidateGusHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "MISSING_DATA")
	require.False(t, api.gusCalled)
}

func TestValidateGusHandlerBadChecksum(t *testing.T) {
	api := &fakePuesc{}
	handler := newTestHandler(&MockStorage{}, api, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/gus/validate", strings.NewReader(`{"nip": "1234567890"}`))
	w := httptest.NewRecorder()

	handler.ValidateGusHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "INVALID_NIP")
	require.False(t, api.gusCalled)
}

func TestValidateGusHandlerLookup(t *testing.T) {
	api := &fakePuesc{
		gusResp: models.GusValidationResponse{
			Valid:      true,
			EntityData: &models.GusEntityData{NIP: "7740001454", Name: "Transpol Sp. z o.o.", Status: "ACTIVE"},
		},
	}
	handler := newTestHandler(&MockStorage{}, api, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/gus/validate", strings.NewReader(`{"nip": "7740001454"}`))
	w := httptest.NewRecorder()

	handler.ValidateGusHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Transpol")
	require.True(t, api.gusCalled)
}

func TestPuescHealthHandler(t *testing.T) {
	api := &fakePuesc{connResult: puesc.ConnectionResult{Connected: true}}
	handler := newTestHandler(&MockStorage{}, api, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/puesc/health", nil)
	w := httptest.NewRecorder()

	handler.PuescHealthHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), `"connected":true`)
}

func TestGetDashboardStatsHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()

	handler.GetDashboardStatsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "totalDeclarations")
}

func TestLoginHandler(t *testing.T) {
	hash, err := auth.HashPassword("tajnehaslo123")
	require.NoError(t, err)

	mockStore := &MockStorage{
		user: &db.User{
			ID:           "user-1",
			Email:        "spedytor@quicksent.pl",
			PasswordHash: hash,
			Role:         models.RoleSpedytor,
			Status:       models.UserActive,
		},
	}
	handler := newTestHandler(mockStore, &fakePuesc{}, t.TempDir())

	reqBody := `{"email": "spedytor@quicksent.pl", "password": "tajnehaslo123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.LoginHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "token")
	require.Contains(t, string(body), "spedytor@quicksent.pl")
	require.NotContains(t, string(body), hash)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("tajnehaslo123")
	require.NoError(t, err)

	mockStore := &MockStorage{
		user: &db.User{
			ID:           "user-1",
			Email:        "spedytor@quicksent.pl",
			PasswordHash: hash,
			Status:       models.UserActive,
		},
	}
	handler := newTestHandler(mockStore, &fakePuesc{}, t.TempDir())

	reqBody := `{"email": "spedytor@quicksent.pl", "password": "zlehaslo"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.LoginHandler(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestLoginHandlerBlockedAccount(t *testing.T) {
	hash, err := auth.HashPassword("tajnehaslo123")
	require.NoError(t, err)

	mockStore := &MockStorage{
		user: &db.User{
			ID:           "user-1",
			Email:        "spedytor@quicksent.pl",
			PasswordHash: hash,
			Status:       models.UserBlocked,
		},
	}
	handler := newTestHandler(mockStore, &fakePuesc{}, t.TempDir())

	reqBody := `{"email": "spedytor@quicksent.pl", "password": "tajnehaslo123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.LoginHandler(w, req)

	require.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestLogoutHandlerAlwaysSucceeds(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer no-such-token")
	w := httptest.NewRecorder()

	handler.LogoutHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "logged out")
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	mockStore := &MockStorage{
		user: &db.User{ID: "user-1", Email: "klient@quicksent.pl"},
	}
	handler := newTestHandler(mockStore, &fakePuesc{}, t.TempDir())

	reqBody := `{"email": "klient@quicksent.pl", "password": "haslo1234", "confirmPassword": "haslo1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.RegisterHandler(w, req)

	require.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestGetUsersHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()

	handler.GetUsersHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "spedytor@quicksent.pl")
}

func TestCreateUserHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	reqBody := `{"email": "nowy@quicksent.pl", "password": "haslo1234", "role": "spedytor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/new", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.CreateUserHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, string(body), "nowy@quicksent.pl")
	require.NotContains(t, string(body), "passwordHash")
}

func TestGetUserStatsHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/users/stats", nil)
	w := httptest.NewRecorder()

	handler.GetUserStatsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), `"totalUsers":4`)
}

func TestGetContractorsHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/contractors", nil)
	w := httptest.NewRecorder()

	handler.GetContractorsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Logistyka Plus")
}

func TestCreateContractorHandlerMissingFields(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/contractors/new", strings.NewReader(`{"name": "Bez NIP"}`))
	w := httptest.NewRecorder()

	handler.CreateContractorHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestUpdateVehicleHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	reqBody := `{"registrationNumber": "WA99999"}`
	req := httptest.NewRequest(http.MethodPut, "/api/vehicles/vehicle-1", strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"vehicleId": "vehicle-1"})
	w := httptest.NewRecorder()

	handler.UpdateVehicleHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "WA99999")
}

func TestDeleteDriverHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodDelete, "/api/drivers/driver-1", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"driverId": "driver-1"})
	w := httptest.NewRecorder()

	handler.DeleteDriverHandler(w, req)

	require.Equal(t, http.StatusNoContent, w.Result().StatusCode)
}

func TestCreateReportHandler(t *testing.T) {
	reportDir := t.TempDir()
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, reportDir)

	reqBody := `{"name": "Deklaracje marzec", "type": "declarations"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/new", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.CreateReportHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, string(body), "completed")

	_, err := os.Stat(filepath.Join(reportDir, "report-1.xlsx"))
	require.NoError(t, err)
}

func TestCreateReportHandlerUnknownType(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/reports/new", strings.NewReader(`{"type": "salary"}`))
	w := httptest.NewRecorder()

	handler.CreateReportHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestDownloadReportHandlerNotReady(t *testing.T) {
	handler := newTestHandler(&MockStorage{}, &fakePuesc{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/reports/report-1/download", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"reportId": "report-1"})
	w := httptest.NewRecorder()

	handler.DownloadReportHandler(w, req)

	require.Equal(t, http.StatusConflict, w.Result().StatusCode)
}
