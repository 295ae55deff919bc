package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"plaintdraft-backend/auth"
	"plaintdraft-backend/formschema"
	"plaintdraft-backend/models"
	"plaintdraft-backend/repository"
	"plaintdraft-backend/service"
	"plaintdraft-backend/testsupport"
	"plaintdraft-backend/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memAdvocates struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.AdvocateAccount
}

func (m *memAdvocates) Create(_ context.Context, a *models.AdvocateAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return repository.ErrDuplicate
		}
	}
	a.ID = uuid.New()
	m.byID[a.ID] = *a
	return nil
}

func (m *memAdvocates) GetByEmail(_ context.Context, email string) (*models.AdvocateAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAdvocates) GetByID(_ context.Context, id uuid.UUID) (*models.AdvocateAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

type memPlaints struct {
	mu      sync.Mutex
	plaints map[uuid.UUID]models.Plaint
}

func (m *memPlaints) Create(_ context.Context, p *models.Plaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.plaints[p.ID] = *p
	return nil
}

func (m *memPlaints) GetByID(_ context.Context, id uuid.UUID) (*models.Plaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memPlaints) Update(_ context.Context, p *models.Plaint, _ ...models.PlaintStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plaints[p.ID] = *p
	return nil
}

func (m *memPlaints) UpdateStatus(_ context.Context, id uuid.UUID, status models.PlaintStatus, _ ...models.PlaintStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plaints[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	m.plaints[id] = p
	return nil
}

func (m *memPlaints) SetGenerated(context.Context, uuid.UUID, string, uuid.UUID) error {
	return nil
}

func (m *memPlaints) ListByAdvocateID(_ context.Context, advocateID uuid.UUID, status *models.PlaintStatus, limit, offset int) ([]*models.Plaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Plaint, 0)
	for _, p := range m.plaints {
		if p.AdvocateID == advocateID && (status == nil || p.Status == *status) {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeDrafts renders with the real service and stubs everything that needs storage
type fakeDrafts struct {
	*service.DraftService
	owner   uuid.UUID
	jobID   uuid.UUID
	started []uuid.UUID
}

func (f *fakeDrafts) GenerateDraft(_ context.Context, req service.GenerateDraftRequest) (*service.GenerateDraftResult, error) {
	if req.AdvocateID != f.owner {
		return nil, service.ErrForbidden
	}
	return &service.GenerateDraftResult{JobID: f.jobID}, nil
}

func (f *fakeDrafts) ProcessDraftAsync(jobID uuid.UUID) {
	f.started = append(f.started, jobID)
}

func (f *fakeDrafts) GetJobStatus(_ context.Context, req service.GetJobStatusRequest) (*service.GetJobStatusResult, error) {
	if req.JobID != f.jobID {
		return nil, service.ErrJobNotFound
	}
	return &service.GetJobStatusResult{Job: &models.GenerationJob{ID: f.jobID, Status: models.JobStatusPending}}, nil
}

func (f *fakeDrafts) OpenDocument(_ context.Context, req service.OpenDocumentRequest) (*models.File, io.ReadCloser, error) {
	if req.FileID != f.jobID {
		return nil, nil, service.ErrFileNotFound
	}
	content := "%PDF-1.3 stored"
	file := &models.File{ID: req.FileID, Filename: models.PlaintFilename, MimeType: "application/pdf", Size: int64(len(content))}
	return file, io.NopCloser(strings.NewReader(content)), nil
}

type testServer struct {
	router *gin.Engine
	auth   *auth.Service
	drafts *fakeDrafts
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	authService := auth.NewService(&memAdvocates{byID: map[uuid.UUID]models.AdvocateAccount{}}, "handler-secret",
		auth.WithBcryptCost(bcrypt.MinCost))
	plaintService := service.NewPlaintService(service.WithPlaintRepository(&memPlaints{plaints: map[uuid.UUID]models.Plaint{}}))
	drafts := &fakeDrafts{DraftService: service.NewDraftService(), jobID: uuid.New()}

	return &testServer{
		router: NewRouter(RouterConfig{
			AuthService:   authService,
			PlaintService: plaintService,
			DraftService:  drafts,
		}),
		auth:   authService,
		drafts: drafts,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Fields  []string `json:"fields"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) login(t *testing.T, email string) (string, uuid.UUID) {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", auth.RegisterRequest{
		Email: email, Password: "correct-horse", Name: "A. Narayan", EnrolmentNumber: "KAR/1234/2005",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodPost, "/api/auth/login", "", auth.LoginRequest{Email: email, Password: "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res auth.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.Token, res.Advocate.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCourtFee(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/court-fee", "", CourtFeeRequest{Amount: "Rs. 1,00,000"})
	require.Equal(t, http.StatusOK, w.Code)
	var fee struct {
		Amount float64 `json:"amount"`
		Rate   float64 `json:"rate"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fee))
	assert.InDelta(t, 7500.0, fee.Amount, 0.001)
	assert.InDelta(t, 0.075, fee.Rate, 1e-9)

	w, env = s.do(t, http.MethodPost, "/api/court-fee", "", CourtFeeRequest{Amount: "one lakh"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_AMOUNT", env.Error.Code)

	w, _ = s.do(t, http.MethodPost, "/api/court-fee", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormSchema(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodGet, "/api/form-schema", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var schema formschema.Schema
	require.NoError(t, json.Unmarshal(env.Data, &schema))
	assert.Equal(t, formschema.Default().Title, schema.Title)
	assert.Len(t, schema.Sections, len(formschema.Default().Sections))
}

func TestValidateAndPreview(t *testing.T) {
	s := newTestServer(t)
	rec := testsupport.CaseRecord()
	rec.InterestRate = ""

	w, env := s.do(t, http.MethodPost, "/api/plaints/validate", "", CaseRecordRequest{CaseRecord: rec})
	require.Equal(t, http.StatusOK, w.Code)
	var res service.ValidateRecordResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Valid)
	assert.Equal(t, []string{validation.LabelInterestRate}, res.Missing)

	w, env = s.do(t, http.MethodPost, "/api/plaints/preview", "", CaseRecordRequest{CaseRecord: rec})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, []string{validation.LabelInterestRate}, env.Error.Fields)

	w, env = s.do(t, http.MethodPost, "/api/plaints/preview", "", CaseRecordRequest{CaseRecord: testsupport.CaseRecord()})
	require.Equal(t, http.StatusOK, w.Code)
	var preview service.PreviewResult
	require.NoError(t, json.Unmarshal(env.Data, &preview))
	assert.Contains(t, preview.Text, "IN THE HON'BLE COURT OF")
}

func TestRenderPlaint(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/plaints/render", "", CaseRecordRequest{CaseRecord: testsupport.CaseRecordWithSchedule()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), models.PlaintFilename)
	assert.NotEmpty(t, w.Header().Get("X-Page-Count"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	rec := testsupport.CaseRecord()
	rec.Facts = nil
	w, env := s.do(t, http.MethodPost, "/api/plaints/render", "", CaseRecordRequest{CaseRecord: rec})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{validation.LabelFacts}, env.Error.Fields)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)
	token, id := s.login(t, "narayan@example.com")

	w, env := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.AdvocateAccount
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, id, me.ID)

	w, env = s.do(t, http.MethodPost, "/api/auth/register", "", auth.RegisterRequest{
		Email: "narayan@example.com", Password: "another-pass", Name: "Someone",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", env.Error.Code)

	w, env = s.do(t, http.MethodPost, "/api/auth/login", "", auth.LoginRequest{Email: "narayan@example.com", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	w, _ = s.do(t, http.MethodPost, "/api/auth/register", "", auth.RegisterRequest{Email: "x@example.com", Password: "short", Name: "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/plaints", "/api/auth/me", "/api/jobs/" + uuid.NewString()} {
		w, env := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

		w, _ = s.do(t, http.MethodGet, path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestPlaintLifecycle(t *testing.T) {
	s := newTestServer(t)
	token, advocateID := s.login(t, "owner@example.com")
	otherToken, _ := s.login(t, "other@example.com")
	s.drafts.owner = advocateID

	w, env := s.do(t, http.MethodPost, "/api/plaints", token, CaseRecordRequest{CaseRecord: testsupport.CaseRecord()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Plaint
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, advocateID, created.AdvocateID)
	assert.Equal(t, models.StatusDraft, created.Status)
	path := "/api/plaints/" + created.ID.String()

	w, _ = s.do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, _ = s.do(t, http.MethodGet, "/api/plaints/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/plaints/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)

	rec := testsupport.CaseRecord()
	rec.CourtLocation = "MYSURU"
	w, env = s.do(t, http.MethodPut, path, token, CaseRecordRequest{CaseRecord: rec})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Plaint
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "MYSURU", updated.CaseRecord.CourtLocation)

	w, env = s.do(t, http.MethodGet, "/api/plaints?status=draft&limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Plaint
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	w, _ = s.do(t, http.MethodGet, "/api/plaints?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodPost, path+"/generate", token, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	var job struct {
		JobID uuid.UUID `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, s.drafts.jobID, job.JobID)
	assert.Equal(t, []uuid.UUID{s.drafts.jobID}, s.drafts.started)

	w, _ = s.do(t, http.MethodPost, path+"/generate", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Len(t, s.drafts.started, 1)

	w, _ = s.do(t, http.MethodGet, "/api/jobs/"+job.JobID.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, http.MethodGet, "/api/jobs/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, _ = s.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodPut, path, token, CaseRecordRequest{CaseRecord: rec})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NOT_EDITABLE", env.Error.Code)
}

func TestGetFile(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "files@example.com")

	w, _ := s.do(t, http.MethodGet, "/api/files/"+s.drafts.jobID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), models.PlaintFilename)
	assert.Equal(t, "%PDF-1.3 stored", w.Body.String())

	w, env := s.do(t, http.MethodGet, "/api/files/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
