package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-docs/internal/config"
	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/generator"
	"github.com/jonathan/career-docs/internal/types"
)

type fakeStore struct {
	users  map[string]*db.UserRecord
	cvs    map[uuid.UUID]*db.CVRecord
	docs   map[uuid.UUID]*db.GeneratedDocument
	audits []db.ValidationAudit
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]*db.UserRecord),
		cvs:   make(map[uuid.UUID]*db.CVRecord),
		docs:  make(map[uuid.UUID]*db.GeneratedDocument),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, name, email, passwordHash string) (*db.UserRecord, error) {
	user := &db.UserRecord{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[email] = user
	return user, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.UserRecord, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.UserRecord, error) {
	return f.users[email], nil
}

func (f *fakeStore) SaveCV(_ context.Context, userID uuid.UUID, cv *types.SourceCV) (uuid.UUID, error) {
	id := uuid.New()
	f.cvs[id] = &db.CVRecord{ID: id, UserID: userID, Document: *cv, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeStore) GetCV(_ context.Context, id uuid.UUID) (*db.CVRecord, error) {
	return f.cvs[id], nil
}

func (f *fakeStore) ListCVs(_ context.Context, userID uuid.UUID) ([]db.CVRecord, error) {
	var out []db.CVRecord
	for _, rec := range f.cvs {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveGeneratedDocument(_ context.Context, doc *db.GeneratedDocument) (uuid.UUID, error) {
	stored := *doc
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	f.docs[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeStore) GetGeneratedDocument(_ context.Context, id uuid.UUID) (*db.GeneratedDocument, error) {
	return f.docs[id], nil
}

func (f *fakeStore) ListGeneratedDocuments(_ context.Context, cvID uuid.UUID, kind db.GeneratedKind) ([]db.GeneratedDocument, error) {
	var out []db.GeneratedDocument
	for _, doc := range f.docs {
		if doc.CVID != cvID {
			continue
		}
		if kind != "" && doc.Kind != kind {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (f *fakeStore) SaveValidationAudit(_ context.Context, cvID uuid.UUID, kind db.GeneratedKind, code types.Code, violations []types.Violation) error {
	f.audits = append(f.audits, db.ValidationAudit{CVID: cvID, Kind: kind, Code: code, Violations: violations})
	return nil
}

type fakeGenerator struct {
	tailorRes types.Result[*generator.TailorOutcome]
	vprRes    types.Result[*generator.VPROutcome]
	gapRes    types.Result[[]types.GapQuestion]
	vprInput  generator.VPRInput
}

func (f *fakeGenerator) TailorCV(_ context.Context, _ *types.SourceCV, _ string) types.Result[*generator.TailorOutcome] {
	return f.tailorRes
}

func (f *fakeGenerator) GenerateVPR(_ context.Context, _ *types.SourceCV, input generator.VPRInput) types.Result[*generator.VPROutcome] {
	f.vprInput = input
	return f.vprRes
}

func (f *fakeGenerator) GenerateGapQuestions(_ context.Context, _ *types.SourceCV, _ string) types.Result[[]types.GapQuestion] {
	return f.gapRes
}

type testEnv struct {
	server *Server
	store  *fakeStore
	gen    *fakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()
	gen := &fakeGenerator{}
	userService := NewUserService(store, &config.PasswordConfig{BcryptCost: 10})
	srv := newServer(store, gen, nil, userService, testJWTService())
	t.Cleanup(srv.rateLimiter.Stop)
	return &testEnv{server: srv, store: store, gen: gen}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

// registeredUser registers a user directly and returns its ID and a token.
func (e *testEnv) registeredUser(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	user, err := e.server.userService.Register(context.Background(), &types.RegisterRequest{
		Name:     "Jordan Reyes",
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "password123",
	})
	require.NoError(t, err)
	token, err := e.server.jwtService.GenerateToken(user.ID)
	require.NoError(t, err)
	return user.ID, token
}

func testCV() *types.SourceCV {
	return &types.SourceCV{
		FullName: "Jordan Reyes",
		Contact:  types.ContactInfo{Email: "jordan@example.com"},
		WorkHistory: []types.WorkEntry{
			{Company: "Acme Corp", Role: "Software Engineer", DateRange: "2020-2023"},
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc Computer Science"},
		},
		Skills: []string{"Python"},
	}
}

func (e *testEnv) storedCV(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	id, err := e.store.SaveCV(context.Background(), userID, testCV())
	require.NoError(t, err)
	return id
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Jordan Reyes", "email": "jordan@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "jordan@example.com", created.User.Email)

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "jordan@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "jordan@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"name": "A", "email": "dup@example.com", "password": "password123"}

	rec := env.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_InvalidBody(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "A", "email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadCV(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registeredUser(t)

	rec := env.do(t, http.MethodPost, "/cvs", token, map[string]any{"document": testCV()})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestUploadCV_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/cvs", "", map[string]any{"document": testCV()})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadCV_SchemaViolation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registeredUser(t)

	cv := map[string]any{"contact": map[string]string{"email": "x@y.z"}} // no full_name
	rec := env.do(t, http.MethodPost, "/cvs", token, map[string]any{"document": cv})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBaseline(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	rec := env.do(t, http.MethodGet, "/cvs/"+cvID.String()+"/baseline", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jordan Reyes")
	assert.Contains(t, rec.Body.String(), "python")
}

func TestGetCV_OtherUsersCVIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ownerID, _ := env.registeredUser(t)
	cvID := env.storedCV(t, ownerID)

	_, otherToken := env.registeredUser(t)
	rec := env.do(t, http.MethodGet, "/cvs/"+cvID.String(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTailor_Accepted(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	warning := types.Violation{
		Field:    "skills[0]",
		Severity: types.SeverityWarning,
		Detail:   "skill is not traceable to the source CV",
	}
	env.gen.tailorRes = types.Ok(&generator.TailorOutcome{
		Document:   &types.TailoredCV{FullName: "Jordan Reyes"},
		Validation: &types.ValidationResult{Violations: []types.Violation{warning}},
		Attempts:   1,
	})

	rec := env.do(t, http.MethodPost, "/cvs/"+cvID.String()+"/tailor", token,
		map[string]string{"job_posting": "Platform engineer role."})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp generationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, types.CodeSuccess, resp.Code)
	assert.NotEmpty(t, resp.DocumentID)
	// Warnings are returned to the caller on acceptance.
	assert.Len(t, resp.Violations, 1)

	assert.Len(t, env.store.docs, 1)
	require.Len(t, env.store.audits, 1)
	assert.Equal(t, types.CodeSuccess, env.store.audits[0].Code)
}

func TestTailor_RejectionHidesViolations(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	actual := "Initech"
	critical := types.Violation{
		Field:    "experience[1].company",
		Severity: types.SeverityCritical,
		Actual:   &actual,
		Detail:   "company has no corresponding entry in the source CV",
	}
	env.gen.tailorRes = types.FailWithData(types.CodeHallucinationDetected,
		"generated CV failed fact verification",
		&generator.TailorOutcome{
			Document:   &types.TailoredCV{FullName: "Jordan Reyes"},
			Validation: &types.ValidationResult{Violations: []types.Violation{critical}},
			Attempts:   2,
		})

	rec := env.do(t, http.MethodPost, "/cvs/"+cvID.String()+"/tailor", token,
		map[string]string{"job_posting": "Platform engineer role."})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The client sees only the generic message, never the violation detail.
	assert.Contains(t, rec.Body.String(), rejectionMessage)
	assert.NotContains(t, rec.Body.String(), "Initech")

	// Nothing is persisted, but the audit trail has the full verdict.
	assert.Empty(t, env.store.docs)
	require.Len(t, env.store.audits, 1)
	assert.Equal(t, types.CodeHallucinationDetected, env.store.audits[0].Code)
	assert.Len(t, env.store.audits[0].Violations, 1)
}

func TestTailor_MissingJobPosting(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	rec := env.do(t, http.MethodPost, "/cvs/"+cvID.String()+"/tailor", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.store.audits)
}

func TestVPR_Accepted(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	env.gen.vprRes = types.Ok(&generator.VPROutcome{
		Document:   &types.ValueProposition{Company: "Initech", RoleTitle: "Platform Lead"},
		Validation: &types.ValidationResult{},
		Attempts:   1,
	})

	rec := env.do(t, http.MethodPost, "/cvs/"+cvID.String()+"/vpr", token, map[string]string{
		"company": "Initech", "role_title": "Platform Lead", "job_posting": "Platform Lead opening.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Initech", env.gen.vprInput.Company)
	assert.Len(t, env.store.docs, 1)
}

func TestVPR_Rejection(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	env.gen.vprRes = types.FailWithData(types.CodeHallucinationDetected,
		"generated report failed fact verification",
		&generator.VPROutcome{Validation: &types.ValidationResult{}, Attempts: 2})

	rec := env.do(t, http.MethodPost, "/cvs/"+cvID.String()+"/vpr", token, map[string]string{
		"company": "Initech", "role_title": "Platform Lead",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), rejectionMessage)
	assert.Empty(t, env.store.docs)
}

func TestGapQuestions(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	env.gen.gapRes = types.Ok([]types.GapQuestion{
		{Skill: "Kubernetes", Question: "Have you run Kubernetes in production?"},
	})

	rec := env.do(t, http.MethodPost, "/cvs/"+cvID.String()+"/gap-questions", token,
		map[string]string{"job_posting": "Requires Kubernetes."})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kubernetes")
}

func TestDocuments_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registeredUser(t)
	cvID := env.storedCV(t, userID)

	docID, err := env.store.SaveGeneratedDocument(context.Background(), &db.GeneratedDocument{
		CVID:     cvID,
		UserID:   userID,
		Kind:     db.KindTailoredCV,
		Document: []byte(`{"full_name":"Jordan Reyes"}`),
		Code:     types.CodeSuccess,
	})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/cvs/"+cvID.String()+"/documents?kind=tailored_cv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), docID.String())

	rec = env.do(t, http.MethodGet, "/cvs/"+cvID.String()+"/documents?kind=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/documents/"+docID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jordan Reyes")

	_, otherToken := env.registeredUser(t)
	rec = env.do(t, http.MethodGet, "/documents/"+docID.String(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
