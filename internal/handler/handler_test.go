package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mock_backend/internal/model"
	"mock_backend/internal/repository"
	"mock_backend/internal/service"
	"mock_backend/internal/store"
	"mock_backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const apiPrefix = "/api/v1"

type testServer struct {
	handler http.Handler
	backend *store.MemoryBackend
}

// newTestServer wires the full stack on an in-memory store seeded from JSON.
func newTestServer(t *testing.T, seed string, readOnly bool) *testServer {
	t.Helper()

	snap, err := model.DecodeSnapshot([]byte(seed))
	require.NoError(t, err)

	backend := store.NewMemoryBackend(snap)
	db, err := store.Open(context.Background(), backend)
	require.NoError(t, err)

	return &testServer{handler: newRouterFor(db, service.NewAuthService(repository.NewUserRepository(db), utils.NewTokenUtil()), readOnly), backend: backend}
}

func newRouterFor(db *store.Store, authService service.AuthService, readOnly bool) http.Handler {
	tokenUtil := utils.NewTokenUtil()
	return NewRouter(
		RouterConfig{APIPrefix: apiPrefix, ReadOnly: readOnly, TokenUtil: tokenUtil},
		NewAuthHandler(authService, nil),
		NewResourceHandler(service.NewResourceService(repository.NewResourceRepository(db)), nil),
		NewHealthHandler(db),
	)
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

const exampleSeed = `{"users":[{"id":"1","phone":"555-0100","password":"pw1","name":"A"}]}`

const bookingSeed = `{
	"users": [
		{"id": 1, "phone": "555-0100", "password": "pw1", "name": "Asha"},
		{"id": 2, "phone": "555-0101", "password": "pw2", "name": "Ravi", "role": "expert"}
	],
	"bookings": [
		{"id": 1, "userId": 1, "status": "pending", "amount": 450},
		{"id": 2, "userId": 2, "status": "confirmed", "amount": 1200},
		{"id": 3, "userId": 1, "status": "confirmed", "amount": 99}
	],
	"zones": []
}`

func TestLogin_Success(t *testing.T) {
	s := newTestServer(t, exampleSeed, false)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", `{"phone":"555-0100","password":"pw1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"mock-jwt-token-1","user":{"id":"1","phone":"555-0100","name":"A"}}`, w.Body.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t, exampleSeed, false)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", `{"phone":"555-0100","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())
}

func TestLogin_UnvalidatedBodies(t *testing.T) {
	s := newTestServer(t, `{"users":[{"id":"1","phone":"555-0100","password":"pw1"},{"id":"2"}]}`, false)

	for _, body := range []string{
		`{}`,
		`{"phone":"555-0100"}`,
		`{"password":"pw1"}`,
		`{"phone":5550100,"password":"pw1"}`,
		`not json`,
		`[]`,
		``,
	} {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, body)
		assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String(), body)
	}
}

func TestLogin_NumericIDAndNoPasswordLeak(t *testing.T) {
	s := newTestServer(t, bookingSeed, false)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", `{"phone":"555-0101","password":"pw2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "mock-jwt-token-2", resp["token"])
	user := resp["user"].(map[string]any)
	assert.NotContains(t, user, "password")
	assert.Equal(t, "expert", user["role"])
}

func TestLogin_IsReadOnly(t *testing.T) {
	s := newTestServer(t, exampleSeed, false)

	before := s.backend.Saved()
	s.do(t, http.MethodPost, "/api/v1/auth/login", `{"phone":"555-0100","password":"pw1"}`)
	assert.Equal(t, before, s.backend.Saved())
}

func TestLogin_ServiceError(t *testing.T) {
	db, err := store.Open(context.Background(), store.NewMemoryBackend(nil))
	require.NoError(t, err)
	h := newRouterFor(db, failingAuthService{}, false)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to login"}`, w.Body.String())
}

type failingAuthService struct{}

func (failingAuthService) Login(context.Context, model.Credentials) (*model.LoginResponse, error) {
	return nil, errors.New("store unavailable")
}

func TestGetByID_ReturnsFullRecordIncludingPassword(t *testing.T) {
	s := newTestServer(t, exampleSeed, false)

	w := s.do(t, http.MethodGet, "/api/v1/users/1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"1","phone":"555-0100","password":"pw1","name":"A"}`, w.Body.String())
}

func TestPrefixRewriteIsTransparent(t *testing.T) {
	s := newTestServer(t, bookingSeed, false)

	for _, target := range []string{
		"/users",
		"/users/1",
		"/users/404",
		"/bookings?status=confirmed",
		"/bookings?_sort=amount&_order=desc",
		"/users/1/bookings",
		"/posts",
		"/db",
	} {
		direct := s.do(t, http.MethodGet, target, "")
		prefixed := s.do(t, http.MethodGet, apiPrefix+target, "")

		assert.Equal(t, direct.Code, prefixed.Code, target)
		assert.Equal(t, direct.Body.String(), prefixed.Body.String(), target)
		assert.Equal(t, direct.Header().Get("Content-Type"), prefixed.Header().Get("Content-Type"), target)
	}
}

func TestUnprefixedLoginPathIsNotTheLoginRoute(t *testing.T) {
	s := newTestServer(t, exampleSeed, false)

	w := s.do(t, http.MethodPost, "/auth/login", `{"phone":"555-0100","password":"pw1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList(t *testing.T) {
	s := newTestServer(t, bookingSeed, false)

	w := s.do(t, http.MethodGet, "/api/v1/bookings?userId=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id": 1, "userId": 1, "status": "pending", "amount": 450},
		{"id": 3, "userId": 1, "status": "confirmed", "amount": 99}
	]`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/bookings?status=confirmed&amount_gte=100", "")
	assert.JSONEq(t, `[{"id": 2, "userId": 2, "status": "confirmed", "amount": 1200}]`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/zones", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/bookings?_page=2&_limit=1", "")
	var all []any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3, "pagination parameters are ignored")
}

func TestUnknownCollectionAndRecord(t *testing.T) {
	s := newTestServer(t, bookingSeed, false)

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/api/v1/posts", ""},
		{http.MethodGet, "/api/v1/users/404", ""},
		{http.MethodPost, "/api/v1/posts", `{}`},
		{http.MethodPut, "/api/v1/users/404", `{}`},
		{http.MethodPatch, "/api/v1/users/404", `{}`},
		{http.MethodDelete, "/api/v1/users/404", ""},
	} {
		w := s.do(t, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method+" "+tc.target)
		assert.JSONEq(t, `{}`, w.Body.String())
	}
}

func TestCRUDPersists(t *testing.T) {
	s := newTestServer(t, bookingSeed, false)

	w := s.do(t, http.MethodPost, "/api/v1/bookings", `{"userId": 2, "status": "pending", "amount": 300}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id": 4, "userId": 2, "status": "pending", "amount": 300}`, w.Body.String())
	assert.Len(t, s.backend.Saved()["bookings"], 4)

	w = s.do(t, http.MethodPatch, "/api/v1/bookings/4", `{"status": "confirmed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 4, "userId": 2, "status": "confirmed", "amount": 300}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/v1/bookings/4", `{"status": "cancelled"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 4, "status": "cancelled"}`, w.Body.String())
	assert.Equal(t, "cancelled", s.backend.Saved()["bookings"][3]["status"])

	w = s.do(t, http.MethodDelete, "/api/v1/bookings/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
	assert.Len(t, s.backend.Saved()["bookings"], 3)
}

func TestCreate_Errors(t *testing.T) {
	s := newTestServer(t, bookingSeed, false)

	w := s.do(t, http.MethodPost, "/api/v1/bookings", `{"id": 1}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	for _, body := range []string{`[1,2]`, `"x"`, `{`} {
		w = s.do(t, http.MethodPost, "/api/v1/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestNestedRoutes(t *testing.T) {
	s := newTestServer(t, bookingSeed, false)

	w := s.do(t, http.MethodGet, "/api/v1/users/1/bookings?status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id": 1, "userId": 1, "status": "pending", "amount": 450}]`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/users/2/bookings", `{"status": "pending"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id": 4, "userId": 2, "status": "pending"}`, w.Body.String())
}

func TestReadOnlyMode(t *testing.T) {
	s := newTestServer(t, exampleSeed, true)

	w := s.do(t, http.MethodPost, "/api/v1/users", `{"phone":"1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", `{"phone":"555-0100","password":"pw1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

type failingBackend struct {
	*store.MemoryBackend
}

func (failingBackend) Save(context.Context, model.Snapshot) error {
	return errors.New("read-only file system")
}

func (failingBackend) Ping(context.Context) error {
	return errors.New("read-only file system")
}

func TestPersistenceFailureIs500(t *testing.T) {
	snap, err := model.DecodeSnapshot([]byte(bookingSeed))
	require.NoError(t, err)
	db, err := store.Open(context.Background(), failingBackend{store.NewMemoryBackend(snap)})
	require.NoError(t, err)
	h := newRouterFor(db, service.NewAuthService(repository.NewUserRepository(db), utils.NewTokenUtil()), false)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/zones", strings.NewReader(`{"name":"North"}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create record"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, exampleSeed, false)

	w := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","db":"healthy"}`, w.Body.String())
}

func TestLoginPath(t *testing.T) {
	assert.Equal(t, "/api/v1/auth/login", LoginPath("/api/v1"))
	assert.Equal(t, "/api/v1/auth/login", LoginPath("/api/v1/"))
	assert.Equal(t, "/auth/login", LoginPath(""))
}
