package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/handler"
	"chilaquiles/internal/app/middleware"
	"chilaquiles/internal/app/password"
	"chilaquiles/internal/app/redis"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/role"
	"chilaquiles/internal/testutil"

	"github.com/gin-gonic/gin"
)

var dbSeq int64

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	storage repository.Storage
	tokens  *redis.Memory
	cfg     *config.Config
	auth    *middleware.AuthMiddleware
}

type serverOption func(*config.Config, *handlerDeps)

type handlerDeps struct {
	driver string
	images handler.ImageStore
	wrap   func(repository.Storage) repository.Storage
}

func withAuthMode(mode string) serverOption {
	return func(c *config.Config, _ *handlerDeps) { c.Auth.Mode = mode }
}

func withoutTokenIssuing() serverOption {
	return func(c *config.Config, _ *handlerDeps) { c.Auth.IssueTokens = false }
}

func withPublicCatalog() serverOption {
	return func(c *config.Config, _ *handlerDeps) { c.Auth.PublicCatalog = true }
}

func withRoleOnRegister() serverOption {
	return func(c *config.Config, _ *handlerDeps) { c.Auth.AllowRoleOnRegister = true }
}

func withDriver(driver string) serverOption {
	return func(c *config.Config, d *handlerDeps) {
		c.Database.Driver = driver
		d.driver = driver
	}
}

func withImages(images handler.ImageStore) serverOption {
	return func(_ *config.Config, d *handlerDeps) { d.images = images }
}

// withStorage оборачивает хранилище, которое видят обработчики
func withStorage(wrap func(repository.Storage) repository.Storage) serverOption {
	return func(_ *config.Config, d *handlerDeps) { d.wrap = wrap }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverORM, Dialect: config.DialectSQLite},
		JWT:      testutil.JWTConfig(),
		Auth: config.AuthConfig{
			Mode:          config.AuthModeBoth,
			IssueTokens:   true,
			SessionSecret: "test-session-secret",
			SessionTTL:    time.Hour,
		},
	}
	deps := &handlerDeps{driver: config.DriverORM}
	for _, opt := range opts {
		opt(cfg, deps)
	}

	name := fmt.Sprintf("handler_%d", atomic.AddInt64(&dbSeq, 1))
	var storage repository.Storage
	if deps.driver == config.DriverSQL {
		storage = testutil.OpenSQL(t, name)
	} else {
		storage = testutil.OpenORM(t, name)
	}

	if deps.wrap != nil {
		storage = deps.wrap(storage)
	}

	tokens := redis.NewMemory()
	auth := middleware.NewAuthMiddleware(storage, tokens, middleware.NewSessionStore(cfg.Auth.SessionSecret), cfg)
	h := handler.NewHandler(storage, auth, deps.images, cfg)

	router := gin.New()
	h.RegisterRoutes(router)

	return &testServer{t: t, router: router, storage: storage, tokens: tokens, cfg: cfg, auth: auth}
}

type request struct {
	method  string
	path    string
	body    interface{}
	token   string
	cookies []*http.Cookie
}

func (s *testServer) do(r request) *httptest.ResponseRecorder {
	s.t.Helper()
	var body bytes.Buffer
	switch b := r.body.(type) {
	case nil:
	case string:
		body.WriteString(b)
	default:
		if err := json.NewEncoder(&body).Encode(b); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(r.method, r.path, &body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// seedUser создаёт пользователя напрямую в хранилище
func (s *testServer) seedUser(username, plain string, r role.Role) *ds.User {
	s.t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		s.t.Fatalf("hash: %v", err)
	}
	u := &ds.User{FullName: "Usuario " + username, Username: username, PasswordHash: hash, Role: r}
	if err := s.storage.CreateUser(context.Background(), u); err != nil {
		s.t.Fatalf("seed user: %v", err)
	}
	return u
}

// tokenFor выдаёт валидный JWT для пользователя
func (s *testServer) tokenFor(u *ds.User) string {
	s.t.Helper()
	return testutil.GenerateJWT(s.t, s.cfg.JWT, u.ID, u.Role, time.Hour)
}

func (s *testServer) login(username, plain string) (map[string]interface{}, []*http.Cookie) {
	s.t.Helper()
	w := s.do(request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"username": username, "password": plain}})
	if w.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", username, w.Code, w.Body.String())
	}
	return decodeObject(s.t, w), w.Result().Cookies()
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, want, w.Body.String())
	}
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectFail(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, w, status)
	body := decodeObject(t, w)
	if body["status"] != "fail" {
		t.Fatalf("status field = %v", body["status"])
	}
	if message != "" && body["message"] != message {
		t.Fatalf("message = %v, want %q", body["message"], message)
	}
}
