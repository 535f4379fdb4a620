package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/shop-inventory/internal/auth"
	"github.com/rogerio-castellano/shop-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/shop-inventory/internal/http/middleware"
	"github.com/rogerio-castellano/shop-inventory/internal/reorder"
	"github.com/rogerio-castellano/shop-inventory/internal/repo"
	"github.com/rs/zerolog"
)

const (
	adminUser     = "admin"
	adminPassword = "secret"
)

type testEnv struct {
	router   http.Handler
	products *repo.InMemoryProductRepository
	token    string
}

type envOptions struct {
	storePath  string
	backupDir  string
	loginBurst int
}

func newTestEnv(t *testing.T, opts ...envOptions) *testEnv {
	t.Helper()
	var o envOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.loginBurst == 0 {
		o.loginBurst = 100
	}

	products := repo.NewInMemoryProductRepository()
	users := repo.NewInMemoryUserRepository()
	authSvc := auth.NewService(users, auth.NewTokens("test-secret", time.Hour), auth.NewMemoryRevocations(), zerolog.Nop())
	if _, err := authSvc.EnsureDefaultUser(context.Background(), adminUser, adminPassword); err != nil {
		t.Fatalf("could not create admin: %v", err)
	}

	s := handlers.NewServer(handlers.Deps{
		Products:  products,
		Auth:      authSvc,
		Orders:    reorder.NewGenerator("wa.me"),
		Log:       zerolog.Nop(),
		StorePath: o.storePath,
		BackupDir: o.backupDir,
	})
	r := NewRouter(s, middleware.NewRateLimiter(0.01, o.loginBurst), zerolog.Nop())

	env := &testEnv{router: r, products: products}
	w := env.login(adminUser, adminPassword)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var resp handlers.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("token decoding failed: %v", err)
	}
	env.token = resp.Token
	return env
}

func (e *testEnv) login(username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handlers.UserLogin{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) do(method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createProduct(t *testing.T, p handlers.ProductRequest) handlers.ProductResponse {
	t.Helper()
	w := e.do(http.MethodPost, "/products", p)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var resp handlers.ProductResponse
	decode(t, w, &resp)
	return resp
}

func (e *testEnv) upload(path, filename, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
}

func productPath(id int) string {
	return fmt.Sprintf("/products/%d", id)
}
