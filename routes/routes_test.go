package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/config"
	"github.com/mini-social/api-go/services"
	"github.com/mini-social/api-go/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, ping func(context.Context) error) *gin.Engine {
	t.Helper()
	db, err := config.InitDB(config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "social.db"),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tokens, err := services.NewTokenService([]byte("routes-test-secret-0123456789abcdef"), 0, nil)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	if ping == nil {
		ping = st.Ping
	}

	r := gin.New()
	SetupRoutes(r, Dependencies{
		Auth:  services.NewAuthService(st, tokens, nil),
		Posts: services.NewPostService(st, tokens, nil),
		Ping:  ping,
	})
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, w, status)
	body := decode[map[string]string](t, w)
	if body["error"] != message {
		t.Fatalf("error = %q, want %q", body["error"], message)
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenBody struct {
	TokenType string `json:"token_type"`
	Token     string `json:"token"`
}

type postBody struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Content    string `json:"content"`
	LikesCount int64  `json:"likes_count"`
}

func register(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/register", "", credentials{username, "password123"})
	expectStatus(t, w, http.StatusCreated)
	body := decode[tokenBody](t, w)
	if body.TokenType != "Bearer" || body.Token == "" {
		t.Fatalf("token response = %+v", body)
	}
	return body.Token
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t, nil)
	register(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/register", "", credentials{"alice", "password123"})
	expectError(t, w, http.StatusConflict, "registration failed")

	w = doRequest(t, r, http.MethodPost, "/api/register", "", credentials{"al", "password123"})
	expectStatus(t, w, http.StatusBadRequest)

	w = doRequest(t, r, http.MethodPost, "/api/register", "", map[string]string{"username": "carol"})
	expectError(t, w, http.StatusBadRequest, "invalid request body")

	w = doRequest(t, r, http.MethodPost, "/api/login", "", credentials{"alice", "password123"})
	expectStatus(t, w, http.StatusOK)
	token := decode[tokenBody](t, w).Token

	w = doRequest(t, r, http.MethodPost, "/api/login", "", credentials{"alice", "wrong-password"})
	expectError(t, w, http.StatusUnauthorized, "invalid credentials")
	wrongPassword := w.Body.String()

	w = doRequest(t, r, http.MethodPost, "/api/login", "", credentials{"mallory", "password123"})
	expectError(t, w, http.StatusUnauthorized, "invalid credentials")
	if w.Body.String() != wrongPassword {
		t.Fatalf("unknown user body %q differs from wrong password body %q", w.Body.String(), wrongPassword)
	}

	w = doRequest(t, r, http.MethodGet, "/api/profile", token, nil)
	expectStatus(t, w, http.StatusOK)
	profile := decode[map[string]map[string]any](t, w)
	if profile["user"]["username"] != "alice" {
		t.Fatalf("profile = %v", profile)
	}
	if _, leaked := profile["user"]["password_hash"]; leaked {
		t.Fatal("profile exposes password hash")
	}
	if strings.Contains(w.Body.String(), "$2a$") {
		t.Fatal("profile body contains a bcrypt hash")
	}
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	r := newTestRouter(t, nil)
	tests := []struct {
		method string
		path   string
		header string
	}{
		{http.MethodPost, "/api/posts", ""},
		{http.MethodPost, "/api/posts", "Basic dXNlcjpwYXNz"},
		{http.MethodPost, "/api/posts", "Bearer "},
		{http.MethodDelete, "/api/posts/00000000-0000-0000-0000-000000000000", ""},
		{http.MethodPost, "/api/posts/00000000-0000-0000-0000-000000000000/likes", ""},
		{http.MethodGet, "/api/profile", ""},
		{http.MethodGet, "/api/profile", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.header, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"content":"hi"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			expectError(t, w, http.StatusUnauthorized, "unauthenticated")
		})
	}
}

func TestPostLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "alice")
	bob := register(t, r, "bob")

	w := doRequest(t, r, http.MethodPost, "/api/posts", alice, map[string]string{"content": "hello world"})
	expectStatus(t, w, http.StatusCreated)
	created := decode[postBody](t, w)
	postPath := "/api/posts/" + created.ID

	w = doRequest(t, r, http.MethodGet, postPath, "", nil)
	expectStatus(t, w, http.StatusOK)
	got := decode[postBody](t, w)
	if got.Content != "hello world" || got.UserID != created.UserID || got.LikesCount != 0 {
		t.Fatalf("post = %+v, want %+v with no likes", got, created)
	}

	w = doRequest(t, r, http.MethodPost, "/api/posts", alice, map[string]string{"content": strings.Repeat("x", 281)})
	expectStatus(t, w, http.StatusBadRequest)

	w = doRequest(t, r, http.MethodPost, postPath+"/likes", bob, nil)
	expectStatus(t, w, http.StatusOK)
	w = doRequest(t, r, http.MethodPost, postPath+"/likes", bob, nil)
	expectError(t, w, http.StatusConflict, "already liked")

	w = doRequest(t, r, http.MethodGet, postPath+"/likes", "", nil)
	expectStatus(t, w, http.StatusOK)
	likes := decode[struct {
		PostID string `json:"post_id"`
		Count  int    `json:"count"`
	}](t, w)
	if likes.Count != 1 || likes.PostID != created.ID {
		t.Fatalf("likes = %+v, want one like on %s", likes, created.ID)
	}

	w = doRequest(t, r, http.MethodGet, postPath, "", nil)
	if got := decode[postBody](t, w); got.LikesCount != 1 {
		t.Fatalf("likes count = %d, want 1", got.LikesCount)
	}

	w = doRequest(t, r, http.MethodDelete, postPath, bob, nil)
	expectError(t, w, http.StatusNotFound, "post not found or unauthorized")

	w = doRequest(t, r, http.MethodDelete, postPath, alice, nil)
	expectStatus(t, w, http.StatusNoContent)

	w = doRequest(t, r, http.MethodGet, postPath, "", nil)
	expectError(t, w, http.StatusNotFound, "post not found")
	w = doRequest(t, r, http.MethodGet, postPath+"/likes", "", nil)
	expectError(t, w, http.StatusNotFound, "post not found")
	w = doRequest(t, r, http.MethodDelete, postPath, alice, nil)
	expectError(t, w, http.StatusNotFound, "post not found or unauthorized")
}

func TestMalformedPostIDIsNotFound(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "alice")

	w := doRequest(t, r, http.MethodGet, "/api/posts/not-a-uuid", "", nil)
	expectError(t, w, http.StatusNotFound, "post not found")
	w = doRequest(t, r, http.MethodDelete, "/api/posts/not-a-uuid", alice, nil)
	expectError(t, w, http.StatusNotFound, "post not found or unauthorized")
	w = doRequest(t, r, http.MethodPost, "/api/posts/not-a-uuid/likes", alice, nil)
	expectError(t, w, http.StatusNotFound, "post not found")
}

func TestDeleteProfile(t *testing.T) {
	r := newTestRouter(t, nil)
	alice := register(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/posts", alice, map[string]string{"content": "bye"})
	expectStatus(t, w, http.StatusCreated)
	postPath := "/api/posts/" + decode[postBody](t, w).ID

	w = doRequest(t, r, http.MethodDelete, "/api/profile", alice, nil)
	expectStatus(t, w, http.StatusNoContent)

	w = doRequest(t, r, http.MethodGet, "/api/profile", alice, nil)
	expectError(t, w, http.StatusUnauthorized, "unauthenticated")
	w = doRequest(t, r, http.MethodGet, postPath, "", nil)
	expectError(t, w, http.StatusNotFound, "post not found")
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, nil)
	w := doRequest(t, r, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, w, http.StatusOK)

	down := newTestRouter(t, func(context.Context) error { return errors.New("database is locked") })
	w = doRequest(t, down, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, w, http.StatusServiceUnavailable)
	if strings.Contains(w.Body.String(), "locked") {
		t.Fatalf("health body leaks cause: %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)
	register(t, r, "alice")

	w := doRequest(t, r, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, w, http.StatusOK)
	for _, name := range []string{"social_mutations_total", "http_requests_total"} {
		if !strings.Contains(w.Body.String(), name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
