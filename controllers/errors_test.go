package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/services"
)

func TestStatusFor(t *testing.T) {
	tests := map[services.Kind]int{
		services.KindUnauthenticated:        http.StatusUnauthorized,
		services.KindNotFoundOrUnauthorized: http.StatusNotFound,
		services.KindConflict:               http.StatusConflict,
		services.KindValidation:             http.StatusBadRequest,
		services.KindStorageUnavailable:     http.StatusServiceUnavailable,
		services.KindUnknown:                http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := statusFor(kind); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestRespondErrorHidesInternalCauses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		logged  bool
	}{
		{"service error", services.ErrAlreadyLiked, http.StatusConflict, "already liked", false},
		{"storage error", &services.Error{Kind: services.KindStorageUnavailable, Message: "storage unavailable", Err: errors.New("pq: password authentication failed")}, http.StatusServiceUnavailable, "storage unavailable", true},
		{"unknown error", errors.New("hash password: out of memory"), http.StatusInternalServerError, "internal error", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, "test", tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.message {
				t.Fatalf("error = %q, want %q", body["error"], tt.message)
			}
			if logged := len(c.Errors) > 0; logged != tt.logged {
				t.Fatalf("cause attached = %v, want %v", logged, tt.logged)
			}
		})
	}
}

func TestRespondBindErrorHidesValidatorText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"username":"alice"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var input CredentialsRequest
	err := c.ShouldBindJSON(&input)
	if err == nil {
		t.Fatal("expected binding error for missing password")
	}
	respondBindError(c, "register", err)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if want := `{"error":"invalid request body"}`; w.Body.String() != want {
		t.Fatalf("body = %s, want %s", w.Body.String(), want)
	}
	if strings.Contains(w.Body.String(), "CredentialsRequest") {
		t.Fatalf("body leaks struct name: %s", w.Body.String())
	}
	if len(c.Errors) != 1 {
		t.Fatalf("attached errors = %d, want 1", len(c.Errors))
	}
}
