package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			TokenExpireHours: 24,
		},
		Users: []config.User{
			{Username: "admin", Password: "adminpass", Role: "admin"},
		},
	}
}

func newAuthRouter(cfg *config.Config) *gin.Engine {
	h := NewAuthHandler(cfg)
	router := gin.New()
	router.POST("/api/auth/login", h.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	protected.GET("/auth/me", h.GetCurrentUser)
	return router
}

func TestLogin(t *testing.T) {
	router := newAuthRouter(authTestConfig())

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"admin","password":"adminpass"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Token == "" {
		t.Error("Expected token in response")
	}
	if resp.Username != "admin" || resp.Role != "admin" {
		t.Errorf("Expected admin identity, got %+v", resp)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAuthRouter(authTestConfig())

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	router := newAuthRouter(authTestConfig())

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"ghost","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestLoginMalformedBody(t *testing.T) {
	router := newAuthRouter(authTestConfig())

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGetCurrentUser(t *testing.T) {
	cfg := authTestConfig()
	router := newAuthRouter(cfg)

	token, _, err := middleware.GenerateToken("admin", "admin", &cfg.Auth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["username"] != "admin" || body["role"] != "admin" {
		t.Errorf("Expected admin identity, got %v", body)
	}
}

func TestGetCurrentUserUnauthenticated(t *testing.T) {
	router := newAuthRouter(authTestConfig())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
