package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter() *gin.Engine {
	return setupRouterWith(nil)
}

func setupRouterWith(checks map[string]Check) *gin.Engine {
	r := gin.New()
	h := Health(checks)
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	r.POST("/healthz", h)
	r.PUT("/healthz", h)
	r.DELETE("/healthz", h)
	return r
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	router := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// Check response body
	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", response["status"])
	}

	// Check Cache-Control header
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
	}
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	router := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// HEAD should have no body
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD request, got %d bytes", w.Body.Len())
	}

	// Check Cache-Control header
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
	}
}

func TestHealth_OPTIONS(t *testing.T) {
	t.Parallel()

	router := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	// Check Cache-Control header
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
	}
}

func TestHealth_POST(t *testing.T) {
	t.Parallel()

	router := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)

	router.ServeHTTP(w, req)

	// Default case returns JSON
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", response["status"])
	}
}

func TestHealth_AllMethods_CacheControl(t *testing.T) {
	t.Parallel()

	methods := []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodOptions,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
	}

	router := setupRouter()

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(method, "/healthz", nil)

			router.ServeHTTP(w, req)

			// All methods should have Cache-Control header
			if w.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodHead, http.StatusOK},
		{http.MethodOptions, http.StatusNoContent},
		{http.MethodPost, http.StatusOK},
		{http.MethodPut, http.StatusOK},
		{http.MethodDelete, http.StatusOK},
	}

	router := setupRouter()

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestHealth_Checks(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		method         string
		checks         map[string]Check
		expectedStatus int
		expectedBody   string
	}{
		{"all up", http.MethodGet, map[string]Check{"db": ok, "redis": ok}, http.StatusOK,
			`{"status":"ok","checks":{"db":"ok","redis":"ok"}}`},
		{"redis down", http.MethodGet, map[string]Check{"db": ok, "redis": down}, http.StatusServiceUnavailable,
			`{"status":"degraded","checks":{"db":"ok","redis":"down"}}`},
		{"HEAD reports failure without body", http.MethodHead, map[string]Check{"db": down}, http.StatusServiceUnavailable, ""},
		{"OPTIONS skips checks", http.MethodOptions, map[string]Check{"db": down}, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)
			setupRouterWith(tt.checks).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody == "" {
				if w.Body.Len() != 0 {
					t.Errorf("expected empty body, got %q", w.Body.String())
				}
				return
			}
			var got, want map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			_ = json.Unmarshal([]byte(tt.expectedBody), &want)
			if gotJSON, _ := json.Marshal(got); string(gotJSON) != mustMarshal(want) {
				t.Errorf("expected body %s, got %s", tt.expectedBody, gotJSON)
			}
		})
	}
}

func mustMarshal(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
