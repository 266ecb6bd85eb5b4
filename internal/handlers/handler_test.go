package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"tunestatus/internal/logger"
	"tunestatus/internal/service"

	"github.com/gin-gonic/gin"
)

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, logger.Get(logger.ErrorLevel), NewRunHub(), "")
	return h.InitRoutes()
}

// defaultAuth is the credential pair the mocks accept.
func defaultAuth() *mockAuth {
	return &mockAuth{allowUser: "admin", allowPass: "hunter2"}
}

func doRequest(r *gin.Engine, method, path string, body *string, withAuth bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(*body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if withAuth {
		req.SetBasicAuth("admin", "hunter2")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthIsPublic(t *testing.T) {
	s := &service.Service{Auth: defaultAuth()}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/health", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

func TestAPIRequiresBasicAuth(t *testing.T) {
	s := &service.Service{
		Auth:   defaultAuth(),
		Status: &mockStatus{},
	}
	r := newTestRouter(s)

	// No credentials.
	w := doRequest(r, http.MethodGet, "/api/v1/status", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got == "" {
		t.Fatalf("missing WWW-Authenticate challenge")
	}

	// Wrong credentials.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.SetBasicAuth("admin", "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad credentials, got %d", w.Code)
	}

	// Valid credentials.
	w = doRequest(r, http.MethodGet, "/api/v1/status", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid credentials, got %d", w.Code)
	}
}

func TestTriggerReconcile(t *testing.T) {
	rec := &mockReconciler{}
	s := &service.Service{
		Auth:       defaultAuth(),
		Reconciler: rec,
	}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPost, "/api/v1/reconcile", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if rec.runCalls != 1 {
		t.Fatalf("RunOnce calls = %d", rec.runCalls)
	}
}

func TestWSTokenEndpoint(t *testing.T) {
	auth := defaultAuth()
	auth.token = "signed-token"
	s := &service.Service{Auth: auth}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/ws-token", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "signed-token") {
		t.Fatalf("token missing from body: %s", body)
	}
}
