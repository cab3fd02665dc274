package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleOpenAPI(t *testing.T) {
	h := handleOpenAPI()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()

	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("content-type = %q, want application/json", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"openapi": "3.0.3"`) {
		t.Fatalf("body missing openapi version")
	}
	for _, path := range []string{
		"/healthz",
		"/api/import",
		"/api/boards",
		"/api/boards/{board}",
		"/api/boards/{board}/leaderboard",
		"/api/boards/{board}/entries",
		"/api/boards/{board}/events",
		"/api/boards/{board}/ws",
		"/api/players/register",
		"/api/players/login",
		"/api/players/logout",
		"/api/me",
	} {
		if !strings.Contains(body, `"`+path+`"`) {
			t.Errorf("body missing %s path", path)
		}
	}
	if !strings.Contains(body, `"title": "geoboard API"`) {
		t.Errorf("body missing title")
	}
}

func TestHandleSwaggerUI(t *testing.T) {
	h := handleSwaggerUI()
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	rec := httptest.NewRecorder()

	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/html") {
		t.Fatalf("content-type = %q, want text/html", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "SwaggerUIBundle") {
		t.Fatalf("body missing SwaggerUIBundle")
	}
	if !strings.Contains(body, "/openapi.json") {
		t.Fatalf("body missing /openapi.json")
	}
}
