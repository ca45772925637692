package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegisterRoutes_Wiring(t *testing.T) {
	var got upstreamCall
	srv := newFakeBlobs(t, http.StatusOK, "application/json", `{"ok":true}`, &got)
	e := newTestEcho(newTestConfig(srv.URL+"/", "tok"))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"GET /healthz", http.MethodGet, "/healthz", http.StatusOK},
		{"GET /proxy/status", http.MethodGet, "/proxy/status", http.StatusOK},
		{"GET blob", http.MethodGet, "/blobs-proxy/mystore/mykey", http.StatusOK},
		{"PUT blob", http.MethodPut, "/blobs-proxy/mystore/mykey", http.StatusOK},
		{"DELETE blob", http.MethodDelete, "/blobs-proxy/mystore/mykey", http.StatusOK},
		{"custom method", "PROPFIND", "/blobs-proxy/mystore", http.StatusOK},
		{"unknown route", http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRegisterRoutes_CustomPrefix(t *testing.T) {
	var got upstreamCall
	srv := newFakeBlobs(t, http.StatusOK, "", "", &got)
	cfg := newTestConfig(srv.URL+"/", "tok")
	cfg.Server.RoutePrefix = "/blobs"
	e := newTestEcho(cfg)

	req := httptest.NewRequest(http.MethodGet, "/blobs/store/key", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.uri != "/store/key" {
		t.Errorf("upstream URI = %q, want %q", got.uri, "/store/key")
	}
}
