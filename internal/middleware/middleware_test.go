package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestForceHTTPS(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		target   string
		proto    string
		wantCode int
		wantLoc  string
	}{
		{"disabled", false, "http://example.com/a", "", http.StatusNoContent, ""},
		{"redirect", true, "http://example.com/a?b=1", "", http.StatusPermanentRedirect, "https://example.com/a?b=1"},
		{"localhost", true, "http://localhost:8080/", "", http.StatusNoContent, ""},
		{"loopback v6", true, "http://[::1]:8080/", "", http.StatusNoContent, ""},
		{"behind proxy", true, "http://example.com/", "https", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			rec := httptest.NewRecorder()
			ForceHTTPS(tt.enabled)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLoc {
				t.Fatalf("Location = %q, want %q", got, tt.wantLoc)
			}
		})
	}
}

func TestSecurity(t *testing.T) {
	override := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	Security(override).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	for _, k := range []string{"Strict-Transport-Security", "Content-Security-Policy", "X-Content-Type-Options", "Referrer-Policy", "Permissions-Policy"} {
		if rec.Header().Get(k) == "" {
			t.Errorf("%s missing", k)
		}
	}
}
