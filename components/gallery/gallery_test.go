package gallery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/gallery"
)

const travelYAML = `
id: travel
title: Travel
items:
  - {src: /img/kyoto.jpg, alt: Kyoto, title: Kyoto at dusk, categories: [asia, city]}
  - {src: /img/alps.jpg, alt: Alps, categories: [nature]}
  - {src: /img/seoul.jpg, alt: Seoul, categories: [asia, city]}
`

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "travel.yaml"), []byte(travelYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(gallery.NewStore(dir, 4), zap.NewNop().Sugar())
	r := chi.NewRouter()
	r.Mount(c.Prefix(), c.Routes())
	return r
}

func get(t *testing.T, h http.Handler, target string) (int, galleryView) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var v galleryView
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec.Code, v
}

func TestGallery(t *testing.T) {
	h := newRouter(t)

	tests := []struct {
		target      string
		wantIndexes []int
		wantOpen    bool
		wantCounter string
		wantCaption string
	}{
		{"/galleries/travel", []int{0, 1, 2}, false, "", ""},
		{"/galleries/travel?filter=city", []int{0, 2}, false, "", ""},
		{"/galleries/travel?filter=city&open=2", []int{0, 2}, true, "2 / 2", "Seoul"},
		{"/galleries/travel?filter=city&open=2&nav=1", []int{0, 2}, true, "1 / 2", "Kyoto at dusk"},
		{"/galleries/travel?open=0&key=ArrowLeft", []int{0, 1, 2}, true, "3 / 3", "Seoul"},
		{"/galleries/travel?open=0&key=Escape", []int{0, 1, 2}, false, "", ""},
		{"/galleries/travel?filter=city&open=1", []int{0, 2}, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			code, v := get(t, h, tt.target)
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			var idx []int
			for _, it := range v.Items {
				idx = append(idx, it.Index)
			}
			if diff := cmp.Diff(tt.wantIndexes, idx); diff != "" {
				t.Fatalf("indexes (-want +got):\n%s", diff)
			}
			if v.Lightbox.Open != tt.wantOpen || v.Lightbox.Counter != tt.wantCounter || v.Lightbox.Caption != tt.wantCaption {
				t.Fatalf("lightbox = %+v", v.Lightbox)
			}
		})
	}
}

func TestGallery_Errors(t *testing.T) {
	h := newRouter(t)
	for target, want := range map[string]int{
		"/galleries/missing":             http.StatusNotFound,
		"/galleries/travel?open=x":       http.StatusBadRequest,
		"/galleries/travel?open=0&nav=y": http.StatusBadRequest,
	} {
		if code, _ := get(t, h, target); code != want {
			t.Errorf("%s: status %d, want %d", target, code, want)
		}
	}
}
