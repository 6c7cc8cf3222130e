// internal/gallery/store.go
//
// Folio – Gallery definitions on disk.
//
// Context
//   Each gallery lives in <dir>/<id>.yaml:
//
//      id: travel
//      title: Travel
//      items:
//        - {src: /img/kyoto.jpg, alt: Kyoto, categories: [asia, city]}
//
//   Store parses a file on first request and keeps the result in an LRU.
//   Concurrent misses for the same id share one read via singleflight.
//
//------------------------------------------------------------------------------

package gallery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/folio/internal/cache"
)

// ErrNotFound is returned for unknown gallery ids.
var ErrNotFound = errors.New("gallery not found")

var idRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Gallery is one named set of items.
type Gallery struct {
	ID    string `yaml:"id" json:"id" validate:"required"`
	Title string `yaml:"title" json:"title"`
	Items []Item `yaml:"items" json:"items" validate:"dive"`
}

// Categories lists the distinct item categories in first-seen order.
func (g *Gallery) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range g.Items {
		for _, c := range it.Categories {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// Store loads galleries from a directory.
type Store struct {
	dir   string
	cache *cache.LRU[string, *Gallery]
	group singleflight.Group
	v     *validator.Validate
}

// NewStore reads from dir and keeps up to size parsed galleries.
func NewStore(dir string, size int) *Store {
	if size < 1 {
		size = 64
	}
	return &Store{
		dir:   dir,
		cache: cache.New[string, *Gallery](size),
		v:     validator.New(),
	}
}

// Get returns the gallery with the given id.
func (s *Store) Get(id string) (*Gallery, error) {
	if !idRe.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if g, ok := s.cache.Get(id); ok {
		return g, nil
	}

	v, err, _ := s.group.Do(id, func() (any, error) {
		g, err := s.load(id)
		if err != nil {
			return nil, err
		}
		s.cache.Add(id, g)
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Gallery), nil
}

// Invalidate drops id from the cache so the next Get re-reads the file.
func (s *Store) Invalidate(id string) { s.cache.Remove(id) }

func (s *Store) load(id string) (*Gallery, error) {
	path := filepath.Join(s.dir, id+".yaml")
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("gallery: read %s: %w", path, err)
	}

	var g Gallery
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("gallery: parse %s: %w", path, err)
	}
	if g.ID == "" {
		g.ID = id
	}
	if g.ID != id {
		return nil, fmt.Errorf("gallery: %s declares id %q", path, g.ID)
	}
	if err := s.v.Struct(&g); err != nil {
		return nil, fmt.Errorf("gallery: validate %s: %w", path, err)
	}
	return &g, nil
}
