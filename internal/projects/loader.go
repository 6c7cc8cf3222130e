// internal/projects/loader.go
//
// Loads the project list from a single YAML file:
//
//	projects:
//	  - slug: folio
//	    title: Folio
//	    categories: [web]
//	    technologies: [go, htmx]
//
// Slugs must be unique.  A missing file yields an empty list so a fresh
// checkout still serves the page.
package projects

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type file struct {
	Projects []Project `yaml:"projects" validate:"dive"`
}

var structValidator = validator.New()

// Load reads and validates path.
func Load(path string) ([]Project, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("projects: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a projects document.
func Parse(raw []byte) ([]Project, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("projects: parse: %w", err)
	}
	if err := structValidator.Struct(&f); err != nil {
		return nil, fmt.Errorf("projects: validate: %w", err)
	}

	seen := make(map[string]bool, len(f.Projects))
	for _, p := range f.Projects {
		if seen[p.Slug] {
			return nil, fmt.Errorf("projects: duplicate slug %q", p.Slug)
		}
		seen[p.Slug] = true
	}
	return f.Projects, nil
}
