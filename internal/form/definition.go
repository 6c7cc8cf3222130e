// internal/form/definition.go
//
// Folio – Forms subsystem: YAML definition loader.
//
// Context
//   Each site form is declared in a YAML file under the configured forms
//   directory.  The file names the form, lists its fields with labels and
//   kinds, optionally overrides the notification copy, and declares the
//   post-submit actions.  Definitions are parsed once at start-up into a
//   Registry; HTTP handlers then build a fresh Validator per request from
//   the definition and the posted values.
//
// Workflow
//   •  LoadFormDef parses a single YAML file and validates it.
//   •  Registry.LoadDir walks a directory and registers every “*.yaml”.
//   •  Registry.Get offers read-only access to a parsed form by ID.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID       string      `yaml:"id"       validate:"required"`
	Title    string      `yaml:"title"`
	Fields   []FieldDef  `yaml:"fields"   validate:"required,min=1,dive"`
	Messages Messages    `yaml:"messages"`
	Actions  []ActionDef `yaml:"actions"  validate:"dive"`
}

// FieldDef describes a single input on the form.
type FieldDef struct {
	Name        string `yaml:"name"        validate:"required"`
	Label       string `yaml:"label"       validate:"required"`
	Type        Kind   `yaml:"type"        validate:"required,oneof=text email tel textarea checkbox"`
	Placeholder string `yaml:"placeholder"`
	Required    bool   `yaml:"required"`
	NameLike    bool   `yaml:"name_like"`
	ErrorMsg    string `yaml:"error"` // Custom required-checkbox message.
}

// ActionDef configures one post-submit action.  Params stay loosely typed so
// each action validates its own keys.
type ActionDef struct {
	Type   string         `yaml:"type"    validate:"required,oneof=email store webhook"`
	Params map[string]any `yaml:",inline"`
}

// Field converts the definition into a Field carrying value.
func (fd FieldDef) Field(value string, checked bool) Field {
	return Field{
		Name:            fd.Name,
		Value:           value,
		Checked:         checked,
		Required:        fd.Required,
		Kind:            fd.Type,
		NameLike:        fd.NameLike,
		RequiredMessage: fd.ErrorMsg,
	}
}

// Label returns the label of the named field, or "" when unknown.
func (d *FormDef) Label(name string) string {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Label
		}
	}
	return ""
}

// FieldDef returns the named field definition.
func (d *FormDef) FieldDef(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

var structValidator = validator.New()

// LoadFormDef parses one YAML file, validates its structure, and returns a
// populated FormDef.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// ParseFormDef decodes raw YAML.  name is used in error messages only.
func ParseFormDef(raw []byte, name string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", name, err)
	}
	if err := validateFormDef(&fd, name); err != nil {
		return nil, err
	}
	return &fd, nil
}

// validateFormDef enforces tag rules plus the ones tags cannot express.
func validateFormDef(fd *FormDef, name string) error {
	if err := structValidator.Struct(fd); err != nil {
		return fmt.Errorf("form definition %s: %w", name, err)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for _, f := range fd.Fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form definition %s: duplicate field name '%s'", name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.ErrorMsg != "" && f.Type != KindCheckbox {
			return fmt.Errorf("form definition %s: field '%s': 'error' is only allowed on checkboxes", name, f.Name)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Registry maps form ID → *FormDef.  Safe for concurrent readers.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*FormDef
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{forms: make(map[string]*FormDef)}
}

// Register inserts or replaces fd.  Callers must pass a validated FormDef.
func (r *Registry) Register(fd *FormDef) {
	r.mu.Lock()
	r.forms[fd.ID] = fd
	r.mu.Unlock()
}

// Get returns the FormDef for id or ErrNotFound.
func (r *Registry) Get(id string) (*FormDef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fd, ok := r.forms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return fd, nil
}

// IDs returns the registered form IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadDir walks dir and registers every “*.yaml” file.  A missing directory
// is not an error; a broken definition is, so issues surface at start-up.
func (r *Registry) LoadDir(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		fd, err := LoadFormDef(path)
		if err != nil {
			return err
		}
		r.Register(fd)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
