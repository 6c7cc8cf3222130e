// internal/form/surface.go
//
// Folio – Forms subsystem: Surface backed by posted form values.
//
// Context
//   On the server the "page" is the pair (definition, posted values).
//   PostedSurface enumerates fields in definition order, reads labels from
//   the definition, and forgets the posted values on Clear so a successful
//   submission leaves nothing to echo back.
//
//------------------------------------------------------------------------------

package form

import (
	"net/url"
	"strings"
	"sync"
)

// PostedSurface implements Surface over a FormDef and url.Values.
type PostedSurface struct {
	def *FormDef

	mu     sync.RWMutex
	values url.Values
}

// NewPostedSurface copies values so later mutation by the caller does not
// leak into the surface.
func NewPostedSurface(def *FormDef, values url.Values) *PostedSurface {
	cp := make(url.Values, len(values))
	for k, v := range values {
		cp[k] = append([]string(nil), v...)
	}
	return &PostedSurface{def: def, values: cp}
}

// Fields returns the current snapshot in definition order.
func (s *PostedSurface) Fields() []Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Field, 0, len(s.def.Fields))
	for _, fd := range s.def.Fields {
		val := s.values.Get(fd.Name)
		_, present := s.values[fd.Name]
		out = append(out, fd.Field(val, fd.Type == KindCheckbox && present && checkedValue(val)))
	}
	return out
}

// Field returns the named field, or false when the definition lacks it.
func (s *PostedSurface) Field(name string) (Field, bool) {
	for _, f := range s.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label implements Surface.
func (s *PostedSurface) Label(name string) string { return s.def.Label(name) }

// Clear implements Surface.
func (s *PostedSurface) Clear() {
	s.mu.Lock()
	s.values = url.Values{}
	s.mu.Unlock()
}

// Values returns a copy of the posted values for defined fields.  Extra
// keys such as the CSRF token are left out.
func (s *PostedSurface) Values() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.def.Fields))
	for _, fd := range s.def.Fields {
		if _, ok := s.values[fd.Name]; ok {
			out[fd.Name] = s.values.Get(fd.Name)
		}
	}
	return out
}

// checkedValue treats browser checkbox payloads as checked unless the value
// is an explicit negative.
func checkedValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "off", "0":
		return false
	}
	return true
}
