// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  At boot cmd/web calls
// Migrate() when a database is configured, then Mount(), which runs every
// Init(deps) and mounts each component's Routes() under its Prefix().
// Prefixes must be distinct; chi panics on a duplicate mount.

package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Component contract.
//
// Migrations() may return nil if the component has no schema.  Routes()
// paths are relative to Prefix(), e.g. with Prefix() == "/forms":
//
//	r := chi.NewRouter()
//	r.Get("/{id}", c.getForm)
//	r.Post("/{id}", c.postForm)
//	return r
type Component interface {
	Name() string
	Prefix() string
	Init(Deps) error
	Routes() chi.Router
	Migrations() []string
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  A later call with
// the same name replaces the earlier one.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises every component and mounts its router on r.
func Mount(r chi.Router, deps Deps) error {
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("component %s: init: %w", c.Name(), err)
		}
		r.Mount(c.Prefix(), c.Routes())
		zap.S().Infow("component mounted", "component", c.Name(), "prefix", c.Prefix())
	}
	return nil
}

// Migrate executes every component's migration statements in order.
// Statements must be idempotent (CREATE TABLE IF NOT EXISTS …).
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, c := range All() {
		for i, stmt := range c.Migrations() {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("component %s: migration %d: %w", c.Name(), i, err)
			}
		}
	}
	return nil
}
