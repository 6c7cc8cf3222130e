// components/projects/projects.go
//
// Folio projects component – filterable project catalog.
//
//	GET /projects?filter=&q=
//
// The list is loaded once from content.projects_file at Init.  Each
// request builds its own Catalog, so handlers share no mutable state.
package projects

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/component"
	"github.com/yanizio/folio/internal/metrics"
	"github.com/yanizio/folio/internal/projects"
)

var _ component.Component = (*Component)(nil)

// Component serves the catalog.
type Component struct {
	list []projects.Project
}

// New returns a component over list.
func New(list []projects.Project) *Component { return &Component{list: list} }

func (c *Component) Name() string         { return "projects" }
func (c *Component) Prefix() string       { return "/projects" }
func (c *Component) Migrations() []string { return nil }

// Init reads the projects file.
func (c *Component) Init(deps component.Deps) error {
	cfg := deps.Config
	list, err := projects.Load(cfg.Paths.Abs(cfg.Content.ProjectsFile))
	if err != nil {
		return err
	}
	c.list = list
	deps.Logger().Infow("projects loaded", "count", len(list))
	return nil
}

func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleList)
	return r
}

func init() { component.Register(&Component{}) }

type listView struct {
	Filter     string             `json:"filter"`
	Query      string             `json:"query,omitempty"`
	Tokens     []string           `json:"tokens"`
	Projects   []projects.Project `json:"projects"`
	CountLabel string             `json:"count_label"`
}

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat := projects.NewCatalog(c.list)
	cat.ApplyFilter(q.Get("filter"))
	cat.Search(q.Get("q"))
	if cat.Term() != "" {
		metrics.ProjectSearches.Inc()
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	err := json.NewEncoder(w).Encode(listView{
		Filter:     cat.Filter(),
		Query:      cat.Term(),
		Tokens:     cat.Tokens(),
		Projects:   cat.Visible(),
		CountLabel: cat.CountLabel(),
	})
	if err != nil {
		zap.S().Warnw("json encode", "err", err)
	}
}
