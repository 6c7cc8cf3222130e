// internal/projects/catalog.go
//
// Folio – Project catalog filtering.
//
// Context
//   The portfolio page lists projects with a category filter and a free-text
//   search box.  Catalog keeps both inputs and derives the visible list.
//   A project matches the filter when the token equals one of its
//   categories or technologies.  Search is a case-insensitive substring
//   match over title, description and technologies.
//
//------------------------------------------------------------------------------

package projects

import (
	"fmt"
	"slices"
	"strings"
)

// FilterAll disables the category filter.
const FilterAll = "all"

// Project is one catalog entry.
type Project struct {
	Slug         string   `yaml:"slug" json:"slug" validate:"required"`
	Title        string   `yaml:"title" json:"title" validate:"required"`
	Description  string   `yaml:"description" json:"description"`
	Image        string   `yaml:"image" json:"image,omitempty"`
	Categories   []string `yaml:"categories" json:"categories,omitempty"`
	Technologies []string `yaml:"technologies" json:"technologies,omitempty"`
	GitHub       string   `yaml:"github" json:"github,omitempty" validate:"omitempty,url"`
	Demo         string   `yaml:"demo" json:"demo,omitempty" validate:"omitempty,url"`
}

func (p Project) matchesFilter(f string) bool {
	if f == "" || f == FilterAll {
		return true
	}
	return slices.Contains(p.Categories, f) || slices.Contains(p.Technologies, f)
}

func (p Project) matchesTerm(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(strings.Join(p.Technologies, " ")), term)
}

// Catalog applies a filter and search term to a fixed project list.
type Catalog struct {
	projects []Project
	filter   string
	term     string
}

// NewCatalog starts with every project visible.
func NewCatalog(projects []Project) *Catalog {
	return &Catalog{projects: projects, filter: FilterAll}
}

// ApplyFilter sets the category/technology filter.  The search term stays.
func (c *Catalog) ApplyFilter(f string) {
	if f == "" {
		f = FilterAll
	}
	c.filter = f
}

// Search sets the free-text term.  Blank clears it.
func (c *Catalog) Search(term string) {
	c.term = strings.ToLower(strings.TrimSpace(term))
}

// Filter returns the active filter token.
func (c *Catalog) Filter() string { return c.filter }

// Term returns the normalised search term.
func (c *Catalog) Term() string { return c.term }

// Visible returns the projects passing both filter and search.
func (c *Catalog) Visible() []Project {
	out := make([]Project, 0, len(c.projects))
	for _, p := range c.projects {
		if p.matchesFilter(c.filter) && p.matchesTerm(c.term) {
			out = append(out, p)
		}
	}
	return out
}

// CountLabel renders the result count, e.g. "3 projects found".
func (c *Catalog) CountLabel() string {
	return countLabel(len(c.Visible()))
}

func countLabel(n int) string {
	if n == 1 {
		return "1 project found"
	}
	return fmt.Sprintf("%d projects found", n)
}

// Tokens lists the distinct categories then technologies, usable as filter
// buttons.
func (c *Catalog) Tokens() []string {
	seen := map[string]bool{FilterAll: true}
	out := []string{FilterAll}
	add := func(vals []string) {
		for _, v := range vals {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	for _, p := range c.projects {
		add(p.Categories)
	}
	for _, p := range c.projects {
		add(p.Technologies)
	}
	return out
}
