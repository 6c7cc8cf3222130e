// components/gallery/gallery.go
//
// Folio gallery component – filtered gallery and lightbox state as JSON.
//
// Context
//   The page keeps the lightbox client-side; this endpoint answers what the
//   lightbox should show for a given interaction so deep links such as
//   /galleries/travel?filter=city&open=4 render server-side too.
//
//     GET /galleries/{id}?filter=&open=&nav=&key=
//
//   Parameters apply in order: filter, open (item index), nav (±n), key
//   (Escape, ArrowLeft, ArrowRight).
//
//------------------------------------------------------------------------------

package gallery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/component"
	"github.com/yanizio/folio/internal/gallery"
	"github.com/yanizio/folio/internal/metrics"
)

var _ component.Component = (*Component)(nil)

// Component serves galleries from a gallery.Store.
type Component struct {
	store *gallery.Store
	log   *zap.SugaredLogger
}

// New returns a component reading from store.
func New(store *gallery.Store, log *zap.SugaredLogger) *Component {
	if log == nil {
		log = zap.S()
	}
	return &Component{store: store, log: log}
}

func (c *Component) Name() string         { return "gallery" }
func (c *Component) Prefix() string       { return "/galleries" }
func (c *Component) Migrations() []string { return nil }

// Init opens the store at content.galleries_dir.
func (c *Component) Init(deps component.Deps) error {
	cfg := deps.Config
	c.store = gallery.NewStore(cfg.Paths.Abs(cfg.Content.GalleriesDir), 64)
	c.log = deps.Logger()
	return nil
}

func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", c.handleGet)
	return r
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── Handler ──────────────────────────────────────*/

type itemView struct {
	Index int `json:"index"`
	gallery.Item
}

type lightboxView struct {
	Open       bool          `json:"open"`
	Current    *gallery.Item `json:"current,omitempty"`
	Caption    string        `json:"caption,omitempty"`
	Counter    string        `json:"counter,omitempty"`
	ShowArrows bool          `json:"show_arrows"`
}

type galleryView struct {
	ID         string       `json:"id"`
	Title      string       `json:"title,omitempty"`
	Filter     string       `json:"filter"`
	Categories []string     `json:"categories"`
	Items      []itemView   `json:"items"`
	Lightbox   lightboxView `json:"lightbox"`
}

func (c *Component) handleGet(w http.ResponseWriter, r *http.Request) {
	g, err := c.store.Get(chi.URLParam(r, "id"))
	if errors.Is(err, gallery.ErrNotFound) {
		http.Error(w, "gallery not found", http.StatusNotFound)
		return
	}
	if err != nil {
		c.log.Errorw("gallery load", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	lb := gallery.NewLightbox(g.Items)
	lb.Filter(q.Get("filter"))

	if s := q.Get("open"); s != "" {
		idx, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "open must be an item index", http.StatusBadRequest)
			return
		}
		lb.Open(idx)
	}
	if s := q.Get("nav"); s != "" && lb.IsOpen() {
		delta, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "nav must be an integer", http.StatusBadRequest)
			return
		}
		lb.Navigate(delta)
	}
	if key := q.Get("key"); key != "" {
		lb.HandleKey(key)
	}

	metrics.GalleryViews.WithLabelValues(g.ID).Inc()
	writeJSON(w, view(g, lb))
}

func view(g *gallery.Gallery, lb *gallery.Lightbox) galleryView {
	v := galleryView{
		ID:         g.ID,
		Title:      g.Title,
		Filter:     lb.ActiveFilter(),
		Categories: g.Categories(),
		Items:      []itemView{},
		Lightbox: lightboxView{
			Open:       lb.IsOpen(),
			Counter:    lb.Counter(),
			ShowArrows: lb.ShowArrows(),
		},
	}
	for _, i := range lb.VisibleIndexes() {
		v.Items = append(v.Items, itemView{Index: i, Item: g.Items[i]})
	}
	if cur, ok := lb.Current(); ok {
		v.Lightbox.Current = &cur
		v.Lightbox.Caption = cur.Caption()
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("json encode", "err", err)
	}
}
