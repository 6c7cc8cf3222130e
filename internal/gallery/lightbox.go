// internal/gallery/lightbox.go
//
// Folio – Gallery lightbox state.
//
// Context
//   A gallery is an ordered list of items, each tagged with zero or more
//   categories.  A category filter selects the visible subset, and the
//   lightbox walks that subset with wrap-around.  Lightbox holds only the
//   state; rendering and animation belong to the page.
//
// Workflow
//   •  Filter rebuilds the visible set and closes the lightbox when the
//      current item drops out of it.
//   •  Open takes an index into Items and maps it to the visible position.
//   •  Navigate, HandleKey and HandleSwipe move through the visible set.
//
// Notes
//   Lightbox is not safe for concurrent use.  The HTTP component builds
//   one per request.
//
//------------------------------------------------------------------------------

package gallery

import (
	"fmt"
	"slices"
)

// FilterAll shows every item.
const FilterAll = "all"

// SwipeThreshold is the minimum horizontal travel, in pixels, that counts
// as a swipe.
const SwipeThreshold = 50

// Item is one gallery image.
type Item struct {
	Src         string   `yaml:"src" json:"src" validate:"required"`
	Alt         string   `yaml:"alt" json:"alt"`
	Title       string   `yaml:"title" json:"title,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Categories  []string `yaml:"categories" json:"categories,omitempty"`
}

// Caption is the lightbox heading: the title, or the alt text when the
// item has none.
func (it Item) Caption() string {
	if it.Title != "" {
		return it.Title
	}
	return it.Alt
}

func (it Item) matches(filter string) bool {
	return filter == "" || filter == FilterAll || slices.Contains(it.Categories, filter)
}

// Lightbox tracks filter, visibility and the open image.
type Lightbox struct {
	items   []Item
	filter  string
	visible []int // indexes into items
	pos     int   // position in visible
	open    bool
}

// NewLightbox starts closed with every item visible.
func NewLightbox(items []Item) *Lightbox {
	lb := &Lightbox{items: items, filter: FilterAll}
	lb.rebuild()
	return lb
}

func (lb *Lightbox) rebuild() {
	lb.visible = lb.visible[:0]
	for i, it := range lb.items {
		if it.matches(lb.filter) {
			lb.visible = append(lb.visible, i)
		}
	}
}

// Items returns every item regardless of the filter.
func (lb *Lightbox) Items() []Item { return lb.items }

// ActiveFilter returns the current category filter.
func (lb *Lightbox) ActiveFilter() string { return lb.filter }

// Filter selects the items tagged with category.
func (lb *Lightbox) Filter(category string) {
	var current = -1
	if lb.open {
		current = lb.visible[lb.pos]
	}

	if category == "" {
		category = FilterAll
	}
	lb.filter = category
	lb.rebuild()

	if !lb.open {
		return
	}
	if p := slices.Index(lb.visible, current); p >= 0 {
		lb.pos = p
		return
	}
	lb.Close()
}

// Visible returns the filtered items in display order.
func (lb *Lightbox) Visible() []Item {
	out := make([]Item, 0, len(lb.visible))
	for _, i := range lb.visible {
		out = append(out, lb.items[i])
	}
	return out
}

// VisibleIndexes returns the Items indexes of the visible set.
func (lb *Lightbox) VisibleIndexes() []int {
	return append([]int(nil), lb.visible...)
}

// Open shows item itemIndex.  Hidden or out-of-range items are ignored.
func (lb *Lightbox) Open(itemIndex int) bool {
	p := slices.Index(lb.visible, itemIndex)
	if p < 0 {
		return false
	}
	lb.pos = p
	lb.open = true
	return true
}

// Close hides the lightbox.  The position is kept.
func (lb *Lightbox) Close() { lb.open = false }

// IsOpen reports whether an image is showing.
func (lb *Lightbox) IsOpen() bool { return lb.open }

// Navigate moves delta positions through the visible set with wrap-around.
// Nothing happens when fewer than two items are visible.
func (lb *Lightbox) Navigate(delta int) {
	n := len(lb.visible)
	if n < 2 {
		return
	}
	lb.pos = ((lb.pos+delta)%n + n) % n
}

// Next advances one image.
func (lb *Lightbox) Next() { lb.Navigate(1) }

// Prev goes back one image.
func (lb *Lightbox) Prev() { lb.Navigate(-1) }

// HandleKey maps keyboard input while open.  It reports whether the key
// was consumed.
func (lb *Lightbox) HandleKey(key string) bool {
	if !lb.open {
		return false
	}
	switch key {
	case "Escape":
		lb.Close()
	case "ArrowLeft":
		lb.Prev()
	case "ArrowRight":
		lb.Next()
	default:
		return false
	}
	return true
}

// HandleSwipe takes the touch travel from start to end (start minus end,
// so a leftward swipe is positive).  A horizontal swipe longer than
// SwipeThreshold moves one image.
func (lb *Lightbox) HandleSwipe(dx, dy float64) bool {
	if abs(dx) <= abs(dy) || abs(dx) <= SwipeThreshold {
		return false
	}
	if dx > 0 {
		lb.Next()
	} else {
		lb.Prev()
	}
	return true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Current returns the open item.
func (lb *Lightbox) Current() (Item, bool) {
	if !lb.open || len(lb.visible) == 0 {
		return Item{}, false
	}
	return lb.items[lb.visible[lb.pos]], true
}

// Counter renders "i / n" for the open item, or "" when closed.
func (lb *Lightbox) Counter() string {
	if !lb.open {
		return ""
	}
	return fmt.Sprintf("%d / %d", lb.pos+1, len(lb.visible))
}

// ShowArrows reports whether prev/next controls make sense.
func (lb *Lightbox) ShowArrows() bool { return len(lb.visible) > 1 }
