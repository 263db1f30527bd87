// Package index provides the 2D spatial index used by the rendering engine,
// wrapped behind the small surface it needs: bulk load, identity removal,
// exact range queries and point lookups.
//
// The same type backs both index instances the engine owns: the persistent
// geographic index over marker positions and the ephemeral screen-space index
// rebuilt on every redraw. Either can be swapped for a different index
// implementation without touching engine logic.
package index

import "github.com/dhconnelly/rtreego"

// R-tree node fan-out.
const (
	minChildren = 25
	maxChildren = 50
)

// pointTol inflates degenerate rectangles before they enter the R-tree,
// which rejects non-positive extents. The exact rectangle is kept on the
// entry and re-checked after every search, so the inflation never leaks
// false positives to callers.
const pointTol = 1e-9

// Rect is an axis-aligned rectangle. The same representation serves both
// geographic space (X=longitude, Y=latitude) and screen space (pixels).
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// PointRect returns the degenerate rectangle covering a single point.
func PointRect(x, y float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}
}

// Overlaps reports whether the two rectangles overlap, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return !(o.MaxX < r.MinX || o.MinX > r.MaxX ||
		o.MaxY < r.MinY || o.MinY > r.MaxY)
}

// Entry pairs a rectangle with the value it indexes.
//
// Key identifies the entry for removal. Identity matching is always done on
// the key, never on rectangle coordinates: float equality is unreliable and
// entry positions do not change after insertion.
type Entry[T any] struct {
	Key   string
	Rect  Rect
	Value T
}

// item adapts an Entry to the rtreego.Spatial interface.
type item[T any] struct {
	rect  rtreego.Rect
	entry Entry[T]
}

func (it *item[T]) Bounds() rtreego.Rect { return it.rect }

// Tree is a 2D spatial index over entries of type T.
//
// Not safe for concurrent use; the engine serializes access.
type Tree[T any] struct {
	rtree *rtreego.Rtree
}

// New returns an empty index.
func New[T any]() *Tree[T] {
	return &Tree[T]{rtree: rtreego.NewTree(2, minChildren, maxChildren)}
}

// Load inserts all entries at once. On an empty index this uses the R-tree's
// bulk construction, which is O(n log n) amortized rather than n individual
// top-down insertions; otherwise it falls back to repeated Insert.
func (t *Tree[T]) Load(entries []Entry[T]) {
	if t.rtree.Size() == 0 {
		objs := make([]rtreego.Spatial, len(entries))
		for i, e := range entries {
			objs[i] = &item[T]{rect: toRtreeRect(e.Rect), entry: e}
		}
		t.rtree = rtreego.NewTree(2, minChildren, maxChildren, objs...)
		return
	}
	for _, e := range entries {
		t.Insert(e)
	}
}

// Insert adds a single entry.
func (t *Tree[T]) Insert(e Entry[T]) {
	t.rtree.Insert(&item[T]{rect: toRtreeRect(e.Rect), entry: e})
}

// Remove deletes the entry stored with the given key at the given rectangle.
// The rectangle locates the entry in the tree; the key decides identity.
// Returns false if no such entry exists.
func (t *Tree[T]) Remove(key string, r Rect) bool {
	probe := &item[T]{rect: toRtreeRect(r), entry: Entry[T]{Key: key}}
	return t.rtree.DeleteWithComparator(probe, func(a, b rtreego.Spatial) bool {
		ia, aok := a.(*item[T])
		ib, bok := b.(*item[T])
		return aok && bok && ia.entry.Key == ib.entry.Key
	})
}

// Search returns all entries overlapping r.
//
// The result is exact at rectangle granularity: candidates from the R-tree
// are filtered against the exact rectangles stored on the entries, so no
// overlapping entry is omitted and no non-overlapping entry is returned.
// Result order is unspecified.
func (t *Tree[T]) Search(r Rect) []Entry[T] {
	// SearchIntersect treats rectangles that merely touch as disjoint, so
	// entries sitting exactly on a query edge would never reach the exact
	// filter. Pad the candidate query; the filter keeps the result exact.
	q := Rect{
		MinX: r.MinX - pointTol, MinY: r.MinY - pointTol,
		MaxX: r.MaxX + pointTol, MaxY: r.MaxY + pointTol,
	}
	hits := t.rtree.SearchIntersect(toRtreeRect(q))
	out := make([]Entry[T], 0, len(hits))
	for _, h := range hits {
		it := h.(*item[T])
		if it.entry.Rect.Overlaps(r) {
			out = append(out, it.entry)
		}
	}
	return out
}

// At returns an entry whose rectangle contains the point (x, y).
//
// When several entries overlap the point, the first one produced by the
// search is returned; no particular tie-break order is guaranteed.
func (t *Tree[T]) At(x, y float64) (Entry[T], bool) {
	hits := t.Search(PointRect(x, y))
	if len(hits) == 0 {
		var zero Entry[T]
		return zero, false
	}
	return hits[0], true
}

// Clear discards all entries.
func (t *Tree[T]) Clear() {
	t.rtree = rtreego.NewTree(2, minChildren, maxChildren)
}

// Len returns the number of entries in the index.
func (t *Tree[T]) Len() int {
	return t.rtree.Size()
}

// toRtreeRect converts r to the R-tree's rectangle type, inflating
// zero-extent dimensions which rtreego rejects.
func toRtreeRect(r Rect) rtreego.Rect {
	w := r.MaxX - r.MinX
	h := r.MaxY - r.MinY
	if w <= 0 {
		w = pointTol
	}
	if h <= 0 {
		h = pointTol
	}
	rect, err := rtreego.NewRect(rtreego.Point{r.MinX, r.MinY}, []float64{w, h})
	if err != nil {
		return rtreego.Point{r.MinX, r.MinY}.ToRect(pointTol)
	}
	return rect
}
