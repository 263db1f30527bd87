package canvaslayer

// Cursor is the pointer affordance the layer requests from the host while
// the pointer hovers an interactive marker.
type Cursor string

const (
	// CursorDefault is the host's normal cursor.
	CursorDefault Cursor = ""
	// CursorPointer is the clickable-affordance cursor.
	CursorPointer Cursor = "pointer"
)

// Host is the narrow interface the layer consumes from the host map.
//
// The layer never implements projection or viewport logic itself: panning,
// zooming, resizing and pointer event delivery belong to the host, which
// forwards them through the Layer's ViewportChanged, Resize, Click and
// PointerMove entry points.
type Host interface {
	// ViewportBounds returns the geographic rectangle currently visible.
	ViewportBounds() Bounds

	// Project converts a geographic position to pixel coordinates on the
	// layer's surface.
	Project(lat, lng float64) (x, y float64)

	// Size returns the drawable container size in pixels.
	Size() (width, height int)

	// SetCursor requests a pointer affordance from the host.
	SetCursor(Cursor)

	// Cursor returns the currently displayed cursor, so the layer can
	// restore it when a hover ends.
	Cursor() Cursor
}
