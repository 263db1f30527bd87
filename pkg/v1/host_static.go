package canvaslayer

import (
	"github.com/beetlebugorg/canvaslayer/internal/mercator"
)

// StaticHost is a fixed-viewport Host over a Web-Mercator projection, for
// standalone rendering: snapshot tools, tests and examples. Real map
// integrations implement Host against their toolkit's projection and event
// plumbing instead.
//
// Example:
//
//	// 800x600 view over Boston Harbor at zoom 12
//	host := canvaslayer.NewStaticHost(42.35, -71.04, 12, 800, 600)
//	layer := canvaslayer.New(canvaslayer.DefaultOptions())
//	layer.Attach(host)
type StaticHost struct {
	zoom          int
	width, height int

	// world pixel of the surface's top-left corner
	originX, originY float64

	cursor Cursor
}

// NewStaticHost creates a host centered on (centerLat, centerLng) at the
// given Web-Mercator zoom with a width x height pixel container.
func NewStaticHost(centerLat, centerLng float64, zoom, width, height int) *StaticHost {
	h := &StaticHost{zoom: zoom, width: width, height: height}
	cx, cy := mercator.Project(centerLat, centerLng, zoom)
	h.originX = cx - float64(width)/2
	h.originY = cy - float64(height)/2
	return h
}

// ViewportBounds implements Host.
func (h *StaticHost) ViewportBounds() Bounds {
	maxLat, minLng := mercator.Unproject(h.originX, h.originY, h.zoom)
	minLat, maxLng := mercator.Unproject(
		h.originX+float64(h.width),
		h.originY+float64(h.height),
		h.zoom,
	)
	return Bounds{MinLon: minLng, MaxLon: maxLng, MinLat: minLat, MaxLat: maxLat}
}

// Project implements Host.
func (h *StaticHost) Project(lat, lng float64) (x, y float64) {
	wx, wy := mercator.Project(lat, lng, h.zoom)
	return wx - h.originX, wy - h.originY
}

// Size implements Host.
func (h *StaticHost) Size() (width, height int) {
	return h.width, h.height
}

// SetCursor implements Host. The cursor is only recorded; a static host has
// no pointer to style.
func (h *StaticHost) SetCursor(c Cursor) {
	h.cursor = c
}

// Cursor implements Host.
func (h *StaticHost) Cursor() Cursor {
	return h.cursor
}
