package canvaslayer

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/beetlebugorg/canvaslayer/internal/icons"
	"github.com/beetlebugorg/canvaslayer/internal/index"
	"github.com/beetlebugorg/canvaslayer/internal/raster"
)

// Layer renders markers onto a single raster surface.
//
// Instead of one interactive node per marker, the layer keeps markers in a
// geographic R-tree, culls them against the host viewport, and repaints the
// surface in one pass per viewport change. Hit testing runs against a
// second, screen-space R-tree rebuilt from the markers actually drawn.
//
// Create a layer with New, attach it to a host map with Attach, then add
// markers:
//
//	layer := canvaslayer.New(canvaslayer.DefaultOptions())
//	if err := layer.Attach(host); err != nil {
//	    log.Fatal(err)
//	}
//	layer.AddMarker(&canvaslayer.Marker{
//	    ID: "m1", Lat: 42.35, Lng: -71.05,
//	    Icon: canvaslayer.Icon{URL: "pin.png", Size: [2]int{32, 32}, Anchor: [2]int{16, 16}},
//	})
//
// The host forwards its pan/zoom/resize/pointer notifications through
// ViewportChanged, Resize, Click and PointerMove.
//
// All methods are safe for concurrent use.
type Layer struct {
	mu   sync.Mutex
	opts Options
	log  zerolog.Logger

	host    Host
	surface *raster.Surface

	markers   map[string]*Marker
	states    map[string]*renderState
	positions *index.Tree[*Marker] // geographic, persists across redraws
	screen    *index.Tree[*Marker] // screen space, rebuilt every redraw
	icons     *icons.Cache

	hover      *Marker
	prevCursor Cursor
}

// renderState is the engine-owned render state of one marker. Keeping it in
// a side table keyed by marker ID avoids mutating caller-owned markers.
type renderState struct {
	img image.Image // shared icon handle, nil until the icon resolves
	box index.Rect  // last computed screen bounding box
}

// New creates a layer. Attach it to a host before adding markers that
// should draw immediately.
func New(opts Options) *Layer {
	if opts.Pane == "" {
		opts.Pane = DefaultOptions().Pane
	}
	l := &Layer{
		opts:      opts,
		log:       opts.Logger,
		markers:   make(map[string]*Marker),
		states:    make(map[string]*renderState),
		positions: index.New[*Marker](),
		screen:    index.New[*Marker](),
	}
	loader := opts.Loader
	if loader == nil {
		loader = icons.NewHTTPLoader()
	}
	l.icons = icons.New(loader, l.flushIcon, l.log)
	return l
}

// Attach binds the layer to a host map and allocates the raster surface at
// the host's container size. Markers already registered and inside the
// viewport are drawn.
func (l *Layer) Attach(host Host) error {
	if host == nil {
		return &ErrInvalidHost{Reason: "host is nil"}
	}
	w, h := host.Size()
	if w <= 0 || h <= 0 {
		return &ErrInvalidHost{Reason: fmt.Sprintf("container size is %dx%d", w, h)}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.host = host
	l.surface = raster.New(w, h)
	l.redrawLocked(true)
	return nil
}

// Detach releases the host and the surface. Markers stay registered and
// draw again on the next Attach.
func (l *Layer) Detach() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.host = nil
	l.surface = nil
	l.screen.Clear()
	l.hover = nil
}

// Pane returns the host layer/pane name the surface attaches to.
func (l *Layer) Pane() string {
	return l.opts.Pane
}

// Surface returns the raster surface image, or nil while detached. The
// image is shared with the layer: the host composites it, the layer paints
// it.
func (l *Layer) Surface() *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.surface == nil {
		return nil
	}
	return l.surface.Image()
}

// AddMarker registers a marker and, when it falls inside the current
// viewport, draws it immediately.
//
// The marker must declare an icon with a URL and explicit positive pixel
// size; otherwise the marker is rejected: the error is logged and returned,
// and the layer state is unchanged.
func (l *Layer) AddMarker(m *Marker) error {
	if m == nil {
		return &ErrInvalidIcon{Reason: "marker is nil"}
	}
	if err := m.Icon.validate(); err != nil {
		l.log.Error().Err(err).Str("marker", m.ID).Msg("marker rejected")
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.addLocked(m)
	return nil
}

// AddMarkers registers markers in bulk. On an empty layer the geographic
// index is bulk-loaded in one pass. Invalid markers are rejected
// individually (logged and reported in the joined error) without affecting
// the rest.
func (l *Layer) AddMarkers(markers []*Marker) error {
	var errs []error
	valid := make([]*Marker, 0, len(markers))
	for _, m := range markers {
		if m == nil {
			continue
		}
		if err := m.Icon.validate(); err != nil {
			l.log.Error().Err(err).Str("marker", m.ID).Msg("marker rejected")
			errs = append(errs, err)
			continue
		}
		valid = append(valid, m)
	}

	l.mu.Lock()
	if len(l.markers) == 0 {
		// Fresh layer: bulk-load the geographic index instead of n
		// individual insertions. Later duplicates of an ID win, same as
		// the incremental path.
		for _, m := range valid {
			l.markers[m.ID] = m
			l.states[m.ID] = &renderState{}
		}
		entries := make([]index.Entry[*Marker], 0, len(l.markers))
		for _, m := range l.markers {
			entries = append(entries, index.Entry[*Marker]{
				Key:   m.ID,
				Rect:  index.PointRect(m.Lng, m.Lat),
				Value: m,
			})
		}
		l.positions.Load(entries)
		if l.host != nil {
			vp := l.host.ViewportBounds()
			for _, m := range valid {
				if l.markers[m.ID] == m && vp.Contains(m.Lng, m.Lat) {
					l.drawMarkerLocked(m, true)
				}
			}
		}
	} else {
		for _, m := range valid {
			l.addLocked(m)
		}
	}
	l.mu.Unlock()

	return errors.Join(errs...)
}

// addLocked registers one validated marker and draws it if visible.
func (l *Layer) addLocked(m *Marker) {
	prevDrawn := false
	if prev, ok := l.markers[m.ID]; ok {
		// Same ID replaces the previous registration so the one-entry
		// invariant on the geographic index holds.
		if st := l.states[prev.ID]; st != nil && st.img != nil {
			prevDrawn = true
		}
		l.removeLocked(prev, false)
	}
	l.markers[m.ID] = m
	l.states[m.ID] = &renderState{}
	l.positions.Insert(index.Entry[*Marker]{
		Key:   m.ID,
		Rect:  index.PointRect(m.Lng, m.Lat),
		Value: m,
	})

	if prevDrawn {
		// The replaced marker's paint and hit box are still on screen; a
		// full pass repaints without them and draws the replacement.
		l.redrawLocked(true)
	} else if l.host != nil && l.host.ViewportBounds().Contains(m.Lng, m.Lat) {
		l.drawMarkerLocked(m, true)
	}
}

// RemoveMarker unregisters a marker. A redraw is triggered only when the
// removed marker was inside the current viewport. Unknown markers are
// ignored.
func (l *Layer) RemoveMarker(m *Marker) {
	if m == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(m, true)
}

// RemoveMarkers unregisters markers in bulk with at most one redraw.
func (l *Layer) RemoveMarkers(markers []*Marker) {
	l.mu.Lock()
	defer l.mu.Unlock()

	anyVisible := false
	for _, m := range markers {
		if m == nil {
			continue
		}
		if l.removeLocked(m, false) {
			anyVisible = true
		}
	}
	if anyVisible {
		l.redrawLocked(true)
	}
}

// removeLocked drops the marker from all engine state and reports whether
// it was inside the current viewport. When redraw is true and the marker
// was visible, a full redraw repaints the surface without it.
func (l *Layer) removeLocked(m *Marker, redraw bool) bool {
	reg, ok := l.markers[m.ID]
	if !ok {
		return false
	}
	delete(l.markers, m.ID)
	delete(l.states, m.ID)
	l.positions.Remove(reg.ID, index.PointRect(reg.Lng, reg.Lat))

	if l.hover == reg {
		l.hover = nil
		if l.host != nil {
			l.host.SetCursor(l.prevCursor)
		}
	}

	visible := l.host != nil && l.host.ViewportBounds().Contains(reg.Lng, reg.Lat)
	if visible && redraw {
		l.redrawLocked(true)
	}
	return visible
}

// Clear discards all markers and indices and forces a redraw, leaving an
// empty surface.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = make(map[string]*Marker)
	l.states = make(map[string]*renderState)
	l.positions.Clear()
	l.screen.Clear()
	l.hover = nil
	l.redrawLocked(true)
}

// Redraw manually repaints all markers in the current viewport. With
// clearFirst the surface is wiped before painting.
func (l *Layer) Redraw(clearFirst bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redrawLocked(clearFirst)
}

// ViewportChanged synchronously repaints the layer for the host's new
// viewport. Hosts call this after pan and zoom.
func (l *Layer) ViewportChanged() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redrawLocked(true)
}

// Resize rebuilds the surface at the new container size and repaints.
func (l *Layer) Resize(width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.host == nil || width <= 0 || height <= 0 {
		return
	}
	l.surface = raster.New(width, height)
	l.redrawLocked(true)
}

// GetAllMarkers returns the registered marker set as a mapping from marker
// ID to marker. The map is a copy; the markers are shared.
func (l *Layer) GetAllMarkers() map[string]*Marker {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]*Marker, len(l.markers))
	for id, m := range l.markers {
		out[id] = m
	}
	return out
}

// Count returns the number of registered markers.
func (l *Layer) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.markers)
}

// GetBounds returns the geographic bounding box enclosing all registered
// markers. The zero Bounds is returned when the layer is empty.
func (l *Layer) GetBounds() Bounds {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b Bounds
	first := true
	for _, m := range l.markers {
		if first {
			b = Bounds{MinLon: m.Lng, MaxLon: m.Lng, MinLat: m.Lat, MaxLat: m.Lat}
			first = false
			continue
		}
		b = b.Extend(m.Lng, m.Lat)
	}
	return b
}

// IconStats reports icon cache counters.
func (l *Layer) IconStats() icons.Stats {
	return l.icons.Stats()
}
