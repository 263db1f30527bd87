package canvaslayer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/beetlebugorg/canvaslayer/internal/icons"
	"github.com/beetlebugorg/canvaslayer/internal/index"
)

// haloRadiusFactor sizes the background halo relative to icon width.
const haloRadiusFactor = 0.75

// badgesPerColumn is how many indicator badges stack vertically before the
// layout advances to a new column.
const badgesPerColumn = 5

// redrawLocked is the full render pass: cull against the viewport, paint
// every visible marker, then rebuild the screen-space index from the boxes
// actually drawn. Markers whose icon is still loading are skipped this pass
// and painted retroactively when the load completes.
func (l *Layer) redrawLocked(clearFirst bool) {
	if l.host == nil || l.surface == nil {
		return
	}
	if clearFirst {
		l.surface.Clear()
	}

	vp := l.host.ViewportBounds()
	visible := l.positions.Search(index.Rect{
		MinX: vp.MinLon, MinY: vp.MinLat,
		MaxX: vp.MaxLon, MaxY: vp.MaxLat,
	})

	drawn := make([]index.Entry[*Marker], 0, len(visible))
	for _, e := range visible {
		m := e.Value
		if l.drawMarkerLocked(m, false) {
			drawn = append(drawn, index.Entry[*Marker]{
				Key:   m.ID,
				Rect:  l.states[m.ID].box,
				Value: m,
			})
		}
	}

	// The accumulated boxes fully replace the screen index; entries from
	// the previous pass are discarded.
	l.screen.Clear()
	l.screen.Load(drawn)
}

// drawMarkerLocked projects m to the surface, paints it when its icon is
// available and reports whether it was drawn. With insert, the marker's box
// is also added to the screen index; full passes batch that instead.
func (l *Layer) drawMarkerLocked(m *Marker, insert bool) bool {
	st := l.states[m.ID]
	if st == nil {
		return false
	}
	x, y := l.host.Project(m.Lat, m.Lng)
	st.box = screenBox(x, y, m.Icon)

	img, status := l.icons.Request(m.Icon.URL, m.ID)
	if status != icons.StatusLoaded {
		return false
	}
	st.img = img
	l.paintLocked(m, st, x, y)
	if insert {
		l.screen.Insert(index.Entry[*Marker]{Key: m.ID, Rect: st.box, Value: m})
	}
	return true
}

// paintLocked draws one marker at its screen point: halo, icon, badges.
func (l *Layer) paintLocked(m *Marker, st *renderState, x, y float64) {
	if l.opts.EnableHalo {
		r := float64(m.Icon.Size[0]) * haloRadiusFactor
		l.surface.FillCircle(x, y, r, haloColor(m.Icon.URL))
	}
	dst := image.Rect(
		int(st.box.MinX), int(st.box.MinY),
		int(st.box.MaxX), int(st.box.MaxY),
	)
	l.surface.DrawImage(st.img, dst)
	l.paintBadgesLocked(m, st)
}

// paintBadgesLocked lays out indicator badges as small circles to the right
// of the icon: five per column, vertically centered on the icon.
func (l *Layer) paintBadgesLocked(m *Marker, st *renderState) {
	if len(m.Badges) == 0 {
		return
	}
	r := float64(m.Icon.Size[0]) / 8
	if r < 2 {
		r = 2
	}
	step := 2*r + 2
	centerY := (st.box.MinY + st.box.MaxY) / 2
	top := centerY - float64(badgesPerColumn)*step/2 + step/2

	for i, c := range m.Badges {
		col := i / badgesPerColumn
		row := i % badgesPerColumn
		bx := st.box.MaxX + r + 2 + float64(col)*step
		by := top + float64(row)*step
		l.surface.FillCircle(bx, by, r, c)
	}
}

// flushIcon is handed the queued draw requests when an icon load completes.
// Positions are recomputed here against the current viewport, never reused
// from request time: the viewport may have moved while the load was in
// flight. IDs no longer in the marker set are dropped, so removed markers
// do not resurrect.
func (l *Layer) flushIcon(url string, img image.Image, markerIDs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.host == nil || l.surface == nil {
		return
	}

	vp := l.host.ViewportBounds()
	seen := make(map[string]bool, len(markerIDs))
	for _, id := range markerIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		m, ok := l.markers[id]
		if !ok || m.Icon.URL != url {
			continue
		}
		st := l.states[id]
		if st == nil || st.img != nil {
			continue
		}
		if !vp.Contains(m.Lng, m.Lat) {
			// Scrolled out during the load; it draws on the next pass
			// that has it in view.
			continue
		}

		x, y := l.host.Project(m.Lat, m.Lng)
		st.box = screenBox(x, y, m.Icon)
		st.img = img
		l.paintLocked(m, st, x, y)
		l.screen.Insert(index.Entry[*Marker]{Key: id, Rect: st.box, Value: m})
	}
}

// screenBox computes the marker's screen bounding box from its projected
// point and the icon's anchor-relative rectangle.
func screenBox(x, y float64, icon Icon) index.Rect {
	minX := x - float64(icon.Anchor[0])
	minY := y - float64(icon.Anchor[1])
	return index.Rect{
		MinX: minX,
		MinY: minY,
		MaxX: minX + float64(icon.Size[0]),
		MaxY: minY + float64(icon.Size[1]),
	}
}

// haloHash is a polynomial rolling hash of the icon URL truncated to 24
// bits. Stable across redraws and processes; collisions only cost two icons
// sharing a halo color.
func haloHash(url string) uint32 {
	var h int32
	for _, c := range url {
		h = int32(c) + (h << 5) - h
	}
	return uint32(h) & 0xffffff
}

// haloColor returns the halo color for an icon URL.
func haloColor(url string) color.RGBA {
	v := haloHash(url)
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}

// HaloColor returns the hex color string ("#rrggbb") the layer uses for the
// background halo of the given icon URL. Deterministic: the same URL always
// yields the same color.
func HaloColor(url string) string {
	return fmt.Sprintf("#%06x", haloHash(url))
}
