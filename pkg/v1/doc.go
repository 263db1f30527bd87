// Package canvaslayer renders large numbers of geolocated markers onto a
// single raster surface instead of individual interactive nodes.
//
// Per-marker interactivity primitives are traded for throughput: one clipped
// redraw per viewport change rather than thousands of element updates.
// Markers live in a geographic R-tree and are culled against the host
// viewport on every pass; hit testing runs against a second, screen-space
// R-tree rebuilt from the markers actually drawn.
//
// # Basic Usage
//
//	layer := canvaslayer.New(canvaslayer.DefaultOptions())
//	if err := layer.Attach(host); err != nil {
//	    log.Fatal(err)
//	}
//
//	layer.AddMarker(&canvaslayer.Marker{
//	    ID:   "pier-4",
//	    Lat:  42.352, Lng: -71.043,
//	    Icon: canvaslayer.Icon{URL: "https://example.com/pin.png",
//	        Size: [2]int{32, 32}, Anchor: [2]int{16, 16}},
//	    OnClick: func(m *canvaslayer.Marker) { fmt.Println("clicked", m.ID) },
//	})
//
// # Host Integration
//
// The layer consumes the host map through the narrow Host interface:
// viewport bounds, point projection, container size and cursor control.
// The host forwards its own events:
//
//	map.OnMove(layer.ViewportChanged)   // pan / zoom end
//	map.OnResize(layer.Resize)
//	map.OnClick(layer.Click)            // surface pixel coordinates
//	map.OnPointerMove(layer.PointerMove)
//
// The surface the host composites is available via Surface(). For
// standalone rendering without a map toolkit, NewStaticHost provides a
// fixed-viewport Web-Mercator host.
//
// # Icon Loading
//
// Icon images are loaded asynchronously and deduplicated by URL: requesting
// the same icon for any number of markers triggers one fetch. Markers whose
// icon is still in flight are skipped by the render pass and painted
// retroactively when the image arrives, at their position in the viewport
// current at that moment. A URL that fails to load is reported once and
// stays failed for the process lifetime.
//
// # Performance
//
// - Bulk marker registration (AddMarkers) bulk-loads the geographic index
// - Viewport queries and hit tests are O(log n) R-tree searches
// - One surface repaint per viewport change, regardless of marker count
package canvaslayer
