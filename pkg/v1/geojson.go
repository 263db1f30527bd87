package canvaslayer

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/peterstace/simplefeatures/geom"
)

// MarkersFromGeoJSON builds markers from a GeoJSON FeatureCollection.
//
// Only Point features are converted; other geometry types are skipped.
// Recognized feature properties:
//
//	"id"         marker ID (string); falls back to the feature ID, then
//	             to the feature's position in the collection
//	"icon"       icon image URL (string)
//	"iconSize"   [width, height] in pixels
//	"iconAnchor" [x, y] offset from the icon's top-left corner
//	"badges"     ["#rrggbb", ...] indicator badge colors
//
// Properties missing from a feature fall back to def. Markers built here
// still go through icon validation when added to a layer.
func MarkersFromGeoJSON(data []byte, def Icon) ([]*Marker, error) {
	var fc geom.GeoJSONFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	markers := make([]*Marker, 0, len(fc))
	for i, f := range fc {
		if f.Geometry.Type() != geom.TypePoint {
			continue
		}
		xy, ok := f.Geometry.Centroid().XY()
		if !ok {
			continue // empty point
		}

		m := &Marker{
			ID:   featureID(f, i),
			Lat:  xy.Y,
			Lng:  xy.X,
			Icon: def,
		}
		applyProperties(m, f.Properties)
		markers = append(markers, m)
	}
	return markers, nil
}

// featureID picks the marker ID for a feature.
func featureID(f geom.GeoJSONFeature, position int) string {
	if id, ok := f.Properties["id"].(string); ok && id != "" {
		return id
	}
	switch v := f.ID.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("feature-%d", position)
}

// applyProperties overlays recognized GeoJSON properties onto the marker.
func applyProperties(m *Marker, props map[string]interface{}) {
	if url, ok := props["icon"].(string); ok && url != "" {
		m.Icon.URL = url
	}
	if size, ok := intPair(props["iconSize"]); ok {
		m.Icon.Size = size
	}
	if anchor, ok := intPair(props["iconAnchor"]); ok {
		m.Icon.Anchor = anchor
	}
	if raw, ok := props["badges"].([]interface{}); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				if c, err := parseHexColor(s); err == nil {
					m.Badges = append(m.Badges, c)
				}
			}
		}
	}
}

// intPair converts a two-element JSON number array.
func intPair(v interface{}) ([2]int, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 2 {
		return [2]int{}, false
	}
	a, aok := arr[0].(float64)
	b, bok := arr[1].(float64)
	if !aok || !bok {
		return [2]int{}, false
	}
	return [2]int{int(a), int(b)}, true
}

// parseHexColor parses "#rrggbb".
func parseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
