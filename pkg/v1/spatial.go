package canvaslayer

// Bounds represents a geographic bounding box in WGS-84 coordinates.
//
// Coordinates are in decimal degrees.
type Bounds struct {
	MinLon float64 // Western edge
	MaxLon float64 // Eastern edge
	MinLat float64 // Southern edge
	MaxLat float64 // Northern edge
}

// Contains returns true if the point (lon, lat) is within the bounds.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// Expand returns a new Bounds expanded by the given margin in all directions.
//
// Margin is in decimal degrees.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinLon: b.MinLon - margin,
		MaxLon: b.MaxLon + margin,
		MinLat: b.MinLat - margin,
		MaxLat: b.MaxLat + margin,
	}
}

// Union returns the smallest bounds enclosing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	out := b
	if other.MinLon < out.MinLon {
		out.MinLon = other.MinLon
	}
	if other.MaxLon > out.MaxLon {
		out.MaxLon = other.MaxLon
	}
	if other.MinLat < out.MinLat {
		out.MinLat = other.MinLat
	}
	if other.MaxLat > out.MaxLat {
		out.MaxLat = other.MaxLat
	}
	return out
}

// Extend returns bounds grown to include the point (lon, lat).
func (b Bounds) Extend(lon, lat float64) Bounds {
	out := b
	if lon < out.MinLon {
		out.MinLon = lon
	}
	if lon > out.MaxLon {
		out.MaxLon = lon
	}
	if lat < out.MinLat {
		out.MinLat = lat
	}
	if lat > out.MaxLat {
		out.MaxLat = lat
	}
	return out
}
