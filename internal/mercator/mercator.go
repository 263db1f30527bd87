// Package mercator projects WGS-84 coordinates onto the Web-Mercator
// world-pixel grid used by slippy maps.
//
// World pixels have their origin at the north-west corner of the projected
// world; at zoom z the world is TileSize*2^z pixels wide.
package mercator

import (
	"math"

	"github.com/wroge/wgs84"
)

// TileSize is the side length of one map tile in pixels.
const TileSize = 256

// halfExtent is half the equatorial extent of EPSG:3857 in meters.
const halfExtent = 20037508.342789244

// Project converts a geographic position to world pixels at the given zoom.
func Project(lat, lng float64, zoom int) (x, y float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	mx, my, _ := f(lng, lat, 0)

	scale := worldSize(zoom) / (2 * halfExtent)
	return (mx + halfExtent) * scale, (halfExtent - my) * scale
}

// Unproject converts world pixels at the given zoom back to a geographic
// position.
func Unproject(x, y float64, zoom int) (lat, lng float64) {
	scale := worldSize(zoom) / (2 * halfExtent)
	mx := x/scale - halfExtent
	my := halfExtent - y/scale

	epsg := wgs84.EPSG()
	f := epsg.Transform(3857, 4326)
	lng, lat, _ = f(mx, my, 0)
	return lat, lng
}

// worldSize returns the projected world width in pixels at the given zoom.
func worldSize(zoom int) float64 {
	return TileSize * math.Exp2(float64(zoom))
}
