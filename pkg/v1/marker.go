package canvaslayer

import (
	"fmt"
	"image/color"
)

// Marker is a caller-owned geolocated marker.
//
// The layer holds a non-owning reference and never mutates the marker;
// all derived render state lives in an engine-owned side table keyed by ID.
// A marker's position is fixed once it is added: to move a marker, remove it
// and add it again.
type Marker struct {
	// ID is the stable identity of the marker. Markers added with an ID
	// already registered replace the previous registration.
	ID string

	// Geographic position in WGS-84 decimal degrees.
	Lat float64
	Lng float64

	// Icon describes the marker image. A valid icon with explicit pixel
	// size is required; markers without one are rejected.
	Icon Icon

	// Badges are indicator badge colors painted as small circles next to
	// the icon, in order. Optional.
	Badges []color.RGBA

	// Event handlers. A nil handler means the marker does not declare
	// interest in that event.
	OnClick     func(*Marker)
	OnMouseOver func(*Marker)
	OnMouseOut  func(*Marker)
}

// Icon describes a marker image.
type Icon struct {
	// URL of the image. http(s) URLs are fetched; anything else is read
	// from the local filesystem by the default loader.
	URL string

	// Size is the displayed width and height in pixels.
	Size [2]int

	// Anchor is the pixel offset from the icon's top-left corner to the
	// marker's geographic point. An anchor of [16, 16] centers a 32x32
	// icon on the point.
	Anchor [2]int
}

// validate checks the structural requirements for drawing the icon.
func (i Icon) validate() error {
	if i.URL == "" {
		return &ErrInvalidIcon{Reason: "icon URL is required"}
	}
	if i.Size[0] <= 0 || i.Size[1] <= 0 {
		return &ErrInvalidIcon{
			Reason: fmt.Sprintf("icon size must be positive, got %dx%d", i.Size[0], i.Size[1]),
		}
	}
	return nil
}
