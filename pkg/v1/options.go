package canvaslayer

import (
	"image"

	"github.com/rs/zerolog"
)

// IconLoader fetches and decodes marker icon images.
//
// done must be invoked asynchronously, never from inside Load; the layer may
// be holding internal locks while a load is started.
type IconLoader interface {
	Load(url string, done func(image.Image, error))
}

// Options configures layer behavior.
//
// Build options from DefaultOptions and override fields as needed.
type Options struct {
	// EnableHalo paints a circular background halo behind every icon,
	// colored by a stable hash of the icon URL.
	EnableHalo bool

	// Pane is the name of the host layer/pane the surface attaches to.
	Pane string

	// Logger receives diagnostics: rejected markers and icon load
	// failures. Defaults to a no-op logger.
	Logger zerolog.Logger

	// Loader overrides how icon images are fetched. Nil selects the
	// built-in HTTP/filesystem loader.
	Loader IconLoader
}

// DefaultOptions returns layer options with defaults.
func DefaultOptions() Options {
	return Options{
		EnableHalo: false,
		Pane:       "markerPane",
		Logger:     zerolog.Nop(),
	}
}
