// Command markrender renders a GeoJSON marker collection to a PNG snapshot.
//
// It drives the layer with a fixed-viewport Web-Mercator host, waits for all
// icon loads to settle and writes the composited surface to disk:
//
//	markrender --input markers.geojson --output map.png --zoom 12
//
// Configuration is read from flags, MARKRENDER_* environment variables and an
// optional markrender.yaml in the working directory, in that order of
// precedence.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/beetlebugorg/canvaslayer/internal/icons"
	canvaslayer "github.com/beetlebugorg/canvaslayer/pkg/v1"
)

// waitingLoader wraps the stock icon loader so the command can block until
// every in-flight load has completed before encoding the surface.
type waitingLoader struct {
	inner canvaslayer.IconLoader
	wg    sync.WaitGroup
}

func (w *waitingLoader) Load(url string, done func(image.Image, error)) {
	w.wg.Add(1)
	w.inner.Load(url, func(img image.Image, err error) {
		done(img, err)
		w.wg.Done()
	})
}

func initConfig() error {
	pflag.String("input", "", "GeoJSON FeatureCollection to render")
	pflag.String("output", "", "output PNG path")
	pflag.Float64("center-lat", 0, "viewport center latitude (default: marker bounds center)")
	pflag.Float64("center-lng", 0, "viewport center longitude (default: marker bounds center)")
	pflag.Int("zoom", 0, "Web-Mercator zoom level (0 fits the marker bounds)")
	pflag.Int("width", 0, "surface width in pixels")
	pflag.Int("height", 0, "surface height in pixels")
	pflag.Bool("halo", false, "paint background halos behind icons")
	pflag.String("log-level", "", "log level (debug, info, warn, error)")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}

	viper.SetDefault("output", "map.png")
	viper.SetDefault("zoom", 0)
	viper.SetDefault("width", 1024)
	viper.SetDefault("height", 768)
	viper.SetDefault("halo", false)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("icon.url", "")
	viper.SetDefault("icon.size", []int{32, 32})
	viper.SetDefault("icon.anchor", []int{16, 16})

	viper.SetEnvPrefix("MARKRENDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("markrender")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func logLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func defaultIcon() canvaslayer.Icon {
	icon := canvaslayer.Icon{
		URL:    viper.GetString("icon.url"),
		Size:   [2]int{32, 32},
		Anchor: [2]int{16, 16},
	}
	if s := viper.GetIntSlice("icon.size"); len(s) == 2 {
		icon.Size = [2]int{s[0], s[1]}
	}
	if a := viper.GetIntSlice("icon.anchor"); len(a) == 2 {
		icon.Anchor = [2]int{a[0], a[1]}
	}
	return icon
}

// maxFitZoom caps the zoom fitting can pick, so a single marker still gets a
// street-level view rather than an unbounded zoom-in.
const maxFitZoom = 18

// paddedBounds grows the marker bounds by a 5% margin so fitted renders do
// not place markers directly on the surface edge.
func paddedBounds(b canvaslayer.Bounds) canvaslayer.Bounds {
	pad := (b.MaxLon - b.MinLon) * 0.05
	if pad < 0.001 {
		pad = 0.001
	}
	return b.Expand(pad)
}

// fitZoom returns the highest zoom at which a width x height viewport
// centered on b still contains all of b.
func fitZoom(b canvaslayer.Bounds, width, height int) int {
	lat := (b.MinLat + b.MaxLat) / 2
	lng := (b.MinLon + b.MaxLon) / 2
	for z := maxFitZoom; z > 1; z-- {
		vp := canvaslayer.NewStaticHost(lat, lng, z, width, height).ViewportBounds()
		if vp.Contains(b.MinLon, b.MinLat) && vp.Contains(b.MaxLon, b.MaxLat) {
			return z
		}
	}
	return 1
}

func run() error {
	if err := initConfig(); err != nil {
		return err
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(logLevel(viper.GetString("log-level"))).
		With().Timestamp().Logger()

	input := viper.GetString("input")
	if input == "" {
		return fmt.Errorf("no input file; use --input markers.geojson")
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	markers, err := canvaslayer.MarkersFromGeoJSON(data, defaultIcon())
	if err != nil {
		return err
	}
	if len(markers) == 0 {
		return fmt.Errorf("no point features in %s", input)
	}
	log.Info().Int("markers", len(markers)).Str("input", input).Msg("loaded markers")

	loader := &waitingLoader{inner: icons.NewHTTPLoader()}
	opts := canvaslayer.DefaultOptions()
	opts.EnableHalo = viper.GetBool("halo")
	opts.Logger = log
	opts.Loader = loader

	layer := canvaslayer.New(opts)
	if err := layer.AddMarkers(markers); err != nil {
		log.Warn().Err(err).Msg("some markers were rejected")
	}

	bounds := layer.GetBounds()
	lat, lng := viper.GetFloat64("center-lat"), viper.GetFloat64("center-lng")
	if !viper.IsSet("center-lat") && !viper.IsSet("center-lng") {
		lat = (bounds.MinLat + bounds.MaxLat) / 2
		lng = (bounds.MinLon + bounds.MaxLon) / 2
	}

	width, height := viper.GetInt("width"), viper.GetInt("height")
	zoom := viper.GetInt("zoom")
	if zoom == 0 {
		zoom = fitZoom(paddedBounds(bounds), width, height)
		log.Info().Int("zoom", zoom).Msg("fitted zoom to marker bounds")
	}

	host := canvaslayer.NewStaticHost(lat, lng, zoom, width, height)
	if err := layer.Attach(host); err != nil {
		return err
	}
	if !host.ViewportBounds().Intersects(bounds) {
		log.Warn().Msg("no markers intersect the rendered viewport")
	}

	// Attach painted everything with a resolved icon; block until the rest
	// of the loads settle, then repaint so late arrivals land too.
	loader.wg.Wait()
	layer.Redraw(true)

	stats := layer.IconStats()
	log.Info().
		Int("loaded", stats.Loaded).
		Int("failed", stats.Failed).
		Msg("icons settled")

	out, err := os.Create(viper.GetString("output"))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, layer.Surface()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	log.Info().Str("output", viper.GetString("output")).Msg("snapshot written")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "markrender:", err)
		os.Exit(1)
	}
}
