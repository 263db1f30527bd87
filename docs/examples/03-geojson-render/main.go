package main

import (
	"image/png"
	"log"
	"os"
	"time"

	canvaslayer "github.com/beetlebugorg/canvaslayer/pkg/v1"
)

func main() {
	data, err := os.ReadFile("markers.geojson")
	if err != nil {
		log.Fatal(err)
	}

	// Point features become markers; per-feature properties may override
	// the default icon
	defIcon := canvaslayer.Icon{
		URL:    "pin.png",
		Size:   [2]int{32, 32},
		Anchor: [2]int{16, 16},
	}
	markers, err := canvaslayer.MarkersFromGeoJSON(data, defIcon)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %d markers", len(markers))

	opts := canvaslayer.DefaultOptions()
	opts.EnableHalo = true
	layer := canvaslayer.New(opts)
	if err := layer.AddMarkers(markers); err != nil {
		log.Printf("Some markers rejected: %v", err)
	}

	// Center the viewport on the marker bounds
	b := layer.GetBounds()
	host := canvaslayer.NewStaticHost(
		(b.MinLat+b.MaxLat)/2, (b.MinLon+b.MaxLon)/2, 11, 1024, 768)
	if err := layer.Attach(host); err != nil {
		log.Fatal(err)
	}

	for layer.IconStats().Pending > 0 {
		time.Sleep(50 * time.Millisecond)
	}
	layer.Redraw(true)

	out, err := os.Create("map.png")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := png.Encode(out, layer.Surface()); err != nil {
		log.Fatal(err)
	}

	stats := layer.IconStats()
	log.Printf("Done: %d icons loaded, %d failed", stats.Loaded, stats.Failed)
}
