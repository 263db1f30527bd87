package main

import (
	"image/png"
	"log"
	"os"
	"time"

	canvaslayer "github.com/beetlebugorg/canvaslayer/pkg/v1"
)

func main() {
	// Create layer
	layer := canvaslayer.New(canvaslayer.DefaultOptions())

	// 800x600 view over Boston Harbor at zoom 12
	host := canvaslayer.NewStaticHost(42.35, -71.04, 12, 800, 600)
	if err := layer.Attach(host); err != nil {
		log.Fatal(err)
	}

	// Add a marker
	err := layer.AddMarker(&canvaslayer.Marker{
		ID:  "pier-4",
		Lat: 42.352, Lng: -71.043,
		Icon: canvaslayer.Icon{
			URL:    "pin.png",
			Size:   [2]int{32, 32},
			Anchor: [2]int{16, 16},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	// Wait for the icon load to settle
	for layer.IconStats().Pending > 0 {
		time.Sleep(50 * time.Millisecond)
	}
	layer.Redraw(true)

	// Write the surface to disk
	out, err := os.Create("map.png")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := png.Encode(out, layer.Surface()); err != nil {
		log.Fatal(err)
	}

	log.Printf("Rendered %d markers to map.png", layer.Count())
}
