package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	canvaslayer "github.com/beetlebugorg/canvaslayer/pkg/v1"
)

// solidLoader resolves every icon URL to a solid 24x24 square, so the
// example runs without any image assets.
type solidLoader struct{}

func (solidLoader) Load(url string, done func(image.Image, error)) {
	go func() {
		img := image.NewRGBA(image.Rect(0, 0, 24, 24))
		for y := 0; y < 24; y++ {
			for x := 0; x < 24; x++ {
				img.SetRGBA(x, y, color.RGBA{R: 200, G: 60, B: 60, A: 255})
			}
		}
		done(img, nil)
	}()
}

func main() {
	opts := canvaslayer.DefaultOptions()
	opts.Loader = solidLoader{}
	layer := canvaslayer.New(opts)

	host := canvaslayer.NewStaticHost(42.35, -71.04, 12, 800, 600)
	if err := layer.Attach(host); err != nil {
		log.Fatal(err)
	}

	icon := canvaslayer.Icon{URL: "solid", Size: [2]int{24, 24}, Anchor: [2]int{12, 12}}
	layer.AddMarker(&canvaslayer.Marker{
		ID: "buoy-7", Lat: 42.352, Lng: -71.043, Icon: icon,
		OnClick:     func(m *canvaslayer.Marker) { fmt.Println("clicked:", m.ID) },
		OnMouseOver: func(m *canvaslayer.Marker) { fmt.Println("hover enter:", m.ID) },
		OnMouseOut:  func(m *canvaslayer.Marker) { fmt.Println("hover leave:", m.ID) },
	})

	// Wait for the synthetic icon, then find the marker on screen
	for layer.IconStats().Pending > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	layer.Redraw(true)
	x, y := host.Project(42.352, -71.043)

	// Simulate pointer traffic from the host
	layer.PointerMove(x, y) // hover enter: buoy-7
	layer.Click(x, y)       // clicked: buoy-7
	layer.PointerMove(0, 0) // hover leave: buoy-7
	layer.Click(0, 0)       // no marker here, nothing fires

	fmt.Println("cursor now:", host.Cursor())
}
