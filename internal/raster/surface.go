// Package raster owns the single pixel surface the rendering engine paints
// markers onto. Drawing is append-only within a pass; the surface is cleared
// at pass start when requested.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Surface is an RGBA raster buffer.
type Surface struct {
	img *image.RGBA
}

// New creates a transparent surface with the given pixel dimensions.
func New(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image. The returned image is shared with the
// surface, not a copy.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// FillCircle paints a solid circle centered at (cx, cy) with radius r.
// Pixels outside the surface are discarded.
func (s *Surface) FillCircle(cx, cy, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))
	for y := minY; y <= maxY; y++ {
		dy := float64(y) + 0.5 - cy
		span := r*r - dy*dy
		if span < 0 {
			continue
		}
		half := math.Sqrt(span)
		minX := int(math.Floor(cx - half))
		maxX := int(math.Ceil(cx + half))
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r*r {
				s.setPixel(x, y, c)
			}
		}
	}
}

// DrawImage composites src into the destination rectangle, scaling when the
// source dimensions differ from the rectangle.
func (s *Surface) DrawImage(src image.Image, dst image.Rectangle) {
	sb := src.Bounds()
	if sb.Dx() == dst.Dx() && sb.Dy() == dst.Dy() {
		draw.Draw(s.img, dst, src, sb.Min, draw.Over)
		return
	}
	xdraw.ApproxBiLinear.Scale(s.img, dst, src, sb, xdraw.Over, nil)
}

func (s *Surface) setPixel(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(s.img.Rect) {
		return
	}
	s.img.Set(x, y, c)
}
