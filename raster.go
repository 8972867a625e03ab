package spritemap

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterizer renders a vector buffer into a transparent RGBA tile of
// ceil(w) x ceil(h) pixels, the vector filling w x h of it.
type Rasterizer interface {
	Rasterize(buf []byte, w, h float64) (*image.RGBA, error)
}

// SVGRasterizer rasterizes SVG documents.
type SVGRasterizer struct{}

// Rasterize implements the Rasterizer interface.
func (SVGRasterizer) Rasterize(buf []byte, w, h float64) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(buf), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("rasterizer: %w", err)
	}
	tw, th := pixels(w), pixels(h)
	img := image.NewRGBA(image.Rect(0, 0, tw, th))

	icon.SetTarget(0, 0, w, h)
	scanner := rasterx.NewScannerGV(tw, th, img, img.Bounds())
	dasher := rasterx.NewDasher(tw, th, scanner)
	icon.Draw(dasher, 1)

	return img, nil
}
