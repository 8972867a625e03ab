package spritemap

import (
	"fmt"
	"image"

	"github.com/esimov/spritemap/imop"
	"github.com/esimov/spritemap/vector"
)

// Compositor draws the sprites of a layout onto a single canvas.
type Compositor struct {
	Rasterizer Rasterizer
	Blur       Blurrer
}

// NewCompositor returns a compositor rasterizing SVG documents with the named blur.
func NewCompositor(blur string) (*Compositor, error) {
	b, ok := BlurByName(blur)
	if !ok {
		return nil, fmt.Errorf("unknown blur %q", blur)
	}
	return &Compositor{Rasterizer: SVGRasterizer{}, Blur: b}, nil
}

// Compose renders the layout in three passes. The glow silhouettes of the sprites
// having a glow color are drawn first, the canvas is then blurred by the glow margin,
// and finally every icon is drawn over the halos. Each sprite is drawn at its box
// position shifted by the border.
func (c *Compositor) Compose(l *Layout) (*image.RGBA, error) {
	f := l.Factor
	canvas := image.NewRGBA(image.Rect(0, 0, l.Width+Padding(f), l.Height+Padding(f)))

	var glowing int
	for _, s := range l.Sprites {
		if s.Glow == "" {
			continue
		}
		buf, err := vector.Recolor(s.Vector.Buffer, []string{s.Glow})
		if err != nil {
			return nil, fmt.Errorf("%s: glow: %w", s.Name, err)
		}
		if err := c.draw(canvas, s, buf); err != nil {
			return nil, err
		}
		glowing++
	}
	if glowing > 0 {
		c.Blur.Blur(canvas, GlowMargin(f))
	}

	for _, s := range l.Sprites {
		if err := c.draw(canvas, s, s.Vector.Buffer); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

func (c *Compositor) draw(canvas *image.RGBA, s *Sprite, buf []byte) error {
	tile, err := c.Rasterizer.Rasterize(buf, s.Vector.Width, s.Vector.Height)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	imop.Over(canvas, tile, s.Origin())
	return nil
}
