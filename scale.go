package spritemap

import (
	"fmt"
	"image"
	"math"

	"github.com/esimov/spritemap/pack"
	"github.com/esimov/spritemap/utils"
	"github.com/esimov/spritemap/vector"
)

// aspectTolerance is the relative error allowed on the aspect ratio of a resized sprite.
const aspectTolerance = 1e-9

// Sprite is a variant resized for one scale factor. Its Vector holds the scaled
// buffer and dimensions; Box is the padded rectangle reserved on the canvas.
type Sprite struct {
	Variant
	Factor int
	Box    pack.Rect
}

// Origin returns the canvas position of the top-left pixel of the drawn icon.
func (s *Sprite) Origin() image.Point {
	b := Border(s.Factor)
	return image.Pt(s.Box.X+b, s.Box.Y+b)
}

// Tile returns the pixel size of the rasterized icon.
func (s *Sprite) Tile() (w, h int) {
	return pixels(s.Vector.Width), pixels(s.Vector.Height)
}

// Layout is the packed arrangement of the sprites of one scale factor.
type Layout struct {
	Factor        int
	Width, Height int
	Sprites       []*Sprite
}

// Snapshot returns a deep copy of the variants, so every scale factor can resize its
// own buffers.
func Snapshot(variants []Variant) []Variant {
	snap := make([]Variant, len(variants))
	for i, v := range variants {
		snap[i] = v
		snap[i].Vector = v.Vector.Clone()
	}
	return snap
}

// Resolve resizes a snapshot of the variants to the scale factor and computes the
// padded box of every sprite. The variants themselves are left untouched.
func Resolve(variants []Variant, factor int) ([]*Sprite, error) {
	if factor < 1 {
		return nil, fmt.Errorf("invalid scale factor %d", factor)
	}
	sprites := make([]*Sprite, 0, len(variants))
	for _, v := range Snapshot(variants) {
		nominal := v.Vector
		sized, err := vector.Resize(nominal.Buffer, nominal.Height*float64(factor))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.Name, err)
		}
		want := nominal.Width / nominal.Height
		got := sized.Width / sized.Height
		if utils.Abs(got-want) > aspectTolerance*want {
			return nil, fmt.Errorf("%s: aspect ratio changed from %v to %v", v.Name, want, got)
		}
		v.Vector = sized

		s := &Sprite{Variant: v, Factor: factor}
		w, h := s.Tile()
		s.Box = pack.Rect{
			Width:  w + Padding(factor),
			Height: h + Padding(factor),
		}
		sprites = append(sprites, s)
	}
	return sprites, nil
}

// Arrange packs the sprites with the packer and fills in their positions.
func Arrange(p pack.Packer, sprites []*Sprite, factor int) (*Layout, error) {
	rects := make([]*pack.Rect, len(sprites))
	for i, s := range sprites {
		rects[i] = &s.Box
	}
	size, err := p.Pack(rects)
	if err != nil {
		return nil, err
	}
	return &Layout{
		Factor:  factor,
		Width:   size.Width,
		Height:  size.Height,
		Sprites: sprites,
	}, nil
}

// pixels rounds a vector length up to whole pixels. Lengths within a rounding error
// of an integer are not bumped to the next pixel. The result is at least one pixel.
func pixels(v float64) int {
	return utils.Max(int(math.Ceil(v-1e-9)), 1)
}
