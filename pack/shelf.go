package pack

import (
	"math"

	"github.com/esimov/spritemap/utils"
)

// Shelf places rectangles left to right in rows ("shelves") of a fixed width,
// opening a new shelf below the tallest rectangle of the current one when a
// rectangle does not fit anymore.
type Shelf struct {
	// Width of a shelf. When zero the square root of the total area is used.
	// A shelf is never narrower than the widest rectangle.
	Width int
}

// Pack implements the Packer interface.
func (s Shelf) Pack(rects []*Rect) (Layout, error) {
	if err := validate(rects); err != nil {
		return Layout{}, err
	}
	if len(rects) == 0 {
		return Layout{}, nil
	}
	sorted := ordered(rects)

	var area, widest int
	for _, r := range sorted {
		area += r.Width * r.Height
		widest = utils.Max(widest, r.Width)
	}
	width := s.Width
	if width <= 0 {
		width = int(math.Ceil(math.Sqrt(float64(area))))
	}
	width = utils.Max(width, widest)

	var x, y, shelf int
	for _, r := range sorted {
		if x+r.Width > width {
			x, y, shelf = 0, y+shelf, 0
		}
		r.X, r.Y = x, y
		x += r.Width
		shelf = utils.Max(shelf, r.Height)
	}
	return bounds(rects), nil
}
