// Package pack places rectangles onto a two dimensional canvas without overlaps,
// trying to keep the area of the canvas small.
//
// Packing is NP-hard, so the algorithms here are heuristics. They are however fully
// deterministic: the same input in the same order always yields the same placements.
package pack

import (
	"errors"
	"fmt"
	"sort"

	"github.com/esimov/spritemap/utils"
)

// ErrInvalidRect is returned for rectangles with non-positive dimensions.
var ErrInvalidRect = errors.New("invalid rectangle")

// Rect is a rectangle to be placed. Pack fills in X and Y.
type Rect struct {
	Width, Height int
	X, Y          int
}

// Layout is the size of the smallest canvas enclosing all placed rectangles.
type Layout struct {
	Width, Height int
}

// Area returns the area of the canvas.
func (l Layout) Area() int { return l.Width * l.Height }

// Packer assigns a position to every rectangle and reports the resulting canvas size.
// Rectangles are updated in place; their order in the slice is left untouched.
type Packer interface {
	Pack(rects []*Rect) (Layout, error)
}

// ByName returns the packer registered under name.
func ByName(name string) (Packer, error) {
	switch name {
	case "", "growing":
		return Growing{}, nil
	case "shelf":
		return Shelf{}, nil
	}
	return nil, fmt.Errorf("unknown packer %q", name)
}

func validate(rects []*Rect) error {
	for i, r := range rects {
		if r == nil || r.Width <= 0 || r.Height <= 0 {
			if r == nil {
				return fmt.Errorf("%w: #%d is nil", ErrInvalidRect, i)
			}
			return fmt.Errorf("%w: #%d is %dx%d", ErrInvalidRect, i, r.Width, r.Height)
		}
	}
	return nil
}

// ordered returns the rectangles sorted by decreasing height, then decreasing width.
// Ties keep their input order, which makes the placement reproducible.
func ordered(rects []*Rect) []*Rect {
	res := make([]*Rect, len(rects))
	copy(res, rects)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Height != res[j].Height {
			return res[i].Height > res[j].Height
		}
		return res[i].Width > res[j].Width
	})
	return res
}

// bounds computes the tight bounding box of the placed rectangles.
func bounds(rects []*Rect) Layout {
	var l Layout
	for _, r := range rects {
		l.Width = utils.Max(l.Width, r.X+r.Width)
		l.Height = utils.Max(l.Height, r.Y+r.Height)
	}
	return l
}
