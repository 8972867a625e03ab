package pack

import "fmt"

// Growing is a binary tree packer that starts with a canvas the size of the first
// rectangle and grows it to the right or downwards whenever the next rectangle does not
// fit, choosing the direction that keeps the canvas closest to a square.
//
// Every placement splits the free node it lands in into a node on its right and a node
// below it, which is a guillotine cut of the free space.
type Growing struct{}

type node struct {
	x, y, w, h  int
	used        bool
	right, down *node
}

// Pack implements the Packer interface.
func (Growing) Pack(rects []*Rect) (Layout, error) {
	if err := validate(rects); err != nil {
		return Layout{}, err
	}
	if len(rects) == 0 {
		return Layout{}, nil
	}
	sorted := ordered(rects)

	root := &node{w: sorted[0].Width, h: sorted[0].Height}
	for _, r := range sorted {
		var n *node
		if free := root.find(r.Width, r.Height); free != nil {
			n = free.split(r.Width, r.Height)
		} else {
			root, n = root.grow(r.Width, r.Height)
		}
		if n == nil {
			return Layout{}, fmt.Errorf("pack: no room left for a %dx%d rectangle", r.Width, r.Height)
		}
		r.X, r.Y = n.x, n.y
	}
	return bounds(rects), nil
}

// find returns the first free node, in right-then-down order, large enough for w×h.
func (n *node) find(w, h int) *node {
	if n.used {
		if f := n.right.find(w, h); f != nil {
			return f
		}
		return n.down.find(w, h)
	}
	if w <= n.w && h <= n.h {
		return n
	}
	return nil
}

// split marks the node as used by a w×h rectangle placed in its top left corner and
// hands the remaining space over to two new free nodes.
func (n *node) split(w, h int) *node {
	n.used = true
	n.down = &node{x: n.x, y: n.y + h, w: n.w, h: n.h - h}
	n.right = &node{x: n.x + w, y: n.y, w: n.w - w, h: h}
	return n
}

// grow enlarges the canvas so that a w×h rectangle fits. It returns the new root and
// the node the rectangle was placed in, which is nil if the canvas could not grow.
func (n *node) grow(w, h int) (*node, *node) {
	canDown := w <= n.w
	canRight := h <= n.h

	// Grow in the direction keeping the canvas roughly square.
	shouldRight := canRight && n.h >= n.w+w
	shouldDown := canDown && n.w >= n.h+h

	switch {
	case shouldRight:
		return n.growRight(w, h)
	case shouldDown:
		return n.growDown(w, h)
	case canRight:
		return n.growRight(w, h)
	case canDown:
		return n.growDown(w, h)
	}
	return n, nil
}

func (n *node) growRight(w, h int) (*node, *node) {
	root := &node{
		used:  true,
		w:     n.w + w,
		h:     n.h,
		down:  n,
		right: &node{x: n.w, w: w, h: n.h},
	}
	if free := root.find(w, h); free != nil {
		return root, free.split(w, h)
	}
	return root, nil
}

func (n *node) growDown(w, h int) (*node, *node) {
	root := &node{
		used:  true,
		w:     n.w,
		h:     n.h + h,
		down:  &node{y: n.h, w: n.w, h: h},
		right: n,
	}
	if free := root.find(w, h); free != nil {
		return root, free.split(w, h)
	}
	return root, nil
}
