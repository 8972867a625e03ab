// Package vector implements the handful of SVG rewrites needed to turn a raw icon
// into a themed, sized sprite source: attribute normalization, recoloring and resizing.
//
// The transforms operate on the token stream of the document rather than on its text,
// so attributes are matched by element and name, never by pattern.
package vector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/esimov/spritemap/utils"
)

var (
	// ErrUnsizable is returned when the root element lacks legible width/height attributes.
	ErrUnsizable = errors.New("unsizable icon")
	// ErrNotSVG is returned when the document root is not an <svg> element.
	ErrNotSVG = errors.New("root element is not <svg>")
	// ErrEmptyPalette is returned when recoloring is requested without any color.
	ErrEmptyPalette = errors.New("empty color palette")
)

// SyntaxError reports a document the XML lexer could not tokenize.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed svg: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Sized is a vector buffer together with the width and height it declares.
type Sized struct {
	Buffer []byte
	Width  float64
	Height float64
}

// Clone returns a copy of s which does not share its buffer.
func (s Sized) Clone() Sized {
	buf := make([]byte, len(s.Buffer))
	copy(buf, s.Buffer)
	return Sized{Buffer: buf, Width: s.Width, Height: s.Height}
}

// geometry lists, per shape element, the attributes describing its outline.
var geometry = map[string][]string{
	"path":     {"d"},
	"circle":   {"cx", "cy", "r"},
	"ellipse":  {"cx", "cy", "rx", "ry"},
	"rect":     {"x", "y", "width", "height", "rx", "ry"},
	"line":     {"x1", "y1", "x2", "y2"},
	"polygon":  {"points"},
	"polyline": {"points"},
}

// structural attributes survive normalization on every shape.
var structural = []string{"id", "transform", "fill-rule", "clip-rule"}

func isShape(el *element) bool {
	_, ok := geometry[el.local()]
	return ok
}

// Size returns the width and height declared on the root <svg> element.
func Size(buf []byte) (w, h float64, err error) {
	_, err = rewrite(buf, func(el *element) error {
		if !el.root {
			return nil
		}
		if el.local() != "svg" {
			return fmt.Errorf("%w: <%s>", ErrNotSVG, el.tag)
		}
		w, h, err = dimensions(el)
		return err
	})
	return w, h, err
}

// Normalize strips every presentational attribute from the shape elements, keeping
// only their geometry, and adds a viewBox matching the declared size when the
// document has none, so that rasterizers map the declared size onto the artwork.
func Normalize(buf []byte) ([]byte, error) {
	return rewrite(buf, func(el *element) error {
		if el.root {
			if el.local() != "svg" {
				return fmt.Errorf("%w: <%s>", ErrNotSVG, el.tag)
			}
			w, h, err := dimensions(el)
			if err != nil {
				return err
			}
			if _, ok := el.get("viewBox"); !ok {
				el.set("viewBox", "0 0 "+formatFloat(w)+" "+formatFloat(h))
			}
			return nil
		}
		if attrs, ok := geometry[el.local()]; ok {
			el.filter(func(name string) bool {
				return utils.Contains(attrs, name) || utils.Contains(structural, name)
			})
		}
		return nil
	})
}

// Recolor fills the shape elements with the colors of the palette, in document order,
// starting over once the palette is exhausted. A single color palette produces a
// uniform silhouette.
func Recolor(buf []byte, palette []string) ([]byte, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	var i int
	return rewrite(buf, func(el *element) error {
		if !isShape(el) {
			return nil
		}
		el.filter(func(name string) bool {
			return name != "fill" && name != "style"
		})
		el.set("fill", palette[i%len(palette)])
		i++
		return nil
	})
}

// Resize rewrites the declared size of the document so its height becomes height,
// keeping the declared aspect ratio: newWidth = width / height * newHeight.
func Resize(buf []byte, height float64) (Sized, error) {
	if !(height > 0) || math.IsInf(height, 0) {
		return Sized{}, fmt.Errorf("vector: invalid target height %v", height)
	}
	var width float64
	res, err := rewrite(buf, func(el *element) error {
		if !el.root {
			return nil
		}
		if el.local() != "svg" {
			return fmt.Errorf("%w: <%s>", ErrNotSVG, el.tag)
		}
		w, h, err := dimensions(el)
		if err != nil {
			return err
		}
		width = w / h * height
		el.set("width", formatFloat(width))
		el.set("height", formatFloat(height))
		return nil
	})
	if err != nil {
		return Sized{}, err
	}
	return Sized{Buffer: res, Width: width, Height: height}, nil
}

// Scale multiplies the declared width and height of the document by k.
func Scale(buf []byte, k float64) ([]byte, error) {
	if !(k > 0) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("vector: invalid scale factor %v", k)
	}
	return rewrite(buf, func(el *element) error {
		if !el.root {
			return nil
		}
		if el.local() != "svg" {
			return fmt.Errorf("%w: <%s>", ErrNotSVG, el.tag)
		}
		w, h, err := dimensions(el)
		if err != nil {
			return err
		}
		el.set("width", formatFloat(w*k))
		el.set("height", formatFloat(h*k))
		return nil
	})
}

func dimensions(el *element) (w, h float64, err error) {
	if w, err = length(el, "width"); err != nil {
		return 0, 0, err
	}
	if h, err = length(el, "height"); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// length parses a user unit or pixel length attribute.
func length(el *element, name string) (float64, error) {
	v, ok := el.get(name)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s attribute", ErrUnsizable, name)
	}
	s := strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(f > 0) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrUnsizable, name, v)
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
