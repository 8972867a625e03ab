// Package imop composites rasterized sprites onto the atlas canvas.
//
// The image/draw Over operator goes through the generic color model for every
// pixel. Over works directly on the premultiplied pixels of *image.RGBA, where
// source-over reduces to
//
//	result = source + (1 - αs)·backdrop
package imop

import (
	"image"

	"github.com/esimov/spritemap/utils"
)

// Over composites src over dst with the top left corner of src placed at pt.
// Only the part of dst covered by src is touched.
func Over(dst, src *image.RGBA, pt image.Point) {
	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(pt).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	// offset of the source pixels relative to the destination ones
	delta := sb.Min.Sub(pt)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X+delta.X, y+delta.Y)
		for x := r.Min.X; x < r.Max.X; x++ {
			d := dst.Pix[di : di+4 : di+4]
			s := src.Pix[si : si+4 : si+4]

			switch s[3] {
			case 0:
			case 255:
				copy(d, s)
			default:
				fb := 255 - uint32(s[3])
				for i := 0; i < 4; i++ {
					v := uint32(s[i]) + (uint32(d[i])*fb+127)/255
					d[i] = uint8(utils.Min(v, 255))
				}
			}
			di += 4
			si += 4
		}
	}
}
