package spritemap

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dot(size int, at image.Point, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	img.SetRGBA(at.X, at.Y, c)
	return img
}

func TestStackBlur_Spread(t *testing.T) {
	for _, r := range []int{1, 2, 3, 5} {
		center := image.Pt(10, 10)
		img := dot(21, center, color.RGBA{255, 255, 255, 255})
		StackBlur{}.Blur(img, r)

		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := img.RGBAAt(x, y)
				dx, dy := x-center.X, y-center.Y
				if dx < -r || dx > r || dy < -r || dy > r {
					assert.Equal(t, color.RGBA{}, c, "radius %d (%d,%d)", r, x, y)
				}
				// premultiplied: no channel exceeds alpha
				assert.LessOrEqual(t, c.R, c.A)
			}
		}
		// the kernel peaks at its center and is symmetric
		peak := img.RGBAAt(center.X, center.Y).A
		assert.NotZero(t, peak)
		assert.Equal(t, img.RGBAAt(center.X-1, center.Y).A, img.RGBAAt(center.X+1, center.Y).A)
		assert.Equal(t, img.RGBAAt(center.X, center.Y-1).A, img.RGBAAt(center.X, center.Y+1).A)
		assert.GreaterOrEqual(t, peak, img.RGBAAt(center.X+1, center.Y).A)
	}
}

func TestStackBlur_Uniform(t *testing.T) {
	col := color.RGBA{40, 80, 120, 200}
	img := image.NewRGBA(image.Rect(0, 0, 9, 7))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)

	StackBlur{}.Blur(img, 3)
	for y := 0; y < 7; y++ {
		for x := 0; x < 9; x++ {
			assert.Equal(t, col, img.RGBAAt(x, y))
		}
	}
}

func TestStackBlur_Noop(t *testing.T) {
	img := dot(5, image.Pt(2, 2), color.RGBA{255, 0, 0, 255})
	StackBlur{}.Blur(img, 0)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(1, 2))

	// empty images are left alone
	StackBlur{}.Blur(image.NewRGBA(image.Rect(0, 0, 0, 0)), 3)
}

func TestStackBlur_SubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	img.SetRGBA(15, 15, color.RGBA{255, 255, 255, 255})
	img.SetRGBA(2, 2, color.RGBA{255, 255, 255, 255})

	sub := img.SubImage(image.Rect(10, 10, 20, 20)).(*image.RGBA)
	StackBlur{}.Blur(sub, 2)

	assert.NotZero(t, img.RGBAAt(14, 15).A)
	// pixels outside of the sub image are untouched
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(2, 2))
	assert.Zero(t, img.RGBAAt(3, 2).A)
}

func TestGaussianBlur(t *testing.T) {
	img := dot(21, image.Pt(10, 10), color.RGBA{255, 255, 255, 255})
	GaussianBlur{}.Blur(img, 2)

	peak := img.RGBAAt(10, 10)
	assert.NotZero(t, peak.A)
	assert.Less(t, peak.A, uint8(255))
	assert.LessOrEqual(t, peak.R, peak.A)
	assert.Equal(t, img.RGBAAt(9, 10).A, img.RGBAAt(11, 10).A)
	assert.Zero(t, img.RGBAAt(0, 0).A)
}

func TestGaussianBlur_Spread(t *testing.T) {
	for _, r := range []int{1, 2, 3, 5} {
		assert.Equal(t, float64(r), math.Ceil(gaussianSigma(r)*3), "radius %d", r)

		center := image.Pt(10, 10)
		img := dot(21, center, color.RGBA{255, 255, 255, 255})
		GaussianBlur{}.Blur(img, r)

		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dx, dy := x-center.X, y-center.Y
				if dx < -r || dx > r || dy < -r || dy > r {
					assert.Equal(t, color.RGBA{}, img.RGBAAt(x, y), "radius %d (%d,%d)", r, x, y)
				}
			}
		}
		assert.NotZero(t, img.RGBAAt(center.X+1, center.Y).A, "radius %d", r)
	}
}

func TestBlurByName(t *testing.T) {
	b, ok := BlurByName("")
	assert.True(t, ok)
	assert.IsType(t, StackBlur{}, b)

	b, ok = BlurByName("gaussian")
	assert.True(t, ok)
	assert.IsType(t, GaussianBlur{}, b)

	_, ok = BlurByName("box")
	assert.False(t, ok)
}

func TestBorder(t *testing.T) {
	for f := 1; f <= 4; f++ {
		assert.Equal(t, 2*f, Border(f))
		assert.Equal(t, 4*f, Padding(f))
		assert.Equal(t, f, GlowMargin(f))
		// the halo never reaches the edge of the padded box
		assert.Less(t, GlowMargin(f), Border(f))
	}
}
