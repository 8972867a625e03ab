// Go implementation of the StackBlur algorithm described here:
// http://incubator.quasimondo.com/processing/fast_blur_deluxe.php

package spritemap

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/esimov/spritemap/utils"
)

// maxStackRadius is the largest radius the stack blur accepts.
const maxStackRadius = 254

// Blurrer blurs an image in place.
type Blurrer interface {
	Blur(img *image.RGBA, radius int)
}

// BlurByName returns the blur implementation registered under name.
func BlurByName(name string) (Blurrer, bool) {
	switch name {
	case "", "stack":
		return StackBlur{}, true
	case "gaussian":
		return GaussianBlur{}, true
	}
	return nil, false
}

// StackBlur approximates a gaussian blur by a weighted moving average whose weights
// grow linearly towards the center of the kernel. It runs in constant time per pixel
// regardless of the radius.
//
// The blur operates on premultiplied pixels, so transparent pixels do not darken the
// colors they are averaged with.
type StackBlur struct{}

// Blur implements the Blurrer interface.
func (StackBlur) Blur(img *image.RGBA, radius int) {
	radius = utils.Min(radius, maxStackRadius)
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if radius < 1 || width == 0 || height == 0 {
		return
	}
	stack := make([][4]uint32, 2*radius+1)

	for y := 0; y < height; y++ {
		stackblurLine(img.Pix, img.PixOffset(b.Min.X, b.Min.Y+y), 4, width, radius, stack)
	}
	for x := 0; x < width; x++ {
		stackblurLine(img.Pix, img.PixOffset(b.Min.X+x, b.Min.Y), img.Stride, height, radius, stack)
	}
}

// stackblurLine blurs the n pixels found at off, off+step, off+2*step, ...
// Pixels outside of the line are clamped to the nearest edge pixel.
func stackblurLine(pix []uint8, off, step, n, radius int, stack [][4]uint32) {
	var (
		div     = 2*radius + 1
		divisor = uint32((radius + 1) * (radius + 1))
		sum     [4]uint32
		sumIn   [4]uint32
		sumOut  [4]uint32
	)
	at := func(i int) [4]uint32 {
		i = utils.Clamp(i, 0, n-1)
		p := off + i*step
		return [4]uint32{uint32(pix[p]), uint32(pix[p+1]), uint32(pix[p+2]), uint32(pix[p+3])}
	}

	// The stack holds the pixels x-radius..x+radius; the left half and the
	// center are the edge pixel itself.
	first := at(0)
	for i := 0; i <= radius; i++ {
		stack[i] = first
		for c := 0; c < 4; c++ {
			sum[c] += first[c] * uint32(i+1)
			sumOut[c] += first[c]
		}
	}
	for i := 1; i <= radius; i++ {
		px := at(i)
		stack[radius+i] = px
		for c := 0; c < 4; c++ {
			sum[c] += px[c] * uint32(radius+1-i)
			sumIn[c] += px[c]
		}
	}

	sp := radius
	for x := 0; x < n; x++ {
		p := off + x*step
		for c := 0; c < 4; c++ {
			pix[p+c] = uint8(sum[c] / divisor)
		}

		// drop the leftmost pixel, take in the one entering on the right
		start := (sp + div - radius) % div
		in := at(x + radius + 1)
		for c := 0; c < 4; c++ {
			sum[c] -= sumOut[c]
			sumOut[c] -= stack[start][c]
			sumIn[c] += in[c]
			sum[c] += sumIn[c]
		}
		stack[start] = in

		// the next pixel moves from the incoming to the outgoing half
		sp = (sp + 1) % div
		for c := 0; c < 4; c++ {
			sumOut[c] += stack[sp][c]
			sumIn[c] -= stack[sp][c]
		}
	}
}

// GaussianBlur blurs the image with a true gaussian kernel. Like the stack blur,
// the kernel ends at the radius: no pixel spreads further than radius pixels.
type GaussianBlur struct{}

// gaussianSigma returns the sigma whose kernel, cut at three sigmas by imaging,
// spans exactly radius pixels.
func gaussianSigma(radius int) float64 {
	return float64(radius) / 3 * (1 - 1e-9)
}

// Blur implements the Blurrer interface.
func (GaussianBlur) Blur(img *image.RGBA, radius int) {
	if radius < 1 || img.Bounds().Empty() {
		return
	}
	blurred := imaging.Blur(img, gaussianSigma(radius))
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := blurred.PixOffset(x, y)
			s := blurred.Pix[i : i+4 : i+4]
			j := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			d := img.Pix[j : j+4 : j+4]
			// back to premultiplied alpha
			a := uint32(s[3])
			d[0] = uint8((uint32(s[0])*a + 127) / 255)
			d[1] = uint8((uint32(s[1])*a + 127) / 255)
			d[2] = uint8((uint32(s[2])*a + 127) / 255)
			d[3] = s[3]
		}
	}
}
