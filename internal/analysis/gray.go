package analysis

import (
	"image"
	"math"
)

// Gray is a single-channel uint8 pixel buffer. All signal extractors operate
// on this representation so that standalone images and decoded video frames
// go through the same normalization regardless of source color model.
type Gray struct {
	Pix  []uint8
	W, H int
}

// ToGray converts any decoded image to a grayscale buffer using the
// ITU-R BT.601 luma weights. Already-grayscale inputs pass through the same
// path; RGBA() handles bit-depth normalization.
func ToGray(img image.Image) *Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := &Gray{Pix: make([]uint8, w*h), W: w, H: h}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels; scale to 8-bit before weighting.
			lum := 0.299*float64(r>>8) + 0.587*float64(gr>>8) + 0.114*float64(b>>8)
			g.Pix[i] = uint8(math.Min(255, math.Round(lum)))
			i++
		}
	}
	return g
}

// gaussianKernel builds a normalized 1D Gaussian kernel for the given sigma.
// Radius follows the usual 3-sigma support.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlur applies a separable Gaussian filter with clamped edges and
// returns a new buffer. The input is not modified.
func gaussianBlur(g *Gray, sigma float64) *Gray {
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	tmp := make([]float64, len(g.Pix))
	out := &Gray{Pix: make([]uint8, len(g.Pix)), W: g.W, H: g.H}

	// Horizontal pass.
	for y := 0; y < g.H; y++ {
		row := y * g.W
		for x := 0; x < g.W; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				sx := clamp(x+k, 0, g.W-1)
				acc += kernel[k+radius] * float64(g.Pix[row+sx])
			}
			tmp[row+x] = acc
		}
	}

	// Vertical pass.
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				sy := clamp(y+k, 0, g.H-1)
				acc += kernel[k+radius] * tmp[sy*g.W+x]
			}
			out.Pix[y*g.W+x] = uint8(math.Min(255, math.Max(0, math.Round(acc))))
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
