package analysis

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
)

// Signal names used as SignalVector keys.
const (
	SignalELA          = "ela"
	SignalLaplacian    = "laplacian"
	SignalHighFreq     = "highfreq"
	SignalLaplacianAvg = "laplacian_avg"
	SignalHighFreqAvg  = "highfreq_avg"
	SignalFaces        = "faces"
)

// SignalVector maps signal names to extracted values. It is produced fresh
// per analysis call and never cached or reused.
type SignalVector map[string]float64

// elaScale maps the raw mean reconstruction error into the range the fusion
// thresholds were tuned for.
const elaScale = 3.0

// ELAScore computes the reconstruction-error signal: re-encode the image as
// JPEG at the given quality, decode the result, and return the mean absolute
// per-pixel RGB difference normalized to [0,1] and scaled by elaScale.
// Deterministic for a fixed quality.
func ELAScore(img image.Image, quality int) (float64, error) {
	rgb := toRGBA(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: quality}); err != nil {
		return 0, fmt.Errorf("re-encode: %w", err)
	}
	rec, err := jpeg.Decode(&buf)
	if err != nil {
		return 0, fmt.Errorf("decode re-encoded: %w", err)
	}
	recRGB := toRGBA(rec)

	bounds := rgb.Bounds()
	if recRGB.Bounds() != bounds {
		return 0, fmt.Errorf("re-encoded bounds %v != %v", recRGB.Bounds(), bounds)
	}

	var sum float64
	var count int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := rgb.PixOffset(x, y)
			j := recRGB.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				sum += math.Abs(float64(rgb.Pix[i+c]) - float64(recRGB.Pix[j+c]))
				count++
			}
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count) / 255.0 * elaScale, nil
}

// HighFreqMean computes the high-frequency-energy signal: the mean absolute
// difference between the grayscale image and its Gaussian-blurred version,
// normalized to [0,1]. Low values indicate loss of sensor noise and texture.
func HighFreqMean(g *Gray, sigma float64) float64 {
	if len(g.Pix) == 0 {
		return 0
	}
	blurred := gaussianBlur(g, sigma)
	var sum float64
	for i := range g.Pix {
		sum += math.Abs(float64(g.Pix[i]) - float64(blurred.Pix[i]))
	}
	return sum / float64(len(g.Pix)) / 255.0
}

// LaplacianVar computes the sharpness signal: the variance of the absolute
// response of a 3x3 second-derivative operator over the grayscale image.
// Low variance indicates over-smoothing.
func LaplacianVar(g *Gray) float64 {
	if g.W < 3 || g.H < 3 {
		return 0
	}
	n := (g.W - 2) * (g.H - 2)
	resp := make([]float64, 0, n)

	for y := 1; y < g.H-1; y++ {
		for x := 1; x < g.W-1; x++ {
			i := y*g.W + x
			lap := float64(g.Pix[i-g.W]) + float64(g.Pix[i+g.W]) +
				float64(g.Pix[i-1]) + float64(g.Pix[i+1]) -
				4*float64(g.Pix[i])
			resp = append(resp, math.Abs(lap))
		}
	}

	var mean float64
	for _, v := range resp {
		mean += v
	}
	mean /= float64(len(resp))

	var variance float64
	for _, v := range resp {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(resp))
}

// toRGBA normalizes any image (grayscale included) to a 3-usable-channel
// RGBA buffer. Video frames and standalone images converge here before any
// per-channel arithmetic.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, color.RGBAModel.Convert(img.At(x, y)))
		}
	}
	return out
}
