// Package imaging cleans up scanned page images before OCR: grayscale
// conversion, Otsu binarisation and median speckle removal.
package imaging

import (
	"image"
	"slices"

	"golang.org/x/image/draw"
)

// DefaultMedianWindow is the side of the square median filter window.
const DefaultMedianWindow = 3

// Preprocessor binarises and denoises page images.
type Preprocessor struct {
	window int
}

// NewPreprocessor creates a preprocessor with the given median window.
// Non-positive or even windows fall back to DefaultMedianWindow.
func NewPreprocessor(window int) *Preprocessor {
	if window < 1 || window%2 == 0 {
		window = DefaultMedianWindow
	}
	return &Preprocessor{window: window}
}

// Preprocess converts img to a black/white single-channel image.
func (p *Preprocessor) Preprocess(img image.Image) *image.Gray {
	gray := Grayscale(img)
	bin := Binarize(gray, OtsuThreshold(gray))
	return MedianFilter(bin, p.window)
}

// Preprocess runs the default pipeline with a 3x3 median window.
func Preprocess(img image.Image) *image.Gray {
	return NewPreprocessor(DefaultMedianWindow).Preprocess(img)
}

// Grayscale converts any image to 8-bit luma. The result's bounds start at the origin.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// OtsuThreshold returns the threshold t maximising between-class variance of
// the two classes {v <= t} and {v > t}.
func OtsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	total := 0
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, y):g.PixOffset(b.Max.X, y)]
		for _, v := range row {
			hist[v]++
		}
		total += len(row)
	}
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i * c)
	}

	var (
		sumBack    float64
		weightBack int
		best       float64
		threshold  int
	)
	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(t * hist[t])

		meanBack := sumBack / float64(weightBack)
		meanFore := (sumAll - sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		between := float64(weightBack) * float64(weightFore) * diff * diff

		if between > best {
			best = between
			threshold = t
		}
	}
	return uint8(threshold)
}

// Binarize maps pixels above t to white and the rest to black.
func Binarize(g *image.Gray, t uint8) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if g.Pix[g.PixOffset(x, y)] > t {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}

// MedianFilter applies a window x window median filter with replicated borders.
func MedianFilter(g *image.Gray, window int) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	if window <= 1 {
		copy(out.Pix, g.Pix)
		return out
	}

	r := window / 2
	values := make([]uint8, 0, window*window)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			values = values[:0]
			for dy := -r; dy <= r; dy++ {
				sy := clamp(y+dy, b.Min.Y, b.Max.Y-1)
				for dx := -r; dx <= r; dx++ {
					sx := clamp(x+dx, b.Min.X, b.Max.X-1)
					values = append(values, g.Pix[g.PixOffset(sx, sy)])
				}
			}
			slices.Sort(values)
			out.Pix[out.PixOffset(x, y)] = values[len(values)/2]
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
