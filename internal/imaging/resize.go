package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ResizeLongSide downsamples img so that its long side equals target, using
// one ratio for both axes so the aspect ratio is preserved.
//
// The Box filter averages every source pixel under the destination footprint,
// which makes this an area-averaging reduction. If the ratio would be 1.0 or
// more the input is returned unchanged: the step never enlarges an image.
func ResizeLongSide(img image.Image, target int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || target <= 0 {
		return img
	}

	long := longSide(w, h)
	if target >= long {
		return img
	}

	nw, nh := scaledDimensions(w, h, target)
	return imaging.Resize(img, nw, nh, imaging.Box)
}

// scaledDimensions returns the size of a w×h image after scaling its long
// side to target. The long side is exact; the short side is rounded and never
// drops below one pixel.
func scaledDimensions(w, h, target int) (int, int) {
	if w >= h {
		nh := int(math.Round(float64(h) * float64(target) / float64(w)))
		if nh < 1 {
			nh = 1
		}
		return target, nh
	}

	nw := int(math.Round(float64(w) * float64(target) / float64(h)))
	if nw < 1 {
		nw = 1
	}
	return nw, target
}

// reduceToTier shrinks a fully decoded image to the size a reduced-resolution
// decode at tier would have produced: each side divided by the tier divisor,
// rounded up, as libjpeg does for scaled IDCT output.
func reduceToTier(img image.Image, tier DecodeTier) image.Image {
	d := tier.Divisor()
	if d == 1 {
		return img
	}

	bounds := img.Bounds()
	w := (bounds.Dx() + d - 1) / d
	h := (bounds.Dy() + d - 1) / d
	if w == bounds.Dx() && h == bounds.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Box)
}
