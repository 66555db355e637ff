package imaging

import "fmt"

// DecodeTier is the fractional resolution at which a decoder is asked to
// materialize pixels. Tiers are ordered from finest to coarsest.
type DecodeTier int

const (
	TierFull DecodeTier = iota
	TierHalf
	TierQuarter
	TierEighth
)

// Divisor returns the reduction factor of the tier (1, 2, 4 or 8).
func (t DecodeTier) Divisor() int {
	switch t {
	case TierHalf:
		return 2
	case TierQuarter:
		return 4
	case TierEighth:
		return 8
	default:
		return 1
	}
}

// Resolution returns the long side guaranteed by decoding an image whose long
// side is sourceLongSide at this tier.
func (t DecodeTier) Resolution(sourceLongSide int) int {
	return sourceLongSide / t.Divisor()
}

func (t DecodeTier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierHalf:
		return "half"
	case TierQuarter:
		return "quarter"
	case TierEighth:
		return "eighth"
	default:
		return fmt.Sprintf("DecodeTier(%d)", int(t))
	}
}

// SelectTier picks the coarsest decode tier whose resolution still meets or
// exceeds requestedLongSide.
//
// Decoding at a coarser tier is strictly cheaper, and because the chosen tier
// never falls below the requested length, the resize that follows only ever
// downsamples. When the source is already smaller than the request, or either
// length is not positive, TierFull is returned.
func SelectTier(sourceLongSide, requestedLongSide int) DecodeTier {
	if sourceLongSide <= 0 || requestedLongSide <= 0 {
		return TierFull
	}

	switch {
	case requestedLongSide <= sourceLongSide/8:
		return TierEighth
	case requestedLongSide <= sourceLongSide/4:
		return TierQuarter
	case requestedLongSide <= sourceLongSide/2:
		return TierHalf
	default:
		return TierFull
	}
}

// longSide returns max(width, height).
func longSide(width, height int) int {
	if width > height {
		return width
	}
	return height
}
