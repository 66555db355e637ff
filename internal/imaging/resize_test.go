package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestResizeLongSide(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		target        int
		wantW, wantH  int
	}{
		{"landscape", 750, 500, 500, 500, 333},
		{"portrait", 300, 900, 100, 33, 100},
		{"square", 400, 400, 100, 100, 100},
		{"rounds short side up", 100, 75, 90, 90, 68},
		{"extreme aspect keeps one pixel", 1000, 2, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newPatternImage(tt.width, tt.height)
			out := ResizeLongSide(img, tt.target)

			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeLongSide_NeverUpscales(t *testing.T) {
	tests := []struct {
		name   string
		target int
	}{
		{"ratio one", 120},
		{"upscale request", 500},
		{"zero target", 0},
	}

	img := newPatternImage(120, 80)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ResizeLongSide(img, tt.target)
			if out != image.Image(img) {
				t.Error("expected the input image to be returned unchanged")
			}
		})
	}
}

func TestResizeLongSide_AveragesArea(t *testing.T) {
	want := color.RGBA{200, 60, 20, 255}
	img := newSolidImage(80, 40, want)

	out := ResizeLongSide(img, 20)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := out.At(x, y).RGBA()
			if absDiff(uint8(r>>8), want.R) > 1 || absDiff(uint8(g>>8), want.G) > 1 || absDiff(uint8(bl>>8), want.B) > 1 {
				t.Fatalf("pixel (%d,%d): got %d,%d,%d, want %v", x, y, r>>8, g>>8, bl>>8, want)
			}
		}
	}
}

// A 2x1 black/white pair reduced to one pixel averages to mid gray.
func TestResizeLongSide_BlendsNeighbours(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{254, 254, 254, 255})

	out := ResizeLongSide(img, 1)
	r, _, _, _ := out.At(0, 0).RGBA()
	if got := uint8(r >> 8); absDiff(got, 127) > 1 {
		t.Errorf("averaged value: got %d, want ~127", got)
	}
}

func TestReduceToTier(t *testing.T) {
	tests := []struct {
		tier         DecodeTier
		wantW, wantH int
	}{
		{TierFull, 101, 50},
		{TierHalf, 51, 25},
		{TierQuarter, 26, 13},
		{TierEighth, 13, 7},
	}

	img := newPatternImage(101, 50)
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			b := reduceToTier(img, tt.tier).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

// Tier decode followed by the exact resize, scaled down from the
// 6000px → eighth → 750px → 500px scenario.
func TestTierThenResize(t *testing.T) {
	img := newPatternImage(1200, 800)

	tier := SelectTier(1200, 100)
	if tier != TierEighth {
		t.Fatalf("tier: got %s, want eighth", tier)
	}

	decoded := reduceToTier(img, tier)
	if b := decoded.Bounds(); b.Dx() != 150 || b.Dy() != 100 {
		t.Fatalf("decoded: got %dx%d, want 150x100", b.Dx(), b.Dy())
	}

	out := ResizeLongSide(decoded, 100)
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 67 {
		t.Errorf("resized: got %dx%d, want 100x67", b.Dx(), b.Dy())
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
