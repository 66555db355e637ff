package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// newPatternImage creates an image with a different color in each quadrant:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func newPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.RGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// newSolidImage creates a single-color image.
func newSolidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// writePNG encodes img into a temp file and returns its path.
func writePNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return path
}

// encodeJPEG returns img as a baseline JPEG stream.
func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// writeJPEG encodes img into a temp file and returns its path.
func writeJPEG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, encodeJPEG(t, img), 0o644); err != nil {
		t.Fatalf("failed to write jpeg: %v", err)
	}
	return path
}

// writeGarbage writes a file that no decoder accepts.
func writeGarbage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

// assertBufferInvariant checks the packed BGR geometry invariant.
func assertBufferInvariant(t *testing.T, buf *ImageBuffer) {
	t.Helper()
	if buf.Stride < buf.Width*BytesPerPixel {
		t.Errorf("stride %d smaller than width %d * %d", buf.Stride, buf.Width, BytesPerPixel)
	}
	if len(buf.Pix) != buf.Stride*buf.Height {
		t.Errorf("size %d != stride %d * height %d", len(buf.Pix), buf.Stride, buf.Height)
	}
}
