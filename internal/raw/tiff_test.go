package raw

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/photo-reader-mcp/internal/raw/rawtest"
)

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestTIFFProcessor_Open_NonExistent(t *testing.T) {
	p := NewTIFFProcessor()
	defer p.Recycle()

	err := p.Open("/nonexistent/path/IMG_0001.DNG")
	if !errors.Is(err, ErrOpen) {
		t.Errorf("Open error: got %v, want ErrOpen", err)
	}
}

func TestTIFFProcessor_Open_NotTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.nef")
	if err := os.WriteFile(path, []byte("definitely not a tiff container"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewTIFFProcessor()
	defer p.Recycle()

	if err := p.Open(path); !errors.Is(err, ErrOpen) {
		t.Errorf("Open error: got %v, want ErrOpen", err)
	}
}

func TestTIFFProcessor_Thumbnail(t *testing.T) {
	preview := encodeTestJPEG(t, 160, 120)
	path := rawtest.WriteFile(t, "preview.dng", rawtest.Options{
		PreviewJPEG:   preview,
		PreviewWidth:  160,
		PreviewHeight: 120,
		MainWidth:     4,
		MainHeight:    2,
	})

	p := NewTIFFProcessor()
	defer p.Recycle()

	if err := p.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := p.UnpackThumb(); err != nil {
		t.Fatalf("UnpackThumb failed: %v", err)
	}
	th, err := p.MakeThumb()
	if err != nil {
		t.Fatalf("MakeThumb failed: %v", err)
	}

	if th.Format != FormatJPEG {
		t.Errorf("Format: got %s, want jpeg", th.Format)
	}
	if th.Width != 160 || th.Height != 120 {
		t.Errorf("declared size: got %dx%d, want 160x120", th.Width, th.Height)
	}
	if !bytes.Equal(th.Data, preview) {
		t.Error("thumbnail data does not match the embedded preview")
	}
}

func TestTIFFProcessor_Thumbnail_SizeFromJPEGHeader(t *testing.T) {
	path := rawtest.WriteFile(t, "undeclared.nef", rawtest.Options{
		PreviewJPEG: encodeTestJPEG(t, 64, 48),
	})

	p := NewTIFFProcessor()
	defer p.Recycle()

	if err := p.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := p.UnpackThumb(); err != nil {
		t.Fatalf("UnpackThumb failed: %v", err)
	}
	th, _ := p.MakeThumb()
	if th.Width != 64 || th.Height != 48 {
		t.Errorf("declared size: got %dx%d, want 64x48", th.Width, th.Height)
	}
}

func TestTIFFProcessor_Thumbnail_Bitmap(t *testing.T) {
	path := rawtest.WriteFile(t, "bitmap.dng", rawtest.Options{
		PreviewBitmap: make([]byte, 8*6*3),
		PreviewWidth:  8,
		PreviewHeight: 6,
	})

	p := NewTIFFProcessor()
	defer p.Recycle()

	if err := p.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := p.UnpackThumb(); err != nil {
		t.Fatalf("UnpackThumb failed: %v", err)
	}
	th, _ := p.MakeThumb()
	if th.Format != FormatBitmap {
		t.Errorf("Format: got %s, want bitmap", th.Format)
	}
}

func TestTIFFProcessor_Thumbnail_Missing(t *testing.T) {
	path := rawtest.WriteFile(t, "nothumb.dng", rawtest.Options{MainWidth: 2, MainHeight: 2})

	p := NewTIFFProcessor()
	defer p.Recycle()

	if err := p.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := p.UnpackThumb(); !errors.Is(err, ErrNoThumbnail) {
		t.Errorf("UnpackThumb error: got %v, want ErrNoThumbnail", err)
	}
}

func TestTIFFProcessor_LinearImage(t *testing.T) {
	pixels := []byte{
		10, 20, 30, 40, 50, 60,
		70, 80, 90, 100, 110, 120,
	}
	path := rawtest.WriteFile(t, "linear.dng", rawtest.Options{
		MainWidth:  2,
		MainHeight: 2,
		MainPixels: pixels,
	})

	p := NewTIFFProcessor()
	defer p.Recycle()

	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"Open", func() error { return p.Open(path) }},
		{"Unpack", p.Unpack},
		{"Process", p.Process},
	} {
		if err := step.fn(); err != nil {
			t.Fatalf("%s failed: %v", step.name, err)
		}
	}

	bm, err := p.MakeImage()
	if err != nil {
		t.Fatalf("MakeImage failed: %v", err)
	}

	want := &Bitmap{Width: 2, Height: 2, Colors: 3, Bits: 8, Data: pixels}
	if diff := cmp.Diff(want, bm); diff != "" {
		t.Errorf("bitmap mismatch (-want +got):\n%s", diff)
	}
}

func TestTIFFProcessor_StageErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    rawtest.Options
		stage   string
		wantErr error
	}{
		{
			name:    "compressed sensor data",
			opts:    rawtest.Options{MainWidth: 2, MainHeight: 2, MainCompression: 8},
			stage:   "unpack",
			wantErr: ErrUnpack,
		},
		{
			name:    "twelve bit samples",
			opts:    rawtest.Options{MainWidth: 2, MainHeight: 2, MainBits: 12, MainPixels: make([]byte, 18)},
			stage:   "unpack",
			wantErr: ErrBitDepth,
		},
		{
			name:    "no main image",
			opts:    rawtest.Options{PreviewJPEG: []byte{0xff, 0xd8, 0xff, 0xd9}},
			stage:   "unpack",
			wantErr: ErrUnpack,
		},
		{
			name:    "mosaiced data",
			opts:    rawtest.Options{MainWidth: 2, MainHeight: 2, MainPhotometric: rawtest.PhotometricCFA},
			stage:   "process",
			wantErr: ErrProcess,
		},
		{
			name:    "truncated strip",
			opts:    rawtest.Options{MainWidth: 4, MainHeight: 4, MainPixels: make([]byte, 10)},
			stage:   "process",
			wantErr: ErrProcess,
		},
		{
			name:    "dimensions overflow byte count",
			opts:    rawtest.Options{MainWidth: 0xFFFFFFFF, MainHeight: 0x80000000, MainPixels: make([]byte, 12)},
			stage:   "process",
			wantErr: ErrProcess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := rawtest.WriteFile(t, "bad.dng", tt.opts)

			p := NewTIFFProcessor()
			defer p.Recycle()

			if err := p.Open(path); err != nil {
				t.Fatalf("Open failed: %v", err)
			}

			err := p.Unpack()
			if tt.stage == "process" {
				if err != nil {
					t.Fatalf("Unpack failed: %v", err)
				}
				err = p.Process()
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s error: got %v, want %v", tt.stage, err, tt.wantErr)
			}
		})
	}
}

func TestTIFFProcessor_OutOfOrder(t *testing.T) {
	p := NewTIFFProcessor()

	if err := p.Unpack(); !errors.Is(err, ErrState) {
		t.Errorf("Unpack before Open: got %v, want ErrState", err)
	}
	if err := p.Process(); !errors.Is(err, ErrState) {
		t.Errorf("Process before Unpack: got %v, want ErrState", err)
	}
	if _, err := p.MakeImage(); !errors.Is(err, ErrState) {
		t.Errorf("MakeImage before Process: got %v, want ErrState", err)
	}
	if _, err := p.MakeThumb(); !errors.Is(err, ErrState) {
		t.Errorf("MakeThumb before UnpackThumb: got %v, want ErrState", err)
	}
}

func TestTIFFProcessor_Recycle(t *testing.T) {
	path := rawtest.WriteFile(t, "recycle.dng", rawtest.Options{
		PreviewJPEG: encodeTestJPEG(t, 16, 16),
	})

	p := NewTIFFProcessor()
	if err := p.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	p.Recycle()
	p.Recycle()

	if p.data != nil || p.dirs != nil || p.thumb != nil {
		t.Error("Recycle left per-file state behind")
	}
	if err := p.UnpackThumb(); !errors.Is(err, ErrState) {
		t.Errorf("UnpackThumb after Recycle: got %v, want ErrState", err)
	}
}

func TestImageFormat_String(t *testing.T) {
	tests := map[ImageFormat]string{
		FormatJPEG:     "jpeg",
		FormatBitmap:   "bitmap",
		FormatUnknown:  "unknown",
		ImageFormat(9): "unknown",
	}
	for f, want := range tests {
		if got := f.String(); got != want {
			t.Errorf("ImageFormat(%d).String(): got %s, want %s", int(f), got, want)
		}
	}
}

func TestDataSize(t *testing.T) {
	tests := []struct {
		name                        string
		width, height, colors, bits int
		want                        int
		wantOK                      bool
	}{
		{"8-bit rgb", 4, 3, 3, 8, 36, true},
		{"16-bit rgb", 4, 3, 3, 16, 72, true},
		{"zero width", 0, 3, 3, 8, 0, false},
		{"negative height", 4, -1, 3, 8, 0, false},
		{"zero bits", 4, 3, 3, 0, 0, false},
		{"tag maximum", 0xFFFFFFFF, 0x80000000, 3, 8, 0, false},
		{"area over limit", 1 << 16, 1<<15 + 1, 3, 8, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DataSize(tt.width, tt.height, tt.colors, tt.bits)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DataSize(%d, %d, %d, %d) = %d, %v; want %d, %v",
					tt.width, tt.height, tt.colors, tt.bits, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
