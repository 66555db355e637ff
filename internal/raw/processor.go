package raw

import (
	"errors"
	"math"
)

// Stage errors. Each processing stage reports its own sentinel so callers can
// tell where the pipeline gave up; they are wrapped with file and tag detail.
var (
	ErrOpen        = errors.New("raw: cannot open container")
	ErrUnpack      = errors.New("raw: unpack failed")
	ErrProcess     = errors.New("raw: processing failed")
	ErrNotBitmap   = errors.New("raw: processed image is not a bitmap")
	ErrColorPlanes = errors.New("raw: unsupported color plane count")
	ErrBitDepth    = errors.New("raw: unsupported bit depth")
	ErrNoThumbnail = errors.New("raw: no embedded thumbnail")
	ErrThumbFormat = errors.New("raw: embedded thumbnail is not JPEG")
	ErrUnsupported = errors.New("raw: unsupported data layout")
	ErrState       = errors.New("raw: stage called out of order")
)

// ImageFormat identifies the encoding of a processed image or thumbnail.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	FormatJPEG
	FormatBitmap
)

func (f ImageFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatBitmap:
		return "bitmap"
	default:
		return "unknown"
	}
}

// Bitmap is a processed, interleaved RGB image. 16-bit samples are stored
// little-endian.
type Bitmap struct {
	Width  int
	Height int
	Colors int
	Bits   int
	Data   []byte
}

// maxPixels bounds the pixel count of any image geometry accepted from a
// container.
const maxPixels = 1 << 31

// DataSize returns the byte length of an interleaved width×height image with
// colors samples of bits each. ok is false when a dimension is not positive
// or the image is too large to address.
func DataSize(width, height, colors, bits int) (n int, ok bool) {
	if width <= 0 || height <= 0 || colors <= 0 || bits <= 0 {
		return 0, false
	}
	if uint64(width) > maxPixels || uint64(height) > maxPixels || colors > 1<<16 || bits > 1<<16 {
		return 0, false
	}
	if uint64(width)*uint64(height) > maxPixels {
		return 0, false
	}

	size := uint64(width) * uint64(height) * uint64(colors) * uint64(bits) / 8
	if size > math.MaxInt {
		return 0, false
	}
	return int(size), true
}

// Thumbnail is an embedded preview image. Width and Height are the
// dimensions declared by the container, available before any decode.
type Thumbnail struct {
	Format ImageFormat
	Width  int
	Height int
	Data   []byte
}

// Processor is a raw decoding pipeline modelled on LibRaw's staged API.
//
// A Processor handles one file at a time. Data returned by MakeImage and
// MakeThumb may alias processor memory and is only valid until Recycle, which
// releases everything acquired since Open. Recycle must be safe to call at
// any point, including after a failed stage or more than once.
type Processor interface {
	// Open reads and validates the raw container at path.
	Open(path string) error

	// Unpack loads the sensor data of the main image.
	Unpack() error

	// Process turns unpacked sensor data into an RGB image.
	Process() error

	// MakeImage returns the processed image.
	MakeImage() (*Bitmap, error)

	// UnpackThumb locates the embedded preview image.
	UnpackThumb() error

	// MakeThumb returns the embedded preview located by UnpackThumb.
	MakeThumb() (*Thumbnail, error)

	// Recycle releases all per-file state.
	Recycle()
}
