package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/photo-reader-mcp/internal/raw"
)

// BytesPerPixel is the size of one packed BGR pixel.
const BytesPerPixel = 3

// ImageBuffer holds decoded pixels as tightly packed, interleaved 8-bit BGR
// rows, top to bottom.
//
// The invariant len(Pix) == Stride*Height and Stride >= Width*BytesPerPixel
// holds for every buffer produced by this package.
type ImageBuffer struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

// ImageHeader is the geometry record handed across the front-end boundary
// together with the pixel bytes.
type ImageHeader struct {
	Size   uint32 `json:"size"`
	Stride int32  `json:"stride"`
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
}

// Size returns the byte count of the pixel data. It is only meaningful for
// buffers that pass checkBoundary.
func (b *ImageBuffer) Size() uint32 {
	return uint32(len(b.Pix))
}

// checkBoundary reports whether b's geometry fits the ImageHeader fields.
func checkBoundary(b *ImageBuffer) error {
	return validateGeometry(uint64(len(b.Pix)), b.Stride, b.Width, b.Height)
}

func validateGeometry(size uint64, stride, width, height int) error {
	if size > math.MaxUint32 {
		return fmt.Errorf("pixel data of %d bytes exceeds the %d byte limit", size, uint64(math.MaxUint32))
	}
	if stride < 0 || width < 0 || height < 0 ||
		int64(stride) > math.MaxInt32 || int64(width) > math.MaxInt32 || int64(height) > math.MaxInt32 {
		return fmt.Errorf("geometry %dx%d stride %d out of range", width, height, stride)
	}
	return nil
}

// Header returns the boundary geometry of the buffer.
func (b *ImageBuffer) Header() ImageHeader {
	return ImageHeader{
		Size:   b.Size(),
		Stride: int32(b.Stride),
		Width:  int32(b.Width),
		Height: int32(b.Height),
	}
}

// copyInto copies the buffer into dst, reusing dst.Pix when it has enough
// capacity.
func (b *ImageBuffer) copyInto(dst *ImageBuffer) {
	dst.Pix = append(dst.Pix[:0], b.Pix...)
	dst.Stride = b.Stride
	dst.Width = b.Width
	dst.Height = b.Height
}

// ToImage rebuilds an opaque RGBA image from the BGR buffer.
func (b *ImageBuffer) ToImage() (*image.RGBA, error) {
	if b.Stride < b.Width*BytesPerPixel || len(b.Pix) < b.Stride*b.Height {
		return nil, fmt.Errorf("inconsistent buffer geometry: %dx%d stride %d size %d",
			b.Width, b.Height, b.Stride, len(b.Pix))
	}

	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*b.Stride : y*b.Stride+b.Width*BytesPerPixel]
		dst := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x := 0; x < b.Width; x++ {
			dst[x*4+0] = src[x*3+2]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+0]
			dst[x*4+3] = 0xff
		}
	}
	return img, nil
}

// newBufferFromImage packs any image.Image into a BGR buffer. The result owns
// its pixel memory; nothing aliases img. Alpha is dropped after the RGBA
// conversion, so translucent input must go through opaque first.
func newBufferFromImage(img image.Image) *ImageBuffer {
	rgba := clone.AsRGBA(img)
	bounds := rgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	buf := &ImageBuffer{
		Pix:    make([]byte, w*h*BytesPerPixel),
		Stride: w * BytesPerPixel,
		Width:  w,
		Height: h,
	}
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		dst := buf.Pix[y*buf.Stride : (y+1)*buf.Stride]
		for x := 0; x < w; x++ {
			dst[x*3+0] = src[x*4+2]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+0]
		}
	}
	return buf
}

// newBufferFromRGB packs interleaved RGB samples of the given bit depth into
// a BGR buffer. 16-bit samples are little-endian and keep their high byte.
func newBufferFromRGB(data []byte, width, height, bits int) (*ImageBuffer, error) {
	if bits != 8 && bits != 16 {
		return nil, fmt.Errorf("unsupported sample depth %d", bits)
	}
	sampleBytes := bits / 8
	need, ok := raw.DataSize(width, height, BytesPerPixel, bits)
	if !ok {
		return nil, fmt.Errorf("bitmap %dx%d at %d bits is not addressable", width, height, bits)
	}
	if len(data) < need {
		return nil, fmt.Errorf("bitmap %dx%d at %d bits needs %d bytes, have %d",
			width, height, bits, need, len(data))
	}

	buf := &ImageBuffer{
		Pix:    make([]byte, width*height*BytesPerPixel),
		Stride: width * BytesPerPixel,
		Width:  width,
		Height: height,
	}

	switch sampleBytes {
	case 1:
		for i := 0; i < width*height; i++ {
			buf.Pix[i*3+0] = data[i*3+2]
			buf.Pix[i*3+1] = data[i*3+1]
			buf.Pix[i*3+2] = data[i*3+0]
		}
	case 2:
		for i := 0; i < width*height; i++ {
			s := data[i*6 : i*6+6]
			buf.Pix[i*3+0] = s[5]
			buf.Pix[i*3+1] = s[3]
			buf.Pix[i*3+2] = s[1]
		}
	default:
		return nil, fmt.Errorf("unsupported sample depth %d", bits)
	}
	return buf, nil
}
