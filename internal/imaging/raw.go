package imaging

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ironsheep/photo-reader-mcp/internal/raw"
)

// RawAcquirer loads camera raw files through a raw.Processor.
type RawAcquirer struct {
	newProcessor func() raw.Processor
}

// NewRawAcquirer returns a RawAcquirer that creates processors with
// newProcessor. A nil function selects raw.NewProcessor.
func NewRawAcquirer(newProcessor func() raw.Processor) *RawAcquirer {
	if newProcessor == nil {
		newProcessor = raw.NewProcessor
	}
	return &RawAcquirer{newProcessor: newProcessor}
}

// Load decodes the raw file at path into a BGR buffer.
//
// Full mode runs the processor's unpack and process stages and converts the
// resulting 8- or 16-bit RGB bitmap. Thumbnail mode decodes the embedded JPEG
// preview at the tier chosen from the preview's declared dimensions and
// resizes it to settings.ResizeLongSideLength on the long side.
//
// The processor is recycled on every return path, and the returned buffer
// never aliases processor memory.
//
// # Errors
//
//   - ErrOpen if the container cannot be opened or is not recognized
//   - ErrDecode for any later stage; the raw stage sentinel stays in the chain
func (a *RawAcquirer) Load(path string, settings ReadSettings) (*ImageBuffer, error) {
	p := a.newProcessor()
	defer p.Recycle()

	if err := p.Open(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	var (
		buf *ImageBuffer
		err error
	)
	if settings.IsThumbnailMode {
		buf, err = loadRawThumbnail(p, settings.ResizeLongSideLength)
	} else {
		buf, err = loadRawImage(p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return buf, nil
}

func loadRawImage(p raw.Processor) (*ImageBuffer, error) {
	if err := p.Unpack(); err != nil {
		return nil, err
	}
	if err := p.Process(); err != nil {
		return nil, err
	}

	bm, err := p.MakeImage()
	if err != nil {
		return nil, err
	}
	if bm.Colors != 3 {
		return nil, fmt.Errorf("%w: %d", raw.ErrColorPlanes, bm.Colors)
	}
	if bm.Bits != 8 && bm.Bits != 16 {
		return nil, fmt.Errorf("%w: %d", raw.ErrBitDepth, bm.Bits)
	}

	buf, err := newBufferFromRGB(bm.Data, bm.Width, bm.Height, bm.Bits)
	if err != nil {
		return nil, errors.Join(raw.ErrProcess, err)
	}
	return buf, nil
}

func loadRawThumbnail(p raw.Processor, target int) (*ImageBuffer, error) {
	if err := p.UnpackThumb(); err != nil {
		return nil, err
	}

	th, err := p.MakeThumb()
	if err != nil {
		return nil, err
	}
	if th.Format != raw.FormatJPEG {
		return nil, fmt.Errorf("%w: %s", raw.ErrThumbFormat, th.Format)
	}

	tier := SelectTier(longSide(th.Width, th.Height), target)
	img, err := decodeAtTier(bytes.NewReader(th.Data), tier)
	if err != nil {
		return nil, fmt.Errorf("thumbnail at %s tier: %w", tier, err)
	}

	return newBufferFromImage(ResizeLongSide(img, target)), nil
}
