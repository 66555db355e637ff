package imaging

import (
	"fmt"
	"io"
	"os"
)

// StandardAcquirer loads standard raster files (JPEG, PNG, BMP, TIFF, GIF,
// WebP).
type StandardAcquirer struct{}

// NewStandardAcquirer returns a StandardAcquirer.
func NewStandardAcquirer() *StandardAcquirer {
	return &StandardAcquirer{}
}

// Load decodes the file at path into a BGR buffer.
//
// In full mode the image is decoded at full resolution. In thumbnail mode the
// native size is read from the header first, the file is decoded at the
// tier chosen by SelectTier and the result is resized to
// settings.ResizeLongSideLength on the long side.
//
// # Errors
//
//   - ErrOpen if the file cannot be opened or rewound
//   - ErrDecode if the data is not a supported raster format
func (a *StandardAcquirer) Load(path string, settings ReadSettings) (*ImageBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	if !settings.IsThumbnailMode {
		img, err := decodeAtTier(f, TierFull)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
		}
		return newBufferFromImage(img), nil
	}

	cfg, _, err := decodeHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewind %s: %w", ErrOpen, path, err)
	}

	tier := SelectTier(longSide(cfg.Width, cfg.Height), settings.ResizeLongSideLength)
	img, err := decodeAtTier(f, tier)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s tier: %w", ErrDecode, path, tier, err)
	}

	return newBufferFromImage(ResizeLongSide(img, settings.ResizeLongSideLength)), nil
}
