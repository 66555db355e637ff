package imaging

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
)

// ImageInfo describes an image file from its header alone, without decoding
// any pixels.
type ImageInfo struct {
	// Kind is "standard" or "raw", following the acquirer that read the file.
	Kind string `json:"kind"`

	// Format is the detected container or codec, e.g. "png", "jpeg" or, for
	// raw files, the file extension ("nef", "dng").
	Format string `json:"format"`

	// Width and Height are the native dimensions for standard files and the
	// declared preview dimensions for raw files.
	Width  int `json:"width"`
	Height int `json:"height"`

	// ColorDepth is "8-bit" or "16-bit" per channel. Empty for raw files.
	ColorDepth string `json:"color_depth,omitempty"`

	// PreviewFormat is the encoding of a raw file's embedded preview.
	PreviewFormat string `json:"preview_format,omitempty"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Inspect reads the header of the standard image at path.
//
// # Errors
//
//   - ErrOpen if the file cannot be opened
//   - ErrDecode if the header is not a supported raster format
func (a *StandardAcquirer) Inspect(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	cfg, format, err := decodeHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	return &ImageInfo{
		Kind:          MediaStandard.String(),
		Format:        format,
		Width:         cfg.Width,
		Height:        cfg.Height,
		ColorDepth:    colorDepth(cfg.ColorModel),
		FileSizeBytes: stat.Size(),
	}, nil
}

// Inspect opens the raw file at path and reads the declared size of its
// embedded preview. Sensor data is not unpacked.
//
// # Errors
//
//   - ErrOpen if the file cannot be opened or is not recognized
//   - ErrDecode if the file has no usable preview
func (a *RawAcquirer) Inspect(path string) (*ImageInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	p := a.newProcessor()
	defer p.Recycle()

	if err := p.Open(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if err := p.UnpackThumb(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	th, err := p.MakeThumb()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	return &ImageInfo{
		Kind:          MediaRaw.String(),
		Format:        strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Width:         th.Width,
		Height:        th.Height,
		PreviewFormat: th.Format.String(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// colorDepth reports the per-channel depth implied by a color model.
func colorDepth(m color.Model) string {
	switch m {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return "16-bit"
	default:
		return "8-bit"
	}
}
