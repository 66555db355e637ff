package imaging

import "fmt"

// ReadSettings selects the acquirer and the decode mode for one acquisition.
type ReadSettings struct {
	// IsRawImage routes the file to the raw acquirer.
	IsRawImage bool `json:"is_raw_image"`

	// IsThumbnailMode requests a fast reduced decode resized to
	// ResizeLongSideLength on the long side.
	IsThumbnailMode bool `json:"is_thumbnail_mode"`

	// ResizeLongSideLength is the target long side in pixels. Only used in
	// thumbnail mode, where it must be positive.
	ResizeLongSideLength int `json:"resize_long_side_length"`
}

// Validate reports whether the settings describe a possible acquisition.
func (s ReadSettings) Validate() error {
	if s.IsThumbnailMode && s.ResizeLongSideLength <= 0 {
		return fmt.Errorf("%w: thumbnail long side must be positive, got %d",
			ErrInvalidSettings, s.ResizeLongSideLength)
	}
	return nil
}
