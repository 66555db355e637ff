//go:build !(cgo && libjpeg)

package imaging

import (
	"image"
	"io"

	"github.com/gen2brain/jpegn"
)

// decodeJPEGAtTier decodes the whole stream with jpegn and reduces the result
// to the tier's size.
func decodeJPEGAtTier(r io.Reader, tier DecodeTier) (image.Image, error) {
	img, err := jpegn.Decode(r)
	if err != nil {
		return nil, err
	}
	return reduceToTier(img, tier), nil
}
