//go:build cgo && libjpeg

package imaging

import (
	"bytes"
	"image"
	"io"

	"github.com/pixiv/go-libjpeg/jpeg"
)

// decodeJPEGAtTier asks libjpeg to run its scaled IDCT so pixels are
// materialized directly at the tier's resolution.
func decodeJPEGAtTier(r io.Reader, tier DecodeTier) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	opts := &jpeg.DecoderOptions{}
	if d := tier.Divisor(); d > 1 {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		opts.ScaleTarget = image.Rect(0, 0, (cfg.Width+d-1)/d, (cfg.Height+d-1)/d)
	}

	return jpeg.Decode(bytes.NewReader(data), opts)
}
