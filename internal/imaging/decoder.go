package imaging

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif" // Register GIF format decoder
	_ "image/png" // Register PNG format decoder
	"io"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/jpegn" // Register JPEG format decoder
	_ "golang.org/x/image/bmp"     // Register BMP format decoder
	_ "golang.org/x/image/tiff"    // Register TIFF format decoder
	_ "golang.org/x/image/webp"    // Register WebP format decoder
)

// decodeHeader reads only the header of an encoded raster image and returns its
// declared dimensions and format name.
func decodeHeader(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, format, fmt.Errorf("%s header declares %dx%d", format, cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

// decodeAtTier decodes an encoded raster stream at the given tier.
//
// JPEG streams go through decodeJPEGAtTier, which uses scaled DCT decoding
// when the build provides it. Other formats have no reduced decode mode, so
// they are decoded fully and reduced to the tier's size.
func decodeAtTier(r io.Reader, tier DecodeTier) (image.Image, error) {
	br := bufio.NewReader(r)
	if isJPEG(br) {
		return decodeJPEGAtTier(br, tier)
	}

	img, err := imaging.Decode(br)
	if err != nil {
		return nil, err
	}
	return reduceToTier(opaque(img), tier), nil
}

// opaque drops the alpha channel of img, keeping each pixel's straight
// color. Images that are already opaque are returned as is.
func opaque(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	n := imaging.Clone(img)
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xff
	}
	return n
}

func isJPEG(br *bufio.Reader) bool {
	magic, err := br.Peek(2)
	return err == nil && magic[0] == 0xff && magic[1] == 0xd8
}
