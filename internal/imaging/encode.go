package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
)

// Encodings accepted by EncodeBuffer.
const (
	EncodingPNG = "png"
	EncodingBGR = "bgr"
)

// FetchResult is a fetched image ready for a text transport: the boundary
// header plus the pixels, base64 encoded.
type FetchResult struct {
	ImageHeader
	Encoding    string `json:"encoding"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBuffer encodes buf for transport. EncodingBGR ships the packed pixel
// bytes unchanged; EncodingPNG (the default) rebuilds an RGBA image and
// encodes it as PNG.
func EncodeBuffer(buf *ImageBuffer, encoding string) (*FetchResult, error) {
	res := &FetchResult{ImageHeader: buf.Header()}

	switch encoding {
	case "", EncodingPNG:
		img, err := buf.ToImage()
		if err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := png.Encode(&out, img); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		res.Encoding = EncodingPNG
		res.MimeType = "image/png"
		res.ImageBase64 = base64.StdEncoding.EncodeToString(out.Bytes())
	case EncodingBGR:
		res.Encoding = EncodingBGR
		res.MimeType = "application/octet-stream"
		res.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Pix)
	default:
		return nil, fmt.Errorf("unknown encoding: %s", encoding)
	}
	return res, nil
}
