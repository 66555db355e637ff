// Package imaging acquires pixel data from standard raster images and camera
// raw files for a photo viewer.
//
// Acquisition is a two-step protocol over a Session: Describe decodes a file
// into a session-owned buffer and reports its byte size, then Fetch (or
// FetchThumbnail) copies the pixels out into caller storage.
//
// # Decode Tiers
//
// In thumbnail mode the caller asks for a long side in pixels. SelectTier picks
// the coarsest decode tier (full, 1/2, 1/4 or 1/8 resolution) that still meets
// that length, the decoder materializes pixels at that tier, and
// ResizeLongSide downsamples the result to the exact target with an
// area-averaging filter. Requests larger than the source are never upscaled.
//
// For standard files the tier is chosen from the header dimensions read
// before decoding; for raw files it is chosen from the declared size of the
// embedded JPEG preview.
//
// # Pixel Layout
//
// Every ImageBuffer holds 8-bit BGR pixels, 3 bytes each, tightly packed,
// row-major, top to bottom. len(Pix) == Stride*Height always holds.
//
// # Thread Safety
//
// A Session is not safe for concurrent use. SelectTier, ResizeLongSide and the
// acquirers are stateless. GenerateThumbnails runs one Session per file.
//
// # Error Handling
//
// Failures are classified by the sentinels ErrOpen, ErrDecode, ErrMode,
// ErrNotLoaded and ErrInvalidSettings; use errors.Is. Nothing is retried.
package imaging
