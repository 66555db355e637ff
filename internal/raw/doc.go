// Package raw reads camera raw containers for the acquisition pipeline.
//
// The Processor interface mirrors LibRaw's staged API: Open, then either
// Unpack/Process/MakeImage for a full demosaiced bitmap or
// UnpackThumb/MakeThumb for the embedded preview, and finally Recycle.
//
// Two implementations exist:
//   - TIFFProcessor (default): pure Go, walks the TIFF IFD chain and SubIFDs
//     with goexif. Extracts embedded JPEG previews from any TIFF-based raw
//     format and decodes uncompressed linear DNG/RGB main images.
//   - LibRawProcessor (build tag "libraw", cgo): full demosaicing of every
//     format LibRaw supports. Requires libraw headers and libraw_r.
//
// NewProcessor returns whichever implementation the build selected.
package raw
