package imaging

import "errors"

// Error kinds returned by the acquirers and the Session.
//
// Errors are wrapped with additional context (path, failing stage), so callers
// should classify them with errors.Is rather than comparing directly.
var (
	// ErrOpen reports an unreadable or missing file, or a container format
	// that is not recognized.
	ErrOpen = errors.New("cannot open image")

	// ErrDecode reports that the decode pipeline rejected the data: failed
	// unpack or demosaic, unsupported bit depth or color-plane count, a
	// non-JPEG embedded thumbnail, or an unparsable raster file.
	ErrDecode = errors.New("cannot decode image")

	// ErrMode reports a thumbnail fetch on a session that was not loaded in
	// thumbnail mode.
	ErrMode = errors.New("image was not loaded in thumbnail mode")

	// ErrNotLoaded reports a fetch before any successful Describe.
	ErrNotLoaded = errors.New("no image loaded")

	// ErrInvalidSettings reports a thumbnail request without a positive
	// long-side length.
	ErrInvalidSettings = errors.New("invalid read settings")
)
