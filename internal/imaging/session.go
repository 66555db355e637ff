package imaging

import (
	"fmt"

	"github.com/ironsheep/photo-reader-mcp/internal/raw"
)

// acquirer decodes one file into a fresh buffer. RawAcquirer and
// StandardAcquirer are the only implementations.
type acquirer interface {
	Load(path string, settings ReadSettings) (*ImageBuffer, error)
	Inspect(path string) (*ImageInfo, error)
}

// Session holds the most recently described image between a Describe call
// and the Fetch calls that copy it out.
//
// A Session is not safe for concurrent use. Use one Session per logical
// request, or serialize access externally.
//
// # Example Usage
//
//	s := imaging.NewSession()
//	size, err := s.Describe("/photos/IMG_0001.NEF", imaging.ReadSettings{
//	    IsRawImage:           true,
//	    IsThumbnailMode:      true,
//	    ResizeLongSideLength: 500,
//	})
//	if err != nil {
//	    return err
//	}
//	var out imaging.ImageBuffer
//	if err := s.FetchThumbnail(&out); err != nil {
//	    return err
//	}
type Session struct {
	raw      acquirer
	standard acquirer

	settings ReadSettings
	buf      *ImageBuffer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRawProcessor makes the session's raw acquirer create processors with
// newProcessor instead of raw.NewProcessor.
func WithRawProcessor(newProcessor func() raw.Processor) SessionOption {
	return func(s *Session) {
		s.raw = NewRawAcquirer(newProcessor)
	}
}

// NewSession returns an empty session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		raw:      NewRawAcquirer(nil),
		standard: NewStandardAcquirer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Describe loads the image at path and returns the byte size of its decoded
// pixels.
//
// The settings pick the acquirer (raw or standard) and the decode mode. On
// success the session's buffer and settings are replaced wholesale. On failure
// the error from the acquirer is returned unchanged and the session keeps its
// previous state; callers should still treat it as not ready to fetch. A
// decoded image whose size or geometry does not fit ImageHeader fails with
// ErrDecode.
func (s *Session) Describe(path string, settings ReadSettings) (int, error) {
	if err := settings.Validate(); err != nil {
		return 0, err
	}

	a := s.standard
	if settings.IsRawImage {
		a = s.raw
	}

	buf, err := a.Load(path, settings)
	if err != nil {
		return 0, err
	}
	if err := checkBoundary(buf); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	s.settings = settings
	s.buf = buf
	return len(buf.Pix), nil
}

// Fetch copies the loaded image into dst.
//
// Returns ErrNotLoaded if no Describe has succeeded yet.
func (s *Session) Fetch(dst *ImageBuffer) error {
	if s.buf == nil {
		return ErrNotLoaded
	}
	s.buf.copyInto(dst)
	return nil
}

// FetchThumbnail copies the loaded image into dst, like Fetch, but only if it
// was described in thumbnail mode.
//
// Returns ErrMode when the last successful Describe was not in thumbnail mode
// and ErrNotLoaded when there has been none.
func (s *Session) FetchThumbnail(dst *ImageBuffer) error {
	if s.buf == nil {
		return ErrNotLoaded
	}
	if !s.settings.IsThumbnailMode {
		return fmt.Errorf("%w: last describe used full mode", ErrMode)
	}
	s.buf.copyInto(dst)
	return nil
}

// Settings returns the settings of the last successful Describe and whether
// there has been one.
func (s *Session) Settings() (ReadSettings, bool) {
	return s.settings, s.buf != nil
}

// Header returns the geometry of the loaded image without copying its pixels,
// and whether an image is loaded.
func (s *Session) Header() (ImageHeader, bool) {
	if s.buf == nil {
		return ImageHeader{}, false
	}
	return s.buf.Header(), true
}

// Inspect reads the header of the file at path with the raw or standard
// acquirer. The loaded image, if any, is left untouched.
func (s *Session) Inspect(path string, isRaw bool) (*ImageInfo, error) {
	if isRaw {
		return s.raw.Inspect(path)
	}
	return s.standard.Inspect(path)
}
