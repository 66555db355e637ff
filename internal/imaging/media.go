package imaging

import (
	"path/filepath"
	"sort"
	"strings"
)

// MediaKind classifies a file by extension.
type MediaKind int

const (
	MediaUnsupported MediaKind = iota
	MediaStandard
	MediaRaw
)

func (k MediaKind) String() string {
	switch k {
	case MediaStandard:
		return "standard"
	case MediaRaw:
		return "raw"
	default:
		return "unsupported"
	}
}

// Extensions handled by the standard decoders registered in decoder.go.
var standardExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// TIFF-based camera raw containers.
var rawExtensions = map[string]bool{
	".dng": true,
	".nef": true,
	".cr2": true,
	".arw": true,
	".orf": true,
	".rw2": true,
	".pef": true,
	".srw": true,
}

// ClassifyPath reports whether path names a standard image, a camera raw file
// or neither. Matching is case-insensitive on the extension only; the file is
// not opened.
func ClassifyPath(path string) MediaKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case rawExtensions[ext]:
		return MediaRaw
	case standardExtensions[ext]:
		return MediaStandard
	default:
		return MediaUnsupported
	}
}

// SettingsForPath builds read settings for path, setting IsRawImage from its
// extension.
func SettingsForPath(path string, thumbnail bool, longSide int) ReadSettings {
	return ReadSettings{
		IsRawImage:           ClassifyPath(path) == MediaRaw,
		IsThumbnailMode:      thumbnail,
		ResizeLongSideLength: longSide,
	}
}

// SupportedExtensions returns the sorted standard and raw extension lists.
func SupportedExtensions() (standard, raw []string) {
	for ext := range standardExtensions {
		standard = append(standard, ext)
	}
	for ext := range rawExtensions {
		raw = append(raw, ext)
	}
	sort.Strings(standard)
	sort.Strings(raw)
	return standard, raw
}
