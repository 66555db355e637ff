//go:build !(cgo && libraw)

package raw

// NewProcessor returns the pure-Go TIFF container processor. Build with
// -tags libraw (and cgo enabled) to use LibRaw instead.
func NewProcessor() Processor {
	return NewTIFFProcessor()
}
