package raw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/gen2brain/jpegn"
	"github.com/rwcarlsen/goexif/tiff"
)

// TIFF tags used to locate previews and the main image.
const (
	tagNewSubfileType        = 0x00fe
	tagImageWidth            = 0x0100
	tagImageLength           = 0x0101
	tagBitsPerSample         = 0x0102
	tagCompression           = 0x0103
	tagPhotometric           = 0x0106
	tagStripOffsets          = 0x0111
	tagSamplesPerPixel       = 0x0115
	tagStripByteCounts       = 0x0117
	tagPlanarConfiguration   = 0x011c
	tagTileOffsets           = 0x0144
	tagSubIFDs               = 0x014a
	tagJPEGInterchange       = 0x0201
	tagJPEGInterchangeLength = 0x0202
)

const (
	compressionNone    = 1
	compressionOldJPEG = 6
	compressionJPEG    = 7

	photometricRGB       = 2
	photometricCFA       = 32803
	photometricLinearRaw = 34892
)

// maxSubIFDs bounds SubIFD traversal on corrupt files.
const maxSubIFDs = 16

// TIFFProcessor is a pure-Go Processor for TIFF-based raw containers (DNG,
// NEF, CR2, ARW, ORF, RW2, PEF, SRW).
//
// It extracts embedded JPEG previews from any IFD or SubIFD, and produces a
// full bitmap only for uncompressed, already-demosaiced main images (linear
// DNG or RGB). Mosaiced sensor data needs the libraw build.
type TIFFProcessor struct {
	data  []byte
	order binary.ByteOrder
	dirs  []*tiff.Dir

	main   *tiff.Dir
	pixels []byte
	bitmap *Bitmap
	thumb  *Thumbnail
}

// NewTIFFProcessor returns an empty processor.
func NewTIFFProcessor() *TIFFProcessor {
	return &TIFFProcessor{}
}

// Open reads the container and indexes its IFD chain and SubIFDs.
func (p *TIFFProcessor) Open(path string) error {
	p.Recycle()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}

	t, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s is not a TIFF-based raw file: %w", ErrOpen, path, err)
	}
	if len(t.Dirs) == 0 {
		return fmt.Errorf("%w: %s has no image directories", ErrOpen, path)
	}

	p.data = data
	p.order = t.Order
	p.dirs = append(p.dirs, t.Dirs...)

	for _, d := range t.Dirs {
		p.dirs = append(p.dirs, p.subIFDs(d)...)
	}
	return nil
}

// subIFDs decodes the SubIFDs referenced by d. Unreadable entries are
// skipped: a broken preview directory must not hide the others.
func (p *TIFFProcessor) subIFDs(d *tiff.Dir) []*tiff.Dir {
	tag := findTag(d, tagSubIFDs)
	if tag == nil {
		return nil
	}

	var out []*tiff.Dir
	for i := 0; i < int(tag.Count) && i < maxSubIFDs; i++ {
		off, err := tag.Int64(i)
		if err != nil || off <= 0 || off >= int64(len(p.data)) {
			continue
		}
		r := bytes.NewReader(p.data)
		if _, err := r.Seek(off, io.SeekStart); err != nil {
			continue
		}
		sub, _, err := tiff.DecodeDir(r, p.order)
		if err != nil {
			continue
		}
		out = append(out, sub)
	}
	return out
}

// Unpack locates the main image and reads its strips.
func (p *TIFFProcessor) Unpack() error {
	if p.data == nil {
		return fmt.Errorf("%w: unpack before open", ErrState)
	}

	main := p.mainImage()
	if main == nil {
		return fmt.Errorf("%w: no main image directory", ErrUnpack)
	}

	if c := tagInt(main, tagCompression, compressionNone); c != compressionNone {
		return fmt.Errorf("%w: compression %d: %w", ErrUnpack, c, ErrUnsupported)
	}
	if findTag(main, tagTileOffsets) != nil {
		return fmt.Errorf("%w: tiled layout: %w", ErrUnpack, ErrUnsupported)
	}
	if pc := tagInt(main, tagPlanarConfiguration, 1); pc != 1 {
		return fmt.Errorf("%w: planar configuration %d: %w", ErrUnpack, pc, ErrUnsupported)
	}

	bits := tagInt(main, tagBitsPerSample, 1)
	if bits != 8 && bits != 16 {
		return fmt.Errorf("%w: %d bits per sample: %w", ErrUnpack, bits, ErrBitDepth)
	}

	pixels, err := p.readStrips(main)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnpack, err)
	}

	p.main = main
	p.pixels = pixels
	return nil
}

// Process converts the unpacked samples into a little-endian RGB bitmap.
func (p *TIFFProcessor) Process() error {
	if p.main == nil {
		return fmt.Errorf("%w: process before unpack", ErrState)
	}

	switch ph := tagInt(p.main, tagPhotometric, 0); ph {
	case photometricRGB, photometricLinearRaw:
	case photometricCFA:
		return fmt.Errorf("%w: mosaiced sensor data needs demosaicing, build with the libraw tag", ErrProcess)
	default:
		return fmt.Errorf("%w: photometric interpretation %d: %w", ErrProcess, ph, ErrUnsupported)
	}

	width := tagInt(p.main, tagImageWidth, 0)
	height := tagInt(p.main, tagImageLength, 0)
	colors := tagInt(p.main, tagSamplesPerPixel, 1)
	bits := tagInt(p.main, tagBitsPerSample, 8)

	need, ok := DataSize(width, height, colors, bits)
	if !ok {
		return fmt.Errorf("%w: unusable geometry %dx%d, %d samples of %d bits",
			ErrProcess, width, height, colors, bits)
	}
	if len(p.pixels) < need {
		return fmt.Errorf("%w: %dx%d image needs %d bytes, strips hold %d",
			ErrProcess, width, height, need, len(p.pixels))
	}

	data := p.pixels[:need]
	if bits == 16 && p.order != binary.LittleEndian {
		swapped := make([]byte, need)
		for i := 0; i+1 < need; i += 2 {
			binary.LittleEndian.PutUint16(swapped[i:], p.order.Uint16(data[i:]))
		}
		data = swapped
	}

	p.bitmap = &Bitmap{
		Width:  width,
		Height: height,
		Colors: colors,
		Bits:   bits,
		Data:   data,
	}
	return nil
}

// MakeImage returns the bitmap produced by Process.
func (p *TIFFProcessor) MakeImage() (*Bitmap, error) {
	if p.bitmap == nil {
		return nil, fmt.Errorf("%w: make image before process", ErrState)
	}
	return p.bitmap, nil
}

// UnpackThumb selects the largest embedded JPEG preview. Without one, an
// uncompressed RGB preview is reported as a bitmap thumbnail.
func (p *TIFFProcessor) UnpackThumb() error {
	if p.data == nil {
		return fmt.Errorf("%w: unpack thumbnail before open", ErrState)
	}

	var best, bitmap *Thumbnail
	for _, d := range p.dirs {
		th := p.jpegPreview(d)
		if th == nil {
			if bitmap == nil {
				bitmap = p.bitmapPreview(d)
			}
			continue
		}
		if best == nil || area(th.Width, th.Height) > area(best.Width, best.Height) {
			best = th
		}
	}

	switch {
	case best != nil:
		p.thumb = best
	case bitmap != nil:
		p.thumb = bitmap
	default:
		return ErrNoThumbnail
	}
	return nil
}

// MakeThumb returns the preview located by UnpackThumb.
func (p *TIFFProcessor) MakeThumb() (*Thumbnail, error) {
	if p.thumb == nil {
		return nil, fmt.Errorf("%w: make thumbnail before unpack", ErrState)
	}
	return p.thumb, nil
}

// Recycle drops every reference taken since Open.
func (p *TIFFProcessor) Recycle() {
	*p = TIFFProcessor{}
}

// mainImage returns the full-resolution, non-preview directory with the
// largest pixel count.
func (p *TIFFProcessor) mainImage() *tiff.Dir {
	var main *tiff.Dir
	var largest uint64
	for _, d := range p.dirs {
		if tagInt(d, tagNewSubfileType, 0)&1 != 0 {
			continue
		}
		if findTag(d, tagJPEGInterchange) != nil {
			continue
		}
		w, h := tagInt(d, tagImageWidth, 0), tagInt(d, tagImageLength, 0)
		if a := area(w, h); a > largest {
			main, largest = d, a
		}
	}
	return main
}

// jpegPreview returns the JPEG stream referenced by d, or nil.
func (p *TIFFProcessor) jpegPreview(d *tiff.Dir) *Thumbnail {
	var off, n int
	switch {
	case findTag(d, tagJPEGInterchange) != nil:
		off = tagInt(d, tagJPEGInterchange, 0)
		n = tagInt(d, tagJPEGInterchangeLength, 0)
	case tagInt(d, tagNewSubfileType, 0)&1 != 0:
		c := tagInt(d, tagCompression, 0)
		if c != compressionJPEG && c != compressionOldJPEG {
			return nil
		}
		offsets, counts := findTag(d, tagStripOffsets), findTag(d, tagStripByteCounts)
		if offsets == nil || counts == nil || offsets.Count != 1 {
			return nil
		}
		off = tagInt(d, tagStripOffsets, 0)
		n = tagInt(d, tagStripByteCounts, 0)
	default:
		return nil
	}

	if off <= 0 || n < 4 || off+n > len(p.data) {
		return nil
	}
	stream := p.data[off : off+n]
	if stream[0] != 0xff || stream[1] != 0xd8 {
		return nil
	}

	w, h := tagInt(d, tagImageWidth, 0), tagInt(d, tagImageLength, 0)
	if w <= 0 || h <= 0 {
		cfg, err := jpegn.DecodeConfig(bytes.NewReader(stream))
		if err != nil {
			return nil
		}
		w, h = cfg.Width, cfg.Height
	}

	return &Thumbnail{Format: FormatJPEG, Width: w, Height: h, Data: stream}
}

// bitmapPreview returns an uncompressed 8-bit RGB reduced-resolution image
// held by d, or nil.
func (p *TIFFProcessor) bitmapPreview(d *tiff.Dir) *Thumbnail {
	if tagInt(d, tagNewSubfileType, 0)&1 == 0 ||
		tagInt(d, tagCompression, compressionNone) != compressionNone ||
		tagInt(d, tagPhotometric, 0) != photometricRGB ||
		tagInt(d, tagBitsPerSample, 0) != 8 {
		return nil
	}

	pixels, err := p.readStrips(d)
	if err != nil {
		return nil
	}
	return &Thumbnail{
		Format: FormatBitmap,
		Width:  tagInt(d, tagImageWidth, 0),
		Height: tagInt(d, tagImageLength, 0),
		Data:   pixels,
	}
}

// readStrips concatenates the strips of d. A single strip is returned as a
// subslice of the file data.
func (p *TIFFProcessor) readStrips(d *tiff.Dir) ([]byte, error) {
	offsets, counts := findTag(d, tagStripOffsets), findTag(d, tagStripByteCounts)
	if offsets == nil || counts == nil || offsets.Count != counts.Count || offsets.Count == 0 {
		return nil, fmt.Errorf("missing or inconsistent strip tags")
	}

	var out []byte
	for i := 0; i < int(offsets.Count); i++ {
		off, err := offsets.Int64(i)
		if err != nil {
			return nil, err
		}
		n, err := counts.Int64(i)
		if err != nil {
			return nil, err
		}
		if off < 0 || n < 0 || off+n > int64(len(p.data)) {
			return nil, fmt.Errorf("strip %d [%d,+%d) outside file of %d bytes", i, off, n, len(p.data))
		}
		if offsets.Count == 1 {
			return p.data[off : off+n], nil
		}
		out = append(out, p.data[off:off+n]...)
	}
	return out, nil
}

func findTag(d *tiff.Dir, id uint16) *tiff.Tag {
	for _, t := range d.Tags {
		if t.Id == id {
			return t
		}
	}
	return nil
}

// tagInt returns the first value of tag id, or def when it is absent or not
// an integer.
func tagInt(d *tiff.Dir, id uint16, def int) int {
	t := findTag(d, id)
	if t == nil || t.Count == 0 {
		return def
	}
	v, err := t.Int(0)
	if err != nil {
		return def
	}
	return v
}

// area returns w*h without overflow. Negative sides count as zero.
func area(w, h int) uint64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	return uint64(w) * uint64(h)
}
