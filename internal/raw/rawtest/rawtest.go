// Package rawtest builds small TIFF-based raw containers for tests.
package rawtest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Photometric interpretations understood by the raw processors.
const (
	PhotometricRGB       = 2
	PhotometricCFA       = 32803
	PhotometricLinearRaw = 34892
)

// Options describes the container to build.
type Options struct {
	// PreviewJPEG is stored in IFD0 through JPEGInterchangeFormat. Nil
	// builds a file without a JPEG preview.
	PreviewJPEG []byte

	// PreviewWidth and PreviewHeight are the declared preview dimensions.
	// Zero omits the tags.
	PreviewWidth  int
	PreviewHeight int

	// PreviewBitmap stores an uncompressed 8-bit RGB preview in IFD0
	// instead of a JPEG one. Used with PreviewWidth and PreviewHeight.
	PreviewBitmap []byte

	// Main image stored in a SubIFD. MainWidth zero omits the SubIFD.
	MainWidth       int
	MainHeight      int
	MainBits        int
	MainPhotometric int
	MainCompression int

	// MainPixels are the strip bytes, in little-endian sample order. Nil
	// fills a correctly sized zero strip.
	MainPixels []byte
}

type field struct {
	tag uint16
	typ uint16
	val uint32
}

const (
	typeShort = 3
	typeLong  = 4
)

func ifdSize(n int) int { return 2 + 12*n + 4 }

// Build returns the encoded little-endian container.
func Build(o Options) []byte {
	if o.MainBits == 0 {
		o.MainBits = 8
	}
	if o.MainPhotometric == 0 {
		o.MainPhotometric = PhotometricLinearRaw
	}
	if o.MainCompression == 0 {
		o.MainCompression = 1
	}

	samples := 3
	if o.MainPhotometric == PhotometricCFA {
		samples = 1
	}
	if o.MainWidth > 0 && o.MainPixels == nil {
		o.MainPixels = make([]byte, o.MainWidth*o.MainHeight*samples*o.MainBits/8)
	}

	preview := o.PreviewJPEG
	if preview == nil {
		preview = o.PreviewBitmap
	}

	var ifd0, ifd1 []field
	ifd0 = append(ifd0, field{0x00fe, typeLong, 1})
	if o.PreviewWidth > 0 {
		ifd0 = append(ifd0,
			field{0x0100, typeLong, uint32(o.PreviewWidth)},
			field{0x0101, typeLong, uint32(o.PreviewHeight)},
		)
	}
	if o.PreviewBitmap != nil {
		ifd0 = append(ifd0,
			field{0x0102, typeShort, 8},
			field{0x0103, typeShort, 1},
			field{0x0106, typeShort, PhotometricRGB},
			field{0x0111, typeLong, 0},
			field{0x0115, typeShort, 3},
			field{0x0117, typeLong, uint32(len(o.PreviewBitmap))},
		)
	}
	if o.MainWidth > 0 {
		ifd0 = append(ifd0, field{0x014a, typeLong, 0})
		ifd1 = []field{
			{0x00fe, typeLong, 0},
			{0x0100, typeLong, uint32(o.MainWidth)},
			{0x0101, typeLong, uint32(o.MainHeight)},
			{0x0102, typeShort, uint32(o.MainBits)},
			{0x0103, typeShort, uint32(o.MainCompression)},
			{0x0106, typeShort, uint32(o.MainPhotometric)},
			{0x0111, typeLong, 0},
			{0x0115, typeShort, uint32(samples)},
			{0x0117, typeLong, uint32(len(o.MainPixels))},
			{0x011c, typeShort, 1},
		}
	}
	if o.PreviewJPEG != nil {
		ifd0 = append(ifd0,
			field{0x0201, typeLong, 0},
			field{0x0202, typeLong, uint32(len(o.PreviewJPEG))},
		)
	}

	ifd0Off := 8
	ifd1Off := ifd0Off + ifdSize(len(ifd0))
	previewOff := ifd1Off
	if ifd1 != nil {
		previewOff += ifdSize(len(ifd1))
	}
	mainOff := previewOff + len(preview)
	if mainOff%2 != 0 {
		mainOff++
	}

	set := func(fs []field, tag uint16, v int) {
		for i := range fs {
			if fs[i].tag == tag {
				fs[i].val = uint32(v)
			}
		}
	}
	set(ifd0, 0x014a, ifd1Off)
	set(ifd0, 0x0201, previewOff)
	if o.PreviewBitmap != nil {
		set(ifd0, 0x0111, previewOff)
	}
	set(ifd1, 0x0111, mainOff)

	out := make([]byte, mainOff+len(o.MainPixels))
	le := binary.LittleEndian
	copy(out, "II")
	le.PutUint16(out[2:], 42)
	le.PutUint32(out[4:], uint32(ifd0Off))

	writeIFD(out[ifd0Off:], ifd0)
	if ifd1 != nil {
		writeIFD(out[ifd1Off:], ifd1)
	}
	copy(out[previewOff:], preview)
	copy(out[mainOff:], o.MainPixels)
	return out
}

func writeIFD(b []byte, fs []field) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].tag < fs[j].tag })

	le := binary.LittleEndian
	le.PutUint16(b, uint16(len(fs)))
	for i, f := range fs {
		e := b[2+12*i:]
		le.PutUint16(e[0:], f.tag)
		le.PutUint16(e[2:], f.typ)
		le.PutUint32(e[4:], 1)
		if f.typ == typeShort {
			le.PutUint16(e[8:], uint16(f.val))
		} else {
			le.PutUint32(e[8:], f.val)
		}
	}
	le.PutUint32(b[2+12*len(fs):], 0)
}

// WriteFile builds the container and writes it to a temp file named name.
func WriteFile(t testing.TB, name string, o Options) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, Build(o), 0o644); err != nil {
		t.Fatalf("failed to write raw fixture: %v", err)
	}
	return path
}
