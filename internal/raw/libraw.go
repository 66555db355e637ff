//go:build cgo && libraw

package raw

/*
#cgo LDFLAGS: -lraw_r
#include <stdlib.h>
#include <libraw/libraw.h>

static enum LibRaw_image_formats processed_type(libraw_processed_image_t *img) {
	return img->type;
}
*/
import "C"

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// LibRawProcessor drives LibRaw through its C API.
//
// Memory returned by MakeImage and MakeThumb is copied into Go memory before
// the C image is freed, so Recycle only has to release the LibRaw handle.
type LibRawProcessor struct {
	lr *C.libraw_data_t
}

// NewProcessor returns a LibRaw-backed processor.
func NewProcessor() Processor {
	return NewLibRawProcessor()
}

// NewLibRawProcessor allocates a LibRaw handle.
func NewLibRawProcessor() *LibRawProcessor {
	return &LibRawProcessor{}
}

func librawError(sentinel error, code C.int) error {
	return fmt.Errorf("%w: %s (%d)", sentinel, C.GoString(C.libraw_strerror(code)), int(code))
}

// Open initialises a LibRaw handle and opens path.
func (p *LibRawProcessor) Open(path string) error {
	p.Recycle()

	p.lr = C.libraw_init(0)
	if p.lr == nil {
		return fmt.Errorf("%w: libraw_init failed", ErrOpen)
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	if rc := C.libraw_open_file(p.lr, cPath); rc != C.LIBRAW_SUCCESS {
		return librawError(ErrOpen, rc)
	}
	return nil
}

// Unpack loads the sensor data.
func (p *LibRawProcessor) Unpack() error {
	if p.lr == nil {
		return fmt.Errorf("%w: unpack before open", ErrState)
	}
	if rc := C.libraw_unpack(p.lr); rc != C.LIBRAW_SUCCESS {
		return librawError(ErrUnpack, rc)
	}
	return nil
}

// Process runs dcraw-style demosaicing.
func (p *LibRawProcessor) Process() error {
	if p.lr == nil {
		return fmt.Errorf("%w: process before open", ErrState)
	}
	if rc := C.libraw_dcraw_process(p.lr); rc != C.LIBRAW_SUCCESS {
		return librawError(ErrProcess, rc)
	}
	return nil
}

// MakeImage copies the processed bitmap into Go memory.
func (p *LibRawProcessor) MakeImage() (*Bitmap, error) {
	if p.lr == nil {
		return nil, fmt.Errorf("%w: make image before open", ErrState)
	}

	var rc C.int
	img := C.libraw_dcraw_make_mem_image(p.lr, &rc)
	if img == nil {
		return nil, librawError(ErrProcess, rc)
	}
	defer C.libraw_dcraw_clear_mem(img)

	if C.processed_type(img) != C.LIBRAW_IMAGE_BITMAP {
		return nil, ErrNotBitmap
	}

	bm := &Bitmap{
		Width:  int(img.width),
		Height: int(img.height),
		Colors: int(img.colors),
		Bits:   int(img.bits),
		Data:   C.GoBytes(unsafe.Pointer(&img.data[0]), C.int(img.data_size)),
	}

	// LibRaw stores 16-bit samples in host order.
	if bm.Bits == 16 && binary.NativeEndian.Uint16([]byte{1, 0}) != 1 {
		for i := 0; i+1 < len(bm.Data); i += 2 {
			bm.Data[i], bm.Data[i+1] = bm.Data[i+1], bm.Data[i]
		}
	}
	return bm, nil
}

// UnpackThumb loads the embedded preview.
func (p *LibRawProcessor) UnpackThumb() error {
	if p.lr == nil {
		return fmt.Errorf("%w: unpack thumbnail before open", ErrState)
	}
	if rc := C.libraw_unpack_thumb(p.lr); rc != C.LIBRAW_SUCCESS {
		return librawError(ErrNoThumbnail, rc)
	}
	return nil
}

// MakeThumb copies the embedded preview into Go memory.
func (p *LibRawProcessor) MakeThumb() (*Thumbnail, error) {
	if p.lr == nil {
		return nil, fmt.Errorf("%w: make thumbnail before open", ErrState)
	}

	var rc C.int
	img := C.libraw_dcraw_make_mem_thumb(p.lr, &rc)
	if img == nil {
		return nil, librawError(ErrNoThumbnail, rc)
	}
	defer C.libraw_dcraw_clear_mem(img)

	format := FormatUnknown
	switch C.processed_type(img) {
	case C.LIBRAW_IMAGE_JPEG:
		format = FormatJPEG
	case C.LIBRAW_IMAGE_BITMAP:
		format = FormatBitmap
	}

	return &Thumbnail{
		Format: format,
		Width:  int(p.lr.thumbnail.twidth),
		Height: int(p.lr.thumbnail.theight),
		Data:   C.GoBytes(unsafe.Pointer(&img.data[0]), C.int(img.data_size)),
	}, nil
}

// Recycle closes the LibRaw handle.
func (p *LibRawProcessor) Recycle() {
	if p.lr == nil {
		return
	}
	C.libraw_recycle(p.lr)
	C.libraw_close(p.lr)
	p.lr = nil
}
