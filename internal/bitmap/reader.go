// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package bitmap

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/pdxcore/atlas/cerrs"
)

// Mode selects how much of the file the Reader is expected to touch,
// per spec §4.5.
type Mode int

const (
	HeaderOnly Mode = iota
	Sampling
	FullProcessing
	LazyLoading
)

// Reader opens a BMP file and exposes its header and pixels. Backing
// storage prefers a memory mapping; if mapping the file fails (e.g. an
// empty file, or a filesystem that doesn't support mmap) it falls back
// to reading the whole file into a buffer. Either way GetPixel/Iter
// behave identically; the choice is invisible to callers.
type Reader struct {
	Header *Header
	Mode   Mode

	data   []byte
	mapped mmap.MMap
	file   *os.File
}

// Open opens path in the given mode and parses its header.
func Open(path string, mode Mode) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{Mode: mode, file: f}
	if m, err := mmap.Map(f, mmap.RDONLY, 0); err == nil {
		r.mapped = m
		r.data = []byte(m)
	} else {
		buf, readErr := io.ReadAll(f)
		if readErr != nil {
			f.Close()
			return nil, readErr
		}
		r.data = buf
	}

	h, err := ParseHeader(r.data)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Header = h
	return r, nil
}

// Close releases the mapping/file handle.
func (r *Reader) Close() error {
	var err error
	if r.mapped != nil {
		err = r.mapped.Unmap()
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// fileRow converts a top-left-origin consumer row to the file's
// on-disk row, undoing BMP's default bottom-up storage.
func (r *Reader) fileRow(y uint32) int {
	if r.Header.Origin == TopLeft {
		return int(y)
	}
	return r.Header.Height - 1 - int(y)
}

// GetPixel returns the pixel at consumer coordinates (x, y), with
// (0, 0) at the top-left regardless of the file's storage order.
// Valid in any Mode; LazyLoading is simply the mode name for readers
// that only ever call this method.
func (r *Reader) GetPixel(x, y uint32) (Pixel, error) {
	h := r.Header
	if int(x) >= h.Width || int(y) >= h.Height {
		return Pixel{}, cerrs.ErrBmpTruncated
	}
	row := r.fileRow(y)
	bytesPerPixel := h.BitsPerPixel / 8
	offset := h.PixelDataOff + row*h.RowStride + int(x)*bytesPerPixel
	if offset < 0 || offset+bytesPerPixel > len(r.data) {
		return Pixel{}, cerrs.ErrBmpTruncated
	}

	switch h.BitsPerPixel {
	case 8:
		idx := int(r.data[offset])
		if idx < len(h.Palette) {
			c := h.Palette[idx]
			return Pixel{R: c.R, G: c.G, B: c.B, A: c.A, X: x, Y: y}, nil
		}
		return Pixel{X: x, Y: y}, nil
	case 24:
		return Pixel{B: r.data[offset], G: r.data[offset+1], R: r.data[offset+2], A: 255, X: x, Y: y}, nil
	case 32:
		return Pixel{B: r.data[offset], G: r.data[offset+1], R: r.data[offset+2], A: r.data[offset+3], X: x, Y: y}, nil
	default:
		return Pixel{}, cerrs.ErrBmpUnsupportedBpp
	}
}

// Iter calls fn for every pixel in top-left-origin row-major order
// (FullProcessing mode). It stops early if fn returns false.
func (r *Reader) Iter(fn func(Pixel) bool) error {
	for y := uint32(0); y < uint32(r.Header.Height); y++ {
		for x := uint32(0); x < uint32(r.Header.Width); x++ {
			p, err := r.GetPixel(x, y)
			if err != nil {
				return err
			}
			if !fn(p) {
				return nil
			}
		}
	}
	return nil
}

// Sample calls fn for a fixed grid of pixels spaced step apart in each
// axis (Sampling mode).
func (r *Reader) Sample(step int, fn func(Pixel) bool) error {
	if step <= 0 {
		step = 1
	}
	w, h := r.Header.Width, r.Header.Height
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			p, err := r.GetPixel(uint32(x), uint32(y))
			if err != nil {
				return err
			}
			if !fn(p) {
				return nil
			}
		}
	}
	return nil
}
