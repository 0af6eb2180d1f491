// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package bitmap

import (
	"encoding/binary"

	"github.com/pdxcore/atlas/cerrs"
)

// Origin identifies which corner of the pixel data is (0,0) in file
// storage order, before the reader normalises it to top-left.
type Origin int

const (
	TopLeft Origin = iota
	BottomLeft
)

// RGBA is one palette entry (8-bit paletted BMPs only).
type RGBA struct {
	R, G, B, A uint8
}

// Header is a BMP's decoded file + info header, per spec §3's
// RasterHeader.
type Header struct {
	Width         int
	Height        int
	BitsPerPixel  int
	RowStride     int
	Origin        Origin
	Palette       []RGBA
	PixelDataOff  int
	compression   uint32
}

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
)

// ParseHeader decodes the 14-byte BITMAPFILEHEADER and 40-byte
// BITMAPINFOHEADER (plus palette, for 8bpp images) from the start of
// data. It does not read pixel data.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < fileHeaderSize+infoHeaderSize {
		return nil, cerrs.ErrBmpTruncated
	}
	if data[0] != 'B' || data[1] != 'M' {
		return nil, cerrs.ErrBmpBadMagic
	}
	offBits := int(binary.LittleEndian.Uint32(data[10:14]))

	info := data[fileHeaderSize : fileHeaderSize+infoHeaderSize]
	width := int(int32(binary.LittleEndian.Uint32(info[4:8])))
	rawHeight := int32(binary.LittleEndian.Uint32(info[8:12]))
	bpp := int(binary.LittleEndian.Uint16(info[14:16]))
	compression := binary.LittleEndian.Uint32(info[16:20])
	clrUsed := binary.LittleEndian.Uint32(info[32:36])

	if bpp != 8 && bpp != 24 && bpp != 32 {
		return nil, cerrs.ErrBmpUnsupportedBpp
	}
	if compression != 0 {
		return nil, cerrs.ErrBmpCompressed
	}

	origin := BottomLeft
	height := int(rawHeight)
	if rawHeight < 0 {
		origin = TopLeft
		height = int(-rawHeight)
	}

	stride := ((width*bpp + 31) / 32) * 4

	h := &Header{
		Width:        width,
		Height:       height,
		BitsPerPixel: bpp,
		RowStride:    stride,
		Origin:       origin,
		PixelDataOff: offBits,
		compression:  compression,
	}

	if bpp == 8 {
		paletteStart := fileHeaderSize + infoHeaderSize
		n := int(clrUsed)
		if n == 0 {
			n = 256
		}
		need := paletteStart + n*4
		if offBits > 0 && offBits < need {
			// some encoders write a smaller palette than 256 entries and
			// set bfOffBits accordingly; trust bfOffBits as the true
			// palette end when it's smaller.
			need = offBits
			n = (need - paletteStart) / 4
		}
		if len(data) < need {
			return nil, cerrs.ErrBmpTruncated
		}
		h.Palette = make([]RGBA, n)
		for i := 0; i < n; i++ {
			o := paletteStart + i*4
			h.Palette[i] = RGBA{R: data[o+2], G: data[o+1], B: data[o], A: 255}
		}
	}

	if h.PixelDataOff <= 0 || h.PixelDataOff > len(data) {
		return nil, cerrs.ErrBmpBadOffset
	}
	if len(data) < h.PixelDataOff+h.RowStride*h.Height {
		return nil, cerrs.ErrBmpTruncated
	}
	return h, nil
}
