// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package bitmap_test

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/pdxcore/atlas/internal/bitmap"
)

func tempFile(t *testing.T) (*os.File, error) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "bitmap-*.bmp")
	return f, err
}

// buildBMP24 constructs a minimal, uncompressed 24bpp bottom-up BMP
// in memory. colorAt receives top-left-origin consumer coordinates.
func buildBMP24(width, height int, colorAt func(x, y int) [3]byte) []byte {
	stride := ((width*24 + 31) / 32) * 4
	pixelDataOff := 14 + 40
	pixelDataSize := stride * height
	buf := make([]byte, pixelDataOff+pixelDataSize)

	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:6], uint32(len(buf)))
	binary.LittleEndian.PutUint32(buf[10:14], uint32(pixelDataOff))

	info := buf[14:54]
	binary.LittleEndian.PutUint32(info[0:4], 40)
	binary.LittleEndian.PutUint32(info[4:8], uint32(width))
	binary.LittleEndian.PutUint32(info[8:12], uint32(height)) // positive => bottom-up
	binary.LittleEndian.PutUint16(info[12:14], 1)
	binary.LittleEndian.PutUint16(info[14:16], 24)

	for y := 0; y < height; y++ {
		fileRow := height - 1 - y // bottom-up: image row y lives at file row height-1-y
		for x := 0; x < width; x++ {
			c := colorAt(x, y)
			o := pixelDataOff + fileRow*stride + x*3
			buf[o] = c[2]   // B
			buf[o+1] = c[1] // G
			buf[o+2] = c[0] // R
		}
	}
	return buf
}

func TestParseHeader24bpp(t *testing.T) {
	data := buildBMP24(2, 2, func(x, y int) [3]byte { return [3]byte{0, 0, 0} })
	h, err := bitmap.ParseHeader(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Width != 2 || h.Height != 2 || h.BitsPerPixel != 24 {
		t.Fatalf("bad header: %+v", h)
	}
	if h.Origin != bitmap.BottomLeft {
		t.Errorf("expected BottomLeft origin for positive height, got %v", h.Origin)
	}
}

func TestGetPixelNormalisesToTopLeft(t *testing.T) {
	colors := map[[2]int][3]byte{
		{0, 0}: {255, 0, 0},
		{1, 0}: {0, 255, 0},
		{0, 1}: {0, 0, 255},
		{1, 1}: {255, 255, 255},
	}
	data := buildBMP24(2, 2, func(x, y int) [3]byte { return colors[[2]int{x, y}] })

	// Write to a temp file since Open expects a path.
	path := writeTemp(t, data)
	r, err := bitmap.Open(path, bitmap.FullProcessing)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	p, err := r.GetPixel(0, 0)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if p.R != 255 || p.G != 0 || p.B != 0 {
		t.Errorf("expected red at (0,0), got %+v", p)
	}

	p, err = r.GetPixel(0, 1)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if p.R != 0 || p.G != 0 || p.B != 255 {
		t.Errorf("expected blue at (0,1), got %+v", p)
	}
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	f, err := tempFile(t)
	if err != nil {
		t.Fatalf("tempFile: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestIterVisitsAllPixelsInOrder(t *testing.T) {
	data := buildBMP24(2, 2, func(x, y int) [3]byte { return [3]byte{byte(x), byte(y), 0} })
	path := writeTemp(t, data)
	r, err := bitmap.Open(path, bitmap.FullProcessing)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	var seen [][2]int
	err = r.Iter(func(p bitmap.Pixel) bool {
		seen = append(seen, [2]int{int(p.X), int(p.Y)})
		return true
	})
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	want := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if len(seen) != len(want) {
		t.Fatalf("got %d pixels, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("pixel %d: got %v want %v", i, seen[i], want[i])
		}
	}
}

func TestRgbToProvinceInterpreter(t *testing.T) {
	m := bitmap.RgbToProvince{ColorMap: map[uint32]int32{bitmap.Pixel{R: 1, G: 2, B: 3}.Rgb(): 42}, Stats: &bitmap.RgbStats{}}
	id := m.Interpret(bitmap.Pixel{R: 1, G: 2, B: 3})
	if id != 42 {
		t.Errorf("expected 42, got %d", id)
	}
	id = m.Interpret(bitmap.Pixel{R: 9, G: 9, B: 9})
	if id != -1 {
		t.Errorf("expected sentinel -1 for unmapped colour, got %d", id)
	}
	if m.Stats.Matched != 1 || m.Stats.Unmatched != 1 {
		t.Errorf("bad stats: %+v", m.Stats)
	}
}

func TestGrayscaleToHeightLinearMapping(t *testing.T) {
	g := bitmap.GrayscaleToHeight{Channel: bitmap.ChannelRed, Min: 0, Max: 1000}
	h := g.Interpret(bitmap.Pixel{R: 255})
	if h != 1000 {
		t.Errorf("expected 1000 at max channel value, got %v", h)
	}
	h = g.Interpret(bitmap.Pixel{R: 0})
	if h != 0 {
		t.Errorf("expected 0 at min channel value, got %v", h)
	}
}

func TestBinaryMaskThreshold(t *testing.T) {
	mask := bitmap.BinaryMask{Kind: bitmap.MaskLuminanceThreshold, Threshold: 128}
	if !mask.Interpret(bitmap.Pixel{R: 255, G: 255, B: 255}) {
		t.Errorf("expected white to pass a mid luminance threshold")
	}
	if mask.Interpret(bitmap.Pixel{R: 0, G: 0, B: 0}) {
		t.Errorf("expected black to fail the threshold")
	}
}

func TestBitmapDataStorageSelection(t *testing.T) {
	// 10x10 grid, only 5 non-zero cells => 5% density => sparse.
	sparse := bitmap.NewBitmapData[int32](10, 10, 0)
	for i := 0; i < 5; i++ {
		sparse.Set(i, 0, int32(i+1))
	}
	sparse.Finalize()
	if sparse.IsDense() {
		t.Errorf("expected sparse storage at 5%% density")
	}
	if sparse.Get(0, 0) != 1 {
		t.Errorf("expected value 1 at (0,0), got %d", sparse.Get(0, 0))
	}

	// 10x10 grid, 50 non-zero cells => 50% density => dense.
	dense := bitmap.NewBitmapData[int32](10, 10, 0)
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			dense.Set(x, y, int32(x+y+1))
		}
	}
	dense.Finalize()
	if !dense.IsDense() {
		t.Errorf("expected dense storage at 50%% density")
	}
}
