// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cache

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/token"
)

// writer accumulates one section's payload. String fields written
// through idx are interned on write and stored as compact int32
// indices (spec §3: "index -1 denotes null/absent"); id writes an
// already-interned ID verbatim, and raw writes an uninterned
// length-prefixed string.
type writer struct {
	buf bytes.Buffer
	tbl *intern.Table
}

func newWriter(tbl *intern.Table) *writer { return &writer{tbl: tbl} }

func (w *writer) i32(v int32)  { _ = binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *writer) u32(v uint32) { _ = binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *writer) i64(v int64)  { _ = binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *writer) f32(v float32) { _ = binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *writer) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// idx interns s (empty string interns to NullID so an absent optional
// field round-trips as -1, per spec §3) and writes its id.
func (w *writer) idx(s string) {
	if s == "" {
		w.i32(int32(intern.NullID))
		return
	}
	w.i32(int32(w.tbl.Intern(s)))
}

// id writes an already-resolved intern.ID verbatim (fields extracted
// as intern.ID, such as Owner/Culture/Religion, are not re-interned).
func (w *writer) id(id intern.ID) { w.i32(int32(id)) }

// raw writes an uninterned, length-prefixed string: used for fields
// unlikely to repeat often enough to benefit from interning, such as
// free-form history-change values and adjacency comments.
func (w *writer) raw(s string) {
	b := []byte(s)
	w.i32(int32(len(b)))
	w.buf.Write(b)
}

func (w *writer) date(d token.DateValue) {
	w.i32(int32(d.Year))
	w.i32(int32(d.Month))
	w.i32(int32(d.Day))
}

func (w *writer) stringSet(m map[string]bool) {
	w.i32(int32(len(m)))
	for s := range m {
		w.idx(s)
	}
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }

// reader walks a decoded section payload in the exact order writer
// produced it.
type reader struct {
	r   *bytes.Reader
	tbl *intern.Table
}

func newReader(data []byte, tbl *intern.Table) *reader {
	return &reader{r: bytes.NewReader(data), tbl: tbl}
}

func (r *reader) i32() int32 {
	var v int32
	_ = binary.Read(r.r, binary.LittleEndian, &v)
	return v
}
func (r *reader) u32() uint32 {
	var v uint32
	_ = binary.Read(r.r, binary.LittleEndian, &v)
	return v
}
func (r *reader) i64() int64 {
	var v int64
	_ = binary.Read(r.r, binary.LittleEndian, &v)
	return v
}
func (r *reader) f32() float32 {
	var v float32
	_ = binary.Read(r.r, binary.LittleEndian, &v)
	return v
}
func (r *reader) u8() uint8 {
	b, _ := r.r.ReadByte()
	return b
}
func (r *reader) boolean() bool { return r.u8() != 0 }

func (r *reader) idx() string {
	id := intern.ID(r.i32())
	s, _ := r.tbl.Resolve(id)
	return s
}

func (r *reader) id() intern.ID { return intern.ID(r.i32()) }

func (r *reader) raw() string {
	n := int(r.i32())
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	_, _ = io.ReadFull(r.r, b)
	return string(b)
}

func (r *reader) date() token.DateValue {
	y, m, d := r.i32(), r.i32(), r.i32()
	return token.DateValue{Year: int(y), Month: int(m), Day: int(d)}
}

func (r *reader) stringSet() map[string]bool {
	n := int(r.i32())
	out := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		out[r.idx()] = true
	}
	return out
}

func (r *reader) err() error {
	if r.r.Len() < 0 {
		return cerrs.ErrCacheCorrupt
	}
	return nil
}
