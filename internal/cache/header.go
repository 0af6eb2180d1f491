// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cache

import (
	"encoding/binary"

	"github.com/pdxcore/atlas/cerrs"
)

// Magic is the 4-byte signature every snapshot begins with (spec §3, §6).
var Magic = [4]byte{'P', 'D', 'L', 'B'}

// CurrentVersion is the only snapshot version this build reads or
// writes. An older version is rejected outright (spec §4.10) so
// callers can rebuild rather than risk decoding a stale section
// layout.
const CurrentVersion uint32 = 1

// Compression identifies the payload codec applied to every section
// after the header (spec §4.10: "the header is never compressed").
type Compression uint8

const (
	None Compression = iota
	Gzip
)

// Section tags, per spec §3.
const (
	SectionStringTable = 0x03
	SectionProvinces   = 0x01
	SectionCountries   = 0x02
	SectionCrossRefs   = 0x04
	SectionEnd         = 0xFF
)

// Header is the fixed-size snapshot header: magic, version,
// compression, creation time, entity counts, string table size and a
// CRC32 of everything written after it (spec §3 "Cache snapshot").
type Header struct {
	Magic            [4]byte
	Version          uint32
	Compression      Compression
	CreatedUnix      int64
	ProvinceCount    int32
	CountryCount     int32
	StringTableBytes int32
	CRC32            uint32
	Reserved         [3]byte
}

// headerSize is the on-disk byte size of Header: 4+4+1+8+4+4+4+4+3.
const headerSize = 36

func (h Header) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	buf[8] = byte(h.Compression)
	binary.LittleEndian.PutUint64(buf[9:17], uint64(h.CreatedUnix))
	binary.LittleEndian.PutUint32(buf[17:21], uint32(h.ProvinceCount))
	binary.LittleEndian.PutUint32(buf[21:25], uint32(h.CountryCount))
	binary.LittleEndian.PutUint32(buf[25:29], uint32(h.StringTableBytes))
	binary.LittleEndian.PutUint32(buf[29:33], h.CRC32)
	copy(buf[33:36], h.Reserved[:])
	return buf
}

func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, cerrs.ErrCacheCorrupt
	}
	var h Header
	copy(h.Magic[:], buf[0:4])
	if h.Magic != Magic {
		return Header{}, cerrs.ErrCacheBadMagic
	}
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	h.Compression = Compression(buf[8])
	h.CreatedUnix = int64(binary.LittleEndian.Uint64(buf[9:17]))
	h.ProvinceCount = int32(binary.LittleEndian.Uint32(buf[17:21]))
	h.CountryCount = int32(binary.LittleEndian.Uint32(buf[21:25]))
	h.StringTableBytes = int32(binary.LittleEndian.Uint32(buf[25:29]))
	h.CRC32 = binary.LittleEndian.Uint32(buf[29:33])
	copy(h.Reserved[:], buf[33:36])
	if h.Version != CurrentVersion {
		return h, cerrs.ErrCacheBadVersion
	}
	return h, nil
}
