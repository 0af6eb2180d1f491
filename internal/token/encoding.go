// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package token

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeSource applies spec §4.1's encoding auto-detection: a BOM wins;
// otherwise valid UTF-8 is used as-is; otherwise the buffer is decoded as
// Windows-1252. An explicit hint ("utf-8" or "windows-1252", case
// insensitive) skips detection and forces that path. It returns the
// decoded UTF-8 bytes and the encoding name actually used.
func DecodeSource(data []byte, hint string) ([]byte, string, error) {
	switch normalizeHint(hint) {
	case "utf-8":
		return bytes.TrimPrefix(data, utf8BOM), "utf-8", nil
	case "windows-1252":
		return decodeWindows1252(data), "windows-1252", nil
	}

	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], "utf-8", nil
	}
	if utf8.Valid(data) {
		return data, "utf-8", nil
	}
	return decodeWindows1252(data), "windows-1252", nil
}

func normalizeHint(hint string) string {
	switch strings.ToLower(hint) {
	case "utf8", "utf-8":
		return "utf-8"
	case "windows-1252", "cp1252", "latin1":
		return "windows-1252"
	default:
		return ""
	}
}

func decodeWindows1252(data []byte) []byte {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		// charmap.Windows1252 has a mapping for every byte value, so this
		// should be unreachable; fall back to a byte-for-byte passthrough
		// rather than fail the whole file over it.
		return data
	}
	return decoded
}
