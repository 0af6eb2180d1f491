// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/pdxcore/atlas/internal/stdlib"
)

// Key is the cache key for one load request: a SHA-256 digest over
// the sorted list of (path, last-modified-utc-ticks, size-bytes)
// triples of every input file, including active mods' files (spec
// §4.10). It is truncated to 16 bytes (32 hex characters) for use as
// both the index's primary key and the snapshot filename stem (spec
// §6: "<cache_dir>/<32-char-key>.cache").
type Key string

// ComputeKey derives a Key from stamps, which the caller has already
// collected (typically via stdlib.WalkFingerprint across the base
// directory and every enabled mod's directory).
func ComputeKey(stamps []stdlib.FileStamp_t) Key {
	sorted := append([]stdlib.FileStamp_t(nil), stamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := sha256.New()
	for _, s := range sorted {
		fmt.Fprintf(h, "%s\x00%d\x00%d\x00", s.Path, s.ModUnixTicks, s.Size)
	}
	digest := h.Sum(nil)
	return Key(hex.EncodeToString(digest[:16]))
}

// FileName returns the snapshot filename for the key, relative to a
// cache directory.
func (k Key) FileName() string { return string(k) + ".cache" }
