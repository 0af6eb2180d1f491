// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package bitmap implements the BMP engine (C5): opening Windows BMP
// files (8-bit paletted or 24/32-bit packed), exposing header metadata,
// and yielding pixels on demand through a pluggable Interpreter
// strategy. Backing storage prefers a memory mapping (edsrzf/mmap-go,
// the same library erigon's storage layer uses to map its data files)
// and falls back to a buffered file stream transparently when mapping
// isn't available.
//
// Ground: AKJUS-bsc-erigon's use of edsrzf/mmap-go for its on-disk
// segment reader, adapted here from arbitrary-length binary segments
// to a BMP's fixed 14+40-byte header plus row-major pixel data; and
// internal/token/lexer.go's position-tracked, diagnostic-not-abort
// scanning style for header parsing.
package bitmap
