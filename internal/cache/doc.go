// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cache implements the binary snapshot codec (C10): a
// versioned, checksummed, compressed, string-interned encoding of a
// sealed model.Store, plus a small sqlite-backed index that maps
// cache keys to snapshot files for fast invalidation lookups.
package cache
