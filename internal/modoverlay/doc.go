// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package modoverlay implements the mod overlay (C8): parsing .mod
// descriptors (themselves Paradox script, so this package reuses
// internal/script rather than writing a second parser), composing an
// ordered list of enabled mods against a base-game directory into
// per-path "effective files", and checking mod compatibility
// (dependency presence, version glob match) via maloquacious/semver
// and a stable topological sort over declared dependencies.
//
// Ground: internal/config/config.go's reflective JSON-config loading
// style adapted to a script.Node source instead of JSON; and
// internal/stores/ffs/ffs.go's bounded-LRU pattern
// (hashicorp/golang-lru/v2), reused here to cache resolved
// effective-file lookups instead of file-system entries.
package modoverlay
