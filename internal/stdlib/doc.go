// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package stdlib provides small filesystem utilities shared by the loader:
// existence checks for files and directories, and fingerprinting of an
// input tree for cache-invalidation purposes.
package stdlib
