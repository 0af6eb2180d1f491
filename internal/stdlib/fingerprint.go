// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package stdlib

import (
	"os"
	"path/filepath"
	"sort"
)

// FileStamp_t is the per-file identity used to build a cache key: a file is
// considered unchanged iff its path, modification time, and size are all
// unchanged. Content hashing is deliberately avoided here — for a ~13,000
// file dataset, stat() is orders of magnitude cheaper than reading every
// file, and mtime+size already catches the overwhelmingly common case of
// "the user edited a province file".
type FileStamp_t struct {
	Path         string // path as the walk visited it (walked root or extra path joined with the file's relative path)
	ModUnixTicks int64  // last-modified time, UTC, as Unix nanoseconds
	Size         int64  // size in bytes
}

// WalkFingerprint walks root and every extra path, returning one FileStamp_t
// per regular file found, sorted by Path. Extra paths let a caller fold in
// files that live outside root (active mods, for instance).
func WalkFingerprint(root string, extra ...string) ([]FileStamp_t, error) {
	var stamps []FileStamp_t
	seen := make(map[string]bool)

	walk := func(base string) error {
		return filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true
			info, err := d.Info()
			if err != nil {
				return err
			}
			stamps = append(stamps, FileStamp_t{
				Path:         path,
				ModUnixTicks: info.ModTime().UTC().UnixNano(),
				Size:         info.Size(),
			})
			return nil
		})
	}

	if ok, err := IsDirExists(root); err != nil {
		return nil, err
	} else if ok {
		if err := walk(root); err != nil {
			return nil, err
		}
	} else if ok, err := IsFileExists(root); err != nil {
		return nil, err
	} else if ok {
		if err := walk(root); err != nil {
			return nil, err
		}
	}

	for _, path := range extra {
		if ok, _ := IsDirExists(path); ok {
			if err := walk(path); err != nil {
				return nil, err
			}
		} else if ok, _ := IsFileExists(path); ok {
			if err := walk(path); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Path < stamps[j].Path })
	return stamps, nil
}
