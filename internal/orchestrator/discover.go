// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package orchestrator

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pdxcore/atlas/internal/modoverlay"
)

// provinceHistoryDir and countryHistoryDir are the logical directories
// this build looks for entity files in, mirroring vanilla Paradox
// game trees (spec §1's "province history, country history").
const (
	provinceHistoryDir = "history/provinces"
	countryHistoryDir  = "history/countries"
)

// Map metadata's fixed logical paths, per spec §4.4/§4.5.
const (
	definitionCsvPath  = "map/definition.csv"
	adjacenciesCsvPath = "map/adjacencies.csv"
	provincesBmpPath   = "map/provinces.bmp"
	heightmapBmpPath   = "map/heightmap.bmp"
	terrainBmpPath     = "map/terrain.bmp"
	riversBmpPath      = "map/rivers.bmp"
)

// logicalPaths returns, for every enabled mod plus the base directory,
// the set of relative paths (forward-slash, each prefixed with subdir) found
// under root/subdir across every activation layer. The union is what
// "every requested logical path" (spec §4.8) means for a directory of
// files rather than a single fixed path: a mod can add new province
// files the base game never had.
func logicalPaths(baseDir, subdir string, overlay *modoverlay.Overlay) []string {
	seen := map[string]bool{}
	roots := []string{filepath.Join(baseDir, subdir)}
	for _, m := range overlay.Mods {
		if m.Dir != "" {
			roots = append(roots, filepath.Join(m.Dir, subdir))
		}
	}
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			seen[subdir+"/"+e.Name()] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
