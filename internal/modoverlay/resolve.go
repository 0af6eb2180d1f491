// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package modoverlay

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Mod pairs a parsed Descriptor with the directory its files live
// under (path) or its archive file, in caller-assigned activation
// order.
type Mod struct {
	Descriptor *Descriptor
	Dir        string // resolved from Descriptor.Path; archives are out of scope (spec names them but extraction format is unspecified)
}

// Overlay composes an ordered list of enabled mods against a base-game
// directory into effective files, per spec §4.8.
type Overlay struct {
	BaseDir string
	Mods    []Mod // activation order: Mods[0] applied first

	cache *lru.Cache[string, string]
}

// NewOverlay returns an Overlay with a bounded cache of resolved
// effective-file lookups.
func NewOverlay(baseDir string, mods []Mod, cacheSize int) (*Overlay, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	c, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Overlay{BaseDir: baseDir, Mods: mods, cache: c}, nil
}

// isSuppressed reports whether mod's replace_path entries cover
// logical path p.
func isSuppressed(mod Mod, p string) bool {
	for _, rp := range mod.Descriptor.ReplacePaths {
		rp = filepath.ToSlash(strings.TrimSuffix(rp, "/"))
		if p == rp || strings.HasPrefix(p, rp+"/") {
			return true
		}
	}
	return false
}

// EffectiveFile returns the on-disk path that should be used for
// logical path p: the last existing candidate among
// [base/p, mod1/p, mod2/p, ...] in activation order, honouring any
// mod's replace_path suppression of the base candidate.
func (o *Overlay) EffectiveFile(p string) (string, bool) {
	p = filepath.ToSlash(p)
	if cached, ok := o.cache.Get(p); ok {
		return cached, cached != ""
	}

	candidates := o.candidates(p)
	result := ""
	for _, c := range candidates {
		if fileExists(c) {
			result = c
		}
	}
	o.cache.Add(p, result)
	return result, result != ""
}

// EffectiveFiles returns every existing candidate for p in activation
// order, for additive CSV-style merges that need every overlay layer
// rather than just the winner.
func (o *Overlay) EffectiveFiles(p string) []string {
	var out []string
	for _, c := range o.candidates(p) {
		if fileExists(c) {
			out = append(out, c)
		}
	}
	return out
}

// candidates builds [base/p, mod1/p, ...], per spec §4.8: any enabled
// mod's replace_path covering p suppresses only the base candidate,
// not candidates from other mods.
func (o *Overlay) candidates(p string) []string {
	baseSuppressed := false
	for _, m := range o.Mods {
		if isSuppressed(m, p) {
			baseSuppressed = true
			break
		}
	}

	var candidates []string
	if o.BaseDir != "" && !baseSuppressed {
		candidates = append(candidates, filepath.Join(o.BaseDir, filepath.FromSlash(p)))
	}
	for _, m := range o.Mods {
		if m.Dir == "" {
			continue
		}
		candidates = append(candidates, filepath.Join(m.Dir, filepath.FromSlash(p)))
	}
	return candidates
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
