// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package orchestrator

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/maloquacious/semver"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/cache"
	"github.com/pdxcore/atlas/internal/csvdata"
	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/model"
	"github.com/pdxcore/atlas/internal/modoverlay"
	"github.com/pdxcore/atlas/internal/pdxdomain"
	"github.com/pdxcore/atlas/internal/stdlib"
	"github.com/pdxcore/atlas/internal/validate"
)

// Load drives the end-to-end ingest described in spec §4.11: resolve
// the mod overlay, check the binary cache, and otherwise fan parsing
// out across a bounded worker pool before validating and persisting
// the result. basePath is the base-game directory; modPaths names
// .mod descriptor files in the caller's desired activation order.
func Load(basePath string, modPaths []string, opts Options) (*Result, error) {
	sessionID := uuid.NewString()
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(basePath, ".atlas-cache")
	}

	if ok, err := stdlib.IsDirExists(basePath); err != nil {
		return nil, err
	} else if !ok {
		return nil, cerrs.ErrPathNotFound
	}

	mods, compatIssues, err := loadMods(modPaths, opts)
	if err != nil {
		return nil, err
	}

	overlay, err := modoverlay.NewOverlay(basePath, mods, 1024)
	if err != nil {
		return nil, err
	}

	modDirs := make([]string, 0, len(mods))
	for _, m := range mods {
		if m.Dir != "" {
			modDirs = append(modDirs, m.Dir)
		}
	}
	stamps, err := stdlib.WalkFingerprint(basePath, modDirs...)
	if err != nil {
		return nil, err
	}
	key := cache.ComputeKey(stamps)

	var idx *cache.Index
	if opts.UseCache {
		idx, err = cache.OpenIndex(opts.CacheDir)
		if err != nil {
			return nil, err
		}
		defer idx.Close()

		if entry, ok, err := idx.Lookup(key, opts.TtlDays); err == nil && ok {
			store, tbl, err := cache.ReadSnapshot(entry.Path)
			if err == nil {
				log.Printf("[orchestrator] %s: cache hit, skipping C1-C5\n", sessionID)
				return &Result{
					Store:    store,
					Interner: tbl,
					Issues:   compatIssues,
					CacheHit: true,
					Stats: Stats{
						ProvinceCount: len(store.Provinces()),
						CountryCount:  len(store.Countries()),
						LoadSessionID: sessionID,
					},
				}, nil
			}
			log.Printf("[orchestrator] %s: cache entry unreadable, rebuilding: %v\n", sessionID, err)
		}
	}

	opts.report(0, 0, basePath, StageDiscover)
	store := model.New()
	tbl := intern.New()
	resolver := includeResolver{overlay: overlay}
	issues := append([]validate.Issue(nil), compatIssues...)
	stats := Stats{LoadSessionID: sessionID}

	if opts.ctx().Err() != nil {
		return nil, cerrs.ErrCancelled
	}

	provincePaths := resolveAll(overlay, logicalPaths(basePath, provinceHistoryDir, overlay))
	countryPaths := resolveAll(overlay, logicalPaths(basePath, countryHistoryDir, overlay))
	stats.FilesDiscovered = len(provincePaths) + len(countryPaths)

	provResults, err := runFilePool(opts.ctx(), provincePaths, opts, resolver, tbl, true, StageParseScript)
	if err != nil {
		return nil, translateCancelled(err)
	}
	ctryResults, err := runFilePool(opts.ctx(), countryPaths, opts, resolver, tbl, false, StageParseScript)
	if err != nil {
		return nil, translateCancelled(err)
	}

	provIssues, err := insertResults(provResults, store, opts.ContinueOnError)
	issues = append(issues, provIssues...)
	if err != nil {
		return nil, err
	}
	ctryIssues, err := insertResults(ctryResults, store, opts.ContinueOnError)
	issues = append(issues, ctryIssues...)
	if err != nil {
		return nil, err
	}
	stats.FilesParsed = len(provResults) + len(ctryResults)
	for _, r := range provResults {
		if r.err != nil {
			stats.FilesFailed++
		}
	}
	for _, r := range ctryResults {
		if r.err != nil {
			stats.FilesFailed++
		}
	}

	defs, adjs, csvIssues := loadMapCsv(overlay, opts)
	issues = append(issues, csvIssues...)

	if rgbStats, bmpIssues := loadProvinceBitmap(overlay, defs, opts); bmpIssues != nil {
		issues = append(issues, bmpIssues...)
	} else {
		stats.RgbMatched, stats.RgbUnmatched = rgbStats[0], rgbStats[1]
	}

	store.BuildIndices(defs, adjs, tbl)
	store.Seal()
	stats.ProvinceCount = len(store.Provinces())
	stats.CountryCount = len(store.Countries())

	if opts.Validate {
		opts.report(0, 0, basePath, StageValidate)
		issues = append(issues, validate.ValidateStore(store, tbl)...)
	}

	if opts.ctx().Err() != nil {
		return nil, cerrs.ErrCancelled
	}

	if opts.UseCache && idx != nil {
		opts.report(0, 0, basePath, StageCacheWrite)
		snapshotPath := filepath.Join(opts.CacheDir, key.FileName())
		if err := cache.WriteSnapshot(snapshotPath, store, tbl, cache.Gzip); err != nil {
			return nil, err
		}
		info, _ := os.Stat(snapshotPath)
		var size int64
		if info != nil {
			size = info.Size()
		}
		if err := idx.Put(cache.Entry{Key: key, Path: snapshotPath, CreatedUnix: nowUnix(), SizeBytes: size}); err != nil {
			return nil, err
		}
		if n, err := idx.PruneExpired(opts.TtlDays); err == nil && n > 0 {
			log.Printf("[orchestrator] %s: pruned %d expired cache entries\n", sessionID, n)
		}
	}

	return &Result{Store: store, Interner: tbl, Issues: issues, Stats: stats}, nil
}

func resolveAll(overlay *modoverlay.Overlay, logical []string) []string {
	out := make([]string, 0, len(logical))
	for _, p := range logical {
		if eff, ok := overlay.EffectiveFile(p); ok {
			out = append(out, eff)
		}
	}
	return out
}

func loadMods(modPaths []string, opts Options) ([]modoverlay.Mod, []validate.Issue, error) {
	var mods []modoverlay.Mod
	for _, path := range modPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		desc, err := modoverlay.ParseDescriptor(data)
		if err != nil {
			return nil, nil, err
		}
		dir := desc.Path
		if dir != "" && !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		mods = append(mods, modoverlay.Mod{Descriptor: desc, Dir: dir})
	}

	ordered, cycles := modoverlay.TopoSort(mods)
	if len(cycles) > 0 {
		return nil, nil, cerrs.ErrModDependencyCycle
	}

	installed := make(map[string]bool, len(ordered))
	for _, m := range ordered {
		installed[m.Descriptor.Name] = true
	}
	compat := modoverlay.CheckCompatibility(ordered, installed, parseGameVersion(opts.GameVersion))
	issues := make([]validate.Issue, 0, len(compat))
	for _, c := range compat {
		sev := validate.Warning
		if c.IsError() {
			sev = validate.Error
		}
		issues = append(issues, validate.Issue{Severity: sev, Property: "mod_compatibility", Message: c.Message, Context: c.ModName})
	}
	return ordered, issues, nil
}

func loadMapCsv(overlay *modoverlay.Overlay, opts Options) ([]pdxdomain.ProvinceDefinition_t, []pdxdomain.Adjacency_t, []validate.Issue) {
	var issues []validate.Issue
	opts.report(0, 0, definitionCsvPath, StageParseCsv)

	var defs []pdxdomain.ProvinceDefinition_t
	if path, ok := overlay.EffectiveFile(definitionCsvPath); ok {
		r, err := csvdata.Open(path, csvdata.DefaultOptions())
		if err != nil {
			issues = append(issues, validate.Issue{Severity: validate.Error, Property: "csv", Message: err.Error(), Context: path})
		} else if header, err := r.ReadHeader(); err != nil {
			issues = append(issues, validate.Issue{Severity: validate.Error, Property: "csv", Message: err.Error(), Context: path})
		} else if err := csvdata.ValidateProvinceDefinitionHeader(header); err != nil {
			issues = append(issues, validate.Issue{Severity: validate.Warning, Property: "csv", Message: err.Error(), Context: path})
		} else {
			rows, rowErrs, err := csvdata.MapAll[pdxdomain.ProvinceDefinition_t](r, csvdata.ProvinceDefinitionMapper{}, csvdata.MapAllOptions{ContinueOnError: opts.ContinueOnError})
			defs = rows
			for _, re := range rowErrs {
				issues = append(issues, validate.Issue{Severity: validate.Warning, Property: "csv_row", Message: re.Error(), Context: path, Line: re.Line})
			}
			if err != nil {
				issues = append(issues, validate.Issue{Severity: validate.Error, Property: "csv", Message: err.Error(), Context: path})
			}
			for _, dup := range csvdata.CheckDuplicateRgb(defs) {
				issues = append(issues, validate.Issue{Severity: validate.Warning, Property: "duplicate_rgb",
					Message: "multiple province ids share an rgb colour", Context: path})
				_ = dup
			}
		}
	}

	opts.report(0, 0, adjacenciesCsvPath, StageParseCsv)
	var adjs []pdxdomain.Adjacency_t
	if path, ok := overlay.EffectiveFile(adjacenciesCsvPath); ok {
		r, err := csvdata.Open(path, csvdata.DefaultOptions())
		if err != nil {
			issues = append(issues, validate.Issue{Severity: validate.Error, Property: "csv", Message: err.Error(), Context: path})
		} else if _, err := r.ReadHeader(); err != nil {
			issues = append(issues, validate.Issue{Severity: validate.Error, Property: "csv", Message: err.Error(), Context: path})
		} else {
			rows, rowErrs, err := csvdata.MapAll[pdxdomain.Adjacency_t](r, csvdata.AdjacencyMapper{}, csvdata.MapAllOptions{ContinueOnError: opts.ContinueOnError})
			adjs = rows
			for _, re := range rowErrs {
				issues = append(issues, validate.Issue{Severity: validate.Warning, Property: "csv_row", Message: re.Error(), Context: path, Line: re.Line})
			}
			if err != nil {
				issues = append(issues, validate.Issue{Severity: validate.Error, Property: "csv", Message: err.Error(), Context: path})
			}
		}
	}

	return defs, adjs, issues
}

// parseGameVersion parses a "major.minor.patch" string into a
// semver.Version, ignoring anything it can't parse (the zero Version
// simply never matches a mod's supported_version glob).
func parseGameVersion(s string) semver.Version {
	parts := strings.SplitN(s, ".", 3)
	var v semver.Version
	if len(parts) > 0 {
		v.Major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		v.Minor, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		v.Patch, _ = strconv.Atoi(parts[2])
	}
	return v
}

func translateCancelled(err error) error {
	if err != nil && err.Error() == "context canceled" {
		return cerrs.ErrCancelled
	}
	return err
}
