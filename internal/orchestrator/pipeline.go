// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package orchestrator

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/pdxcore/atlas/internal/extract"
	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/modoverlay"
	"github.com/pdxcore/atlas/internal/pdxdomain"
	"github.com/pdxcore/atlas/internal/script"
	"github.com/pdxcore/atlas/internal/validate"
)

// cerrsBadFilename reports a history file whose name doesn't follow
// the "<id|tag> - <name>" convention this build expects (spec §8
// scenario 1's "183 - Paris.txt"). Kept file-local since it's purely a
// discovery-stage concern, not one of cerrs's cross-package sentinels.
func cerrsBadFilename(path string) error {
	return fmt.Errorf("unrecognised history filename: %s", path)
}

// includeResolver backs @include directives with the mod overlay's
// effective-file composition, so an include inside a province or
// country file picks up whichever mod currently owns that logical
// path (spec §4.2, §4.8).
type includeResolver struct{ overlay *modoverlay.Overlay }

func (r includeResolver) Resolve(path string) ([]byte, error) {
	effective, ok := r.overlay.EffectiveFile(path)
	if !ok {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(effective)
}

// fileResult carries one file's outcome back to the serialising
// insert step, keeping extraction (parallel) and Store mutation
// (ordered) cleanly separated per spec §4.11/§5.
type fileResult struct {
	path  string
	prov  *pdxdomain.ProvinceData_t
	ctry  *pdxdomain.CountryData_t
	diags []extract.Diagnostic
	err   error
}

// parseScriptFile lexes, parses and extracts one province or country
// file. Within a single file, the three stages run on one goroutine
// without suspension, per spec §5 ("lexing, parsing, and extraction
// run on one worker without suspension").
func parseScriptFile(path string, opts Options, resolver script.Resolver, tbl *intern.Table, isProvince bool) fileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	root, parseDiags, err := script.Parse(data, script.Options{EncodingHint: opts.EncodingHint, Resolver: resolver})
	if err != nil {
		return fileResult{path: path, err: err}
	}

	if isProvince {
		id, name, ok := parseProvinceFilename(path)
		if !ok {
			return fileResult{path: path, err: cerrsBadFilename(path)}
		}
		p, diags := extract.ExtractProvince(root, id, tbl)
		p.Name = name
		return fileResult{path: path, prov: p, diags: append(asDiags(parseDiags), diags...)}
	}

	tag, name, ok := parseCountryFilename(path)
	if !ok {
		return fileResult{path: path, err: cerrsBadFilename(path)}
	}
	c, diags := extract.ExtractCountry(root, tag, tbl)
	c.Name = name
	return fileResult{path: path, ctry: c, diags: append(asDiags(parseDiags), diags...)}
}

func asDiags(d []script.Diagnostic) []extract.Diagnostic {
	out := make([]extract.Diagnostic, len(d))
	copy(out, d)
	return out
}

// runFilePool parses paths concurrently across opts.resolvedWorkers()
// goroutines and returns results in paths' order, per spec §4.11's
// bounded worker pool and §5's "iteration order reflects activation
// order, not wall-clock completion order": results are collected into
// an index-aligned slice rather than a first-finished channel, so the
// later serialising insert sees deterministic order regardless of
// which file a worker happened to finish first.
func runFilePool(ctx context.Context, paths []string, opts Options, resolver script.Resolver, tbl *intern.Table, isProvince bool, stage Stage) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.resolvedWorkers())

	var done int
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = parseScriptFile(p, opts, resolver, tbl, isProvince)
			done++ // best-effort progress count; exact ordering across goroutines isn't required for a counter
			opts.report(done, len(paths), p, stage)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func insertResults(results []fileResult, store interface {
	PutProvince(*pdxdomain.ProvinceData_t) error
	PutCountry(*pdxdomain.CountryData_t) error
}, continueOnError bool) ([]validate.Issue, error) {
	var issues []validate.Issue
	for _, res := range results {
		if res.err != nil {
			issues = append(issues, validate.Issue{Severity: validate.Error, Property: "file", Message: res.err.Error(), Context: res.path})
			if !continueOnError {
				return issues, res.err
			}
			continue
		}
		for _, d := range res.diags {
			issues = append(issues, diagnosticToIssue(d, res.path))
		}
		if res.prov != nil {
			if err := store.PutProvince(res.prov); err != nil {
				return issues, err
			}
		}
		if res.ctry != nil {
			if err := store.PutCountry(res.ctry); err != nil {
				return issues, err
			}
		}
	}
	return issues, nil
}

func diagnosticToIssue(d extract.Diagnostic, path string) validate.Issue {
	sev := validate.Warning
	if d.Severity.String() == "error" {
		sev = validate.Error
	}
	return validate.Issue{Severity: sev, Property: "parse", Message: d.Message, Context: path, Line: d.Pos.Line}
}
