// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package orchestrator

import (
	"context"
	"runtime"
)

// Stage identifies which phase of the load a Progress callback fires
// for, per spec §6's progress callback signature.
type Stage int

const (
	StageDiscover Stage = iota
	StageParseScript
	StageParseCsv
	StageParseBmp
	StageValidate
	StageCacheWrite
)

func (s Stage) String() string {
	switch s {
	case StageDiscover:
		return "discover"
	case StageParseScript:
		return "parse_script"
	case StageParseCsv:
		return "parse_csv"
	case StageParseBmp:
		return "parse_bmp"
	case StageValidate:
		return "validate"
	case StageCacheWrite:
		return "cache_write"
	default:
		return "unknown"
	}
}

// ProgressFunc receives (files_done, files_total, current_path, stage)
// updates, per spec §6.
type ProgressFunc func(filesDone, filesTotal int, currentPath string, stage Stage)

// Options is the orchestrator's load-options bag, per spec §6.
type Options struct {
	CacheDir        string
	UseCache        bool
	TtlDays         int
	MaxWorkers      int
	Progress        ProgressFunc
	Cancel          context.Context
	ContinueOnError bool
	Validate        bool
	EncodingHint    string

	// GameVersion is used by the mod overlay's VersionMismatch check
	// (spec §4.8); the zero value disables the check.
	GameVersion string
}

// DefaultOptions mirrors config.Default()'s values (spec §6's
// "options recognised" defaults).
func DefaultOptions() Options {
	return Options{
		UseCache:        true,
		TtlDays:         7,
		ContinueOnError: true,
		Validate:        true,
	}
}

// resolvedWorkers returns min(cpu_count, 16) when MaxWorkers is unset,
// per spec §4.11.
func (o Options) resolvedWorkers() int {
	if o.MaxWorkers > 0 {
		return o.MaxWorkers
	}
	n := runtime.NumCPU()
	if n > 16 {
		n = 16
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (o Options) ctx() context.Context {
	if o.Cancel != nil {
		return o.Cancel
	}
	return context.Background()
}

func (o Options) report(filesDone, filesTotal int, path string, stage Stage) {
	if o.Progress != nil {
		o.Progress(filesDone, filesTotal, path, stage)
	}
}
