// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package orchestrator

import (
	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/model"
	"github.com/pdxcore/atlas/internal/validate"
)

// Stats carries the counters a caller's summary/exit-code logic needs
// without re-walking the model (spec §6 "LoadResult").
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	FilesFailed     int
	ProvinceCount   int
	CountryCount    int
	RgbMatched      int
	RgbUnmatched    int
	LoadSessionID   string
}

// Result is the orchestrator's public return value, per spec §6
// "LoadResult".
type Result struct {
	Store    *model.Store
	Interner *intern.Table
	Issues   []validate.Issue
	Stats    Stats
	CacheHit bool
}
