// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package orchestrator

import (
	"time"

	"github.com/pdxcore/atlas/internal/bitmap"
	"github.com/pdxcore/atlas/internal/csvdata"
	"github.com/pdxcore/atlas/internal/modoverlay"
	"github.com/pdxcore/atlas/internal/pdxdomain"
	"github.com/pdxcore/atlas/internal/validate"
)

func nowUnix() int64 { return time.Now().Unix() }

// loadProvinceBitmap walks provinces.bmp, if present, sampling a grid
// of pixels 8 apart, matching each sampled colour against defs' rgb
// table and reporting the match/miss
// counts an operator can use to spot a stale or mismatched map (spec
// §4.5 RgbToProvince, §6 Stats.RgbMatched/RgbUnmatched).
func loadProvinceBitmap(overlay *modoverlay.Overlay, defs []pdxdomain.ProvinceDefinition_t, opts Options) ([2]int, []validate.Issue) {
	path, ok := overlay.EffectiveFile(provincesBmpPath)
	if !ok {
		return [2]int{}, nil
	}
	opts.report(0, 0, path, StageParseBmp)

	colorMap := make(map[uint32]int32, len(defs))
	for _, d := range defs {
		colorMap[csvdata.RgbKey(d.R, d.G, d.B)] = d.ID
	}

	r, err := bitmap.Open(path, bitmap.Sampling)
	if err != nil {
		return [2]int{}, []validate.Issue{{Severity: validate.Warning, Property: "bmp", Message: err.Error(), Context: path}}
	}
	defer r.Close()

	stats := &bitmap.RgbStats{}
	interp := bitmap.RgbToProvince{ColorMap: colorMap, Stats: stats}
	const sampleStep = 8
	if err := r.Sample(sampleStep, func(p bitmap.Pixel) bool {
		interp.Interpret(p)
		return true
	}); err != nil {
		return [2]int{stats.Matched, stats.Unmatched}, []validate.Issue{{Severity: validate.Warning, Property: "bmp", Message: err.Error(), Context: path}}
	}
	return [2]int{stats.Matched, stats.Unmatched}, nil
}
