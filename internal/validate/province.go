// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package validate

import (
	"fmt"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/pdxdomain"
)

const economicBaseWarningCeiling = 20

// validateProvince runs the structural province checks from spec
// §4.9: positive id; the owner/controller country-tag fields are
// 3-char ASCII when non-empty; economic bases non-negative (error)
// and flagged above a sanity ceiling (warning); trade_good, if set, is
// in the known set (warning).
func validateProvince(p *pdxdomain.ProvinceData_t, tbl *intern.Table) []Issue {
	var issues []Issue
	ctx := fmt.Sprintf("province %d", p.ID)

	if p.ID <= 0 {
		issues = append(issues, Issue{Severity: Error, Property: "id", Message: "province id must be positive", Context: ctx})
	}

	checkTagLike(&issues, tbl, p.Owner, "owner", ctx)
	checkTagLike(&issues, tbl, p.Controller, "controller", ctx)

	for _, base := range []struct {
		name string
		v    float32
	}{
		{"base_tax", p.BaseTax}, {"base_production", p.BaseProduction}, {"base_manpower", p.BaseManpower},
	} {
		if base.v < 0 {
			issues = append(issues, Issue{Severity: Error, Property: base.name,
				Message: fmt.Sprintf("%s must be non-negative, got %g", base.name, base.v), Context: ctx})
		} else if base.v > economicBaseWarningCeiling {
			issues = append(issues, Issue{Severity: Warning, Property: base.name,
				Message: fmt.Sprintf("%s is unusually high: %g", base.name, base.v), Context: ctx})
		}
	}

	if p.TradeGood != intern.NullID {
		if tg, ok := tbl.Resolve(p.TradeGood); ok && !knownTradeGoods[tg] {
			issues = append(issues, Issue{Severity: Warning, Property: "trade_goods",
				Message: "unrecognised trade good: " + tg, Context: ctx})
		}
	}

	return issues
}

// checkTagLike validates that an interned country-tag-shaped field,
// when set, looks like a 3-character ASCII tag. It does not check
// whether the tag resolves to a known country; that is a
// cross-reference check.
func checkTagLike(issues *[]Issue, tbl *intern.Table, id intern.ID, property, ctx string) {
	if id == intern.NullID {
		return
	}
	tag, ok := tbl.Resolve(id)
	if !ok || tag == "" {
		return
	}
	if len(tag) != 3 || !isASCIIAlnum(tag) {
		*issues = append(*issues, Issue{Severity: Warning, Property: property,
			Message: property + " does not look like a 3-character country tag: " + tag, Context: ctx})
	}
}

func isASCIIAlnum(s string) bool {
	for _, r := range s {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
