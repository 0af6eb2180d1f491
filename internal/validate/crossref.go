// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package validate

import (
	"fmt"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/pdxdomain"
)

// crossReferenceChecks runs the cross-entity checks from spec §4.9:
// every province owner/controller/core references a known country
// tag; every country capital references an existing province id.
func crossReferenceChecks(provinces []*pdxdomain.ProvinceData_t, countries []*pdxdomain.CountryData_t,
	tbl *intern.Table, countryTags map[string]bool, provinceIDs map[int32]bool) []Issue {
	var issues []Issue

	for _, p := range provinces {
		ctx := fmt.Sprintf("province %d", p.ID)
		checkKnownTag(&issues, tbl, p.Owner, "owner", ctx, countryTags)
		checkKnownTag(&issues, tbl, p.Controller, "controller", ctx, countryTags)
		for core := range p.Cores {
			if core != "" && !countryTags[core] {
				issues = append(issues, Issue{Severity: Warning, Property: "cores",
					Message: "core references unknown country tag: " + core, Context: ctx})
			}
		}
	}

	for _, c := range countries {
		ctx := fmt.Sprintf("country %s", c.Tag)
		if c.Capital != 0 && !provinceIDs[c.Capital] {
			issues = append(issues, Issue{Severity: Warning, Property: "capital",
				Message: fmt.Sprintf("capital references unknown province id %d", c.Capital), Context: ctx})
		}
	}

	return issues
}

func checkKnownTag(issues *[]Issue, tbl *intern.Table, id intern.ID, property, ctx string, known map[string]bool) {
	if id == intern.NullID {
		return
	}
	tag, ok := tbl.Resolve(id)
	if !ok || tag == "" {
		return
	}
	if !known[tag] {
		*issues = append(*issues, Issue{Severity: Warning, Property: property,
			Message: property + " references unknown country tag: " + tag, Context: ctx})
	}
}
