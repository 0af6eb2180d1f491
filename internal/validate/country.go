// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package validate

import (
	"fmt"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/pdxdomain"
)

// validateCountry runs the structural country checks from spec §4.9:
// tag length exactly 3; government and technology_group in known sets
// (warning otherwise); accepted cultures disjoint from primary_culture
// (info). tbl resolves the interned government/technology_group/
// primary_culture ids back to strings.
func validateCountry(c *pdxdomain.CountryData_t, tbl *intern.Table) []Issue {
	var issues []Issue
	ctx := fmt.Sprintf("country %s", c.Tag)

	if len(c.Tag) != 3 {
		issues = append(issues, Issue{Severity: Error, Property: "tag",
			Message: "country tag must be exactly 3 characters, got " + c.Tag, Context: ctx})
	}

	if c.Government != intern.NullID {
		if gov, ok := tbl.Resolve(c.Government); ok && !knownGovernments[gov] {
			issues = append(issues, Issue{Severity: Warning, Property: "government",
				Message: "unrecognised government type: " + gov, Context: ctx})
		}
	}
	if c.TechnologyGroup != intern.NullID {
		if tg, ok := tbl.Resolve(c.TechnologyGroup); ok && !knownTechnologyGroups[tg] {
			issues = append(issues, Issue{Severity: Warning, Property: "technology_group",
				Message: "unrecognised technology group: " + tg, Context: ctx})
		}
	}
	if c.PrimaryCulture != intern.NullID {
		if pc, ok := tbl.Resolve(c.PrimaryCulture); ok && c.AcceptedCultures[pc] {
			issues = append(issues, Issue{Severity: Info, Property: "accepted_cultures",
				Message: "primary_culture " + pc + " is redundantly listed as an accepted culture", Context: ctx})
		}
	}
	return issues
}
