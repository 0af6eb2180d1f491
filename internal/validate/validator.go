// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package validate

import (
	"fmt"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/model"
)

// Severity classifies an Issue, per spec §4.9.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Issue is one validation finding.
type Issue struct {
	Severity Severity
	Property string
	Message  string
	Context  string // e.g. "province 1234" or "country FRA"
	Line     int
}

func (i Issue) String() string {
	if i.Context != "" {
		return fmt.Sprintf("[%s] %s: %s (%s)", i.Severity, i.Property, i.Message, i.Context)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Property, i.Message)
}

// knownTradeGoods, knownGovernments and knownTechnologyGroups are the
// base-game vanilla sets; a mod can legitimately add new ones, so
// membership failures are Warning, never Error, per spec §4.9.
var (
	knownTradeGoods = map[string]bool{
		"grain": true, "fish": true, "wool": true, "cloth": true, "wine": true,
		"naval_supplies": true, "fur": true, "cocoa": true,
		"cotton": true, "sugar": true, "tobacco": true, "tea": true, "coffee": true,
		"salt": true, "iron": true, "copper": true, "gold": true, "gems": true,
		"ivory": true, "slaves": true, "spices": true, "silk": true, "dyes": true,
		"chinaware": true, "glass": true, "tropical_wood": true, "cloves": true,
		"incense": true,
	}
	knownGovernments = map[string]bool{
		"monarchy": true, "republic": true, "theocracy": true, "tribal": true,
		"native": true, "steppe_horde": true,
	}
	knownTechnologyGroups = map[string]bool{
		"western": true, "eastern": true, "anatolian": true, "ottoman": true,
		"muslim": true, "indian": true, "nomad_group": true, "chinese": true,
		"sub_saharan": true, "north_american": true, "mesoamerican": true,
		"south_american": true, "andean": true, "high_american": true,
	}
)

// ValidateStore runs every structural and cross-reference check over a
// sealed model.Store, per spec §4.9. tbl resolves the interned IDs
// carried on ProvinceData_t/CountryData_t back to strings.
func ValidateStore(s *model.Store, tbl *intern.Table) []Issue {
	var issues []Issue
	countries := s.Countries()
	provinces := s.Provinces()

	countryTags := make(map[string]bool, len(countries))
	for _, c := range countries {
		countryTags[c.Tag] = true
	}
	provinceIDs := make(map[int32]bool, len(provinces))
	for _, p := range provinces {
		provinceIDs[p.ID] = true
	}

	for _, p := range provinces {
		issues = append(issues, validateProvince(p, tbl)...)
	}
	for _, c := range countries {
		issues = append(issues, validateCountry(c, tbl)...)
	}
	issues = append(issues, crossReferenceChecks(provinces, countries, tbl, countryTags, provinceIDs)...)
	return issues
}
