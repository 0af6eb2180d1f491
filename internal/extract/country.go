// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/pdxdomain"
	"github.com/pdxcore/atlas/internal/script"
	"github.com/pdxcore/atlas/internal/token"
)

var countryReservedKeys = map[string]bool{
	"government": true, "primary_culture": true, "religion": true,
	"technology_group": true, "capital": true,
	"add_accepted_culture": true, "add_idea": true,
	"historical_friend": true, "historical_rival": true, "historical_enemy": true,
	"add_active_policy": true, "monarch": true,
	"add_permanent_province_modifier": true, "add_province_modifier": true,
	"add_country_modifier": true,
}

// CanExtractCountry reports whether n looks like a country file root,
// per spec §4.3.
func CanExtractCountry(n *script.Node) bool {
	if n == nil || n.Kind != script.Object {
		return false
	}
	for _, key := range n.OrderedKeys() {
		if countryReservedKeys[strings.ToLower(key)] {
			return true
		}
	}
	return false
}

// ExtractCountry translates a country file's root Node into a
// CountryData_t, per spec §4.3. tag is the three-letter country tag
// taken from the file name (countries are identified by path, not by
// an in-file field).
func ExtractCountry(n *script.Node, tag string, tbl *intern.Table) (*pdxdomain.CountryData_t, []Diagnostic) {
	var diags []Diagnostic
	c := pdxdomain.NewCountryData(strings.ToUpper(strings.TrimSpace(tag)))
	if n == nil {
		diags = append(diags, warn(token.Pos{}, "country root is nil"))
		return c, diags
	}
	if n.Kind != script.Object {
		diags = append(diags, warn(n.Pos, "country root is not an object"))
		return c, diags
	}

	for _, key := range n.OrderedKeys() {
		lk := strings.ToLower(key)
		child := n.Get(key)

		if child != nil && (child.Kind == script.DateKind || child.Kind == script.List) {
			if entries := historyEntriesFor(n, key); len(entries) > 0 {
				c.History = append(c.History, entries...)
				continue
			}
		}

		switch lk {
		case "government":
			c.Government = internScalar(child, tbl)
		case "primary_culture":
			c.PrimaryCulture = internScalar(child, tbl)
		case "religion":
			c.Religion = internScalar(child, tbl)
		case "technology_group":
			c.TechnologyGroup = internScalar(child, tbl)
		case "capital":
			c.Capital = coerceInt(child, 0, &diags, "capital")
		case "fixed_capital":
			c.FixedCapital = coerceInt(child, 0, &diags, "fixed_capital")
		case "add_accepted_culture":
			for _, v := range n.GetValues(key) {
				c.AcceptedCultures[scalarString(v)] = true
			}
		case "add_idea":
			for _, v := range n.GetValues(key) {
				c.Ideas[scalarString(v)] = coerceInt(v, 0, &diags, "add_idea")
			}
		case "historical_friend":
			for _, v := range n.GetValues(key) {
				c.HistoricalFriends[strings.ToUpper(scalarString(v))] = true
			}
		case "historical_rival":
			for _, v := range n.GetValues(key) {
				c.HistoricalRivals[strings.ToUpper(scalarString(v))] = true
			}
		case "historical_enemy":
			for _, v := range n.GetValues(key) {
				c.HistoricalEnemies[strings.ToUpper(scalarString(v))] = true
			}
		case "add_active_policy":
			for _, v := range n.GetValues(key) {
				c.Policies[scalarString(v)] = true
			}
		case "monarch":
			c.Monarch = buildRuler(child, tbl)
		case "add_permanent_province_modifier":
			for _, v := range n.GetValues(key) {
				c.Modifiers = append(c.Modifiers, buildModifier(v, pdxdomain.Permanent, &diags))
			}
		case "add_province_modifier":
			for _, v := range n.GetValues(key) {
				c.Modifiers = append(c.Modifiers, buildModifier(v, pdxdomain.Temporary, &diags))
			}
		case "add_country_modifier":
			for _, v := range n.GetValues(key) {
				c.Modifiers = append(c.Modifiers, buildModifier(v, pdxdomain.Permanent, &diags))
			}
		default:
			diags = append(diags, warn(child.Pos, "unrecognised country key "+key))
		}
	}
	sortHistory(c.History)
	return c, diags
}

// buildRuler converts the nested monarch block into a Ruler_t, per
// spec §4.3.
func buildRuler(n *script.Node, tbl *intern.Table) *pdxdomain.Ruler_t {
	r := &pdxdomain.Ruler_t{}
	if n == nil || !n.IsObjectLike() {
		return r
	}
	var diags []Diagnostic
	for _, key := range n.OrderedKeys() {
		child := n.Get(key)
		switch strings.ToLower(key) {
		case "name":
			r.Name = scalarString(child)
		case "dynasty":
			r.Dynasty = scalarString(child)
		case "adm":
			r.Adm = int(coerceInt(child, 0, &diags, "monarch.adm"))
		case "dip":
			r.Dip = int(coerceInt(child, 0, &diags, "monarch.dip"))
		case "mil":
			r.Mil = int(coerceInt(child, 0, &diags, "monarch.mil"))
		case "culture":
			r.Culture = internScalar(child, tbl)
		case "religion":
			r.Religion = internScalar(child, tbl)
		}
	}
	return r
}
