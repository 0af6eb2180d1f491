// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/pdxdomain"
	"github.com/pdxcore/atlas/internal/script"
	"github.com/pdxcore/atlas/internal/token"
)

// provinceReservedKeys are the top-level keys the province extractor
// recognises by name; they never qualify for the building heuristic,
// matched and consumed below.
var provinceReservedKeys = map[string]bool{
	"owner": true, "controller": true, "culture": true, "religion": true,
	"trade_goods": true, "trade_good": true, "terrain": true, "climate": true,
	"trade_node": true, "capital": true, "is_city": true, "hre": true, "is_hre": true,
	"base_tax": true, "base_production": true, "base_manpower": true, "extra_cost": true,
	"center_of_trade": true, "add_core": true, "remove_core": true, "discovered_by": true,
	"add_permanent_province_modifier": true, "add_province_modifier": true,
	"add_country_modifier": true,
}

// CanExtractProvince reports whether n looks like a province file root:
// an Object with at least one recognised key, per spec §4.3.
func CanExtractProvince(n *script.Node) bool {
	if n == nil || n.Kind != script.Object {
		return false
	}
	for _, key := range n.OrderedKeys() {
		if provinceReservedKeys[strings.ToLower(key)] {
			return true
		}
	}
	return false
}

// ExtractProvince translates a province file's root Node into a
// ProvinceData_t, per spec §4.3.
func ExtractProvince(n *script.Node, id int32, tbl *intern.Table) (*pdxdomain.ProvinceData_t, []Diagnostic) {
	var diags []Diagnostic
	p := pdxdomain.NewProvinceData(id)
	if n == nil {
		diags = append(diags, warn(token.Pos{}, "province root is nil"))
		return p, diags
	}
	if n.Kind != script.Object {
		diags = append(diags, warn(n.Pos, "province root is not an object"))
		return p, diags
	}

	for _, key := range n.OrderedKeys() {
		lk := strings.ToLower(key)
		child := n.Get(key)

		if child != nil && (child.Kind == script.DateKind || child.Kind == script.List) {
			if entries := historyEntriesFor(n, key); len(entries) > 0 {
				p.History = append(p.History, entries...)
				continue
			}
		}

		switch lk {
		case "owner":
			p.Owner = internScalar(child, tbl)
		case "controller":
			p.Controller = internScalar(child, tbl)
		case "culture":
			p.Culture = internScalar(child, tbl)
		case "religion":
			p.Religion = internScalar(child, tbl)
		case "trade_goods", "trade_good":
			p.TradeGood = internScalar(child, tbl)
		case "terrain":
			p.Terrain = internScalar(child, tbl)
		case "climate":
			p.Climate = internScalar(child, tbl)
		case "trade_node":
			p.TradeNode = internScalar(child, tbl)
		case "capital":
			p.Capital = scalarString(child)
		case "is_city":
			p.IsCity = scalarBool(child, &diags, "is_city")
		case "hre", "is_hre":
			p.IsHre = scalarBool(child, &diags, "hre")
		case "base_tax":
			p.BaseTax = clampNonNegative(coerceFloat(child, 0, &diags, "base_tax"), &diags, child.Pos, "base_tax")
		case "base_production":
			p.BaseProduction = clampNonNegative(coerceFloat(child, 0, &diags, "base_production"), &diags, child.Pos, "base_production")
		case "base_manpower":
			p.BaseManpower = clampNonNegative(coerceFloat(child, 0, &diags, "base_manpower"), &diags, child.Pos, "base_manpower")
		case "extra_cost":
			p.ExtraCost = clampNonNegative(coerceFloat(child, 0, &diags, "extra_cost"), &diags, child.Pos, "extra_cost")
		case "center_of_trade":
			p.CenterOfTrade = coerceInt(child, 0, &diags, "center_of_trade")
		case "add_core":
			for _, v := range n.GetValues(key) {
				p.Cores[scalarString(v)] = true
			}
		case "remove_core":
			for _, v := range n.GetValues(key) {
				delete(p.Cores, scalarString(v))
			}
		case "discovered_by":
			for _, v := range n.GetValues(key) {
				p.DiscoveredBy[scalarString(v)] = true
			}
		case "add_permanent_province_modifier":
			for _, v := range n.GetValues(key) {
				p.Modifiers = append(p.Modifiers, buildModifier(v, pdxdomain.Permanent, &diags))
			}
		case "add_province_modifier":
			for _, v := range n.GetValues(key) {
				p.Modifiers = append(p.Modifiers, buildModifier(v, pdxdomain.Temporary, &diags))
			}
		case "add_country_modifier":
			for _, v := range n.GetValues(key) {
				p.Modifiers = append(p.Modifiers, buildModifier(v, pdxdomain.Permanent, &diags))
			}
		default:
			classifyUnrecognisedProvinceKey(p, n, key, lk, &diags)
		}
	}
	sortHistory(p.History)
	return p, diags
}

func classifyUnrecognisedProvinceKey(p *pdxdomain.ProvinceData_t, n *script.Node, key, lk string, diags *[]Diagnostic) {
	for _, v := range n.GetValues(key) {
		isBoolTrue := v.Kind == script.Scalar && v.Value.Type == script.BoolValue && v.Value.Bool
		if isBoolTrue && buildingHeuristic(lk, provinceReservedKeys) {
			p.Buildings[lk] = true
			continue
		}
		*diags = append(*diags, warn(v.Pos, "unrecognised province key "+key+", recorded as a modifier effect"))
		recordUnrecognisedEffect(&p.Modifiers, lk)
	}
}
