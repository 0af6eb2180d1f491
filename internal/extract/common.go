// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/pdxdomain"
	"github.com/pdxcore/atlas/internal/script"
	"github.com/pdxcore/atlas/internal/token"
)

// Diagnostic reuses the lexer/parser shape so callers can merge
// diagnostics from every stage into one ordered list.
type Diagnostic = script.Diagnostic

func warn(pos token.Pos, msg string) Diagnostic {
	return Diagnostic{Severity: token.SeverityWarning, Pos: pos, Message: msg}
}

// scalarString returns n's string form, coercing non-string scalars
// (numbers, bools, dates) to their textual representation rather than
// failing: Paradox files routinely write unquoted identifiers where a
// quoted string would also be legal.
func scalarString(n *script.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind != script.Scalar {
		return ""
	}
	return n.Value.String()
}

func internScalar(n *script.Node, tbl *intern.Table) intern.ID {
	s := scalarString(n)
	if s == "" {
		return intern.NullID
	}
	return tbl.Intern(s)
}

// scalarBool accepts yes/no/true/false case-insensitively, per spec
// §4.3, whether the lexer already classified the token as a BoolValue
// or left it as a plain identifier string.
func scalarBool(n *script.Node, diags *[]Diagnostic, field string) bool {
	if n == nil || n.Kind != script.Scalar {
		return false
	}
	if n.Value.Type == script.BoolValue {
		return n.Value.Bool
	}
	switch strings.ToLower(n.Value.Str) {
	case "yes", "true":
		return true
	case "no", "false":
		return false
	}
	*diags = append(*diags, warn(n.Pos, field+": expected yes/no/true/false, got "+n.Value.String()))
	return false
}

// coerceFloat implements spec §4.3's numeric coercion chain: try the
// declared type first, then parse the scalar's string form using the
// invariant locale, then fall back to def with a warning. Negative
// results are clamped to 0 by the caller where the field demands it.
func coerceFloat(n *script.Node, def float32, diags *[]Diagnostic, field string) float32 {
	if n == nil || n.Kind != script.Scalar {
		*diags = append(*diags, warn(token.Pos{}, field+": missing value, using default"))
		return def
	}
	switch n.Value.Type {
	case script.FloatValue:
		return float32(n.Value.Float)
	case script.IntegerValue:
		return float32(n.Value.Int)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(n.Value.Str), 64); err == nil {
		return float32(f)
	}
	*diags = append(*diags, warn(n.Pos, field+": could not coerce "+n.Value.String()+" to a number, using default"))
	return def
}

func clampNonNegative(v float32, diags *[]Diagnostic, pos token.Pos, field string) float32 {
	if v < 0 {
		*diags = append(*diags, warn(pos, field+": negative value clamped to 0"))
		return 0
	}
	return v
}

func coerceInt(n *script.Node, def int32, diags *[]Diagnostic, field string) int32 {
	if n == nil || n.Kind != script.Scalar {
		*diags = append(*diags, warn(token.Pos{}, field+": missing value, using default"))
		return def
	}
	switch n.Value.Type {
	case script.IntegerValue:
		return int32(n.Value.Int)
	case script.FloatValue:
		return int32(n.Value.Float)
	}
	if i, err := strconv.ParseInt(strings.TrimSpace(n.Value.Str), 10, 32); err == nil {
		return int32(i)
	}
	*diags = append(*diags, warn(n.Pos, field+": could not coerce "+n.Value.String()+" to an integer, using default"))
	return def
}

// hasAnyPrefix reports whether s starts with any of prefixes.
func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// buildingHeuristic implements spec §4.3's rule for classifying an
// unrecognised boolean-true key as a building rather than junk.
func buildingHeuristic(lowerKey string, reserved map[string]bool) bool {
	if reserved[lowerKey] {
		return false
	}
	return !hasAnyPrefix(lowerKey, "add_", "remove_", "is_", "has_")
}

// unrecognisedEffectName is the synthetic Modifier_t name used to
// collect keys that look like attributes but match nothing this build
// recognises, per spec §4.3 ("stored under modifiers.effects as a
// scalar 1.0"). Kept in one bucket rather than one Modifier_t per key
// so a mod with many unknown flags doesn't explode History/Modifiers.
const unrecognisedEffectName = "_unrecognised"

// recordUnrecognisedEffect finds or creates the synthetic modifier and
// stores key = 1.0 in its Effects map.
func recordUnrecognisedEffect(modifiers *[]pdxdomain.Modifier_t, key string) {
	for i := range *modifiers {
		if (*modifiers)[i].Name == unrecognisedEffectName {
			(*modifiers)[i].Effects[key] = 1.0
			return
		}
	}
	*modifiers = append(*modifiers, pdxdomain.Modifier_t{
		Name:    unrecognisedEffectName,
		Kind:    pdxdomain.Permanent,
		Effects: map[string]float32{key: 1.0},
	})
}

// buildModifier constructs a Modifier_t from a block node per spec
// §4.3: name, desc/description, duration are consumed; every other
// child becomes a numeric entry in Effects.
func buildModifier(n *script.Node, kind pdxdomain.ModifierKind, diags *[]Diagnostic) pdxdomain.Modifier_t {
	m := pdxdomain.Modifier_t{Kind: kind, Effects: map[string]float32{}}
	if n == nil || !n.IsObjectLike() {
		return m
	}
	for _, key := range n.OrderedKeys() {
		lk := strings.ToLower(key)
		child := n.Get(key)
		switch lk {
		case "name":
			m.Name = scalarString(child)
		case "desc", "description":
			m.Description = scalarString(child)
		case "duration":
			// duration is a relative day count, not modelled as ExpiresAt
			// here: the orchestrator/validator would need "current date"
			// to resolve it to an absolute expiry, which this layer
			// doesn't have. It is checked as numeric and not stored.
			_ = coerceFloat(child, 0, diags, "modifier.duration")
		default:
			m.Effects[lk] = coerceFloat(child, 0, diags, "modifier."+lk)
		}
	}
	return m
}

// historyEntriesFor collects every DateKind node stored under key as a
// HistoricalEntry_t, whether the source had one occurrence (a single
// DateKind child) or the same date repeated (promoted to a List of
// DateKind items per spec §3's duplicate-key accumulation).
func historyEntriesFor(n *script.Node, key string) []pdxdomain.HistoricalEntry_t {
	var entries []pdxdomain.HistoricalEntry_t
	for _, v := range n.GetValues(key) {
		if v != nil && v.Kind == script.DateKind {
			entries = append(entries, buildHistoryEntry(v))
		}
	}
	return entries
}

// sortHistory stable-sorts history ascending by (Year, Month, Day), per
// spec §3: "Entries within an entity's history are sorted strictly
// ascending by date; ties preserve insertion order." A stable sort keeps
// same-date entries in the order they were appended.
func sortHistory(history []pdxdomain.HistoricalEntry_t) {
	sort.SliceStable(history, func(i, j int) bool {
		a, b := history[i].Date, history[j].Date
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
}

// buildHistoryEntry converts a DateKind node's children into a
// HistoricalEntry_t, per spec §4.3: repeated keys inside the date
// block accumulate as multiple Change_t entries, in order.
func buildHistoryEntry(n *script.Node) pdxdomain.HistoricalEntry_t {
	entry := pdxdomain.HistoricalEntry_t{Date: n.Date}
	for _, key := range n.OrderedKeys() {
		for _, v := range n.GetValues(key) {
			entry.Changes = append(entry.Changes, pdxdomain.Change_t{Key: key, Value: describeValue(v)})
		}
	}
	return entry
}

// describeValue renders a scalar or list/object Node's value as a
// string for HistoricalEntry_t.Changes, which keeps the raw shape
// around for audit/diff rather than re-typing it.
func describeValue(n *script.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == script.Scalar {
		return n.Value.String()
	}
	return n.String()
}
