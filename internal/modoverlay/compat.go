// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package modoverlay

import (
	"strconv"
	"strings"

	"github.com/maloquacious/semver"
)

// IssueKind classifies a compatibility issue, per spec §4.8.
type IssueKind int

const (
	MissingDependency IssueKind = iota // error
	DisabledDependency                 // warning
	VersionMismatch                    // warning
)

func (k IssueKind) String() string {
	switch k {
	case MissingDependency:
		return "missing_dependency"
	case DisabledDependency:
		return "disabled_dependency"
	case VersionMismatch:
		return "version_mismatch"
	default:
		return "unknown"
	}
}

// Issue is one compatibility finding.
type Issue struct {
	Kind    IssueKind
	ModName string
	Message string
}

func (i Issue) IsError() bool { return i.Kind == MissingDependency }

// CheckCompatibility compares each enabled mod's dependencies and
// supported_version against the full installed-mod catalogue and the
// running game version, per spec §4.8.
func CheckCompatibility(enabled []Mod, installed map[string]bool, gameVersion semver.Version) []Issue {
	var issues []Issue
	for _, m := range enabled {
		for _, dep := range m.Descriptor.Dependencies {
			if !installed[dep] {
				issues = append(issues, Issue{Kind: MissingDependency, ModName: m.Descriptor.Name,
					Message: "dependency not installed: " + dep})
				continue
			}
			if !isEnabled(enabled, dep) {
				issues = append(issues, Issue{Kind: DisabledDependency, ModName: m.Descriptor.Name,
					Message: "dependency installed but not enabled: " + dep})
			}
		}
		if m.Descriptor.SupportedVersion != "" && !versionMatchesGlob(gameVersion, m.Descriptor.SupportedVersion) {
			issues = append(issues, Issue{Kind: VersionMismatch, ModName: m.Descriptor.Name,
				Message: "supported_version " + m.Descriptor.SupportedVersion + " does not match game version " + gameVersion.Short()})
		}
	}
	return issues
}

func isEnabled(enabled []Mod, name string) bool {
	for _, m := range enabled {
		if m.Descriptor.Name == name {
			return true
		}
	}
	return false
}

// versionMatchesGlob compares a semver.Version against a glob of the
// form "a.b.*" (an exact patch wildcard) or "a.b.c" (exact match), per
// spec §4.8.
func versionMatchesGlob(v semver.Version, glob string) bool {
	parts := strings.Split(glob, ".")
	if len(parts) != 3 {
		return false
	}
	if parts[0] != "*" {
		major, err := strconv.Atoi(parts[0])
		if err != nil || major != v.Major {
			return false
		}
	}
	if parts[1] != "*" {
		minor, err := strconv.Atoi(parts[1])
		if err != nil || minor != v.Minor {
			return false
		}
	}
	if parts[2] != "*" {
		patch, err := strconv.Atoi(parts[2])
		if err != nil || patch != v.Patch {
			return false
		}
	}
	return true
}

// TopoSort orders mods by declared dependency, per spec §4.8: a
// stable topological sort, with cyclic mods placed at the tail in
// their original order rather than failing the whole sort.
func TopoSort(mods []Mod) ([]Mod, []string) {
	byName := make(map[string]Mod, len(mods))
	for _, m := range mods {
		byName[m.Descriptor.Name] = m
	}

	state := make(map[string]int) // 0=unvisited, 1=in-progress, 2=done
	var order []Mod
	var cycles []string

	var visit func(name string, path []string) bool
	visit = func(name string, path []string) bool {
		switch state[name] {
		case 2:
			return true
		case 1:
			cycles = append(cycles, strings.Join(append(path, name), " -> "))
			return false
		}
		m, ok := byName[name]
		if !ok {
			return true // dependency not in the enabled set; MissingDependency already reports it
		}
		state[name] = 1
		for _, dep := range m.Descriptor.Dependencies {
			if !visit(dep, append(path, name)) {
				state[name] = 0
				return false
			}
		}
		state[name] = 2
		order = append(order, m)
		return true
	}

	var tail []Mod
	for _, m := range mods {
		name := m.Descriptor.Name
		if state[name] == 2 {
			continue
		}
		if !visit(name, nil) {
			tail = append(tail, m)
		}
	}

	// mods placed on the tail in their original relative order
	seen := make(map[string]bool, len(order))
	for _, m := range order {
		seen[m.Descriptor.Name] = true
	}
	var result []Mod
	for _, m := range mods {
		if seen[m.Descriptor.Name] {
			continue
		}
		isTail := false
		for _, t := range tail {
			if t.Descriptor.Name == m.Descriptor.Name {
				isTail = true
			}
		}
		if isTail {
			result = append(result, m)
		}
	}
	final := append(order, result...)
	return final, cycles
}
