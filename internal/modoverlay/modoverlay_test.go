// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package modoverlay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maloquacious/semver"
	"github.com/pdxcore/atlas/internal/modoverlay"
)

func TestParseDescriptorBasicFields(t *testing.T) {
	src := []byte(`
name = "Example Mod"
path = "mod/example"
version = "1.2.3"
supported_version = "1.2.*"
tags = { "Gameplay" "Historical" }
dependencies = { "Base Dependency" }
replace_path = "history/provinces"
`)
	d, err := modoverlay.ParseDescriptor(src)
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	if d.Name != "Example Mod" || d.Path != "mod/example" {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if len(d.Tags) != 2 || len(d.Dependencies) != 1 || len(d.ReplacePaths) != 1 {
		t.Fatalf("unexpected list fields: %+v", d)
	}
}

func TestParseDescriptorRejectsMissingRequiredFields(t *testing.T) {
	if _, err := modoverlay.ParseDescriptor([]byte(`version = "1.0.0"`)); err == nil {
		t.Fatal("expected error for missing name/path")
	}
}

func mkfile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEffectiveFilePrefersLatestMod(t *testing.T) {
	base := t.TempDir()
	mod1 := t.TempDir()
	mod2 := t.TempDir()
	mkfile(t, base, "history/provinces/1-x.txt")
	mkfile(t, mod1, "history/provinces/1-x.txt")
	mkfile(t, mod2, "history/provinces/1-x.txt")

	ov, err := modoverlay.NewOverlay(base, []modoverlay.Mod{
		{Descriptor: &modoverlay.Descriptor{Name: "m1"}, Dir: mod1},
		{Descriptor: &modoverlay.Descriptor{Name: "m2"}, Dir: mod2},
	}, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := ov.EffectiveFile("history/provinces/1-x.txt")
	if !ok || got != filepath.Join(mod2, "history/provinces/1-x.txt") {
		t.Fatalf("expected mod2 to win, got %q ok=%v", got, ok)
	}
}

func TestReplacePathSuppressesOnlyBaseCandidate(t *testing.T) {
	base := t.TempDir()
	mod1 := t.TempDir()
	mod2 := t.TempDir()
	mkfile(t, base, "history/provinces/1-x.txt")
	mkfile(t, mod1, "history/provinces/1-x.txt")

	ov, err := modoverlay.NewOverlay(base, []modoverlay.Mod{
		{Descriptor: &modoverlay.Descriptor{Name: "m1", ReplacePaths: []string{"history/provinces"}}, Dir: mod1},
		{Descriptor: &modoverlay.Descriptor{Name: "m2"}, Dir: mod2}, // no file, no replace_path
	}, 0)
	if err != nil {
		t.Fatal(err)
	}

	files := ov.EffectiveFiles("history/provinces/1-x.txt")
	if len(files) != 1 || files[0] != filepath.Join(mod1, "history/provinces/1-x.txt") {
		t.Fatalf("expected only mod1's candidate to survive suppression, got %v", files)
	}
}

func TestReplacePathDoesNotSuppressOtherMods(t *testing.T) {
	base := t.TempDir()
	mod1 := t.TempDir()
	mod2 := t.TempDir()
	mkfile(t, base, "history/provinces/1-x.txt")
	mkfile(t, mod1, "history/provinces/1-x.txt")
	mkfile(t, mod2, "history/provinces/1-x.txt")

	ov, err := modoverlay.NewOverlay(base, []modoverlay.Mod{
		{Descriptor: &modoverlay.Descriptor{Name: "m1", ReplacePaths: []string{"history/provinces"}}, Dir: mod1},
		{Descriptor: &modoverlay.Descriptor{Name: "m2"}, Dir: mod2},
	}, 0)
	if err != nil {
		t.Fatal(err)
	}

	files := ov.EffectiveFiles("history/provinces/1-x.txt")
	if len(files) != 2 {
		t.Fatalf("expected base suppressed but both mod candidates present, got %v", files)
	}
	got, ok := ov.EffectiveFile("history/provinces/1-x.txt")
	if !ok || got != filepath.Join(mod2, "history/provinces/1-x.txt") {
		t.Fatalf("expected mod2 (last activated) to win, got %q", got)
	}
}

func TestTopoSortOrdersByDependency(t *testing.T) {
	a := modoverlay.Mod{Descriptor: &modoverlay.Descriptor{Name: "a"}}
	b := modoverlay.Mod{Descriptor: &modoverlay.Descriptor{Name: "b", Dependencies: []string{"a"}}}
	c := modoverlay.Mod{Descriptor: &modoverlay.Descriptor{Name: "c", Dependencies: []string{"b"}}}

	ordered, cycles := modoverlay.TopoSort([]modoverlay.Mod{c, a, b})
	if len(cycles) != 0 {
		t.Fatalf("unexpected cycles: %v", cycles)
	}
	if len(ordered) != 3 || ordered[0].Descriptor.Name != "a" || ordered[1].Descriptor.Name != "b" || ordered[2].Descriptor.Name != "c" {
		names := make([]string, len(ordered))
		for i, m := range ordered {
			names[i] = m.Descriptor.Name
		}
		t.Fatalf("expected [a b c], got %v", names)
	}
}

func TestTopoSortDetectsCycleAndTailsOffenders(t *testing.T) {
	a := modoverlay.Mod{Descriptor: &modoverlay.Descriptor{Name: "a", Dependencies: []string{"b"}}}
	b := modoverlay.Mod{Descriptor: &modoverlay.Descriptor{Name: "b", Dependencies: []string{"a"}}}
	good := modoverlay.Mod{Descriptor: &modoverlay.Descriptor{Name: "good"}}

	ordered, cycles := modoverlay.TopoSort([]modoverlay.Mod{a, b, good})
	if len(cycles) == 0 {
		t.Fatal("expected a cycle to be reported")
	}
	if len(ordered) != 3 {
		t.Fatalf("expected all 3 mods still present (cyclic ones tailed), got %d", len(ordered))
	}
	if ordered[0].Descriptor.Name != "good" {
		t.Fatalf("expected non-cyclic mod first, got %s", ordered[0].Descriptor.Name)
	}
}

func TestCheckCompatibilityMissingAndDisabledDependency(t *testing.T) {
	enabled := []modoverlay.Mod{
		{Descriptor: &modoverlay.Descriptor{Name: "needs-both", Dependencies: []string{"installed-only", "nowhere"}}},
	}
	installed := map[string]bool{"installed-only": true}

	issues := modoverlay.CheckCompatibility(enabled, installed, semver.Version{Major: 1, Minor: 30})

	var sawMissing, sawDisabled bool
	for _, iss := range issues {
		switch iss.Kind {
		case modoverlay.MissingDependency:
			sawMissing = true
		case modoverlay.DisabledDependency:
			sawDisabled = true
		}
	}
	if !sawMissing {
		t.Error("expected a MissingDependency issue for 'nowhere'")
	}
	if !sawDisabled {
		t.Error("expected a DisabledDependency issue for 'installed-only'")
	}
}

func TestCheckCompatibilityVersionMismatch(t *testing.T) {
	enabled := []modoverlay.Mod{
		{Descriptor: &modoverlay.Descriptor{Name: "strict", SupportedVersion: "1.29.*"}},
	}
	issues := modoverlay.CheckCompatibility(enabled, nil, semver.Version{Major: 1, Minor: 30, Patch: 0})
	if len(issues) != 1 || issues[0].Kind != modoverlay.VersionMismatch {
		t.Fatalf("expected a single VersionMismatch issue, got %+v", issues)
	}
}

func TestCheckCompatibilityVersionGlobMatches(t *testing.T) {
	enabled := []modoverlay.Mod{
		{Descriptor: &modoverlay.Descriptor{Name: "fine", SupportedVersion: "1.30.*"}},
	}
	issues := modoverlay.CheckCompatibility(enabled, nil, semver.Version{Major: 1, Minor: 30, Patch: 4})
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}
