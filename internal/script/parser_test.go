// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package script_test

import (
	"strings"
	"testing"

	"github.com/pdxcore/atlas/internal/script"
)

func mustParse(t *testing.T, src string, opts script.Options) (*script.Node, []script.Diagnostic) {
	t.Helper()
	root, diags, err := script.Parse([]byte(src), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return root, diags
}

func TestDuplicateKeyPromotesToList(t *testing.T) {
	root, _ := mustParse(t, `owner = FRA add_core = "FRA" add_core = "BUR" add_core = "PIC"`, script.Options{})
	cores := root.GetValues("add_core")
	if len(cores) != 3 {
		t.Fatalf("expected 3 add_core entries, got %d", len(cores))
	}
	want := []string{"FRA", "BUR", "PIC"}
	for i, c := range cores {
		if c.Value.Str != want[i] {
			t.Errorf("core %d: got %q want %q", i, c.Value.Str, want[i])
		}
	}
	if owner := root.Get("owner"); owner == nil || owner.Value.Str != "FRA" {
		t.Errorf("owner field lost amid promotion: %+v", owner)
	}
}

func TestSingleThenDuplicateKeyStillPromotes(t *testing.T) {
	root, _ := mustParse(t, `core = "FRA"
core = "BUR"`, script.Options{})
	list := root.Get("core")
	if list == nil || list.Kind != script.List {
		t.Fatalf("expected core to be promoted to a List, got %+v", list)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
}

func TestMixedBlockSynthesizesEmptyKeyList(t *testing.T) {
	root, diags := mustParse(t, `colonial_region = { "one" "two" culture = french }`, script.Options{})
	region := root.Get("colonial_region")
	if region == nil || region.Kind != script.Object {
		t.Fatalf("expected colonial_region to be an Object, got %+v", region)
	}
	bareList := region.Get("")
	if bareList == nil || bareList.Kind != script.List || len(bareList.Items) != 2 {
		t.Fatalf("expected synthesized empty-key List with 2 items, got %+v", bareList)
	}
	if c := region.Get("culture"); c == nil || c.Value.Str != "french" {
		t.Fatalf("expected culture=french to survive mixed-block handling, got %+v", c)
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "mixed block") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a mixed-block warning diagnostic, got %+v", diags)
	}
}

func TestDateKeyedEntryPromotesToDateNode(t *testing.T) {
	root, _ := mustParse(t, `1444.1.1 = { monarch = "Charles" }`, script.Options{})
	entries := root.GetValues("1444.1.1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 date entry, got %d", len(entries))
	}
	if entries[0].Kind != script.DateKind {
		t.Fatalf("expected DateKind, got %s", entries[0].Kind)
	}
	if entries[0].Date.Year != 1444 || entries[0].Date.Month != 1 || entries[0].Date.Day != 1 {
		t.Errorf("bad date: %+v", entries[0].Date)
	}
}

func TestDateKeyedScalarEmitsWarningButIsKept(t *testing.T) {
	root, diags := mustParse(t, `1444.1.1 = some_identifier`, script.Options{})
	entries := root.GetValues("1444.1.1")
	if len(entries) != 1 || entries[0].Kind != script.Scalar {
		t.Fatalf("expected scalar entry to be retained, got %+v", entries)
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "date-keyed") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a date-key-not-a-block warning, got %+v", diags)
	}
}

func TestConstDefinitionAndExpansion(t *testing.T) {
	root, _ := mustParse(t, `@my_const = "shared_value"
field_one = @my_const
field_two = @my_const`, script.Options{})
	f1 := root.Get("field_one")
	f2 := root.Get("field_two")
	if f1 == nil || f1.Value.Str != "shared_value" {
		t.Fatalf("expected field_one to expand the constant, got %+v", f1)
	}
	if f2 == nil || f2.Value.Str != "shared_value" {
		t.Fatalf("expected field_two to expand the constant, got %+v", f2)
	}
	// Mutate one clone's Key and make sure it didn't alias the other.
	f1.Key = "mutated"
	if f2.Key == "mutated" {
		t.Errorf("constant expansion aliased nodes across use sites")
	}
}

func TestOperatorWithoutValueIsDroppedWithWarning(t *testing.T) {
	root, diags := mustParse(t, `owner = FRA trailing =`, script.Options{})
	if root.Get("trailing") != nil {
		t.Errorf("expected dangling operator entry to be dropped")
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "operator without a value") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for the dangling operator, got %+v", diags)
	}
}

func TestIncludeSplicesEntriesIntoCurrentScope(t *testing.T) {
	resolver := script.MapResolver{
		"common/cores.txt": []byte(`add_core = "FRA"`),
	}
	root, _ := mustParse(t, `owner = FRA
@include "common/cores.txt"
culture = french`, script.Options{Resolver: resolver})
	if c := root.Get("add_core"); c == nil || c.Value.Str != "FRA" {
		t.Fatalf("expected spliced add_core entry, got %+v", c)
	}
	if c := root.Get("culture"); c == nil || c.Value.Str != "french" {
		t.Fatalf("expected culture entry after the include, got %+v", c)
	}
}

func TestIncludeCycleIsHardError(t *testing.T) {
	resolver := script.MapResolver{
		"a.txt": []byte(`@include "b.txt"`),
		"b.txt": []byte(`@include "a.txt"`),
	}
	_, _, err := script.Parse([]byte(`@include "a.txt"`), script.Options{Resolver: resolver})
	if err == nil {
		t.Fatalf("expected an include-cycle error")
	}
}

func TestIncludeDepthLimitIsHardError(t *testing.T) {
	resolver := script.MapResolver{}
	for i := 0; i < 40; i++ {
		next := i + 1
		resolver[itoaPath(i)] = []byte(`@include "` + itoaPath(next) + `"`)
	}
	resolver[itoaPath(40)] = []byte(`leaf = 1`)

	_, _, err := script.Parse([]byte(`@include "`+itoaPath(0)+`"`), script.Options{Resolver: resolver, MaxIncludeDepth: 32})
	if err == nil {
		t.Fatalf("expected an include-depth-limit error")
	}
}

func itoaPath(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "f0.txt"
	}
	var sb strings.Builder
	sb.WriteByte('f')
	for n > 0 {
		sb.WriteByte(digits[n%10])
		n /= 10
	}
	sb.WriteString(".txt")
	return sb.String()
}

func TestAllBareBlockBecomesList(t *testing.T) {
	root, _ := mustParse(t, `provinces = { 1 2 3 }`, script.Options{})
	provinces := root.Get("provinces")
	if provinces == nil || provinces.Kind != script.List || len(provinces.Items) != 3 {
		t.Fatalf("expected a 3-item List, got %+v", provinces)
	}
}

func TestUnterminatedBlockEmitsSingleError(t *testing.T) {
	root, diags := mustParse(t, `owner = FRA culture = { french`, script.Options{})
	if root == nil {
		t.Fatalf("expected a best-effort root even after unterminated block")
	}
	if owner := root.Get("owner"); owner == nil || owner.Value.Str != "FRA" {
		t.Errorf("expected entries before the unterminated block to survive, got %+v", owner)
	}
	count := 0
	for _, d := range diags {
		if strings.Contains(d.Message, "unexpected end of file") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one unexpected-eof diagnostic, got %d (%+v)", count, diags)
	}
}
