// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package csvdata_test

import (
	"testing"

	"github.com/pdxcore/atlas/internal/csvdata"
)

func TestParseLineHandlesQuotedSeparatorAndEscapedQuote(t *testing.T) {
	r, err := csvdata.NewFromBytes([]byte(`1;2;3;"hello; world";"she said ""hi""";extra`), csvdata.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields, ok, err := r.ReadLine()
	if err != nil || !ok {
		t.Fatalf("ReadLine failed: ok=%v err=%v", ok, err)
	}
	want := []string{"1", "2", "3", "hello; world", `she said "hi"`, "extra"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d: %v", len(fields), len(want), fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d: got %q want %q", i, fields[i], want[i])
		}
	}
}

func TestEmptyLinesSkipped(t *testing.T) {
	r, err := csvdata.NewFromBytes([]byte("1;2;3\n\n\n4;5;6"), csvdata.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, _ = r.ReadHeader()
	fields, ok, err := r.ReadLine()
	if err != nil || !ok {
		t.Fatalf("expected a second row immediately after skipping blanks")
	}
	if fields[0] != "4" {
		t.Errorf("expected blank lines skipped, got %v", fields)
	}
}

func TestProvinceDefinitionMapperDirect(t *testing.T) {
	src := "province;red;green;blue;x;y\n1;10;20;30;Paris;\n2;40;50;60;Burgundy;extra\n"
	r, err := csvdata.NewFromBytes([]byte(src), csvdata.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	header, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if err := csvdata.ValidateProvinceDefinitionHeader(header); err != nil {
		t.Fatalf("header validation failed: %v", err)
	}
	rows, rowErrs, err := csvdata.MapAll(r, csvdata.ProvinceDefinitionMapper{}, csvdata.MapAllOptions{})
	if err != nil {
		t.Fatalf("MapAll: %v (rowErrs=%v)", err, rowErrs)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Paris" || rows[0].R != 10 {
		t.Errorf("bad row 0: %+v", rows[0])
	}
}

func TestDuplicateRgbDetection(t *testing.T) {
	src := "province;red;green;blue;x;y\n1;10;20;30;Paris;\n2;10;20;30;Burgundy;\n3;40;50;60;Lyon;\n"
	r, _ := csvdata.NewFromBytes([]byte(src), csvdata.DefaultOptions())
	r.ReadHeader()
	rows, _, err := csvdata.MapAll(r, csvdata.ProvinceDefinitionMapper{}, csvdata.MapAllOptions{})
	if err != nil {
		t.Fatalf("MapAll: %v", err)
	}
	warnings := csvdata.CheckDuplicateRgb(rows)
	if len(warnings) != 1 || len(warnings[0].Ids) != 2 {
		t.Fatalf("expected 1 collision of 2 ids, got %+v", warnings)
	}
}

func TestAdjacencyMapperValidation(t *testing.T) {
	src := "from;to;type;through;startx;starty;stopx;stopy;comment\n1;2;sea;-1;-1;-1;-1;-1;strait\n"
	r, _ := csvdata.NewFromBytes([]byte(src), csvdata.DefaultOptions())
	r.ReadHeader()
	rows, rowErrs, err := csvdata.MapAll(r, csvdata.AdjacencyMapper{}, csvdata.MapAllOptions{})
	if err != nil {
		t.Fatalf("MapAll: %v (rowErrs=%v)", err, rowErrs)
	}
	if len(rows) != 1 || rows[0].Comment != "strait" {
		t.Fatalf("bad rows: %+v", rows)
	}
}

func TestContinueOnErrorDropsBadRows(t *testing.T) {
	src := "province;red;green;blue;x;y\nnotanumber;10;20;30;Paris;\n2;40;50;60;Burgundy;\n"
	r, _ := csvdata.NewFromBytes([]byte(src), csvdata.DefaultOptions())
	r.ReadHeader()
	rows, rowErrs, err := csvdata.MapAll(r, csvdata.ProvinceDefinitionMapper{}, csvdata.MapAllOptions{ContinueOnError: true})
	if err != nil {
		t.Fatalf("unexpected error in continue-on-error mode: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(rows))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 recorded row error, got %d", len(rowErrs))
	}
}
