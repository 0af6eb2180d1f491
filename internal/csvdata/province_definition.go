// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package csvdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/pdxdomain"
)

// ProvinceDefinitionMapper maps definition.csv rows (id;r;g;b;name;extra)
// into ProvinceDefinition_t, per spec §4.4.
type ProvinceDefinitionMapper struct{}

func (ProvinceDefinitionMapper) ExpectedFieldCount() int { return 6 }

func (ProvinceDefinitionMapper) ValidateRow(fields []string, line int) error {
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || id <= 0 {
		return fmt.Errorf("province id must be a positive integer, got %q", fields[0])
	}
	for i, name := range []string{"r", "g", "b"} {
		v, err := strconv.Atoi(strings.TrimSpace(fields[1+i]))
		if err != nil || v < 0 || v > 255 {
			return fmt.Errorf("%s must be a valid u8, got %q", name, fields[1+i])
		}
	}
	return nil
}

func (ProvinceDefinitionMapper) MapRow(fields []string, line int) pdxdomain.ProvinceDefinition_t {
	id, _ := strconv.Atoi(strings.TrimSpace(fields[0]))
	r, _ := strconv.Atoi(strings.TrimSpace(fields[1]))
	g, _ := strconv.Atoi(strings.TrimSpace(fields[2]))
	b, _ := strconv.Atoi(strings.TrimSpace(fields[3]))
	return pdxdomain.ProvinceDefinition_t{
		ID:    int32(id),
		R:     uint8(r),
		G:     uint8(g),
		B:     uint8(b),
		Name:  fields[4],
		Extra: fields[5],
	}
}

// ValidateProvinceDefinitionHeader implements spec §4.4's lenient
// header check: normalise to lower case and require the substrings
// "province", "red", "green", "blue" in columns 0-3; name/extra column
// headers are not enforced.
func ValidateProvinceDefinitionHeader(header []string) error {
	if len(header) < 4 {
		return cerrs.ErrCsvBadHeader
	}
	want := []string{"province", "red", "green", "blue"}
	for i, substr := range want {
		if !strings.Contains(strings.ToLower(header[i]), substr) {
			return fmt.Errorf("%w: column %d should reference %q, got %q", cerrs.ErrCsvBadHeader, i, substr, header[i])
		}
	}
	return nil
}

// RgbKey packs an (r, g, b) triple into the cache/model's rgb index
// key, per spec §3's "rgb → province_id" derived index.
func RgbKey(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// DuplicateRgbWarning reports colliding ids for a given rgb key, per
// spec §4.4's duplicate-RGB post-pass validator ("last-wins at the
// dictionary layer with a warning enumerating colliding ids").
type DuplicateRgbWarning struct {
	Rgb uint32
	Ids []int32
}

// CheckDuplicateRgb scans defs for rgb collisions. The caller applies
// "last wins" when building its rgb→id index; this only reports which
// ids collided.
func CheckDuplicateRgb(defs []pdxdomain.ProvinceDefinition_t) []DuplicateRgbWarning {
	byRgb := map[uint32][]int32{}
	order := []uint32{}
	for _, d := range defs {
		key := RgbKey(d.R, d.G, d.B)
		if _, ok := byRgb[key]; !ok {
			order = append(order, key)
		}
		byRgb[key] = append(byRgb[key], d.ID)
	}
	var warnings []DuplicateRgbWarning
	for _, key := range order {
		if len(byRgb[key]) > 1 {
			warnings = append(warnings, DuplicateRgbWarning{Rgb: key, Ids: byRgb[key]})
		}
	}
	return warnings
}

// CheckDuplicateID reports province ids that appear more than once.
func CheckDuplicateID(defs []pdxdomain.ProvinceDefinition_t) []int32 {
	seen := map[int32]int{}
	order := []int32{}
	for _, d := range defs {
		if _, ok := seen[d.ID]; !ok {
			order = append(order, d.ID)
		}
		seen[d.ID]++
	}
	var dups []int32
	for _, id := range order {
		if seen[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}
