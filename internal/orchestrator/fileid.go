// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package orchestrator

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// provinceFilename matches "<id> - <name>.txt", e.g. "183 - Paris.txt"
// (spec §8 scenario 1). The id and the trailing name are both carried
// in the filename rather than the file body.
var provinceFilename = regexp.MustCompile(`^(\d+)\s*-\s*(.+)$`)

// countryFilename matches "<TAG> - <name>.txt", e.g. "FRA - France.txt".
var countryFilename = regexp.MustCompile(`^([A-Za-z]{3})\s*-\s*(.+)$`)

// parseProvinceFilename extracts a province id and display name from a
// history file's base name. ok is false if the name doesn't match the
// "<id> - <name>" convention at all (the file is then skipped with a
// warning by the caller).
func parseProvinceFilename(path string) (id int32, name string, ok bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := provinceFilename.FindStringSubmatch(base)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return int32(n), strings.TrimSpace(m[2]), true
}

// parseCountryFilename extracts a country tag and display name from a
// history file's base name.
func parseCountryFilename(path string) (tag, name string, ok bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := countryFilename.FindStringSubmatch(base)
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), strings.TrimSpace(m[2]), true
}
