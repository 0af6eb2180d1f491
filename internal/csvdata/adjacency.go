// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package csvdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdxcore/atlas/internal/pdxdomain"
)

// AdjacencyMapper maps adjacencies.csv rows (from;to;type;through;
// start_x;start_y;stop_x;stop_y;comment) into Adjacency_t, per spec
// §4.4.
type AdjacencyMapper struct{}

func (AdjacencyMapper) ExpectedFieldCount() int { return 9 }

func (AdjacencyMapper) ValidateRow(fields []string, line int) error {
	for _, name := range []string{"from", "to"} {
		idx := map[string]int{"from": 0, "to": 1}[name]
		v, err := strconv.Atoi(strings.TrimSpace(fields[idx]))
		if err != nil || v <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", name, fields[idx])
		}
	}
	if !isValidAdjacencyKind(fields[2]) {
		return fmt.Errorf("type must be one of sea/land/river/impassable/canal, got %q", fields[2])
	}
	if err := validateThroughOrCoord(fields[3], true); err != nil {
		return fmt.Errorf("through: %w", err)
	}
	for i, name := range []string{"start_x", "start_y", "stop_x", "stop_y"} {
		if err := validateThroughOrCoord(fields[4+i], false); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func validateThroughOrCoord(s string, positiveOnly bool) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be an integer, got %q", s)
	}
	if v == -1 {
		return nil
	}
	if positiveOnly && v <= 0 {
		return fmt.Errorf("must be -1 or a positive integer, got %d", v)
	}
	return nil
}

func isValidAdjacencyKind(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sea", "land", "river", "impassable", "canal":
		return true
	}
	return false
}

func parseAdjacencyKind(s string) pdxdomain.AdjacencyKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sea":
		return pdxdomain.Sea
	case "land":
		return pdxdomain.Land
	case "river":
		return pdxdomain.River
	case "impassable":
		return pdxdomain.Impassable
	case "canal":
		return pdxdomain.Canal
	default:
		return pdxdomain.Land
	}
}

func (AdjacencyMapper) MapRow(fields []string, line int) pdxdomain.Adjacency_t {
	atoi := func(s string) int32 {
		v, _ := strconv.Atoi(strings.TrimSpace(s))
		return int32(v)
	}
	return pdxdomain.Adjacency_t{
		From:    atoi(fields[0]),
		To:      atoi(fields[1]),
		Kind:    parseAdjacencyKind(fields[2]),
		Through: atoi(fields[3]),
		Start:   pdxdomain.Point_t{X: atoi(fields[4]), Y: atoi(fields[5])},
		End:     pdxdomain.Point_t{X: atoi(fields[6]), Y: atoi(fields[7])},
		Comment: fields[8],
	}
}

// CheckAdjacencyCrossReferences reports adjacency rows referencing a
// province id absent from knownIDs, per spec §4.4's optional
// cross-reference validator.
func CheckAdjacencyCrossReferences(adjs []pdxdomain.Adjacency_t, knownIDs map[int32]bool) []string {
	var issues []string
	for _, a := range adjs {
		if !knownIDs[a.From] {
			issues = append(issues, fmt.Sprintf("adjacency from=%d references unknown province", a.From))
		}
		if !knownIDs[a.To] {
			issues = append(issues, fmt.Sprintf("adjacency to=%d references unknown province", a.To))
		}
		if a.Through != -1 && !knownIDs[a.Through] {
			issues = append(issues, fmt.Sprintf("adjacency through=%d references unknown province", a.Through))
		}
	}
	return issues
}
