// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package pdxdomain

import (
	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/token"
)

// ModifierKind distinguishes how a Modifier was applied, per spec §4.3.
type ModifierKind int

const (
	Permanent ModifierKind = iota
	Temporary
	Triggered
)

func (k ModifierKind) String() string {
	switch k {
	case Permanent:
		return "permanent"
	case Temporary:
		return "temporary"
	case Triggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Modifier_t is a province- or country-level modifier (spec §3).
type Modifier_t struct {
	Name        string
	Description string
	Kind        ModifierKind
	Effects     map[string]float32
	ExpiresAt   *token.DateValue
}

// Change_t is one (key, value) pair recorded by a HistoricalEntry_t.
// Value is kept as the raw scalar/list string form: history changes are
// replayed for audit and diffing, not re-interpreted as typed fields.
type Change_t struct {
	Key   string
	Value string
}

// HistoricalEntry_t is the set of changes applied on a single in-game
// date, per spec §3. Entries within an entity's History are sorted
// strictly ascending by Date with ties preserving insertion order.
type HistoricalEntry_t struct {
	Date    token.DateValue
	Changes []Change_t
}

// Ruler_t is a country's monarch (spec §4.3's `monarch` block).
type Ruler_t struct {
	Name      string
	Dynasty   string
	Adm       int
	Dip       int
	Mil       int
	Culture   intern.ID
	Religion  intern.ID
}

// ProvinceData_t is a single province, identity is ID. Mutable only
// during loading; immutable once placed in the model store (C7).
type ProvinceData_t struct {
	ID    int32
	Name  string

	Owner      intern.ID
	Controller intern.ID
	Culture    intern.ID
	Religion   intern.ID
	TradeGood  intern.ID
	Terrain    intern.ID
	Climate    intern.ID
	TradeNode  intern.ID
	Capital    string

	IsCity bool
	IsHre  bool

	BaseTax        float32
	BaseProduction float32
	BaseManpower   float32
	ExtraCost      float32
	CenterOfTrade  int32

	Cores        map[string]bool
	Buildings    map[string]bool
	DiscoveredBy map[string]bool

	Modifiers []Modifier_t
	History   []HistoricalEntry_t
}

// NewProvinceData returns a ProvinceData_t with its set-valued fields
// ready to receive entries.
func NewProvinceData(id int32) *ProvinceData_t {
	return &ProvinceData_t{
		ID:           id,
		Cores:        map[string]bool{},
		Buildings:    map[string]bool{},
		DiscoveredBy: map[string]bool{},
	}
}

// CountryData_t is a single country, identity is Tag (exactly three
// ASCII letters/digits after trimming, spec §3).
type CountryData_t struct {
	Tag  string
	Name string

	Government      intern.ID
	PrimaryCulture  intern.ID
	Religion        intern.ID
	TechnologyGroup intern.ID

	Capital      int32
	FixedCapital int32

	AcceptedCultures map[string]bool
	Ideas            map[string]int32
	Policies         map[string]bool

	HistoricalFriends map[string]bool
	HistoricalRivals  map[string]bool
	HistoricalEnemies map[string]bool

	Monarch *Ruler_t

	Modifiers []Modifier_t
	History   []HistoricalEntry_t
}

// NewCountryData returns a CountryData_t with its set/map fields ready
// to receive entries.
func NewCountryData(tag string) *CountryData_t {
	return &CountryData_t{
		Tag:               tag,
		AcceptedCultures:  map[string]bool{},
		Ideas:             map[string]int32{},
		Policies:          map[string]bool{},
		HistoricalFriends: map[string]bool{},
		HistoricalRivals:  map[string]bool{},
		HistoricalEnemies: map[string]bool{},
	}
}

// AdjacencyKind classifies a province-to-province connection, per the
// CSV-backed Adjacency row (spec §3).
type AdjacencyKind int

const (
	Sea AdjacencyKind = iota
	Land
	River
	Impassable
	Canal
)

func (k AdjacencyKind) String() string {
	switch k {
	case Sea:
		return "sea"
	case Land:
		return "land"
	case River:
		return "river"
	case Impassable:
		return "impassable"
	case Canal:
		return "canal"
	default:
		return "unknown"
	}
}

// Point_t is an (x, y) pixel coordinate; (-1, -1) denotes "unset" for
// adjacency start/end points per spec §3.
type Point_t struct {
	X, Y int32
}

// Adjacency_t is one row of adjacencies.csv, mapped from CSV by C4.
type Adjacency_t struct {
	From    int32
	To      int32
	Kind    AdjacencyKind
	Through int32 // -1 when absent
	Start   Point_t
	End     Point_t
	Comment string
}

// ProvinceDefinition_t is one row of definition.csv (the RGB ⇄ province
// id table), mapped from CSV by C4.
type ProvinceDefinition_t struct {
	ID    int32
	R, G, B uint8
	Name  string
	Extra string
}
