// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package model

import (
	"sort"
	"sync"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/bitmap"
	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/pdxdomain"
)

// Store holds every extracted province and country for one load
// session, with insertion-order preservation for iteration, plus the
// indices derived once loading finishes. Writes are only permitted
// before Seal; afterwards PutProvince and PutCountry return
// cerrs.ErrStoreSealed and the store is safe for unsynchronised
// concurrent reads.
type Store struct {
	mu sync.Mutex

	provinces      map[int32]*pdxdomain.ProvinceData_t
	provinceOrder  []int32
	countries      map[string]*pdxdomain.CountryData_t
	countryOrder   []string

	sealed bool

	rgbIndex     map[uint32]int32
	adjacency    map[int32][]pdxdomain.Adjacency_t
	countryProvs map[string][]int32
}

// New returns an empty, writable Store.
func New() *Store {
	return &Store{
		provinces: map[int32]*pdxdomain.ProvinceData_t{},
		countries: map[string]*pdxdomain.CountryData_t{},
	}
}

// PutProvince inserts or overwrites a province. Safe for concurrent
// callers (the orchestrator's worker pool fans parse tasks out and
// funnels results back through this single insert point, spec §4.11).
func (s *Store) PutProvince(p *pdxdomain.ProvinceData_t) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return cerrs.ErrStoreSealed
	}
	if _, exists := s.provinces[p.ID]; !exists {
		s.provinceOrder = append(s.provinceOrder, p.ID)
	}
	s.provinces[p.ID] = p
	return nil
}

// PutCountry inserts or overwrites a country.
func (s *Store) PutCountry(c *pdxdomain.CountryData_t) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return cerrs.ErrStoreSealed
	}
	if _, exists := s.countries[c.Tag]; !exists {
		s.countryOrder = append(s.countryOrder, c.Tag)
	}
	s.countries[c.Tag] = c
	return nil
}

// Province returns the province with id, or nil.
func (s *Store) Province(id int32) *pdxdomain.ProvinceData_t {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provinces[id]
}

// Country returns the country with tag, or nil.
func (s *Store) Country(tag string) *pdxdomain.CountryData_t {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countries[tag]
}

// Provinces returns every province in insertion order.
func (s *Store) Provinces() []*pdxdomain.ProvinceData_t {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*pdxdomain.ProvinceData_t, len(s.provinceOrder))
	for i, id := range s.provinceOrder {
		out[i] = s.provinces[id]
	}
	return out
}

// Countries returns every country in insertion order.
func (s *Store) Countries() []*pdxdomain.CountryData_t {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*pdxdomain.CountryData_t, len(s.countryOrder))
	for i, tag := range s.countryOrder {
		out[i] = s.countries[tag]
	}
	return out
}

// BuildIndices derives the rgb→province_id, province_id→adjacency_list
// and country_tag→province_ids indices, per spec §4.7. Called once,
// after loading and before Seal. tbl resolves each province's interned
// Owner id back to its tag string.
func (s *Store) BuildIndices(defs []pdxdomain.ProvinceDefinition_t, adjs []pdxdomain.Adjacency_t, tbl *intern.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rgbIndex = make(map[uint32]int32, len(defs))
	for _, d := range defs {
		s.rgbIndex[bitmap.Pixel{R: d.R, G: d.G, B: d.B}.Rgb()] = d.ID // last wins, per spec §4.4
	}

	s.adjacency = make(map[int32][]pdxdomain.Adjacency_t)
	for _, a := range adjs {
		s.adjacency[a.From] = append(s.adjacency[a.From], a)
	}

	s.countryProvs = make(map[string][]int32)
	for _, id := range s.provinceOrder {
		p := s.provinces[id]
		owner, ok := tbl.Resolve(p.Owner)
		if !ok || owner == "" {
			continue
		}
		s.countryProvs[owner] = append(s.countryProvs[owner], id)
	}
	for tag := range s.countryProvs {
		sort.Slice(s.countryProvs[tag], func(i, j int) bool { return s.countryProvs[tag][i] < s.countryProvs[tag][j] })
	}
}

// RgbToProvinceID returns the province id registered for an rgb triple,
// or (0, false) if none.
func (s *Store) RgbToProvinceID(rgb uint32) (int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.rgbIndex[rgb]
	return id, ok
}

// AdjacenciesFrom returns every adjacency row originating at id.
func (s *Store) AdjacenciesFrom(id int32) []pdxdomain.Adjacency_t {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjacency[id]
}

// ProvincesOwnedBy returns the sorted province ids whose owner tag is
// tag, per the country_tag→province_ids index.
func (s *Store) ProvincesOwnedBy(tag string) []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countryProvs[tag]
}

// RgbIndex returns a copy of the rgb→province_id index, for the cache
// codec's CrossRefs section (spec §3).
func (s *Store) RgbIndex() map[uint32]int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint32]int32, len(s.rgbIndex))
	for k, v := range s.rgbIndex {
		out[k] = v
	}
	return out
}

// AdjacencyIndex returns a copy of the province_id→adjacency_list
// index, for the cache codec's CrossRefs section.
func (s *Store) AdjacencyIndex() map[int32][]pdxdomain.Adjacency_t {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int32][]pdxdomain.Adjacency_t, len(s.adjacency))
	for k, v := range s.adjacency {
		out[k] = append([]pdxdomain.Adjacency_t(nil), v...)
	}
	return out
}

// CountryProvinceIndex returns a copy of the country_tag→province_ids
// index, for the cache codec's CrossRefs section.
func (s *Store) CountryProvinceIndex() map[string][]int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]int32, len(s.countryProvs))
	for k, v := range s.countryProvs {
		out[k] = append([]int32(nil), v...)
	}
	return out
}

// RestoreIndices installs pre-computed derived indices directly,
// bypassing BuildIndices's recomputation from raw CSV rows. Used when
// a cache read rehydrates a Store: the CrossRefs section already holds
// the computed indices, not the definition/adjacency rows they were
// built from.
func (s *Store) RestoreIndices(rgb map[uint32]int32, adj map[int32][]pdxdomain.Adjacency_t, countryProvs map[string][]int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rgbIndex = rgb
	s.adjacency = adj
	s.countryProvs = countryProvs
}

// Seal makes the store read-only for the remainder of the session.
func (s *Store) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
}

// Sealed reports whether Seal has been called.
func (s *Store) Sealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sealed
}
