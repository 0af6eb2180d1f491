// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package model_test

import (
	"testing"

	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/model"
	"github.com/pdxcore/atlas/internal/pdxdomain"
)

func TestPutAndGetProvince(t *testing.T) {
	s := model.New()
	p := pdxdomain.NewProvinceData(1)
	p.Name = "Paris"
	if err := s.PutProvince(p); err != nil {
		t.Fatalf("PutProvince: %v", err)
	}
	if got := s.Province(1); got == nil || got.Name != "Paris" {
		t.Fatalf("expected province 1 to be retrievable, got %+v", got)
	}
	if len(s.Provinces()) != 1 {
		t.Fatalf("expected 1 province in insertion order, got %d", len(s.Provinces()))
	}
}

func TestSealBlocksFurtherWrites(t *testing.T) {
	s := model.New()
	s.Seal()
	if err := s.PutProvince(pdxdomain.NewProvinceData(1)); err == nil {
		t.Fatalf("expected write to fail after Seal")
	}
}

func TestBuildIndicesDerivesOwnerIndex(t *testing.T) {
	s := model.New()
	tbl := intern.New()
	p := pdxdomain.NewProvinceData(1)
	p.Owner = tbl.Intern("FRA")
	if err := s.PutProvince(p); err != nil {
		t.Fatalf("PutProvince: %v", err)
	}
	defs := []pdxdomain.ProvinceDefinition_t{{ID: 1, R: 10, G: 20, B: 30}}
	s.BuildIndices(defs, nil, tbl)

	if id, ok := s.RgbToProvinceID(10<<16 | 20<<8 | 30); !ok || id != 1 {
		t.Errorf("expected rgb index to resolve to province 1, got id=%d ok=%v", id, ok)
	}
	owned := s.ProvincesOwnedBy("FRA")
	if len(owned) != 1 || owned[0] != 1 {
		t.Errorf("expected FRA to own province 1, got %v", owned)
	}
}
