// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cache_test

import (
	"testing"

	"github.com/pdxcore/atlas/internal/cache"
)

func TestIndexPutAndLookup(t *testing.T) {
	dir := t.TempDir()
	idx, err := cache.OpenIndex(dir)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()

	e := cache.Entry{Key: "abc123", Path: writeDummyCache(t, dir), CreatedUnix: 1000, SizeBytes: 42}
	if err := idx.Put(e); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := idx.Lookup("abc123", 0)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || got.SizeBytes != 42 {
		t.Fatalf("expected to find entry, got %+v ok=%v", got, ok)
	}

	if _, ok, _ := idx.Lookup("missing", 0); ok {
		t.Fatal("expected lookup of an unknown key to miss")
	}
}

func TestIndexLookupRespectsTTL(t *testing.T) {
	dir := t.TempDir()
	idx, err := cache.OpenIndex(dir)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()

	e := cache.Entry{Key: "stale", Path: writeDummyCache(t, dir), CreatedUnix: 1, SizeBytes: 1}
	if err := idx.Put(e); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := idx.Lookup("stale", 7); err != nil || ok {
		t.Fatalf("expected an entry created at unix time 1 to be expired under a 7 day TTL, ok=%v err=%v", ok, err)
	}
}

func writeDummyCache(t *testing.T, dir string) string {
	t.Helper()
	path := dir + "/dummy.cache"
	if err := writeJunk(path); err != nil {
		t.Fatalf("writeJunk: %v", err)
	}
	return path
}
