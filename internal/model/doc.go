// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package model implements the Model Store (C7): the in-memory home
// for every extracted province and country, plus the indices derived
// once loading finishes (rgb → province id, province id → adjacency
// list, country tag → province ids). The store is write-once per load
// session: Seal locks it read-only, matching spec §4.7's "writes are
// only permitted during the loading phase."
//
// Ground: internal/stores/ffs/ffs.go's mutex-guarded map store with an
// explicit open/sealed lifecycle, generalised from a single flat-file
// index to the atlas's two entity maps plus three derived indices.
package model
