// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package pdxdomain defines the entity types produced by the domain
// extractors (C3) and held by the model store (C7): provinces,
// countries, modifiers, historical entries, and their supporting
// enums. Types here hold interned string ids (intern.ID) rather than
// raw strings for the handful of high-repetition fields called out in
// spec §4.6, mirroring how internal/domain separates entity shape from
// the parser/extraction layer that fills it in.
//
// Ground: internal/domain/types.go's entity-type layout and its
// "_t" naming convention.
package pdxdomain
