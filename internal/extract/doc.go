// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package extract implements the domain extractors (C3): translating a
// script.Node tree rooted at a province or country file into a typed
// pdxdomain entity. Each extractor follows the can_extract/extract
// protocol from spec §4.3; unrecognised top-level keys become
// diagnostics, not hard failures, so a load never aborts because one
// mod added a field this build doesn't know about yet.
//
// Ground: internal/parser/parse_types.go's per-field extraction style
// (switch over lower-cased keys, one accumulator struct per entity),
// generalised from TribeNet's fixed per-turn schema to Paradox's
// open-ended, mod-extensible key set.
package extract
