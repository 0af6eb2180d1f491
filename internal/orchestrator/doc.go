// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package orchestrator implements the end-to-end load (C11): it wires
// the mod overlay, lexer/parser/extractors, CSV and BMP engines, the
// string interner, the model store, the validator and the binary
// cache into the single public Load entry point described in spec §6.
//
// Ground: main.go's cobra command wiring (flag shapes, debug logging)
// and internal/stores/ffs's bounded worker usage inform the ambient
// style; the bounded fan-out itself uses golang.org/x/sync/errgroup
// instead of a hand-rolled sync.WaitGroup/channel pool (see
// SPEC_FULL.md's DOMAIN STACK table).
package orchestrator
